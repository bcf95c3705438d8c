// Package dto holds the HTTP wire types, their mapping to domain entities,
// request validation and the error envelopes.
package dto

import "github.com/jsamuelsen/wine-catalog/internal/domain"

// WineDTO is the wire representation of a wine. It never carries the id.
type WineDTO struct {
	Title string `json:"title" validate:"notempty,min=2,max=50"`
	Year  int    `json:"year"  validate:"gt=0"`
	Brand string `json:"brand" validate:"notempty,min=2,max=50"`
	Type  string `json:"type"  validate:"notempty,min=2,max=50"`
}

// ToDomain maps the DTO to a new entity with a zero ID.
func (w WineDTO) ToDomain() *domain.Wine {
	return &domain.Wine{
		Title: w.Title,
		Year:  w.Year,
		Brand: w.Brand,
		Type:  w.Type,
	}
}

// ValidateWine returns every rule the DTO violates; empty means valid.
func ValidateWine(w WineDTO) []Violation {
	return Violations(&w)
}

// WineFromDomain maps an entity to its wire form.
func WineFromDomain(w *domain.Wine) WineDTO {
	return WineDTO{
		Title: w.Title,
		Year:  w.Year,
		Brand: w.Brand,
		Type:  w.Type,
	}
}

// WinesFromDomain maps a slice of entities. The result is never nil.
func WinesFromDomain(wines []*domain.Wine) []WineDTO {
	out := make([]WineDTO, 0, len(wines))
	for _, w := range wines {
		out = append(out, WineFromDomain(w))
	}

	return out
}
