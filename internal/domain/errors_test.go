package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{ErrNotFound, ErrValidation, ErrUnauthorized}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b)
			}
		}
	}
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "with id", id: "42", want: `wine with id "42" not found`},
		{name: "without id", want: "wine not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotFoundError("wine", tt.id)

			assert.EqualError(t, err, tt.want)
			require.ErrorIs(t, err, ErrNotFound)

			var notFound *NotFoundError
			require.ErrorAs(t, err, &notFound)
			assert.Equal(t, tt.id, notFound.ID)
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name       string
		entity     string
		violations []Violation
		want       string
	}{
		{
			name:   "every violation listed",
			entity: "wine",
			violations: []Violation{
				{Field: "title", Message: "Title is required."},
				{Field: "year", Message: "Year must be greater than 0."},
			},
			want: "validation failed for wine: title: Title is required.; year: Year must be greater than 0.",
		},
		{
			name:       "message without field",
			violations: []Violation{{Message: "body must be a JSON object"}},
			want:       "validation failed: body must be a JSON object",
		},
		{
			name:   "no violations",
			entity: "wine",
			want:   "validation failed for wine",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.entity, tt.violations...)

			assert.EqualError(t, err, tt.want)
			require.ErrorIs(t, err, ErrValidation)

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.violations, validation.Violations)
		})
	}
}

func TestUnauthorizedError(t *testing.T) {
	assert.EqualError(t, NewUnauthorizedError("token expired"), "unauthorized: token expired")
	assert.EqualError(t, NewUnauthorizedError(""), "unauthorized")
	require.ErrorIs(t, NewUnauthorizedError("bad credentials"), ErrUnauthorized)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name string
		err  error
		is   func(error) bool
		want bool
	}{
		{"not found typed", NewNotFoundError("wine", "1"), IsNotFound, true},
		{"not found wrapped", fmt.Errorf("get: %w", ErrNotFound), IsNotFound, true},
		{"not found other", ErrValidation, IsNotFound, false},
		{"not found nil", nil, IsNotFound, false},

		{"validation typed", NewValidationError("wine"), IsValidation, true},
		{"validation wrapped", fmt.Errorf("create: %w", ErrValidation), IsValidation, true},
		{"validation other", ErrNotFound, IsValidation, false},

		{"unauthorized typed", NewUnauthorizedError("x"), IsUnauthorized, true},
		{"unauthorized wrapped", fmt.Errorf("login: %w", ErrUnauthorized), IsUnauthorized, true},
		{"unauthorized other", ErrNotFound, IsUnauthorized, false},
		{"unauthorized nil", nil, IsUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.is(tt.err))
		})
	}
}

func TestWine_AssignID(t *testing.T) {
	w := &Wine{Title: "Merlot"}
	w.AssignID(7)

	assert.Equal(t, 7, w.EntityID())
	assert.Equal(t, "Merlot", w.Title)
}
