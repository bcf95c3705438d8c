package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

var (
	// jwtPattern matches a compact JWS such as the tokens issued at login.
	jwtPattern = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)

	// authHeaderPattern matches Authorization header values.
	authHeaderPattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)
)

// sensitiveFields are attribute keys and struct field names whose values are
// never logged. masq matches them exactly, so both spellings are listed.
var sensitiveFields = []string{
	"password", "Password",
	"secret", "Secret",
	"token", "Token",
	"access_token", "accessToken",
	"authorization", "Authorization",
	"auth",
	"cookie",
	"api_key", "apiKey",
}

// sensitivePrefixes redact any key that starts with them, e.g. secret_config.
var sensitivePrefixes = []string{"secret", "private"}

// DefaultRedactOptions returns the masq options used by every logger built
// in this package: credential fields, JWTs and Authorization header values.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+len(sensitivePrefixes)+2)

	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	for _, prefix := range sensitivePrefixes {
		opts = append(opts, masq.WithFieldPrefix(prefix))
	}

	return append(opts,
		masq.WithRegex(jwtPattern),
		masq.WithRegex(authHeaderPattern),
	)
}

// NewReplaceAttr returns an slog ReplaceAttr hook that redacts with
// DefaultRedactOptions plus opts.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
