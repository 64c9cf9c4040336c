package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// Values that look like credentials regardless of the attribute name.
var (
	jwtPattern    = regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`)
	bearerPattern = regexp.MustCompile(`(?i)^(bearer|basic)\s+.+$`)
)

// sensitiveFields are attribute and struct field names that are always masked.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"api_key",
	"apiKey",
	"access_token",
	"authorization",
	"cookie",
	"set_cookie",
	"session",
	"private_key",
}

// DefaultRedactOptions returns the masq options applied to every handler.
func DefaultRedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+4)
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithFieldPrefix("private"),
		masq.WithRegex(jwtPattern),
		masq.WithRegex(bearerPattern),
	)
}

// NewReplaceAttr returns a slog ReplaceAttr func that masks sensitive
// values. Extra options extend the defaults.
func NewReplaceAttr(opts ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(DefaultRedactOptions(), opts...)...)
}
