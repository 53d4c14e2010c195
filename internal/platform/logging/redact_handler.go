package logging

import (
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"strings"

	"github.com/m-mizutani/masq"
)

// SensitiveHeaders is the set of HTTP header names (lowercase) that carry
// credentials or signatures and must never reach the logs verbatim.
var SensitiveHeaders = map[string]bool{
	"authorization":   true,
	"cookie":          true,
	"x-signature-256": true,
}

// bearerPattern matches "Bearer <token>" strings that appear as raw values.
var bearerPattern = regexp.MustCompile(`(?i)bearer\s+[a-zA-Z0-9\-._~+/]+=*`)

// signaturePattern matches raw HMAC signatures in the "sha256=<hex>" form
// sent with webhook deliveries.
var signaturePattern = regexp.MustCompile(`(?i)sha256=[0-9a-f]{64}`)

// natsCredentialPattern matches user:password pairs embedded in NATS URLs.
var natsCredentialPattern = regexp.MustCompile(`nats://[^/\s:@]+:[^/\s@]+@`)

// newRedactAttr returns a masq-powered ReplaceAttr function for use in
// slog.HandlerOptions. It redacts by field name for known sensitive fields
// and by regex for values that slip through under other names.
func newRedactAttr() func([]string, slog.Attr) slog.Attr {
	opts := make([]masq.Option, 0, len(SensitiveHeaders)+8)

	for name := range SensitiveHeaders {
		opts = append(opts, masq.WithFieldName(name))
	}

	opts = append(opts,
		masq.WithFieldName("password"),
		masq.WithFieldName("secret"),
		masq.WithFieldName("token"),
		masq.WithFieldName("signature"),
		masq.WithFieldPrefix("secret_"),
		masq.WithFieldPrefix("webhook_secret"),

		masq.WithRegex(bearerPattern),
		masq.WithRegex(signaturePattern),
		masq.WithRegex(natsCredentialPattern),
	)

	return masq.New(opts...)
}

// redactedValue replaces sensitive header values in HeaderAttrs.
const redactedValue = "[REDACTED]"

// HeaderAttrs renders h as log attributes sorted by name, with the values of
// SensitiveHeaders replaced.
func HeaderAttrs(h http.Header) []slog.Attr {
	names := make([]string, 0, len(h))
	for name := range h {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		value := strings.Join(h[name], ", ")
		if SensitiveHeaders[strings.ToLower(name)] {
			value = redactedValue
		}
		attrs = append(attrs, slog.String(name, value))
	}
	return attrs
}
