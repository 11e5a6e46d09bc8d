// Package redact masks sensitive payload fields before they reach debug logs
// or the diagnostics journal. Broadcast payloads are application-defined, so
// masking is keyed on conventional secret-ish field names.
package redact

import (
	"strings"

	"github.com/goliatone/go-broadcast/pkg/domain"
	masker "github.com/goliatone/go-masker"
)

var sensitiveFields = []string{
	"token", "access_token", "refresh_token",
	"api_key", "apikey", "apiKey",
	"client_secret", "secret", "signing_key",
	"password", "credential", "webhook_url",
}

func init() {
	// Register common secret-ish fields so masking uses sane defaults.
	for _, field := range sensitiveFields {
		masker.Default.RegisterMaskField(field, "preserveEnds(2,2)")
	}
}

// Detail returns a masked copy of the payload safe for logging. Sensitive
// keys keep only their first and last characters; other values pass through.
// Nested maps are masked recursively.
func Detail(detail domain.JSONMap) domain.JSONMap {
	if len(detail) == 0 {
		return nil
	}
	masked := make(domain.JSONMap, len(detail))
	for key, value := range detail {
		switch v := value.(type) {
		case string:
			if isSensitive(key) {
				masked[key] = maskString(v)
				continue
			}
			masked[key] = v
		case domain.JSONMap:
			masked[key] = Detail(v)
		case map[string]any:
			masked[key] = Detail(domain.JSONMap(v))
		default:
			masked[key] = v
		}
	}
	return masked
}

func isSensitive(key string) bool {
	lower := strings.ToLower(key)
	for _, field := range sensitiveFields {
		if lower == strings.ToLower(field) {
			return true
		}
	}
	return false
}

func maskString(value string) string {
	if value == "" {
		return ""
	}
	if masked, err := masker.Default.String("preserveEnds(2,2)", value); err == nil {
		return masked
	}
	// Fallback masking if no rule is registered.
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}
