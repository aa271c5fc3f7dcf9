package httpadapter

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	valuePolicyOnce sync.Once
	valuePolicy     *bluemonday.Policy
)

// sanitizeValue trims a submitted value. The trimmed text is returned
// unchanged; ok is false when it contains markup, which the strict policy
// would remove. Entities are compared decoded so "A&B" and "&lt;b&gt;" pass.
func sanitizeValue(raw string) (value string, ok bool) {
	value = strings.TrimSpace(raw)
	if value == "" {
		return "", true
	}
	stripped := html.UnescapeString(valueSanitizer().Sanitize(value))
	return value, stripped == html.UnescapeString(value)
}

func valueSanitizer() *bluemonday.Policy {
	valuePolicyOnce.Do(func() {
		valuePolicy = bluemonday.StrictPolicy()
	})
	return valuePolicy
}
