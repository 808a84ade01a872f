// Package shared provides small helpers used by more than one package of
// bods-validate.
package shared

import (
	"fmt"
	"strings"
)

// NormalizeCode trims and upper-cases a list or scheme code so codes from
// different sources compare equal.
func NormalizeCode(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// HTTPStatusError creates a formatted error for non-2xx HTTP responses.
func HTTPStatusError(status int, url string) error {
	return fmt.Errorf("status=%d url=%s", status, url)
}

// HTTPStatusErrorWithBody creates a formatted error that includes the
// response body for non-2xx HTTP responses.
func HTTPStatusErrorWithBody(status int, url string, body string) error {
	return fmt.Errorf("status=%d url=%s response=%s", status, url, strings.TrimSpace(body))
}
