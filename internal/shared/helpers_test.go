package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "GB-COH", NormalizeCode("  gb-coh\n"))
	assert.Equal(t, "", NormalizeCode("   "))
}

func TestHTTPStatusErrors(t *testing.T) {
	err := HTTPStatusError(404, "https://org-id.example/download.json")
	assert.EqualError(t, err, "status=404 url=https://org-id.example/download.json")

	err = HTTPStatusErrorWithBody(500, "https://org-id.example/download.json", "  boom\n")
	assert.EqualError(t, err, "status=500 url=https://org-id.example/download.json response=boom")
}
