package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUTF8(t *testing.T) {
	assert.Equal(t, "café R$ 10,00", sanitizeUTF8("café R$ 10,00"))
	assert.Equal(t, "abc", sanitizeUTF8("ab\xffc"))
	assert.Equal(t, "", sanitizeUTF8("\xff\xfe"))
}
