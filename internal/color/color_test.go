package color

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForKey_Deterministic(t *testing.T) {
	assert.Equal(t, ForKey("musica"), ForKey("musica"))
}

func TestForKey_ValidHex(t *testing.T) {
	hexColor := regexp.MustCompile(`^#[0-9A-F]{6}$`)
	for _, key := range []string{"musica", "imagens", "escrita", "código", ""} {
		assert.Regexp(t, hexColor, ForKey(key))
	}
}

func TestForKey_VariesByKey(t *testing.T) {
	assert.NotEqual(t, ForKey("musica"), ForKey("escrita"))
}

func TestForKey_FromPalette(t *testing.T) {
	assert.Contains(t, palette, ForKey("musica"))
	assert.Contains(t, palette, ForKey(""))
}
