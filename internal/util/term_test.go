package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShouldUseColors(t *testing.T) {
	t.Run("NO_COLOR wins", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		t.Setenv("FORCE_COLOR", "1")
		assert.False(t, ShouldUseColors())
	})

	t.Run("FORCE_COLOR enables", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("FORCE_COLOR", "1")
		assert.True(t, ShouldUseColors())
	})

	t.Run("FORCE_COLOR=0 disables", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("FORCE_COLOR", "0")
		assert.False(t, ShouldUseColors())
	})

	t.Run("HSPROXY_FORCE_COLORS", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		t.Setenv("FORCE_COLOR", "")
		t.Setenv("HSPROXY_FORCE_COLORS", "TRUE")
		assert.True(t, ShouldUseColors())
	})
}
