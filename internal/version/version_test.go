package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBanner(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	short := Banner(false)
	assert.Contains(t, short, HomeText)
	assert.Contains(t, short, Version)
	assert.NotContains(t, short, "Commit:")

	long := Banner(true)
	assert.Contains(t, long, "Commit: "+Commit)
	assert.Contains(t, long, "Go: "+Runtime)
}
