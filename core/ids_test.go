package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	id := NewID("run")
	assert.True(t, strings.HasPrefix(id, "run_"))
	assert.Len(t, id, len("run_")+26)
	assert.True(t, IsValidID(id))

	// IDs must be unique across calls
	other := NewID("run")
	assert.NotEqual(t, id, other)
}

func TestNewIDNormalizesPrefix(t *testing.T) {
	id := NewID(" REPO ")
	assert.True(t, strings.HasPrefix(id, "repo_"))
	assert.True(t, IsValidID(id))
}

func TestIsValidID(t *testing.T) {
	assert.False(t, IsValidID(""))
	assert.False(t, IsValidID("noseparator"))
	assert.False(t, IsValidID("_01G0EZ1XTM37C5X11SQTDNCTM1"))
	assert.False(t, IsValidID("run_tooshort"))
	assert.False(t, IsValidID("run_01G0EZ1XTM37C5X11SQTDNCTM1_extra"))
	assert.True(t, IsValidID(NewID("job")))
}
