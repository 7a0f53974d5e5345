package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_PrefersLdflagsVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", String())
}

func TestString_NeverEmpty(t *testing.T) {
	assert.NotEmpty(t, String())
}

func TestInfo(t *testing.T) {
	info := Info()
	assert.True(t, strings.HasPrefix(info, "stackdocs "), info)
	assert.Contains(t, info, "commit "+GitCommit)
}
