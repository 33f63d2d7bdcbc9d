package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "dev (commit: none, built: unknown)", String())

	Version, Commit, Date = "v0.3.0", "abc1234", "2025-10-01"
	t.Cleanup(func() { Version, Commit, Date = "dev", "none", "unknown" })
	assert.Equal(t, "v0.3.0 (commit: abc1234, built: 2025-10-01)", String())
}
