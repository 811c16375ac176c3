package skills

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstall(t *testing.T) {
	root := t.TempDir()

	written, err := Install(root, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"archive-experience.md", "refine-experience.md"}, written)

	content, err := os.ReadFile(filepath.Join(root, ".claude", "commands", "refine-experience.md"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "resumate refine")
}

func TestInstall_PreservesEditsWithoutForce(t *testing.T) {
	root := t.TempDir()

	_, err := Install(root, false)
	require.NoError(t, err)

	edited := filepath.Join(root, ".claude", "commands", "refine-experience.md")
	require.NoError(t, os.WriteFile(edited, []byte("edited"), 0644))

	written, err := Install(root, false)
	require.NoError(t, err)
	assert.Empty(t, written)

	content, err := os.ReadFile(edited)
	require.NoError(t, err)
	assert.Equal(t, "edited", string(content))

	written, err = Install(root, true)
	require.NoError(t, err)
	assert.Len(t, written, 2)

	content, err = os.ReadFile(edited)
	require.NoError(t, err)
	assert.NotEqual(t, "edited", string(content))
}
