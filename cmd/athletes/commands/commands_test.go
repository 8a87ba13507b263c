package commands

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"athletepulse/internal/shared/testutil"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := testutil.AthleteWorkbooks(t, t.TempDir())

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestListCommand(t *testing.T) {
	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Alex Smith")
	assert.Contains(t, out, "Sam Taylor")
	assert.Less(t, strings.Index(out, "Alex Smith"), strings.Index(out, "Sam Taylor"))
}

func TestProfileCommand(t *testing.T) {
	out, err := run(t, "profile", "Sam", "Taylor")
	require.NoError(t, err)
	assert.Contains(t, out, "Sam Taylor")
	assert.Contains(t, out, "Defender")
	assert.Contains(t, out, "Recent Games")
	assert.Contains(t, out, "2024-04-10")
	assert.Contains(t, out, "Overall satisfaction: 90.0%")
}

func TestProfileCommand_Suggests(t *testing.T) {
	_, err := run(t, "profile", "Alex Smyth")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did you mean: Alex Smith")
}

func TestInsightsCommand(t *testing.T) {
	out, err := run(t, "insights", "Alex Smith")
	require.NoError(t, err)
	assert.Contains(t, out, "low_overall_feeling")
	assert.Contains(t, out, "major_injury")
	assert.Less(t, strings.Index(out, "low_overall_feeling"), strings.Index(out, "major_injury"))
}

func TestExportCommand(t *testing.T) {
	outDir := t.TempDir()
	out, err := run(t, "export", "--out", outDir, "--athlete", "Sam Taylor")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	for _, p := range lines {
		assert.Equal(t, outDir, filepath.Dir(p))
		assert.FileExists(t, p)
	}
}

func TestMissingWorkbooks(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"--data-dir", t.TempDir(), "list"})
	assert.Error(t, root.Execute())
}
