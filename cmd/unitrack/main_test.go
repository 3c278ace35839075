package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/unitrack/internal/app/models"
	"github.com/yigit/unitrack/internal/pkg/auth"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STORAGE_PATH", t.TempDir())
	t.Cleanup(func() {
		ephemeral, verbose, exportOut = false, false, ""
		sortField, sortOrder = "semester", "asc"
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestHashPassphrase(t *testing.T) {
	out, err := execute(t, "hash-passphrase", "open sesame")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.True(t, auth.CheckPassphrase(hash, "open sesame"))
	assert.False(t, auth.CheckPassphrase(hash, "wrong"))
}

func TestHashPassphraseFromStdin(t *testing.T) {
	rootCmd.SetIn(strings.NewReader("from stdin\n"))
	defer rootCmd.SetIn(nil)

	out, err := execute(t, "hash-passphrase")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassphrase(strings.TrimSpace(out), "from stdin"))
}

func TestStatsEphemeral(t *testing.T) {
	out, err := execute(t, "--config", "missing.yaml", "--ephemeral", "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Earned")
	assert.Contains(t, out, "/ 120 ECTS")
}

func TestCoursesRejectsBadSort(t *testing.T) {
	_, err := execute(t, "--config", "missing.yaml", "--ephemeral", "courses", "--sort", "colour")
	require.Error(t, err)
}

func TestExportToDirectory(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(t, "--config", "missing.yaml", "--ephemeral", "export", "--out", dir)
	require.NoError(t, err)

	matches, err := filepath.Glob(filepath.Join(dir, "unitrack_backup_*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var backup models.Backup
	require.NoError(t, json.Unmarshal(data, &backup))
	assert.Equal(t, models.BackupVersion, backup.Version)

	_, err = execute(t, "--config", "missing.yaml", "--ephemeral", "restore", matches[0])
	require.NoError(t, err)
}

func TestRestoreRejectsUnknownVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"0.9","courses":[],"areas":[]}`), 0o644))

	_, err := execute(t, "--config", "missing.yaml", "--ephemeral", "restore", path)
	require.Error(t, err)
}
