package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_ClosesLogWhenCommandFails(t *testing.T) {
	viper.Reset()
	t.Cleanup(func() {
		viper.Reset()
		configDir, dbPath = "", ""
	})

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := execute([]string{"history", "--config-dir", dir, "--db", filepath.Join(blocker, "journal.db")})
	require.Error(t, err)
	assert.Nil(t, logCloser, "log file left open")

	logs, err := os.ReadDir(filepath.Join(dir, "logs"))
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}
