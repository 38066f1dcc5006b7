package migration

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMigration(t *testing.T) {
	t.Run("writes a sortable up/down pair", func(t *testing.T) {
		dir := t.TempDir()

		mf, err := CreateMigration(dir, "Add webhook secret column", "stores the per-integration webhook secret")
		require.NoError(t, err)

		assert.Regexp(t, regexp.MustCompile(`^\d{14}$`), mf.Version)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_add_webhook_secret_column.up.sql"), mf.UpPath)
		assert.Equal(t, filepath.Join(dir, mf.Version+"_add_webhook_secret_column.down.sql"), mf.DownPath)

		up, err := os.ReadFile(mf.UpPath)
		require.NoError(t, err)
		assert.Contains(t, string(up), "Add webhook secret column (up)")
		assert.Contains(t, string(up), "stores the per-integration webhook secret")

		down, err := os.ReadFile(mf.DownPath)
		require.NoError(t, err)
		assert.Contains(t, string(down), "Add webhook secret column (down)")
	})

	t.Run("creates the migrations directory when missing", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "db", "migrations")

		mf, err := CreateMigration(dir, "create rooms table", "")
		require.NoError(t, err)

		_, err = os.Stat(mf.UpPath)
		assert.NoError(t, err)
	})

	t.Run("rejects names with no usable characters", func(t *testing.T) {
		_, err := CreateMigration(t.TempDir(), "!!!", "")
		assert.Error(t, err)
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		expected string
	}{
		{"Add webhook secret column", "add_webhook_secret_column"},
		{"Guest--Checks!!", "guest_checks"},
		{"  leading and trailing  ", "leading_and_trailing"},
		{"UPPER case 2", "upper_case_2"},
		{"___", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, slugify(tt.name))
		})
	}
}
