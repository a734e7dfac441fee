package migrations

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationFiles_ArePaired(t *testing.T) {
	ups, err := fs.Glob(MigrationFiles, "*.up.sql")
	require.NoError(t, err)
	require.NotEmpty(t, ups)

	for _, up := range ups {
		down := strings.TrimSuffix(up, ".up.sql") + ".down.sql"
		_, err := fs.Stat(MigrationFiles, down)
		require.NoError(t, err, "missing %s", down)
	}
}

func TestMigrationFiles_CreateMirrorTables(t *testing.T) {
	body, err := fs.ReadFile(MigrationFiles, "000001_create_mirror_tables.up.sql")
	require.NoError(t, err)

	for _, table := range []string{"profiles", "catalog_entries", "friend_snapshots", "playtime_snapshots", "playtime_deltas"} {
		require.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}
