package database

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0002_prices.up.sql":   {Data: []byte("ALTER TABLE services ADD x INT;")},
		"m/0002_prices.down.sql": {Data: []byte("ALTER TABLE services DROP x;")},
		"m/0001_init.up.sql":     {Data: []byte("CREATE TABLE t (id INT);")},
		"m/README.md":            {Data: []byte("ignored")},
	}

	migrations, err := LoadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 2)

	assert.Equal(t, "0001_init", migrations[0].Version)
	assert.Empty(t, migrations[0].Down)
	assert.Equal(t, "0002_prices", migrations[1].Version)
	assert.Equal(t, "ALTER TABLE services DROP x;", migrations[1].Down)
}

func TestLoadMigrationsRejectsDownWithoutUp(t *testing.T) {
	fsys := fstest.MapFS{
		"m/0001_init.down.sql": {Data: []byte("DROP TABLE t;")},
	}
	_, err := LoadMigrations(fsys, "m")
	assert.ErrorContains(t, err, "0001_init")
}

func TestEmbeddedMigrationsCreateCatalogTables(t *testing.T) {
	migrations, err := LoadMigrations(migrationFiles, "migrations")
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for _, table := range CatalogTables {
		assert.Contains(t, migrations[0].Up, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, migrations[0].Up, "ux_categories_tenant_name ON categories (tenant_id, name)")
}
