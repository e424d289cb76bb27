package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_Ordered(t *testing.T) {
	t.Parallel()

	versions, err := Migrations()
	require.NoError(t, err)
	require.NotEmpty(t, versions)

	assert.Equal(t, "001_init.sql", versions[0])
	assert.IsNonDecreasing(t, versions)
}

func TestMigrations_InitCreatesCatalogTables(t *testing.T) {
	t.Parallel()

	sql, err := migrationsFS.ReadFile("migrations/001_init.sql")
	require.NoError(t, err)

	for _, table := range []string{"listings", "sources", "catalog_imports"} {
		assert.Contains(t, string(sql), "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.True(t, strings.Contains(string(sql), "insertion_rank"))
}

func TestListingRow_MatchesColumns(t *testing.T) {
	t.Parallel()

	l := testListing()
	row, err := listingRow(&l)
	require.NoError(t, err)
	assert.Len(t, row, len(listingColumns))
	assert.Equal(t, "remate", row[6])
	assert.JSONEq(t, `{"entity":"Juzgado"}`, string(row[13].([]byte)))
}
