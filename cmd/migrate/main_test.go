package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDatabasePath(t *testing.T) {
	tgt, err := parseDatabasePath("projects/p1/instances/i1/databases/d1")
	require.NoError(t, err)
	assert.Equal(t, "projects/p1/instances/i1", tgt.instancePath())
	assert.Equal(t, "projects/p1/instances/i1/databases/d1", tgt.databasePath())

	_, err = parseDatabasePath("projects/p1/databases/d1")
	assert.Error(t, err)
}

func TestSplitDDLStatements(t *testing.T) {
	stmts := splitDDLStatements(`
-- comment
CREATE TABLE a (
  id STRING(36) NOT NULL,
) PRIMARY KEY (id);

CREATE INDEX a_idx ON a(id);
`)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (\nid STRING(36) NOT NULL,\n) PRIMARY KEY (id)", stmts[0])
	assert.Equal(t, "CREATE INDEX a_idx ON a(id)", stmts[1])
}

func TestInitialSchemaSplits(t *testing.T) {
	content, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_initial_schema.sql"))
	require.NoError(t, err)

	stmts := splitDDLStatements(string(content))
	assert.Contains(t, stmts, "CREATE UNIQUE NULL_FILTERED INDEX product_attribute_values_live_key_idx ON product_attribute_values(live_key)")
	for _, s := range stmts {
		assert.NotContains(t, s, "--")
	}
}
