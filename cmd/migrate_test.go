package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetMigrateCmd_Exists verifies getMigrateCmd returns
// a valid command.
func TestGetMigrateCmd_Exists(t *testing.T) {
	cmd := getMigrateCmd()
	require.NotNil(t, cmd, "Migrate command should exist")
	assert.Equal(t, "migrate", cmd.Use, "Command name should be migrate")
	assert.NotNil(t, cmd.RunE, "RunE should be set")
}

// TestGetMigrateCmd_Descriptions verifies help texts.
func TestGetMigrateCmd_Descriptions(t *testing.T) {
	cmd := getMigrateCmd()

	assert.Contains(t, cmd.Short, "schema")
	assert.Contains(t, cmd.Long, "non-destructive")
	assert.Contains(t, cmd.Long, "wilayah migrate")
}

// TestGetMigrateCmd_NoFlags verifies migrate has no local flags.
func TestGetMigrateCmd_NoFlags(t *testing.T) {
	cmd := getMigrateCmd()
	assert.False(t, cmd.Flags().HasFlags())
}
