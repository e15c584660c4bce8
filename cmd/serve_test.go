package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetServeCmd_Exists verifies getServeCmd returns
// a valid command.
func TestGetServeCmd_Exists(t *testing.T) {
	cmd := getServeCmd()
	require.NotNil(t, cmd, "Serve command should exist")
	assert.Equal(t, "serve", cmd.Use)
	assert.NotNil(t, cmd.RunE)
}

// TestGetServeCmd_LongDescription verifies endpoints are documented.
func TestGetServeCmd_LongDescription(t *testing.T) {
	cmd := getServeCmd()

	for _, v := range []string{
		"/api/v1/provinces", "/api/v1/regencies", "/api/v1/districts",
		"/api/v1/villages", "/api/v1/villages/{id}", "/api/v1/stats",
		"/api/v1/provinces/{id}", "/api/v1/regencies/{id}",
		"/api/v1/districts/{id}", "/api/v1/levels/{level}/{id}",
		"/metrics",
	} {
		assert.Contains(t, cmd.Long, v)
	}
}

// TestGetServeCmd_PortFlag verifies --port flag exists.
func TestGetServeCmd_PortFlag(t *testing.T) {
	cmd := getServeCmd()

	flag := cmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "p", flag.Shorthand)
	assert.Equal(t, "0", flag.DefValue)
}
