package cmd

import (
	"bytes"
	"testing"
	"time"

	"github.com/gnames/wilayah/pkg/lifecycle"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetImportCmd_Exists verifies getImportCmd returns
// a valid command.
func TestGetImportCmd_Exists(t *testing.T) {
	cmd := getImportCmd()
	require.NotNil(t, cmd, "Import command should exist")
	assert.Equal(t, "import", cmd.Use)
	assert.NotNil(t, cmd.RunE)
	assert.Contains(t, cmd.Long, "provinsi.csv")
	assert.Contains(t, cmd.Long, "DATA_INDONESIA_PATH")
}

// TestGetImportCmd_Flags verifies flags and their shorthands.
func TestGetImportCmd_Flags(t *testing.T) {
	cmd := getImportCmd()

	tests := []struct {
		name, short, def string
	}{
		{"clear", "c", "false"},
		{"path", "p", ""},
		{"strict", "", "false"},
		{"batch-size", "b", "0"},
		{"dry-run", "", "false"},
		{"uppercase", "u", "true"},
	}

	for _, v := range tests {
		flag := cmd.Flags().Lookup(v.name)
		require.NotNil(t, flag, v.name)
		assert.Equal(t, v.short, flag.Shorthand, v.name)
		assert.Equal(t, v.def, flag.DefValue, v.name)
	}
}

// TestGetImportCmd_IndependentInstances verifies flags of one instance
// do not leak into another.
func TestGetImportCmd_IndependentInstances(t *testing.T) {
	cmd1 := getImportCmd()
	cmd2 := getImportCmd()

	require.NoError(t, cmd1.Flags().Set("clear", "true"))
	require.NoError(t, cmd1.Flags().Set("path", "/tmp/data"))
	assert.False(t, cmd2.Flags().Changed("clear"))
	assert.Equal(t, "", cmd2.Flags().Lookup("path").Value.String())
}

func TestPrintReport(t *testing.T) {
	cmd := getImportCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)

	rep := &lifecycle.Report{
		RunID: "run-1",
		Mode:  "incremental",
		Levels: []lifecycle.LevelReport{
			{Level: region.Province, Name: "provinces", Total: 38, Inserted: 38},
			{Level: region.Regency, Name: "regencies", Total: 1514,
				Inserted: 1500, Skipped: 10, Failed: 4},
		},
		Errors: []lifecycle.RowError{
			{Level: region.Regency, File: "kota.csv", Line: 7, ID: "9901",
				Kind: "integrity", Msg: "unknown parent"},
		},
		ErrorsTotal: 4,
		Duration:    time.Second,
	}
	printReport(cmd, rep)

	out := buf.String()
	assert.Contains(t, out, "Provinces: 38 (38 new)\n")
	assert.Contains(t, out, "Regencies: 1,514 (1,500 new), 10 skipped, 4 failed\n")

	buf.Reset()
	printReport(cmd, nil)
	assert.Empty(t, buf.String())
}
