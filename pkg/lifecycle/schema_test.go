package lifecycle_test

import (
	"testing"

	"github.com/gnames/wilayah/pkg/lifecycle"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/stretchr/testify/assert"
)

func TestMode(t *testing.T) {
	assert.Equal(t, "incremental", lifecycle.Incremental.String())
	assert.Equal(t, "reset", lifecycle.Reset.String())
}

func TestReportTotals(t *testing.T) {
	rep := lifecycle.Report{
		Levels: []lifecycle.LevelReport{
			{Level: region.Province, Inserted: 2, Failed: 0},
			{Level: region.Regency, Inserted: 3, Failed: 1},
			{Level: region.District, Inserted: 0, Failed: 4},
		},
	}
	assert.Equal(t, 5, rep.Inserted())
	assert.Equal(t, 5, rep.Failed())
}
