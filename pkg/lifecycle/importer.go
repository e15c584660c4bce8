package lifecycle

import (
	"context"
	"time"

	"github.com/gnames/wilayah/pkg/region"
)

// Mode determines how the importer treats data that is already stored.
type Mode int

const (
	// Incremental inserts new ids and skips ids that exist already.
	Incremental Mode = iota
	// Reset clears all levels and loads everything again.
	Reset
)

func (m Mode) String() string {
	if m == Reset {
		return "reset"
	}
	return "incremental"
}

// Source is a tabular source of one level.
type Source struct {
	Level region.Level
	Path  string
}

// Importer loads regions from sources into a store.
type Importer interface {
	// Import processes sources in hierarchy order. Fatal problems
	// (missing source, bad header, storage failure, strict mode violation)
	// are returned as an error, row problems are collected in the report.
	Import(ctx context.Context, mode Mode, sources []Source) (*Report, error)
}

// Report summarizes an import run.
type Report struct {
	// RunID identifies the run in logs.
	RunID string `json:"run_id"`

	Mode string `json:"mode"`

	// Levels contains statistics in import order.
	Levels []LevelReport `json:"levels"`

	// Errors keeps the first rows that failed.
	Errors []RowError `json:"errors,omitempty"`

	// ErrorsTotal is the number of failed rows, including ones not kept
	// in Errors.
	ErrorsTotal int `json:"errors_total"`

	Duration time.Duration `json:"duration"`
}

// LevelReport holds counters of one level.
type LevelReport struct {
	Level    region.Level `json:"-"`
	Name     string       `json:"level"`
	Total    int          `json:"total"`
	Inserted int          `json:"inserted"`
	Skipped  int          `json:"skipped"`
	Failed   int          `json:"failed"`
}

// RowError describes a row that was rejected.
type RowError struct {
	Level region.Level `json:"-"`
	File  string       `json:"file"`
	Line  int          `json:"line"`
	ID    string       `json:"id,omitempty"`
	// Kind is "parse" or "integrity".
	Kind string `json:"kind"`
	Msg  string `json:"message"`
}

// Inserted returns the total number of inserted rows.
func (r *Report) Inserted() int {
	var res int
	for _, v := range r.Levels {
		res += v.Inserted
	}
	return res
}

// Failed returns the total number of failed rows.
func (r *Report) Failed() int {
	var res int
	for _, v := range r.Levels {
		res += v.Failed
	}
	return res
}
