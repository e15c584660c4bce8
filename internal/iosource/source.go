// Package iosource reads region sources: CSV files with one row per
// region. Provinces have columns id,name, other levels have
// id,parent_id,name. A header row is optional.
package iosource

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/gnames/wilayah/pkg/region"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Row is one data row of a source. Err is set when the row is malformed,
// such rows keep whatever id could be read.
type Row struct {
	Line   int
	Region region.Region
	Err    error
}

// Reader reads rows of one level lazily.
type Reader struct {
	path   string
	lvl    region.Level
	upper  bool
	f      *os.File
	csv    *csv.Reader
	header bool
	// started is true after the first record was seen.
	started bool
}

// Option configures Reader.
type Option func(*Reader)

// OptUppercase makes Reader convert names to upper case.
func OptUppercase(b bool) Option {
	return func(r *Reader) {
		r.upper = b
	}
}

// Open opens a source of the given level.
func Open(path string, lvl region.Level, opts ...Option) (*Reader, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, SourceNotFoundError(path, err)
	}
	if err != nil {
		return nil, SourceOpenError(path, err)
	}

	br := bufio.NewReader(f)
	if b, err := br.Peek(len(bom)); err == nil && bytes.Equal(b, bom) {
		_, _ = br.Discard(len(bom))
	}

	c := csv.NewReader(br)
	c.ReuseRecord = true
	c.FieldsPerRecord = -1

	res := &Reader{path: path, lvl: lvl, f: f, csv: c}
	for _, opt := range opts {
		opt(res)
	}
	return res, nil
}

// Check verifies that a source exists and is a readable regular file.
func Check(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return SourceNotFoundError(path, err)
	}
	if err != nil {
		return SourceOpenError(path, err)
	}
	if info.IsDir() {
		return SourceOpenError(path, fmt.Errorf("%s is a directory", path))
	}
	return nil
}

// Path returns the path of the source.
func (r *Reader) Path() string {
	return r.path
}

// HasHeader is true if the source started with a header row.
func (r *Reader) HasHeader() bool {
	return r.header
}

// Columns returns expected column names of a level.
func Columns(lvl region.Level) []string {
	if lvl.HasParent() {
		return []string{"id", lvl.ParentColumn(), "name"}
	}
	return []string{"id", "name"}
}

// Next returns the next row. It returns io.EOF after the last row.
// Other errors are fatal for the whole source.
func (r *Reader) Next() (Row, error) {
	for {
		rec, err := r.csv.Read()
		if err == io.EOF {
			return Row{}, io.EOF
		}

		var pe *csv.ParseError
		if errors.As(err, &pe) {
			r.started = true
			line := pe.StartLine
			if line == 0 {
				line = pe.Line
			}
			return Row{
				Line: line,
				Err:  ParseError(r.path, line, "", pe.Err.Error()),
			}, nil
		}
		if err != nil {
			return Row{}, SourceOpenError(r.path, err)
		}

		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}

		line, _ := r.csv.FieldPos(0)

		if !r.started {
			r.started = true
			if isHeader(rec) {
				if err = r.checkHeader(rec, line); err != nil {
					return Row{}, err
				}
				r.header = true
				continue
			}
		}

		return r.parse(rec, line), nil
	}
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

// isHeader is true when the first cell names the id column. Other
// first rows are data, malformed ones become row errors.
func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.ToLower(strings.TrimSpace(rec[0])) == "id"
}

func (r *Reader) checkHeader(rec []string, line int) error {
	expected := Columns(r.lvl)
	header := make([]string, len(rec))
	for i := range rec {
		header[i] = strings.ToLower(strings.TrimSpace(rec[i]))
	}

	if len(header) != len(expected) {
		return SourceFormatError(r.path, line, header, expected)
	}
	for i := range expected {
		if header[i] == expected[i] {
			continue
		}
		if i == 1 && r.lvl.HasParent() && header[i] == "parent_id" {
			continue
		}
		return SourceFormatError(r.path, line, header, expected)
	}
	return nil
}

func (r *Reader) parse(rec []string, line int) Row {
	res := Row{Line: line}
	expected := len(Columns(r.lvl))

	var id string
	if len(rec) > 0 {
		id = strings.TrimSpace(rec[0])
	}
	res.Region.ID = id

	if len(rec) != expected {
		reason := fmt.Sprintf("expected %d fields, got %d", expected, len(rec))
		res.Err = ParseError(r.path, line, id, reason)
		return res
	}

	name := strings.TrimSpace(rec[len(rec)-1])
	if r.lvl.HasParent() {
		res.Region.ParentID = strings.TrimSpace(rec[1])
	}

	var reason string
	switch {
	case !utf8.ValidString(id) || !utf8.ValidString(name) ||
		!utf8.ValidString(res.Region.ParentID):
		reason = "invalid UTF-8"
	case !region.IsValidID(id):
		reason = fmt.Sprintf("invalid id %q", id)
	case r.lvl.HasParent() && !region.IsValidID(res.Region.ParentID):
		reason = fmt.Sprintf("invalid %s %q",
			r.lvl.ParentColumn(), res.Region.ParentID)
	case name == "":
		reason = "empty name"
	case !region.IsValidName(name):
		reason = fmt.Sprintf("name is longer than %d characters",
			region.MaxNameLen)
	}
	if reason != "" {
		res.Err = ParseError(r.path, line, id, reason)
		return res
	}

	if r.upper {
		name = strings.ToUpper(name)
	}
	res.Region.Name = name
	return res
}
