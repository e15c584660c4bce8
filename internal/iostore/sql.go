package iostore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnames/wilayah/pkg/region"
)

// dialect keeps differences between PostgreSQL and SQLite SQL.
type dialect struct {
	// like is the case-insensitive pattern operator.
	like string

	// maxParams is the limit of bind parameters per statement.
	maxParams int

	// ph returns the placeholder of the n-th (1-based) parameter.
	ph func(n int) string
}

var pgDialect = dialect{
	like:      "ILIKE",
	maxParams: 65535,
	ph:        func(n int) string { return "$" + strconv.Itoa(n) },
}

// SQLite LIKE ignores case of ASCII letters only.
var sqliteDialect = dialect{
	like:      "LIKE",
	maxParams: 32766,
	ph:        func(int) string { return "?" },
}

// rowScanner is implemented by pgx.Row(s) and sql.Row(s).
type rowScanner interface {
	Scan(dest ...any) error
}

// selectColumns returns columns in the order scanRegion reads them.
func selectColumns(lvl region.Level) string {
	if lvl.HasParent() {
		return "id, name, " + lvl.ParentColumn()
	}
	return "id, name"
}

func scanRegion(lvl region.Level, sc rowScanner) (region.Region, error) {
	var res region.Region
	var err error
	if lvl.HasParent() {
		err = sc.Scan(&res.ID, &res.Name, &res.ParentID)
	} else {
		err = sc.Scan(&res.ID, &res.Name)
	}
	return res, err
}

func existsSQL(d dialect, lvl region.Level) string {
	return fmt.Sprintf(
		"SELECT EXISTS (SELECT 1 FROM %s WHERE id = %s)",
		lvl.Table(), d.ph(1),
	)
}

func getSQL(d dialect, lvl region.Level) string {
	return fmt.Sprintf(
		"SELECT %s FROM %s WHERE id = %s",
		selectColumns(lvl), lvl.Table(), d.ph(1),
	)
}

func countSQL(lvl region.Level) string {
	return "SELECT count(*) FROM " + lvl.Table()
}

func deleteSQL(lvl region.Level) string {
	return "DELETE FROM " + lvl.Table()
}

// listSQL builds a query of children of parentID filtered by search.
// The search has to be normalized.
func listSQL(
	d dialect,
	lvl region.Level,
	parentID, search string,
) (string, []any) {
	var where []string
	var args []any
	if lvl.HasParent() {
		args = append(args, parentID)
		where = append(where,
			fmt.Sprintf("%s = %s", lvl.ParentColumn(), d.ph(len(args))),
		)
	}
	if search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		where = append(where,
			fmt.Sprintf(`name %s %s ESCAPE '\'`, d.like, d.ph(len(args))),
		)
	}

	q := fmt.Sprintf("SELECT %s FROM %s", selectColumns(lvl), lvl.Table())
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY name, id"
	return q, args
}

// inSQL builds a query returning ids of the level that are among n
// parameters.
func inSQL(d dialect, lvl region.Level, n int) string {
	phs := make([]string, n)
	for i := range phs {
		phs[i] = d.ph(i + 1)
	}
	return fmt.Sprintf(
		"SELECT id FROM %s WHERE id IN (%s)",
		lvl.Table(), strings.Join(phs, ", "),
	)
}

// insertColumns returns columns and values count of one row.
func insertColumns(lvl region.Level) (string, int) {
	if lvl.HasParent() {
		return "id, name, " + lvl.ParentColumn(), 3
	}
	return "id, name", 2
}

// insertSQL builds a multi-row INSERT that ignores existing ids.
// The caller keeps len(rs)*columns under d.maxParams.
func insertSQL(
	d dialect,
	lvl region.Level,
	rs []region.Region,
) (string, []any) {
	cols, n := insertColumns(lvl)
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*n)

	argIdx := 1
	for _, r := range rs {
		phs := make([]string, n)
		for i := range phs {
			phs[i] = d.ph(argIdx)
			argIdx++
		}
		values = append(values, "("+strings.Join(phs, ", ")+")")
		args = append(args, r.ID, r.Name)
		if n == 3 {
			args = append(args, r.ParentID)
		}
	}

	q := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES %s ON CONFLICT (id) DO NOTHING",
		lvl.Table(), cols, strings.Join(values, ", "),
	)
	return q, args
}

// rowsPerInsert is the largest number of rows one INSERT can carry.
func rowsPerInsert(d dialect, lvl region.Level) int {
	_, n := insertColumns(lvl)
	return d.maxParams / n
}

// chunks splits s into parts not longer than size.
func chunks[T any](s []T, size int) [][]T {
	var res [][]T
	for len(s) > size {
		res = append(res, s[:size])
		s = s[size:]
	}
	if len(s) > 0 {
		res = append(res, s)
	}
	return res
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// clearOrder returns lvl and all levels below it, lowest level first.
func clearOrder(lvl region.Level) []region.Level {
	var res []region.Level
	for l := region.Village; l >= lvl; l-- {
		res = append(res, l)
	}
	return res
}
