package iostore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
)

// sqlQuerier is satisfied by both *sql.DB and *sql.Tx.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqliteStore implements store.Store on SQLite.
type sqliteStore struct {
	db *sql.DB
	q  sqlQuerier
	// staged is true when q is a transaction.
	staged bool
}

// NewSQLite creates a region store on an open SQLite database. The
// schema has to be created with ioschema beforehand. Close closes db.
func NewSQLite(db *sql.DB) store.Store {
	return &sqliteStore{db: db, q: db}
}

func (s *sqliteStore) Exists(
	ctx context.Context,
	lvl region.Level,
	id string,
) (bool, error) {
	if !lvl.IsValid() {
		return false, store.UnknownLevelError(lvl)
	}
	var res bool
	err := s.q.QueryRowContext(ctx, existsSQL(sqliteDialect, lvl), id).Scan(&res)
	if err != nil {
		return false, QueryError(lvl, err)
	}
	return res, nil
}

func (s *sqliteStore) ExistingIDs(
	ctx context.Context,
	lvl region.Level,
	ids []string,
) (map[string]struct{}, error) {
	if !lvl.IsValid() {
		return nil, store.UnknownLevelError(lvl)
	}
	res := make(map[string]struct{})

	for _, chunk := range chunks(ids, sqliteDialect.maxParams) {
		args := make([]any, len(chunk))
		for i := range chunk {
			args[i] = chunk[i]
		}

		err := s.collectIDs(ctx, lvl, inSQL(sqliteDialect, lvl, len(chunk)), args, res)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *sqliteStore) collectIDs(
	ctx context.Context,
	lvl region.Level,
	q string,
	args []any,
	res map[string]struct{},
) error {
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return QueryError(lvl, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return QueryError(lvl, err)
		}
		res[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return QueryError(lvl, err)
	}
	return nil
}

func (s *sqliteStore) ListByParent(
	ctx context.Context,
	lvl region.Level,
	parentID, search string,
) ([]region.Region, error) {
	if !lvl.IsValid() {
		return nil, store.UnknownLevelError(lvl)
	}

	q, args := listSQL(sqliteDialect, lvl, parentID, region.NormalizeSearch(search))
	rows, err := s.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, QueryError(lvl, err)
	}
	defer rows.Close()

	res := make([]region.Region, 0)
	for rows.Next() {
		r, err := scanRegion(lvl, rows)
		if err != nil {
			return nil, QueryError(lvl, err)
		}
		res = append(res, r)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(lvl, err)
	}
	return res, nil
}

func (s *sqliteStore) Get(
	ctx context.Context,
	lvl region.Level,
	id string,
) (region.Region, bool, error) {
	if !lvl.IsValid() {
		return region.Region{}, false, store.UnknownLevelError(lvl)
	}

	row := s.q.QueryRowContext(ctx, getSQL(sqliteDialect, lvl), id)
	res, err := scanRegion(lvl, row)
	if errors.Is(err, sql.ErrNoRows) {
		return region.Region{}, false, nil
	}
	if err != nil {
		return region.Region{}, false, QueryError(lvl, err)
	}
	return res, true, nil
}

func (s *sqliteStore) CountAll(ctx context.Context, lvl region.Level) (int, error) {
	if !lvl.IsValid() {
		return 0, store.UnknownLevelError(lvl)
	}
	var res int
	if err := s.q.QueryRowContext(ctx, countSQL(lvl)).Scan(&res); err != nil {
		return 0, QueryError(lvl, err)
	}
	return res, nil
}

func (s *sqliteStore) Upsert(
	ctx context.Context,
	lvl region.Level,
	r region.Region,
) (bool, error) {
	if !lvl.IsValid() {
		return false, store.UnknownLevelError(lvl)
	}
	if lvl.HasParent() {
		ok, err := s.Exists(ctx, lvl.Parent(), r.ParentID)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, store.IntegrityError(lvl, r.ID, r.ParentID)
		}
	}

	n, err := s.InsertBatch(ctx, lvl, []region.Region{r})
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *sqliteStore) InsertBatch(
	ctx context.Context,
	lvl region.Level,
	rs []region.Region,
) (int, error) {
	if !lvl.IsValid() {
		return 0, store.UnknownLevelError(lvl)
	}

	var res int
	for _, chunk := range chunks(rs, rowsPerInsert(sqliteDialect, lvl)) {
		q, args := insertSQL(sqliteDialect, lvl, chunk)
		sr, err := s.q.ExecContext(ctx, q, args...)
		if err != nil {
			return res, WriteError(lvl, err)
		}
		n, err := sr.RowsAffected()
		if err != nil {
			return res, WriteError(lvl, err)
		}
		res += int(n)
	}
	return res, nil
}

func (s *sqliteStore) Clear(ctx context.Context, lvl region.Level) error {
	if !lvl.IsValid() {
		return store.UnknownLevelError(lvl)
	}

	if s.staged {
		return s.clear(ctx, s.q, lvl)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClearError(lvl, err)
	}
	defer tx.Rollback()

	if err = s.clear(ctx, tx, lvl); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return ClearError(lvl, err)
	}
	return nil
}

func (s *sqliteStore) clear(
	ctx context.Context,
	q sqlQuerier,
	lvl region.Level,
) error {
	for _, l := range clearOrder(lvl) {
		if _, err := q.ExecContext(ctx, deleteSQL(l)); err != nil {
			return ClearError(l, err)
		}
	}
	return nil
}

// Stage runs fn inside one transaction.
func (s *sqliteStore) Stage(ctx context.Context, fn func(store.Writer) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return StageError(err)
	}
	defer tx.Rollback()

	staged := &sqliteStore{db: s.db, q: tx, staged: true}
	if err = fn(staged); err != nil {
		return err
	}
	if err = ctx.Err(); err != nil {
		return StageError(err)
	}

	if err = tx.Commit(); err != nil {
		return StageError(err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}
