package iostore

import (
	"context"
	"errors"

	"github.com/gnames/wilayah/pkg/db"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgQuerier is satisfied by both *pgxpool.Pool and pgx.Tx.
type pgQuerier interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// pgStore implements store.Store on PostgreSQL.
type pgStore struct {
	pool *pgxpool.Pool
	q    pgQuerier
	// op is set when the store owns the connection.
	op db.Operator
}

// NewPostgres creates a region store on top of a connected pool.
// The pool is owned by the caller, Close does not close it.
func NewPostgres(pool *pgxpool.Pool) store.Store {
	return &pgStore{pool: pool, q: pool}
}

func (s *pgStore) Exists(
	ctx context.Context,
	lvl region.Level,
	id string,
) (bool, error) {
	if !lvl.IsValid() {
		return false, store.UnknownLevelError(lvl)
	}
	var res bool
	err := s.q.QueryRow(ctx, existsSQL(pgDialect, lvl), id).Scan(&res)
	if err != nil {
		return false, QueryError(lvl, err)
	}
	return res, nil
}

func (s *pgStore) ExistingIDs(
	ctx context.Context,
	lvl region.Level,
	ids []string,
) (map[string]struct{}, error) {
	if !lvl.IsValid() {
		return nil, store.UnknownLevelError(lvl)
	}
	res := make(map[string]struct{})
	if len(ids) == 0 {
		return res, nil
	}

	q := "SELECT id FROM " + lvl.Table() + " WHERE id = ANY($1)"
	rows, err := s.q.Query(ctx, q, ids)
	if err != nil {
		return nil, QueryError(lvl, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, QueryError(lvl, err)
		}
		res[id] = struct{}{}
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(lvl, err)
	}
	return res, nil
}

func (s *pgStore) ListByParent(
	ctx context.Context,
	lvl region.Level,
	parentID, search string,
) ([]region.Region, error) {
	if !lvl.IsValid() {
		return nil, store.UnknownLevelError(lvl)
	}

	q, args := listSQL(pgDialect, lvl, parentID, region.NormalizeSearch(search))
	rows, err := s.q.Query(ctx, q, args...)
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

func (s *pgStore) Get(
	ctx context.Context,
	lvl region.Level,
	id string,
) (region.Region, bool, error) {
	if !lvl.IsValid() {
		return region.Region{}, false, store.UnknownLevelError(lvl)
	}

	row := s.q.QueryRow(ctx, getSQL(pgDialect, lvl), id)
	res, err := scanRegion(lvl, row)
	if errors.Is(err, pgx.ErrNoRows) {
		return region.Region{}, false, nil
	}
	if err != nil {
		return region.Region{}, false, QueryError(lvl, err)
	}
	return res, true, nil
}

func (s *pgStore) CountAll(ctx context.Context, lvl region.Level) (int, error) {
	if !lvl.IsValid() {
		return 0, store.UnknownLevelError(lvl)
	}
	var res int
	if err := s.q.QueryRow(ctx, countSQL(lvl)).Scan(&res); err != nil {
		return 0, QueryError(lvl, err)
	}
	return res, nil
}

func (s *pgStore) Upsert(
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

func (s *pgStore) InsertBatch(
	ctx context.Context,
	lvl region.Level,
	rs []region.Region,
) (int, error) {
	if !lvl.IsValid() {
		return 0, store.UnknownLevelError(lvl)
	}

	var res int
	for _, chunk := range chunks(rs, rowsPerInsert(pgDialect, lvl)) {
		q, args := insertSQL(pgDialect, lvl, chunk)
		tag, err := s.q.Exec(ctx, q, args...)
		if err != nil {
			return res, WriteError(lvl, err)
		}
		res += int(tag.RowsAffected())
	}
	return res, nil
}

func (s *pgStore) Clear(ctx context.Context, lvl region.Level) error {
	if !lvl.IsValid() {
		return store.UnknownLevelError(lvl)
	}

	return pgx.BeginFunc(ctx, s.q, func(tx pgx.Tx) error {
		for _, l := range clearOrder(lvl) {
			if _, err := tx.Exec(ctx, deleteSQL(l)); err != nil {
				return ClearError(l, err)
			}
		}
		return nil
	})
}

// Stage runs fn inside one transaction. Readers keep seeing
// the previous data until the transaction is committed.
func (s *pgStore) Stage(ctx context.Context, fn func(store.Writer) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return StageError(err)
	}
	defer tx.Rollback(context.Background())

	staged := &pgStore{pool: s.pool, q: tx}
	if err = fn(staged); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return StageError(err)
	}
	return nil
}

// Close closes the connection if the store was created by Open.
func (s *pgStore) Close() error {
	if s.op != nil {
		return s.op.Close()
	}
	return nil
}
