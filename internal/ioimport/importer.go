// Package ioimport implements the lifecycle.Importer. It streams CSV
// sources level by level into a store.Store, validating rows and parent
// references on the way.
package ioimport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/gnames/wilayah/internal/iometrics"
	"github.com/gnames/wilayah/internal/iosource"
	"github.com/gnames/wilayah/pkg/config"
	"github.com/gnames/wilayah/pkg/lifecycle"
	"github.com/gnames/wilayah/pkg/region"
	"github.com/gnames/wilayah/pkg/store"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type importer struct {
	st        store.Store
	batchSize int
	strict    bool
	upper     bool
	maxErrors int
	progress  bool
}

// Option configures the importer.
type Option func(*importer)

// OptProgress turns progress bars on or off. They are on by default.
func OptProgress(b bool) Option {
	return func(imp *importer) {
		imp.progress = b
	}
}

// New creates an Importer that writes to st using import settings of cfg.
func New(cfg *config.Config, st store.Store, opts ...Option) lifecycle.Importer {
	res := &importer{
		st:        st,
		batchSize: cfg.Database.BatchSize,
		strict:    cfg.Import.Strict,
		upper:     cfg.Import.UppercaseNames,
		maxErrors: cfg.Import.MaxReportedErrors,
		progress:  true,
	}
	if res.batchSize < 1 {
		res.batchSize = config.New().Database.BatchSize
	}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Sources builds the four sources in hierarchy order from cfg.
func Sources(cfg *config.Config) []lifecycle.Source {
	paths := cfg.SourcePaths()
	res := make([]lifecycle.Source, 0, len(paths))
	for i, lvl := range region.Levels() {
		res = append(res, lifecycle.Source{Level: lvl, Path: paths[i]})
	}
	return res
}

// Import loads sources into the store. In Reset mode the whole run is
// staged, readers see either the old data or the complete new data.
// In Incremental mode every batch is written as soon as it is validated.
func (imp *importer) Import(
	ctx context.Context,
	mode lifecycle.Mode,
	sources []lifecycle.Source,
) (*lifecycle.Report, error) {
	start := time.Now()
	rep := &lifecycle.Report{RunID: uuid.NewString(), Mode: mode.String()}
	log := slog.With("run_id", rep.RunID)

	sources, err := orderSources(sources)
	if err != nil {
		return rep, err
	}
	for _, src := range sources {
		if err = iosource.Check(src.Path); err != nil {
			return rep, err
		}
	}

	log.Info("Starting import", "mode", rep.Mode, "sources", len(sources))

	run := func(w store.Writer) error {
		if mode == lifecycle.Reset {
			if err := w.Clear(ctx, region.Province); err != nil {
				return err
			}
		}
		for _, src := range sources {
			lr, err := imp.importLevel(ctx, w, src, rep, log)
			rep.Levels = append(rep.Levels, lr)
			if err != nil {
				return err
			}
			log.Info("Level imported",
				"level", lr.Name,
				"total", lr.Total,
				"inserted", lr.Inserted,
				"skipped", lr.Skipped,
				"failed", lr.Failed,
			)
		}
		return nil
	}

	if mode == lifecycle.Reset {
		err = imp.st.Stage(ctx, run)
	} else {
		err = run(imp.st)
	}
	rep.Duration = time.Since(start)

	if err != nil && ctx.Err() != nil {
		err = CancelledError(ctx.Err())
	}

	status := "ok"
	if err != nil {
		status = "error"
		log.Error("Import failed", "error", err, "duration", rep.Duration)
	} else {
		log.Info("Import finished",
			"inserted", rep.Inserted(),
			"failed", rep.Failed(),
			"duration", rep.Duration,
		)
	}
	iometrics.ImportRunsTotal.WithLabelValues(rep.Mode, status).Inc()
	return rep, err
}

// orderSources sorts sources parents first and rejects repeated or
// unknown levels.
func orderSources(sources []lifecycle.Source) ([]lifecycle.Source, error) {
	if len(sources) == 0 {
		return nil, SourcesError("no sources given")
	}
	res := slices.Clone(sources)
	seen := make(map[region.Level]struct{}, len(res))
	for _, src := range res {
		if !src.Level.IsValid() {
			return nil, SourcesError("unknown level of " + src.Path)
		}
		if _, ok := seen[src.Level]; ok {
			return nil, SourcesError("more than one source for " + src.Level.Plural())
		}
		seen[src.Level] = struct{}{}
	}
	slices.SortFunc(res, func(a, b lifecycle.Source) int {
		return int(a.Level) - int(b.Level)
	})
	return res, nil
}

// importLevel reads one source in a producer goroutine and writes its
// batches from another one. The level is complete when it returns.
func (imp *importer) importLevel(
	ctx context.Context,
	w store.Writer,
	src lifecycle.Source,
	rep *lifecycle.Report,
	log *slog.Logger,
) (lifecycle.LevelReport, error) {
	lr := lifecycle.LevelReport{Level: src.Level, Name: src.Level.Plural()}

	r, err := iosource.Open(src.Path, src.Level, iosource.OptUppercase(imp.upper))
	if err != nil {
		return lr, err
	}
	defer r.Close()

	bar := imp.newBar(src)
	if bar != nil {
		defer bar.Finish()
	}

	batches := make(chan []iosource.Row, 1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(batches)
		return imp.readBatches(gctx, r, batches)
	})

	g.Go(func() error {
		for batch := range batches {
			err := imp.writeBatch(gctx, w, src, batch, &lr, rep, log)
			if err != nil {
				return err
			}
			if bar != nil {
				bar.Add(len(batch))
			}
		}
		return nil
	})

	err = g.Wait()

	lvl := src.Level.String()
	iometrics.ImportRowsTotal.WithLabelValues(lvl, "inserted").Add(float64(lr.Inserted))
	iometrics.ImportRowsTotal.WithLabelValues(lvl, "skipped").Add(float64(lr.Skipped))
	iometrics.ImportRowsTotal.WithLabelValues(lvl, "failed").Add(float64(lr.Failed))
	return lr, err
}

func (imp *importer) readBatches(
	ctx context.Context,
	r *iosource.Reader,
	out chan<- []iosource.Row,
) error {
	send := func(batch []iosource.Row) error {
		select {
		case out <- batch:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	batch := make([]iosource.Row, 0, imp.batchSize)
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		batch = append(batch, row)
		if len(batch) < imp.batchSize {
			continue
		}
		if err = send(batch); err != nil {
			return err
		}
		batch = make([]iosource.Row, 0, imp.batchSize)
	}

	if len(batch) > 0 {
		return send(batch)
	}
	return nil
}

// writeBatch validates a batch against the store and inserts the rows that
// are new and have a parent.
func (imp *importer) writeBatch(
	ctx context.Context,
	w store.Writer,
	src lifecycle.Source,
	rows []iosource.Row,
	lr *lifecycle.LevelReport,
	rep *lifecycle.Report,
	log *slog.Logger,
) error {
	lvl := src.Level
	lr.Total += len(rows)

	good := make([]iosource.Row, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	var ids, parentIDs []string
	parents := make(map[string]struct{})
	for _, row := range rows {
		if row.Err != nil {
			lr.Failed++
			err := imp.rowError(rep, src, row, "parse", row.Err, log)
			if err != nil {
				return err
			}
			continue
		}
		id := row.Region.ID
		if _, ok := seen[id]; ok {
			lr.Skipped++
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		if pid := row.Region.ParentID; lvl.HasParent() {
			if _, ok := parents[pid]; !ok {
				parents[pid] = struct{}{}
				parentIDs = append(parentIDs, pid)
			}
		}
		good = append(good, row)
	}
	if len(good) == 0 {
		return nil
	}

	existing, err := w.ExistingIDs(ctx, lvl, ids)
	if err != nil {
		return err
	}

	var found map[string]struct{}
	if lvl.HasParent() {
		found, err = w.ExistingIDs(ctx, lvl.Parent(), parentIDs)
		if err != nil {
			return err
		}
	}

	ins := make([]region.Region, 0, len(good))
	for _, row := range good {
		if _, ok := existing[row.Region.ID]; ok {
			lr.Skipped++
			continue
		}
		if lvl.HasParent() {
			if _, ok := found[row.Region.ParentID]; !ok {
				lr.Failed++
				ierr := store.IntegrityError(lvl, row.Region.ID, row.Region.ParentID)
				if err = imp.rowError(rep, src, row, "integrity", ierr, log); err != nil {
					return err
				}
				continue
			}
		}
		ins = append(ins, row.Region)
	}
	if len(ins) == 0 {
		return nil
	}

	n, err := w.InsertBatch(ctx, lvl, ins)
	if err != nil {
		return err
	}
	lr.Inserted += n
	lr.Skipped += len(ins) - n
	return nil
}

// rowError records a rejected row. In strict mode it returns the error
// that stops the import.
func (imp *importer) rowError(
	rep *lifecycle.Report,
	src lifecycle.Source,
	row iosource.Row,
	kind string,
	err error,
	log *slog.Logger,
) error {
	rep.ErrorsTotal++
	re := lifecycle.RowError{
		Level: src.Level,
		File:  src.Path,
		Line:  row.Line,
		ID:    row.Region.ID,
		Kind:  kind,
		Msg:   err.Error(),
	}

	if len(rep.Errors) < imp.maxErrors {
		rep.Errors = append(rep.Errors, re)
		log.Warn("Row rejected",
			"level", src.Level.String(),
			"file", re.File,
			"line", re.Line,
			"kind", kind,
			"error", re.Msg,
		)
	} else {
		log.Debug("Row rejected",
			"level", src.Level.String(),
			"line", re.Line,
			"kind", kind,
			"error", re.Msg,
		)
	}

	if imp.strict {
		return StrictError(src.Path, row.Line, err)
	}
	return nil
}

func (imp *importer) newBar(src lifecycle.Source) *pb.ProgressBar {
	if !imp.progress {
		return nil
	}
	lines, err := countLines(src.Path)
	if err != nil {
		slog.Warn("Cannot count lines", "file", src.Path, "error", err)
	}
	slog.Debug("Source size", "file", src.Path,
		"lines", humanize.Comma(int64(lines)))

	bar := pb.Full.Start(lines)
	bar.Set("prefix", "Importing "+src.Level.Plural()+": ")
	bar.Set(pb.CleanOnFinish, true)
	return bar
}

// countLines gives an estimate of rows for the progress bar.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var res int
	buf := make([]byte, 64*1024)
	r := bufio.NewReader(f)
	for {
		n, err := r.Read(buf)
		res += bytes.Count(buf[:n], []byte{'\n'})
		if errors.Is(err, io.EOF) {
			return res, nil
		}
		if err != nil {
			return res, err
		}
	}
}
