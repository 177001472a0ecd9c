// Command catalog-ingest bulk-loads the product catalog from gzipped JSONL
// dump files. Dumps from different regions overlap heavily, so an in-memory
// bloom filter screens product IDs that were already queued during this run
// before they reach the database. Inserts use ON CONFLICT, so re-running the
// ingest (or the filter's rare false positive) never corrupts the catalog.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/promptcart/promptcart/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	bloomCapacity = 10_000_000
	bloomFPR      = 0.001
	batchSize     = 1_000
	progressEvery = 100_000
)

const upsertProductSQL = `INSERT INTO products (id, name, price, prompt_fragment)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id) DO NOTHING`

type productRow struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	PromptFragment string          `json:"promptFragment"`
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing products*.jsonl.gz dump files")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, dataDir, databaseURL); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "products*.jsonl.gz"))
	if err != nil {
		return errors.Wrap(err, "glob dump files")
	}
	if len(files) == 0 {
		return errors.Errorf("no products*.jsonl.gz files in %s", dataDir)
	}
	slog.Info("found dump files", slog.Int("count", len(files)))

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	rows := make(chan productRow, batchSize)

	g, gctx := errgroup.WithContext(ctx)

	// Parsers: one goroutine per dump file.
	parsers, pctx := errgroup.WithContext(gctx)
	for _, file := range files {
		parsers.Go(func() error {
			return parseFile(pctx, file, rows)
		})
	}
	g.Go(func() error {
		defer close(rows)
		return parsers.Wait()
	})

	// Single inserter: owns the bloom filter, so no locking is needed.
	g.Go(func() error {
		return insertRows(gctx, pool, rows)
	})

	return g.Wait()
}

// parseFile streams one gzipped JSONL dump into the rows channel.
func parseFile(ctx context.Context, path string, rows chan<- productRow) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "gzip reader %s", path)
	}
	defer gz.Close()

	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var row productRow
		if err := json.Unmarshal(raw, &row); err != nil {
			return errors.Wrapf(err, "%s line %d", path, line)
		}
		if row.ID == "" {
			return errors.Errorf("%s line %d: missing product id", path, line)
		}

		select {
		case rows <- row:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	slog.Info("parsed dump file", slog.String("file", filepath.Base(path)), slog.Int("lines", line))
	return nil
}

// insertRows consumes parsed rows, drops IDs already queued this run, and
// flushes batched upserts.
func insertRows(ctx context.Context, pool *pgxpool.Pool, rows <-chan productRow) error {
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

	batch := &pgx.Batch{}
	var total, skipped int

	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := pool.SendBatch(ctx, batch).Close(); err != nil {
			return errors.Wrap(err, "flush batch")
		}
		batch = &pgx.Batch{}
		return nil
	}

	for row := range rows {
		if seen.TestString(row.ID) {
			skipped++
			continue
		}
		seen.AddString(row.ID)

		batch.Queue(upsertProductSQL, row.ID, row.Name, row.Price, row.PromptFragment)
		total++

		if batch.Len() >= batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
		if total%progressEvery == 0 {
			slog.Info("ingest progress", slog.Int("inserted", total), slog.Int("skipped", skipped))
		}
	}
	if err := flush(); err != nil {
		return err
	}

	slog.Info("ingest finished", slog.Int("inserted", total), slog.Int("skipped", skipped))
	return nil
}
