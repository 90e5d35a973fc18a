// Command referral-import loads referral ledgers exported from the previous
// storefront into the database. Exports are gzipped CSV files with columns
// code,email,name,earnings; the same referrer shows up in several exports, so
// codes are deduplicated during the import.
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/solkim/tracksuit-store/internal/domain/referral"
	"github.com/solkim/tracksuit-store/internal/storage/postgres"
)

const (
	// Capacity sized for the largest export seen so far with comfortable
	// headroom. A false positive drops one legacy row, which the next run
	// with a fresh filter would pick up, so the low FPR is plenty.
	bloomCapacity = 10_000_000
	bloomFPR      = 0.0001

	progressEvery = 100_000
)

// row is one parsed export line.
type row struct {
	code     string
	email    string
	name     string
	earnings decimal.Decimal
}

func main() {
	var (
		dataDir     string
		databaseURL string
	)

	flag.StringVar(&dataDir, "data-dir", "data", "directory containing referrals-*.csv.gz exports")
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
		slog.Error("referral import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("referral import completed successfully")
}

func run(ctx context.Context, dataDir, databaseURL string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "referrals-*.csv.gz"))
	if err != nil {
		return errors.Wrap(err, "glob exports")
	}
	if len(files) == 0 {
		return errors.Errorf("no referrals-*.csv.gz files in %s", dataDir)
	}

	slog.Info("connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	repo := postgres.NewReferralRepository(pool)

	// Readers fan in to a single writer that owns the dedup filter, so the
	// filter needs no locking.
	rows := make(chan row, 1024)

	g, gctx := errgroup.WithContext(ctx)
	readers, readerCtx := errgroup.WithContext(gctx)

	for _, f := range files {
		readers.Go(streamExport(readerCtx, f, rows))
	}
	g.Go(func() error {
		defer close(rows)
		return readers.Wait()
	})
	g.Go(writeRecords(gctx, repo, rows))

	return g.Wait()
}

// streamExport parses one gzipped CSV export and sends its rows downstream.
func streamExport(ctx context.Context, path string, rows chan<- row) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer func() { _ = f.Close() }()

		gz, err := pgzip.NewReader(f)
		if err != nil {
			return errors.Wrapf(err, "create gzip reader for %s", path)
		}
		defer func() { _ = gz.Close() }()

		r := csv.NewReader(gz)
		r.FieldsPerRecord = 4
		r.ReuseRecord = true

		var count uint64
		for {
			record, err := r.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return errors.Wrapf(err, "read %s", path)
			}

			// Drops the header line too: "code" is shorter than a real code.
			code := strings.ToUpper(strings.TrimSpace(record[0]))
			if len(code) != referral.CodeLength {
				continue
			}

			earnings, err := decimal.NewFromString(strings.TrimSpace(record[3]))
			if err != nil {
				earnings = decimal.Zero
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case rows <- row{
				code:     code,
				email:    strings.TrimSpace(record[1]),
				name:     strings.TrimSpace(record[2]),
				earnings: earnings,
			}:
			}

			count++
			if count%progressEvery == 0 {
				slog.Info("read progress", slog.String("file", filepath.Base(path)), slog.Uint64("rows", count))
			}
		}

		slog.Info("export read", slog.String("file", filepath.Base(path)), slog.Uint64("rows", count))
		return nil
	}
}

// writeRecords drains rows into the store, skipping codes already seen in
// this run or already present in the database.
func writeRecords(ctx context.Context, repo *postgres.ReferralRepository, rows <-chan row) func() error {
	return func() error {
		seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)

		var written, skipped, rounded uint64
		for r := range rows {
			if seen.TestAndAddString(r.code) {
				skipped++
				continue
			}

			// Rebuild the credit history alongside the earnings: credits
			// applied after the import recompute the total from the
			// completed-order count, so a bare earnings figure would be
			// wiped by the first one.
			rec := referral.LegacyRecord(r.code, r.email, r.name, r.earnings, referral.DefaultBonus)
			if !rec.TotalEarnings.Equal(r.earnings) {
				rounded++
				slog.Warn("earnings not a whole bonus multiple, rounded down",
					slog.String("code", r.code),
					slog.String("exported", r.earnings.String()),
					slog.String("imported", rec.TotalEarnings.String()))
			}

			_, err := repo.Import(ctx, rec)
			if errors.Is(err, referral.ErrCodeExists) {
				skipped++
				continue
			}
			if err != nil {
				return errors.Wrapf(err, "import referral %s", r.code)
			}

			written++
			if written%progressEvery == 0 {
				slog.Info("write progress", slog.Uint64("written", written), slog.Uint64("skipped", skipped))
			}
		}

		slog.Info("import finished",
			slog.Uint64("written", written),
			slog.Uint64("skipped", skipped),
			slog.Uint64("rounded", rounded))
		return nil
	}
}
