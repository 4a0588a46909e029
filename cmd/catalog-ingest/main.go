// Command catalog-ingest bulk-imports catalog products from JSON-lines
// files, one product object per line. Files ending in .gz are decompressed
// on the fly. Product titles already seen — in the store or earlier in the
// input — are skipped via a bloom filter, so re-running an ingest does not
// duplicate the catalog.
package main

import (
	"bufio"
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/shopfront/internal/domain/product"
	"github.com/xenking/shopfront/internal/storage/mongodb"
)

const (
	bloomCapacity = 1_000_000
	bloomFPR      = 0.001
	batchSize     = 500
)

func main() {
	var (
		databaseURL  string
		databaseName string
	)

	flag.StringVar(&databaseURL, "database-url", "", "MongoDB connection URI (or DATABASE_URL env)")
	flag.StringVar(&databaseName, "database-name", "shopfront", "MongoDB database name")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	files := flag.Args()
	if len(files) == 0 {
		slog.Error("at least one products file is required")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, databaseName, files); err != nil {
		slog.Error("catalog ingest failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog ingest completed successfully")
}

func run(ctx context.Context, databaseURL, databaseName string, files []string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			return errors.Wrapf(err, "check file %s", f)
		}
	}

	slog.Info("connecting to database")

	client, err := mongodb.Connect(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	repo := mongodb.NewProductRepository(client.Database(databaseName))

	// Pre-load existing titles so a re-run skips what is already stored.
	seen := bloom.NewWithEstimates(bloomCapacity, bloomFPR)
	existing, err := repo.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list existing products")
	}
	for _, p := range existing {
		seen.AddString(p.Title)
	}

	slog.Info("ingesting files",
		slog.Int("files", len(files)),
		slog.Int("existing_products", len(existing)),
	)

	parsed := make(chan product.Product, 512)

	producers, prodCtx := errgroup.WithContext(ctx)
	for _, f := range files {
		producers.Go(parseFile(prodCtx, f, parsed))
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(parsed)
		return producers.Wait()
	})
	g.Go(func() error {
		return insertBatches(ctx, repo, seen, parsed)
	})

	return g.Wait()
}

// parseFile streams one JSON-lines file into the parsed channel.
func parseFile(ctx context.Context, path string, parsed chan<- product.Product) func() error {
	return func() error {
		f, err := os.Open(path)
		if err != nil {
			return errors.Wrapf(err, "open %s", path)
		}
		defer f.Close()

		var r io.Reader = f
		if strings.HasSuffix(path, ".gz") {
			gz, err := pgzip.NewReader(f)
			if err != nil {
				return errors.Wrapf(err, "gzip reader for %s", path)
			}
			defer gz.Close()
			r = gz
		}

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		line := 0
		for scanner.Scan() {
			line++
			raw := scanner.Bytes()
			if len(raw) == 0 {
				continue
			}

			p, err := parseProduct(raw)
			if err != nil {
				return errors.Wrapf(err, "%s line %d", path, line)
			}

			select {
			case <-ctx.Done():
				return ctx.Err()
			case parsed <- p:
			}
		}
		if err := scanner.Err(); err != nil {
			return errors.Wrapf(err, "read %s", path)
		}

		slog.Info("parsed file", slog.String("path", path), slog.Int("lines", line))
		return nil
	}
}

// parseProduct decodes one product object. Unknown keys are skipped so
// export dumps with extra fields still load.
func parseProduct(raw []byte) (product.Product, error) {
	p := product.Product{
		Category: product.DefaultCategory,
		InStock:  true,
	}

	d := jx.DecodeBytes(raw)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "title":
			p.Title, err = d.Str()
		case "description":
			p.Description, err = d.Str()
		case "price":
			var num jx.Num
			if num, err = d.Num(); err == nil {
				p.Price, err = decimal.NewFromString(num.String())
			}
		case "category":
			p.Category, err = d.Str()
		case "image":
			p.Image, err = d.Str()
		case "in_stock":
			p.InStock, err = d.Bool()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return product.Product{}, errors.Wrap(err, "decode product")
	}

	if p.Title == "" {
		return product.Product{}, errors.New("missing title")
	}
	if p.Price.IsNegative() {
		return product.Product{}, errors.Errorf("negative price %s for %q", p.Price, p.Title)
	}
	return p, nil
}

// insertBatches is the single consumer: it owns the bloom filter, so no
// locking is needed around it.
func insertBatches(ctx context.Context, repo *mongodb.ProductRepository, seen *bloom.BloomFilter, parsed <-chan product.Product) error {
	batch := make([]product.Product, 0, batchSize)
	var inserted, skipped int

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		ids, err := repo.InsertMany(ctx, batch)
		if err != nil {
			return errors.Wrap(err, "insert batch")
		}
		inserted += len(ids)
		batch = batch[:0]
		return nil
	}

	for p := range parsed {
		if seen.TestAndAddString(p.Title) {
			skipped++
			continue
		}
		batch = append(batch, p)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}

	slog.Info("ingest summary",
		slog.Int("inserted", inserted),
		slog.Int("skipped_duplicates", skipped),
	)
	return nil
}
