package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/recstore"
	"github.com/hupe1980/recstore/blobstore"
	"github.com/hupe1980/recstore/blobstore/minio"
	"github.com/hupe1980/recstore/blobstore/s3"
	"github.com/hupe1980/recstore/codec"
	"github.com/hupe1980/recstore/promstats"
	"github.com/prometheus/client_golang/prometheus"
)

// App is the state shared by all commands: one collection, its metrics
// and the configured output.
type App struct {
	Config     *Config
	Logger     *Logger
	Registry   *prometheus.Registry
	Collection Collection
	Codec      codec.Codec

	out io.Writer
}

// NewApp validates cfg, creates the collection and loads the configured
// seeds. Logs go to logOut, command output to out.
func NewApp(ctx context.Context, cfg *Config, out, logOut io.Writer) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := NewLoggerFromConfig(logOut, cfg.Log)
	if err != nil {
		return nil, err
	}
	logger = logger.WithCollection(cfg.Collection)

	reg := prometheus.NewRegistry()
	stats, err := promstats.New(reg, promstats.WithConstLabels(prometheus.Labels{"collection": cfg.Collection}))
	if err != nil {
		return nil, err
	}

	coll, err := NewCollection(cfg.Collection, recstore.WithMetricsCollector(stats))
	if err != nil {
		return nil, err
	}

	cd, _ := codec.ByName(cfg.Codec)

	app := &App{
		Config:     cfg,
		Logger:     logger,
		Registry:   reg,
		Collection: coll,
		Codec:      cd,
		out:        out,
	}

	if len(cfg.Seeds) > 0 {
		if err := app.Seed(ctx, cfg.Seeds...); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Seed loads the named dumps from the configured source.
func (a *App) Seed(ctx context.Context, names ...string) error {
	blobs, err := OpenBlobStore(ctx, a.Config.Source)
	if err != nil {
		return err
	}

	n, err := a.Collection.Load(ctx, blobs, a.Codec, names...)
	a.Logger.LogLoad(ctx, names, n, err)
	return err
}

// OpenBlobStore creates the blob store for the configured source.
func OpenBlobStore(ctx context.Context, cfg SourceConfig) (blobstore.BlobStore, error) {
	switch cfg.Type {
	case "local":
		return blobstore.NewLocalStore(cfg.Dir), nil
	case "s3":
		store, err := s3.New(ctx, cfg.S3.Bucket,
			s3.WithPrefix(cfg.S3.Prefix),
			s3.WithRegion(cfg.S3.Region),
			s3.WithEndpoint(cfg.S3.Endpoint),
		)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "minio":
		store, err := minio.New(cfg.Minio)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported source type: %q", cfg.Type)
	}
}
