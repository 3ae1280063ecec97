// Package storage elige el snapshot.Store según la configuración.
package storage

import (
	"context"
	"fmt"
	"strings"

	"medication-tracker/internal/adapters/storage/memory"
	"medication-tracker/internal/adapters/storage/postgres"
	"medication-tracker/internal/adapters/storage/s3"
	"medication-tracker/internal/adapters/storage/sqlite"
	"medication-tracker/internal/platform/config"
	"medication-tracker/internal/ports/snapshot"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverS3       = "s3"
)

type Options struct {
	Driver string

	DSN        string // postgres
	SQLitePath string

	S3 s3.Config
}

func OptionsFromConfig(c config.Config) Options {
	return Options{
		Driver:     c.StoreDriver,
		DSN:        c.DBDSN,
		SQLitePath: c.SQLitePath,
		S3: s3.Config{
			Region:          c.S3Region,
			Bucket:          c.S3Bucket,
			Prefix:          c.S3Prefix,
			Endpoint:        c.S3Endpoint,
			AccessKeyID:     c.S3AccessKeyID,
			SecretAccessKey: c.S3SecretAccessKey,
			PathStyle:       c.S3PathStyle,
		},
	}
}

// Open construye el store. El func devuelto libera recursos (puede ser no-op).
func Open(ctx context.Context, opts Options) (snapshot.Store, func() error, error) {
	noop := func() error { return nil }

	driver := strings.ToLower(strings.TrimSpace(opts.Driver))
	if driver == "" {
		driver = DriverMemory
		if opts.DSN != "" {
			driver = DriverPostgres
		}
	}

	switch driver {
	case DriverMemory:
		return memory.NewSnapshotStore(), noop, nil
	case DriverSQLite:
		s, err := sqlite.Open(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, nil, fmt.Errorf("storage: postgres requires DB_DSN")
		}
		db, err := postgres.Open(ctx, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		s, err := postgres.NewStateStore(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return s, s.Close, nil
	case DriverS3:
		s, err := s3.New(ctx, opts.S3)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}
