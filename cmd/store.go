package cmd

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/cobra"
	"github.com/zkiln/radmin/catalog"
	"github.com/zkiln/radmin/radmin"
	"github.com/zkiln/radmin/storage"
	"github.com/zkiln/radmin/util/log"
)

var (
	catalogPath string

	// Directory storage provider options
	dataDir string

	// S3 storage provider options
	s3Endpoint  string
	s3AccessKey string
	s3SecretKey string
	s3Bucket    string
	s3UseTLS    bool
	s3Region    string
)

// openStore returns the storage provider selected by the store flags.
func openStore() (storage.Provider, error) {
	s3requested := s3Endpoint != "" || s3AccessKey != "" || s3SecretKey != "" || s3Bucket != ""
	if dataDir != "" && s3requested {
		return nil, fmt.Errorf("cannot specify both --data-dir and S3 options")
	}
	if dataDir == "" && !s3requested {
		return nil, fmt.Errorf("must specify either --data-dir or S3 options")
	}
	if dataDir != "" {
		store, err := storage.NewDirectoryStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("failed to create directory store: %w", err)
		}
		return store, nil
	}
	mc, err := minio.New(s3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(s3AccessKey, s3SecretKey, ""),
		Secure: s3UseTLS,
		Region: s3Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 client: %w", err)
	}
	return storage.NewS3Store(mc, s3Bucket), nil
}

// openCatalog opens the sqlite catalog. The returned function closes it.
func openCatalog(ctx context.Context) (catalog.Catalog, func(), error) {
	dbpath := catalogPath + "?_journal=WAL&mode=rwc"
	log.Debugf(ctx, "Opening catalog at %s", dbpath)
	db, err := sql.Open("sqlite3", dbpath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to ping catalog at %s: %w", catalogPath, err)
	}
	cat, err := catalog.NewSQLCatalog(db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return cat, func() { db.Close() }, nil
}

// openReplay returns a replay service over the configured store and catalog.
func openReplay(ctx context.Context, opts ...radmin.ReplayOption) (*radmin.ReplayService, func()) {
	store, err := openStore()
	checkErr(err)
	cat, closer, err := openCatalog(ctx)
	checkErr(err)
	log.Debugw(ctx, "replay service ready", "store", store.String(), "catalog", catalogPath)
	return radmin.NewReplayService(cat, store, opts...), closer
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&catalogPath, "catalog", "c", env("CATALOG", "radmin.db"), "Catalog database location")
	cmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", env("DATA_DIR", ""), "Data directory (for directory storage)")
	cmd.PersistentFlags().StringVar(&s3Endpoint, "s3-endpoint", env("S3_ENDPOINT", ""), "S3 endpoint (for S3 storage)")
	cmd.PersistentFlags().StringVar(&s3AccessKey, "s3-access-key-id", env("S3_ACCESS_KEY_ID", ""), "S3 access key ID (for S3 storage)")
	cmd.PersistentFlags().StringVar(&s3SecretKey, "s3-secret-key", env("S3_SECRET_KEY", ""), "S3 secret key (for S3 storage)")
	cmd.PersistentFlags().StringVar(&s3Bucket, "s3-bucket", env("S3_BUCKET", ""), "S3 bucket (for S3 storage)")
	cmd.PersistentFlags().BoolVarP(&s3UseTLS, "s3-tls", "t", envBool("S3_TLS"), "Use TLS (for S3 storage)")
	cmd.PersistentFlags().StringVar(&s3Region, "s3-region", env("S3_REGION", ""), "S3 region")
}
