package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/sheets"
	"github.com/inkwellapp/inkwell-server/internal/storage"
)

// StorageBuckets holds the file buckets for uploaded assets.
type StorageBuckets struct {
	Covers  *storage.Bucket
	Avatars *storage.Bucket
	Ebooks  *storage.Bucket
}

// ProvideStorageBuckets provides the upload buckets rooted under the data path.
func ProvideStorageBuckets(i do.Injector) (*StorageBuckets, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	base := cfg.UploadsPath()

	covers, err := storage.NewBucket(base, storage.BucketCovers)
	if err != nil {
		return nil, err
	}
	avatars, err := storage.NewBucket(base, storage.BucketAvatars)
	if err != nil {
		return nil, err
	}
	ebooks, err := storage.NewBucket(base, storage.BucketEbooks)
	if err != nil {
		return nil, err
	}

	log.Info("Storage buckets ready", "path", base)

	return &StorageBuckets{
		Covers:  covers,
		Avatars: avatars,
		Ebooks:  ebooks,
	}, nil
}

// ProvideSheetsClient provides the editorial sheet mirror client. With no URL
// configured the client is disabled and submissions are skipped silently.
func ProvideSheetsClient(i do.Injector) (*sheets.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*slog.Logger](i)

	client := sheets.NewClient(cfg.Sheets.URL, cfg.Sheets.Token, log)
	if cfg.Sheets.URL == "" {
		log.Info("Sheet mirroring disabled; no SHEETS_URL configured")
	}
	return client, nil
}
