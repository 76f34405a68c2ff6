package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/thegioirubik/lubestation-service/pkg/catalog"
	"github.com/thegioirubik/lubestation-service/pkg/storage"
)

// ImportEvent is either an S3 upload notification or a direct CSV payload.
type ImportEvent struct {
	Records []events.S3EventRecord `json:"Records,omitempty"`
	CSVData string                 `json:"csv_data,omitempty"`
}

// ImportResult counts the rows kept per brand sheet.
type ImportResult struct {
	Cubicle int `json:"cubicle"`
	SCS     int `json:"scs"`
}

// SourceStore persists imported rows and drops the derived catalog.
type SourceStore interface {
	StoreSource(ctx context.Context, src catalog.Source) error
	Invalidate(ctx context.Context) error
}

// Importer replaces the pricelist rows the catalog is built from.
type Importer struct {
	store   SourceStore
	fetcher storage.Fetcher
	log     *zap.Logger
}

// NewImporter wires an importer. fetcher may be nil when only direct CSV
// payloads are expected.
func NewImporter(store SourceStore, fetcher storage.Fetcher, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{store: store, fetcher: fetcher, log: log}
}

// Handle parses the uploaded pricelist, stores its rows and drops the cached
// catalog so the next read rebuilds it.
func (im *Importer) Handle(ctx context.Context, event ImportEvent) (ImportResult, error) {
	data, err := im.payload(ctx, event)
	if err != nil {
		return ImportResult{}, err
	}

	src, err := catalog.ParseCSV(data, im.log)
	if err != nil {
		return ImportResult{}, err
	}
	if err := im.store.StoreSource(ctx, src); err != nil {
		return ImportResult{}, err
	}
	if err := im.store.Invalidate(ctx); err != nil {
		// The old catalog stays cached until its TTL runs out.
		im.log.Warn("failed to invalidate catalog cache", zap.Error(err))
	}

	res := ImportResult{Cubicle: len(src.Cubicle), SCS: len(src.SCS)}
	im.log.Info("pricelist imported", zap.Int("cubicle", res.Cubicle), zap.Int("scs", res.SCS))
	return res, nil
}

func (im *Importer) payload(ctx context.Context, event ImportEvent) ([]byte, error) {
	switch {
	case len(event.Records) > 0:
		if im.fetcher == nil {
			return nil, errors.New("S3 event received but no object fetcher is configured")
		}
		obj := event.Records[0].S3
		// S3 notifications URL-encode object keys.
		key, err := url.QueryUnescape(obj.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("invalid object key %q: %w", obj.Object.Key, err)
		}
		im.log.Info("processing S3 upload", zap.String("bucket", obj.Bucket.Name), zap.String("key", key))
		return im.fetcher.Fetch(ctx, obj.Bucket.Name, key)
	case event.CSVData != "":
		im.log.Info("processing direct CSV payload")
		return []byte(event.CSVData), nil
	default:
		return nil, errors.New("no S3 event record or direct CSV data found in the payload")
	}
}
