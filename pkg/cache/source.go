package cache

import (
	"context"
	"log/slog"

	"fwbrowse/pkg/catalog"
)

// Fetcher is the upstream the caching layer wraps. *catalog.Client
// satisfies it.
type Fetcher interface {
	Devices(ctx context.Context) ([]catalog.Entry, error)
	Firmwares(ctx context.Context, device string) ([]catalog.Entry, error)
	Dataset(ctx context.Context, device, firmware, name string) ([]byte, error)
}

// Source caches dataset fetches through a Store. Catalog listings are
// never cached: they are small and staleness would hide new releases.
type Source struct {
	Fetcher Fetcher
	Store   *Store
}

func (s *Source) Devices(ctx context.Context) ([]catalog.Entry, error) {
	return s.Fetcher.Devices(ctx)
}

func (s *Source) Firmwares(ctx context.Context, device string) ([]catalog.Entry, error) {
	return s.Fetcher.Firmwares(ctx, device)
}

func (s *Source) Dataset(ctx context.Context, device, firmware, name string) ([]byte, error) {
	if doc, ok := s.Store.Load(device, firmware, name); ok {
		slog.Debug("Dataset served from cache", "device", device, "firmware", firmware, "dataset", name)
		return doc, nil
	}

	doc, err := s.Fetcher.Dataset(ctx, device, firmware, name)
	if err != nil {
		return nil, err
	}
	if err := s.Store.Save(device, firmware, name, doc); err != nil {
		slog.Warn("Failed to cache dataset", "dataset", name, "error", err)
	}
	return doc, nil
}
