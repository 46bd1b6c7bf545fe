package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fwbrowse/pkg/catalog"
)

func TestStore_RoundTrip(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	doc := []byte(`{"actions":[]}`)
	require.NoError(t, store.Save("m4g_s3", "3.0.0-gamma.1", "actions.json", doc))

	got, ok := store.Load("m4g_s3", "3.0.0-gamma.1", "actions.json")
	require.True(t, ok)
	assert.Equal(t, doc, got)
}

func TestStore_MissOnUnknownPath(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Load("m4g_s3", "3.0.0-gamma.1", "actions.json")
	assert.False(t, ok)
}

func TestStore_ChecksumMismatchIsMiss(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("m4g_s3", "3.0.0-gamma.1", "actions.json", []byte("original")))

	// Corrupt the cached document behind the store's back.
	base := filepath.Join(store.Dir, Key("m4g_s3", "3.0.0-gamma.1", "actions.json"))
	require.NoError(t, os.WriteFile(base, []byte("tampered"), 0644))

	_, ok := store.Load("m4g_s3", "3.0.0-gamma.1", "actions.json")
	assert.False(t, ok)
}

func TestKey_StableAndDistinct(t *testing.T) {
	assert.Equal(t,
		Key("m4g_s3", "3.0.0-gamma.1", "actions.json"),
		Key("m4g_s3", "3.0.0-gamma.1", "actions.json"))
	assert.NotEqual(t,
		Key("m4g_s3", "3.0.0-gamma.1", "actions.json"),
		Key("m4g_s3", "2.1.0", "actions.json"))
}

// countingFetcher implements Fetcher and counts dataset fetches.
type countingFetcher struct {
	doc          []byte
	datasetCalls int
}

func (f *countingFetcher) Devices(ctx context.Context) ([]catalog.Entry, error) {
	return nil, nil
}

func (f *countingFetcher) Firmwares(ctx context.Context, device string) ([]catalog.Entry, error) {
	return nil, nil
}

func (f *countingFetcher) Dataset(ctx context.Context, device, firmware, name string) ([]byte, error) {
	f.datasetCalls++
	return f.doc, nil
}

func TestSource_DatasetCachedAfterFirstFetch(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	fetcher := &countingFetcher{doc: []byte(`{"actions":[]}`)}
	source := &Source{Fetcher: fetcher, Store: store}

	ctx := context.Background()
	first, err := source.Dataset(ctx, "m4g_s3", "3.0.0-gamma.1", "actions.json")
	require.NoError(t, err)
	second, err := source.Dataset(ctx, "m4g_s3", "3.0.0-gamma.1", "actions.json")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, fetcher.datasetCalls, "second read must come from cache")
}

func TestSource_DistinctDatasetsFetchedSeparately(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	fetcher := &countingFetcher{doc: []byte(`{}`)}
	source := &Source{Fetcher: fetcher, Store: store}

	ctx := context.Background()
	_, err = source.Dataset(ctx, "m4g_s3", "3.0.0-gamma.1", "actions.json")
	require.NoError(t, err)
	_, err = source.Dataset(ctx, "m4g_s3", "3.0.0-gamma.1", "layout.json")
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.datasetCalls)
}
