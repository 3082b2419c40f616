package names

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	entries []Entry
	err     error
}

func (s *stubSource) Name() string { return "stub" }

func (s *stubSource) FetchAll(ctx context.Context) ([]Entry, error) {
	return s.entries, s.err
}

func TestCacheNotLoadedPassthrough(t *testing.T) {
	c := NewCache()
	assert.False(t, c.Loaded())
	// Before the first load every lookup degrades to normalized passthrough.
	assert.Equal(t, "ifrit", c.Current().Resolve("Ifrit"))
}

func TestRefreshSwapsWholesale(t *testing.T) {
	c := NewCache()
	src := &stubSource{entries: []Entry{{Key: "ifrit", Label: "Ifrit"}}}
	r := NewRefresher(src, c, 0)

	require.NoError(t, r.Refresh(context.Background()))
	assert.True(t, c.Loaded())
	assert.Equal(t, "Ifrit", c.Current().Resolve("ifrit"))

	src.entries = []Entry{{Key: "ifrit", Label: "Ifrit HL"}}
	require.NoError(t, r.Refresh(context.Background()))
	assert.Equal(t, "Ifrit HL", c.Current().Resolve("ifrit"))
}

func TestRefreshFailureDegradesToEmpty(t *testing.T) {
	c := NewCache()
	src := &stubSource{err: errors.New("feed down")}
	r := NewRefresher(src, c, 0)

	assert.Error(t, r.Refresh(context.Background()))
	// Degraded, but loaded and serving passthrough.
	assert.True(t, c.Loaded())
	assert.Equal(t, 0, c.Current().Len())
}

func TestRefreshFailureKeepsLastGoodDictionary(t *testing.T) {
	c := NewCache()
	src := &stubSource{entries: []Entry{{Key: "ifrit", Label: "Ifrit"}}}
	r := NewRefresher(src, c, 0)
	require.NoError(t, r.Refresh(context.Background()))

	src.entries = nil
	src.err = errors.New("feed down")
	assert.Error(t, r.Refresh(context.Background()))
	assert.Equal(t, "Ifrit", c.Current().Resolve("ifrit"))
}

func TestCSVFeedFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("raw_label,canonical_label,series\nifrit,Ifrit,standard\n,missing raw,\nbaha,Bahamut,\n"))
	}))
	defer srv.Close()

	feed := NewCSVFeed(srv.URL)
	entries, err := feed.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Entry{Key: "ifrit", Label: "Ifrit", Series: "standard"}, entries[0])
	assert.Equal(t, Entry{Key: "baha", Label: "Bahamut"}, entries[1])
}

func TestCSVFeedBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewCSVFeed(srv.URL).FetchAll(context.Background())
	assert.Error(t, err)
}
