package adapters

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

var prefixToday = time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return prefixToday }

func orgIDServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

const orgIDList = `{"lists":[{"code":"GB-COH","name":{"en":"Companies House"}},{"code":"US-EIN"},{"name":"no code"}]}`

func TestPrefixListDownloadsOnCacheMiss(t *testing.T) {
	server, hits := orgIDServer(t, http.StatusOK, orgIDList)
	fs := afero.NewMemMapFs()
	adapter := NewPrefixListAdapter(fs, "/cache/org-id.json", server.URL, 5, fixedClock)

	prefixes, err := adapter.Prefixes(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]struct{}{"GB-COH": {}, "US-EIN": {}}, prefixes); diff != "" {
		t.Fatalf("unexpected prefixes (-want +got):\n%s", diff)
	}

	cache, err := afero.ReadFile(fs, "/cache/org-id.json")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", gjson.GetBytes(cache, "downloaded").String())
	assert.Len(t, gjson.GetBytes(cache, "codes").Array(), 2)

	_, err = adapter.Prefixes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	entries, err := afero.ReadDir(fs, "/cache")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary cache file left behind")
}

func TestPrefixListUsesFreshCache(t *testing.T) {
	server, hits := orgIDServer(t, http.StatusOK, orgIDList)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/org-id.json",
		[]byte(`{"downloaded":"2024-06-01","codes":["XI-LEI"]}`), 0644))

	prefixes, err := NewPrefixListAdapter(fs, "/cache/org-id.json", server.URL, 5, fixedClock).
		Prefixes(context.Background())
	require.NoError(t, err)
	if diff := cmp.Diff(map[string]struct{}{"XI-LEI": {}}, prefixes); diff != "" {
		t.Fatalf("unexpected prefixes (-want +got):\n%s", diff)
	}
	assert.Zero(t, atomic.LoadInt32(hits))
}

func TestPrefixListRefreshesStaleCache(t *testing.T) {
	server, hits := orgIDServer(t, http.StatusOK, orgIDList)
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cache/org-id.json",
		[]byte(`{"downloaded":"2024-05-31","codes":["XI-LEI"]}`), 0644))

	prefixes, err := NewPrefixListAdapter(fs, "/cache/org-id.json", server.URL, 5, fixedClock).
		Prefixes(context.Background())
	require.NoError(t, err)
	assert.Contains(t, prefixes, "GB-COH")
	assert.NotContains(t, prefixes, "XI-LEI")
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	cache, err := afero.ReadFile(fs, "/cache/org-id.json")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01", gjson.GetBytes(cache, "downloaded").String())
}

func TestPrefixListFetchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "down"},
		{name: "not json", status: http.StatusOK, body: "<html>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := orgIDServer(t, tt.status, tt.body)
			fs := afero.NewMemMapFs()
			_, err := NewPrefixListAdapter(fs, "/cache/org-id.json", server.URL, 5, fixedClock).
				Prefixes(context.Background())
			require.Error(t, err)
			assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))

			exists, _ := afero.Exists(fs, "/cache/org-id.json")
			assert.False(t, exists)
		})
	}
}

func TestPrefixListWithoutCache(t *testing.T) {
	server, hits := orgIDServer(t, http.StatusOK, orgIDList)

	prefixes, err := NewPrefixListAdapter(afero.NewMemMapFs(), "", server.URL, 0, fixedClock).
		Prefixes(context.Background())
	require.NoError(t, err)
	assert.Len(t, prefixes, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestNewPrefixListAdapterDefaults(t *testing.T) {
	adapter := NewPrefixListAdapter(afero.NewMemMapFs(), "", "", 0, nil)
	assert.Equal(t, DefaultOrgIDURL, adapter.URL)
	assert.Equal(t, defaultPrefixFetchTimeout, adapter.Timeout)
	assert.NotNil(t, adapter.Now)
}
