package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/tidwall/gjson"

	"bods-validate/internal/ports"
	"bods-validate/internal/shared"
)

const (
	DefaultOrgIDURL           = "https://org-id.guide/download.json"
	defaultPrefixFetchTimeout = 30 * time.Second
	cacheDateLayout           = "2006-01-02"
)

// PrefixListAdapter provides the org-id list codes.  A cache file written on
// the current day is used as is; otherwise the list is downloaded once and
// the cache rewritten.  The result is kept for the adapter's lifetime.
type PrefixListAdapter struct {
	Fs        afero.Fs
	CachePath string
	URL       string
	Timeout   time.Duration
	Now       func() time.Time

	mu       sync.Mutex
	prefixes map[string]struct{}
}

type prefixCache struct {
	Downloaded string   `json:"downloaded"`
	Codes      []string `json:"codes"`
}

// NewPrefixListAdapter builds an adapter.  An empty cachePath disables the
// cache and an empty url selects the public org-id list.
func NewPrefixListAdapter(fs afero.Fs, cachePath, url string, timeoutSec int, now func() time.Time) *PrefixListAdapter {
	if url == "" {
		url = DefaultOrgIDURL
	}
	timeout := defaultPrefixFetchTimeout
	if timeoutSec > 0 {
		timeout = time.Duration(timeoutSec) * time.Second
	}
	if now == nil {
		now = time.Now
	}
	return &PrefixListAdapter{
		Fs:        fs,
		CachePath: cachePath,
		URL:       url,
		Timeout:   timeout,
		Now:       now,
	}
}

func (a *PrefixListAdapter) Prefixes(ctx context.Context) (map[string]struct{}, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.prefixes != nil {
		return a.prefixes, nil
	}

	today := a.Now().UTC().Format(cacheDateLayout)
	if codes, ok := a.readCache(ctx, today); ok {
		a.prefixes = codeSet(codes)
		log.Ctx(ctx).Debug().
			Str("path", a.CachePath).
			Int("codes", len(a.prefixes)).
			Msg("org-id prefixes loaded from cache")
		return a.prefixes, nil
	}

	codes, err := a.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.writeCache(today, codes); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("path", a.CachePath).Msg("org-id cache not written")
	}
	a.prefixes = codeSet(codes)
	log.Ctx(ctx).Debug().
		Str("url", a.URL).
		Int("codes", len(a.prefixes)).
		Msg("org-id prefixes downloaded")
	return a.prefixes, nil
}

func (a *PrefixListAdapter) readCache(ctx context.Context, today string) ([]string, bool) {
	if a.CachePath == "" {
		return nil, false
	}
	data, err := afero.ReadFile(a.Fs, a.CachePath)
	if err != nil {
		return nil, false
	}
	if !gjson.ValidBytes(data) {
		log.Ctx(ctx).Warn().Str("path", a.CachePath).Msg("org-id cache is not valid JSON, ignoring it")
		return nil, false
	}
	cache := gjson.ParseBytes(data)
	if cache.Get("downloaded").String() != today {
		return nil, false
	}
	var codes []string
	for _, code := range cache.Get("codes").Array() {
		if code.Type == gjson.String {
			codes = append(codes, code.Str)
		}
	}
	return codes, true
}

func (a *PrefixListAdapter) fetch(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.URL, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create org-id list request").
			WithCause(err)
	}
	client := &http.Client{Timeout: a.Timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("org-id list download failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("org-id list download failed").
			WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		cause := shared.HTTPStatusError(resp.StatusCode, a.URL)
		if len(body) > 0 {
			cause = shared.HTTPStatusErrorWithBody(resp.StatusCode, a.URL, string(body))
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("org-id list download failed").
			WithCause(cause)
	}
	if !gjson.ValidBytes(body) {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("org-id list is not valid JSON: " + a.URL)
	}

	var codes []string
	for _, code := range gjson.GetBytes(body, "lists.#.code").Array() {
		if code.Type == gjson.String && code.Str != "" {
			codes = append(codes, code.Str)
		}
	}
	return codes, nil
}

// writeCache replaces the cache file through a temporary file and a rename,
// so readers never see a partial cache.
func (a *PrefixListAdapter) writeCache(today string, codes []string) error {
	if a.CachePath == "" {
		return nil
	}
	data, err := json.Marshal(prefixCache{Downloaded: today, Codes: codes})
	if err != nil {
		return err
	}
	dir := filepath.Dir(a.CachePath)
	if err := a.Fs.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := afero.TempFile(a.Fs, dir, ".org-id-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = a.Fs.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = a.Fs.Remove(tmp.Name())
		return err
	}
	return a.Fs.Rename(tmp.Name(), a.CachePath)
}

func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if normalized := shared.NormalizeCode(code); normalized != "" {
			set[normalized] = struct{}{}
		}
	}
	return set
}

var _ ports.PrefixListPort = (*PrefixListAdapter)(nil)
