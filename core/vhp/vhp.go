// Package vhp downloads the Vulnerability History Project records used by the study.
package vhp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/huangsam/utilstudy/internal/contract"
)

// ErrUnexpectedStatus is returned when the API answers with anything but 200.
var ErrUnexpectedStatus = errors.New("unexpected status from VHP API")

// Output files written by Collect, relative to the output directory.
const (
	ProjectsFile        = "project_details.json"
	OffendersFile       = "offender_files.json"
	VulnerabilitiesFile = "vulnerabilities_list.json"
	TagsFile            = "tag_mapping.json"
	EventsDir           = "event_data"
)

// cacheVersion is bumped when the cached body format changes.
const cacheVersion = 1

// Events are fetched one at a time unless Workers is raised.
const defaultWorkers = 1

// Client fetches raw VHP responses, optionally through a response cache.
// Cache calls are serialized, so a single SQLite connection is never shared
// by two event downloads at once.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Cache   contract.CacheStore // nil disables caching
	Workers int                 // concurrent event downloads
	Now     func() time.Time

	cacheMu sync.Mutex
}

// NewClient returns a client for baseURL with a 30 second request timeout.
func NewClient(baseURL string, cache contract.CacheStore) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Cache:   cache,
		Workers: defaultWorkers,
		Now:     time.Now,
	}
}

// Get returns the body of GET BaseURL/path?query. Cached bodies are served without a request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := c.BaseURL + "/" + strings.TrimPrefix(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if body, ok := c.cached(u); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, u, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", u, err)
	}

	c.store(u, body)
	return body, nil
}

func (c *Client) cached(u string) ([]byte, bool) {
	if c.Cache == nil {
		return nil, false
	}
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	body, version, _, err := c.Cache.Get(u)
	return body, err == nil && version == cacheVersion
}

func (c *Client) store(u string, body []byte) {
	if c.Cache == nil {
		return
	}
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	if err := c.Cache.Set(u, body, cacheVersion, c.now().Unix()); err != nil {
		contract.LogWarn("Failed to cache VHP response", err)
	}
}

func (c *Client) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

// Summary counts what Collect wrote.
type Summary struct {
	Files  int
	Events int
}

// Collect downloads every record set into outDir. Bodies are written verbatim.
func (c *Client) Collect(ctx context.Context, outDir string) (Summary, error) {
	var summary Summary
	if err := os.MkdirAll(filepath.Join(outDir, EventsDir), 0o755); err != nil {
		return summary, fmt.Errorf("failed to create output directory: %w", err)
	}

	listings := []struct {
		path  string
		query url.Values
		file  string
	}{
		{"projects", nil, ProjectsFile},
		{"filepaths", url.Values{"offenders": {"true"}}, OffendersFile},
		{"vulnerabilities", nil, VulnerabilitiesFile},
		{"tags", nil, TagsFile},
	}

	var vulnsBody []byte
	for _, l := range listings {
		body, err := c.Get(ctx, l.path, l.query)
		if err != nil {
			return summary, err
		}
		if err := os.WriteFile(filepath.Join(outDir, l.file), body, 0o644); err != nil {
			return summary, fmt.Errorf("failed to write %s: %w", l.file, err)
		}
		summary.Files++
		if l.file == VulnerabilitiesFile {
			vulnsBody = body
		}
	}

	cves, err := parseCVEs(vulnsBody)
	if err != nil {
		return summary, err
	}

	n, err := c.collectEvents(ctx, filepath.Join(outDir, EventsDir), cves)
	summary.Events = n
	return summary, err
}

// parseCVEs extracts the cve field of every vulnerability entry.
func parseCVEs(body []byte) ([]string, error) {
	var entries []struct {
		CVE string `json:"cve"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse vulnerability list: %w", err)
	}
	cves := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.CVE != "" {
			cves = append(cves, e.CVE)
		}
	}
	return cves, nil
}

// collectEvents fetches vulnerabilities/<cve>/events with a worker pool.
// It returns the number of files written and the first error seen.
func (c *Client) collectEvents(ctx context.Context, dir string, cves []string) (int, error) {
	workers := c.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}

	cveCh := make(chan string, len(cves))
	errCh := make(chan error, len(cves))
	var wg sync.WaitGroup

	for range workers {
		wg.Go(func() {
			for cve := range cveCh {
				body, err := c.Get(ctx, "vulnerabilities/"+url.PathEscape(cve)+"/events", nil)
				if err == nil {
					err = os.WriteFile(filepath.Join(dir, cve+".json"), body, 0o644)
				}
				errCh <- err
			}
		})
	}

	for _, cve := range cves {
		cveCh <- cve
	}
	close(cveCh)
	wg.Wait()
	close(errCh)

	written := 0
	var firstErr error
	for err := range errCh {
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		written++
	}
	return written, firstErr
}
