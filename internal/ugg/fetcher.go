// Package ugg fetches build statistics from U.GG and normalizes them into
// build records.
package ugg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"leaguehelper/internal/build"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	patchesURL   = "https://static.bigbrain.gg/assets/lol/riot_patch_update/prod/ugg/patches.json"
	homePageURL  = "https://u.gg"
	statsBaseURL = "https://stats2.u.gg/lol"
	apiVersion   = "1.5"
	statsVersion = "1.5.0"

	// Overview nodes are keyed region -> tier -> role
	overviewWorld    = "12"
	overviewPlatPlus = "10"

	// Key of the versions blob inside the home page's SSR data
	ssrVersionsKey = "https://static.bigbrain.gg/assets/lol/riot_patch_update/prod/versions.json"

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

var ssrDataRe = regexp.MustCompile(`window\.__SSR_DATA__ = (\{.*\})`)

// Fetcher handles U.GG data fetching
type Fetcher struct {
	client       *http.Client
	patchesURL   string
	homePageURL  string
	statsBaseURL string
	logger       *zap.Logger

	mu           sync.RWMutex
	currentPatch string
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithPatchesURL overrides the patch manifest URL
func WithPatchesURL(url string) Option {
	return func(f *Fetcher) { f.patchesURL = url }
}

// WithHomePageURL overrides the home page scraped as a patch fallback
func WithHomePageURL(url string) Option {
	return func(f *Fetcher) { f.homePageURL = url }
}

// WithStatsBaseURL overrides the stats API base URL
func WithStatsBaseURL(url string) Option {
	return func(f *Fetcher) { f.statsBaseURL = url }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = timeout }
}

// NewFetcher creates a new U.GG fetcher
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client:       &http.Client{Timeout: 10 * time.Second},
		patchesURL:   patchesURL,
		homePageURL:  homePageURL,
		statsBaseURL: statsBaseURL,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CurrentPatchVersion returns the newest patch U.GG has data for (e.g. "14_23").
// The patch manifest is tried first, then the home page's embedded data.
// The result is cached for the lifetime of the fetcher.
func (f *Fetcher) CurrentPatchVersion(ctx context.Context) (string, error) {
	f.mu.RLock()
	patch := f.currentPatch
	f.mu.RUnlock()
	if patch != "" {
		return patch, nil
	}

	patch, err := f.patchFromManifest(ctx)
	if err != nil {
		f.logger.Warn("patch manifest unavailable, scraping home page", zap.Error(err))
		patch, err = f.patchFromHomePage(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", build.ErrVersionUnavailable, err)
	}

	f.mu.Lock()
	f.currentPatch = patch
	f.mu.Unlock()

	f.logger.Info("current patch", zap.String("patch", patch))
	return patch, nil
}

// patchFromManifest reads the first entry of the patch manifest
func (f *Fetcher) patchFromManifest(ctx context.Context) (string, error) {
	body, err := f.get(ctx, f.patchesURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var patches []string
	if err := json.NewDecoder(body).Decode(&patches); err != nil {
		return "", fmt.Errorf("failed to parse patches: %w", err)
	}

	if len(patches) == 0 || patches[0] == "" {
		return "", fmt.Errorf("no patches available")
	}

	return patches[0], nil
}

// patchFromHomePage finds the SSR data script and reads its versions list
func (f *Fetcher) patchFromHomePage(ctx context.Context) (string, error) {
	body, err := f.get(ctx, f.homePageURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return "", fmt.Errorf("failed to parse home page: %w", err)
	}

	var blob string
	doc.Find("script").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if m := ssrDataRe.FindStringSubmatch(s.Text()); m != nil {
			blob = m[1]
			return false
		}
		return true
	})
	if blob == "" {
		return "", fmt.Errorf("failed to find SSR data on home page")
	}

	versions, ok := gjson.Parse(blob).Map()[ssrVersionsKey]
	if !ok {
		return "", fmt.Errorf("failed to get patch version data")
	}

	return PatchFromVersion(versions.Get("data.0").String())
}

// PatchFromVersion converts a full version ("14.23.1") into U.GG's
// major_minor patch form ("14_23")
func PatchFromVersion(version string) (string, error) {
	parts := strings.Split(version, ".")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("malformed version %q", version)
	}
	return parts[0] + "_" + parts[1], nil
}

// MatchesVersion reports whether a vendor patch covers a reference data version
func MatchesVersion(patch, version string) bool {
	want, err := PatchFromVersion(version)
	return err == nil && want == patch
}

// RoleNode is the raw overview data for one role of a champion
type RoleNode struct {
	Key  string
	Role build.Role
	Data RoleData
}

// RoleData fetches the overview for a champion and returns one node per role,
// ordered by role key.
func (f *Fetcher) RoleData(ctx context.Context, championKey int, patch string) ([]RoleNode, error) {
	url := fmt.Sprintf("%s/%s/overview/%s/ranked_solo_5x5/%d/%s.json",
		f.statsBaseURL, apiVersion, patch, championKey, statsVersion)

	f.logger.Debug("fetching overview", zap.String("url", url))

	body, err := f.get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch champion data: %w", err)
	}
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", build.ErrTransport, err)
	}
	if !gjson.ValidBytes(raw) {
		return nil, fmt.Errorf("failed to parse champion data: invalid JSON")
	}

	return ParseOverview(raw)
}

// ParseOverview extracts the per-role nodes of an overview document
func ParseOverview(raw []byte) ([]RoleNode, error) {
	roles := gjson.GetBytes(raw, overviewWorld+"."+overviewPlatPlus)
	if !roles.IsObject() {
		return nil, fmt.Errorf("no build data found")
	}

	var nodes []RoleNode
	roles.ForEach(func(key, value gjson.Result) bool {
		k, err := strconv.Atoi(key.String())
		if err != nil {
			k = -1
		}
		nodes = append(nodes, RoleNode{
			Key:  key.String(),
			Role: build.RoleFromKey(k),
			Data: RoleData{node: value},
		})
		return true
	})

	if len(nodes) == 0 {
		return nil, fmt.Errorf("no build data found")
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Key < nodes[j].Key
	})
	return nodes, nil
}

// get performs a GET with browser-like headers and returns the body on 200
func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", build.ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: U.GG returned status %d", build.ErrTransport, resp.StatusCode)
	}

	return resp.Body, nil
}
