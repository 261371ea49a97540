// Package version reports whether a newer catalog release is published.
package version

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const (
	// ReleasesURL is the latest release endpoint of the project
	ReleasesURL  = "https://api.github.com/repos/studiowebux/catalog/releases/latest"
	checkTimeout = 5 * time.Second
)

// Release is a published release
type Release struct {
	Version string `json:"version" yaml:"version"`
	URL     string `json:"url" yaml:"url"`
}

// Status compares the running version with the latest release
type Status struct {
	Current   string  `json:"current" yaml:"current"`
	Latest    Release `json:"latest" yaml:"latest"`
	Available bool    `json:"updateAvailable" yaml:"updateAvailable"`
}

// Checker fetches the latest release
type Checker struct {
	URL  string
	HTTP *http.Client
}

// NewChecker returns a checker for the project releases
func NewChecker() *Checker {
	return &Checker{URL: ReleasesURL, HTTP: &http.Client{Timeout: checkTimeout}}
}

// Check fetches the latest release and compares it with current
func (c *Checker) Check(ctx context.Context, current string) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "catalog/"+current)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body struct {
		TagName string `json:"tag_name"`
		HTMLURL string `json:"html_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	current = strings.TrimPrefix(current, "v")
	latest := Release{Version: strings.TrimPrefix(body.TagName, "v"), URL: body.HTMLURL}
	return &Status{
		Current:   current,
		Latest:    latest,
		Available: latest.Version != "" && Newer(latest.Version, current),
	}, nil
}

// Newer reports whether version a is ahead of b. Pre-release and build
// suffixes are ignored, missing parts count as zero.
func Newer(a, b string) bool {
	pa, pb := numbers(a), numbers(b)
	for i := 0; i < len(pa) || i < len(pb); i++ {
		x, y := at(pa, i), at(pb, i)
		if x != y {
			return x > y
		}
	}
	return false
}

func at(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// numbers splits "1.2.3-beta" into [1 2 3]; parts that are not numbers are
// skipped
func numbers(v string) []int {
	if idx := strings.IndexAny(v, "-+"); idx != -1 {
		v = v[:idx]
	}
	var out []int
	for _, part := range strings.Split(v, ".") {
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}
