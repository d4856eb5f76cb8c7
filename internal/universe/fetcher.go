package universe

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"titan-trader/internal/logger"
)

// Fetcher refreshes the local scrip-master CSV from the exchange mirror.
type Fetcher struct {
	sourceURL string
	timeout   time.Duration
}

func NewFetcher(sourceURL string, timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{sourceURL: sourceURL, timeout: timeout}
}

// Refresh downloads the scrip master and replaces destPath atomically. A
// stale local copy is kept when the download fails or looks malformed.
func (f *Fetcher) Refresh(ctx context.Context, destPath string) error {
	if f.sourceURL == "" {
		return fmt.Errorf("no scrip master source configured")
	}

	c := colly.NewCollector(
		colly.AllowedDomains(hostOf(f.sourceURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	var body []byte
	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})
	c.OnError(func(r *colly.Response, err error) {
		logger.ErrorWithErr(ctx, "Scrip master download failed", err, "url", f.sourceURL)
	})

	if err := c.Visit(f.sourceURL); err != nil {
		return fmt.Errorf("failed to fetch scrip master: %w", err)
	}
	c.Wait()

	if err := validateScripCSV(body); err != nil {
		return fmt.Errorf("rejected scrip master from %s: %w", f.sourceURL, err)
	}

	tmp := destPath + ".tmp"
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("failed to prepare scrip master dir: %w", err)
	}
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return fmt.Errorf("failed to write scrip master: %w", err)
	}
	if err := os.Rename(tmp, destPath); err != nil {
		return fmt.Errorf("failed to replace scrip master: %w", err)
	}

	logger.Info(ctx, "Scrip master refreshed", "path", destPath, "bytes", len(body))
	return nil
}

func validateScripCSV(body []byte) error {
	if len(body) == 0 {
		return fmt.Errorf("empty response")
	}
	header, _, _ := strings.Cut(string(body), "\n")
	if !strings.Contains(strings.ToLower(header), "token") {
		return fmt.Errorf("header %q has no token column", strings.TrimSpace(header))
	}
	return nil
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
