package export

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"

	"chat-insights-go/internal/logger"
)

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// Client downloads conversation exports for named views.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTPClient: httpClient}
}

// Fetch retrieves the export for view into destPath. Transient failures are
// retried with exponential backoff; client errors fail immediately. The file
// is written via a temp path so a failed download never leaves a partial
// export behind.
func (c *Client) Fetch(ctx context.Context, view, destPath string) error {
	log := logger.New().WithField("component", "export.client").WithField("view", view)

	if c.BaseURL == "" {
		return fmt.Errorf("export base URL not configured")
	}
	endpoint := fmt.Sprintf("%s/views/%s/export", c.BaseURL, url.PathEscape(view))

	var lastErr error
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			lastErr = fmt.Errorf("server error: %s: %s", resp.Status, body)
			return lastErr
		}
		if resp.StatusCode != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status: %s", resp.Status)
			return backoff.Permanent(lastErr)
		}

		if err := writeAtomic(destPath, resp.Body); err != nil {
			lastErr = err
			return backoff.Permanent(err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		log.WithError(lastErr).Error("export fetch failed")
		if lastErr != nil {
			return fmt.Errorf("fetch view %q: %w", view, lastErr)
		}
		return fmt.Errorf("fetch view %q: %w", view, err)
	}
	log.WithField("dest", destPath).Info("export fetched")
	return nil
}

func writeAtomic(destPath string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".export-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write export: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close export: %w", err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename export: %w", err)
	}
	return nil
}
