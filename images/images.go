// Package images fetches the placeholder pictures the sample catalog refers to.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Samples maps an image name to its placeholder URL. The names match the
// image paths written by the catalog seed.
var Samples = map[string]string{
	"smartphone": "https://via.placeholder.com/400x400/007bff/ffffff?text=Smartphone",
	"laptop":     "https://via.placeholder.com/400x400/28a745/ffffff?text=Laptop",
	"headphones": "https://via.placeholder.com/400x400/dc3545/ffffff?text=Headphones",
	"tshirt":     "https://via.placeholder.com/400x400/ffc107/000000?text=T-Shirt",
	"dress":      "https://via.placeholder.com/400x400/17a2b8/ffffff?text=Dress",
	"shoes":      "https://via.placeholder.com/400x400/6f42c1/ffffff?text=Shoes",
	"tools":      "https://via.placeholder.com/400x400/fd7e14/ffffff?text=Tools",
	"book":       "https://via.placeholder.com/400x400/20c997/ffffff?text=Book",
}

const (
	requestTimeout = 10 * time.Second
	maxParallel    = 4
)

type Downloader struct {
	client *http.Client
	dir    string
}

func NewDownloader(dir string) *Downloader {
	return &Downloader{client: &http.Client{Timeout: requestTimeout}, dir: dir}
}

// Result lists which images were saved and which failed.
type Result struct {
	Saved  []string
	Failed []string
}

// Download saves each source as <dir>/<name>.jpg. A failed image is logged
// and recorded; it does not stop the others.
func (d *Downloader) Download(ctx context.Context, sources map[string]string) (*Result, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	logger := zerolog.Ctx(ctx)

	var (
		mu  sync.Mutex
		res Result
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)
	for name, url := range sources {
		g.Go(func() error {
			path := filepath.Join(d.dir, name+".jpg")
			err := d.fetch(ctx, url, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				logger.Warn().Err(err).Str("image", name).Msg("download failed")
				res.Failed = append(res.Failed, name)
				return nil
			}
			logger.Info().Str("file", path).Msg("downloaded")
			res.Saved = append(res.Saved, name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(res.Saved)
	sort.Strings(res.Failed)
	return &res, nil
}

func (d *Downloader) fetch(ctx context.Context, url, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
