// Package images stores product images on disk and serves them with a static
// placeholder substituted for anything missing or unreadable.
package images

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/juju/clock"
)

type Store struct {
	dir         string
	placeholder string
	clock       clock.Clock
}

func NewStore(dir, placeholder string, clk clock.Clock) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &Store{dir: dir, placeholder: placeholder, clock: clk}, nil
}

// Save writes the uploaded image for a product and returns its public path.
func (s *Store) Save(productID string, r io.Reader) (string, error) {
	f, err := os.Create(s.path(productID))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return s.URL(productID), nil
}

// URL returns the serving path with a cache-busting timestamp parameter, so
// a re-uploaded image is not shadowed by intermediary caches.
func (s *Store) URL(productID string) string {
	return fmt.Sprintf("/images/products/%s?t=%d", productID, s.clock.Now().Unix())
}

// ServeProduct writes the product's image, or the placeholder when the image
// is missing. There is no retry; a broken image always degrades to the
// placeholder.
func (s *Store) ServeProduct(w http.ResponseWriter, r *http.Request, productID string) {
	path := s.path(productID)
	if _, err := os.Stat(path); err != nil {
		http.ServeFile(w, r, s.placeholder)
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Store) Remove(productID string) error {
	err := os.Remove(s.path(productID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) path(productID string) string {
	// Base strips any path separators an attacker smuggles into the id.
	return filepath.Join(s.dir, filepath.Base(productID))
}
