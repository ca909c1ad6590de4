package images

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	placeholder := filepath.Join(dir, "placeholder.png")
	require.NoError(t, os.WriteFile(placeholder, []byte("placeholder-bytes"), 0o644))

	clk := testclock.NewClock(time.Unix(1700000000, 0))
	store, err := NewStore(filepath.Join(dir, "products"), placeholder, clk)
	require.NoError(t, err)
	return store, dir
}

func TestSaveAndServe(t *testing.T) {
	store, _ := newTestStore(t)

	url, err := store.Save("p1", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "/images/products/p1?t=1700000000", url)

	rec := httptest.NewRecorder()
	store.ServeProduct(rec, httptest.NewRequest(http.MethodGet, "/images/products/p1", nil), "p1")
	assert.Equal(t, "image-bytes", rec.Body.String())
}

func TestMissingImageServesPlaceholder(t *testing.T) {
	store, _ := newTestStore(t)

	rec := httptest.NewRecorder()
	store.ServeProduct(rec, httptest.NewRequest(http.MethodGet, "/images/products/nope", nil), "nope")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "placeholder-bytes", rec.Body.String())
}

func TestPathTraversalIsStripped(t *testing.T) {
	store, dir := newTestStore(t)

	_, err := store.Save("../escape", strings.NewReader("x"))
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "escape"))
	assert.True(t, os.IsNotExist(statErr))
}
