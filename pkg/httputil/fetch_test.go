package httputil

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/tierlist/pkg/cache"
	terrors "github.com/matzehuels/tierlist/pkg/errors"
)

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type coverServer struct {
	*httptest.Server
	calls atomic.Int32
}

func newCoverServer(t *testing.T, handler http.HandlerFunc) *coverServer {
	t.Helper()
	s := &coverServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(s.Close)
	return s
}

func newTestFetcher(t *testing.T, opts ...Option) (*Fetcher, *cache.Store) {
	t.Helper()
	store, err := cache.NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewFetcher(store, opts...), store
}

func TestFetchCoverEmptyURL(t *testing.T) {
	f, store := newTestFetcher(t)
	cover := f.FetchCover(context.Background(), "", "alice")
	if cover.Available() || cover.Source != SourceUnavailable {
		t.Fatalf("empty URL should be unavailable, got %+v", cover)
	}
	if cover.Reason != nil {
		t.Errorf("empty URL is a no-op, Reason = %v", cover.Reason)
	}
	if stats, _ := store.Stats(); len(stats) != 0 {
		t.Errorf("empty URL should not touch the cache: %+v", stats)
	}
}

func TestFetchCoverCachesOnce(t *testing.T) {
	body := pngBytes(t, 4, 6, color.NRGBA{R: 200, G: 10, B: 30, A: 255})
	srv := newCoverServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	})
	f, store := newTestFetcher(t)
	ctx := context.Background()
	url := srv.URL + "/b1.png"

	first := f.FetchCover(ctx, url, "alice")
	second := f.FetchCover(ctx, url, "alice")

	if got := srv.calls.Load(); got != 1 {
		t.Errorf("network calls = %d, want 1", got)
	}
	if first.Source != SourceNetwork || second.Source != SourceCache {
		t.Errorf("sources = %v, %v; want fetched, cached", first.Source, second.Source)
	}
	if !bytes.Equal(first.Image.Pix, second.Image.Pix) || first.Image.Rect != second.Image.Rect {
		t.Error("cached decode should be pixel-identical to the fetched one")
	}
	if !store.Exists(store.PathFor(url, "alice")) {
		t.Error("cover should be cached under the namespace")
	}

	// Another namespace does not share the entry.
	f.FetchCover(ctx, url, "bob")
	if got := srv.calls.Load(); got != 2 {
		t.Errorf("network calls after second namespace = %d, want 2", got)
	}
}

func TestFetchCoverReturnsIndependentCopy(t *testing.T) {
	body := pngBytes(t, 2, 2, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	srv := newCoverServer(t, func(w http.ResponseWriter, r *http.Request) { w.Write(body) })
	f, _ := newTestFetcher(t)
	ctx := context.Background()

	first := f.FetchCover(ctx, srv.URL+"/c.png", "")
	first.Image.Pix[0] = 99

	second := f.FetchCover(ctx, srv.URL+"/c.png", "")
	if second.Image.Pix[0] != 10 {
		t.Errorf("mutating one cover leaked into the next decode: %d", second.Image.Pix[0])
	}
}

func TestFetchCoverFailures(t *testing.T) {
	notFound := newCoverServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	garbage := newCoverServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not an image</html>"))
	})
	slow := newCoverServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name   string
		url    string
		check  func(t *testing.T, reason error)
		cached bool
	}{
		{
			name: "404",
			url:  notFound.URL + "/b2.jpg",
			check: func(t *testing.T, reason error) {
				var se *StatusError
				if !errors.As(reason, &se) || se.StatusCode != http.StatusNotFound {
					t.Errorf("reason = %v, want StatusError 404", reason)
				}
			},
		},
		{
			name: "connection refused",
			url:  closedURL + "/b3.jpg",
			check: func(t *testing.T, reason error) {
				if !terrors.Is(reason, terrors.ErrCodeNetwork) {
					t.Errorf("reason = %v, want NETWORK_ERROR", reason)
				}
			},
		},
		{
			name: "timeout",
			url:  slow.URL + "/slow.jpg",
			check: func(t *testing.T, reason error) {
				if !errors.Is(reason, context.DeadlineExceeded) {
					t.Errorf("reason = %v, want deadline exceeded", reason)
				}
			},
		},
		{
			name:   "undecodable body",
			url:    garbage.URL + "/x.jpg",
			cached: true,
		},
		{
			name: "unsupported scheme",
			url:  "file:///etc/passwd",
			check: func(t *testing.T, reason error) {
				if !terrors.Is(reason, terrors.ErrCodeInvalidInput) {
					t.Errorf("reason = %v, want INVALID_INPUT", reason)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, store := newTestFetcher(t, WithTimeout(50*time.Millisecond))
			cover := f.FetchCover(context.Background(), tt.url, "ns")
			if cover.Available() || cover.Image != nil {
				t.Fatalf("expected unavailable cover, got %+v", cover)
			}
			if cover.Reason == nil {
				t.Fatal("unavailable cover should carry a reason")
			}
			if tt.check != nil {
				tt.check(t, cover.Reason)
			}
			if got := store.Exists(store.PathFor(tt.url, "ns")); got != tt.cached {
				t.Errorf("cache entry exists = %v, want %v", got, tt.cached)
			}
		})
	}
}

func TestFetchCoverCorruptCacheFallsThrough(t *testing.T) {
	body := pngBytes(t, 3, 3, color.NRGBA{G: 255, A: 255})
	srv := newCoverServer(t, func(w http.ResponseWriter, r *http.Request) { w.Write(body) })
	f, store := newTestFetcher(t)
	ctx := context.Background()
	url := srv.URL + "/b1.png"

	path := store.PathFor(url, "alice")
	if err := store.Write(ctx, path, []byte("corrupt")); err != nil {
		t.Fatal(err)
	}

	cover := f.FetchCover(ctx, url, "alice")
	if cover.Source != SourceNetwork {
		t.Fatalf("corrupt cache should fall through to the network, got %v (%v)", cover.Source, cover.Reason)
	}
	data, _ := os.ReadFile(path)
	if !bytes.Equal(data, body) {
		t.Error("cache entry should be overwritten with the downloaded bytes")
	}
}

func TestFetchCoverCacheWriteFailure(t *testing.T) {
	body := pngBytes(t, 3, 3, color.White)
	srv := newCoverServer(t, func(w http.ResponseWriter, r *http.Request) { w.Write(body) })
	f, store := newTestFetcher(t)
	url := srv.URL + "/b1.png"

	nsDir := filepath.Dir(store.PathFor(url, "alice"))
	if err := os.WriteFile(nsDir, []byte("not a dir"), 0o644); err != nil {
		t.Fatal(err)
	}

	cover := f.FetchCover(context.Background(), url, "alice")
	if cover.Available() {
		t.Error("cache write failure should degrade to an unavailable cover")
	}
}

func TestDecodeRGBDropsAlpha(t *testing.T) {
	data := pngBytes(t, 1, 1, color.NRGBA{R: 50, G: 60, B: 70, A: 0})
	img, err := DecodeRGB(data)
	if err != nil {
		t.Fatal(err)
	}
	if img.Pix[3] != 0xff {
		t.Errorf("alpha = %d, want 255", img.Pix[3])
	}
	if _, err := DecodeRGB([]byte("nope")); err == nil {
		t.Error("DecodeRGB should reject non-image bytes")
	}
}

func TestSourceString(t *testing.T) {
	for s, want := range map[Source]string{
		SourceUnavailable: "unavailable",
		SourceCache:       "cached",
		SourceNetwork:     "fetched",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", s, s.String(), want)
		}
	}
}
