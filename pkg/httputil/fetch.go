package httputil

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tierlist/pkg/cache"
	terrors "github.com/matzehuels/tierlist/pkg/errors"
	"github.com/matzehuels/tierlist/pkg/observability"
)

const (
	// DefaultTimeout bounds a single cover download.
	DefaultTimeout = 8 * time.Second

	// DefaultUserAgent is sent with every cover request.
	DefaultUserAgent = "tierlist/1.0 (+cover fetcher)"

	// maxCoverBytes caps the body size read from a cover host.
	maxCoverBytes = 20 << 20
)

// Source tells where a cover came from.
type Source int

const (
	SourceUnavailable Source = iota // No image; render a fallback tile
	SourceCache                     // Decoded from the namespace cache
	SourceNetwork                   // Downloaded and cached during this call
)

// String returns the lowercase source name used in logs and metrics.
func (s Source) String() string {
	switch s {
	case SourceCache:
		return "cached"
	case SourceNetwork:
		return "fetched"
	default:
		return "unavailable"
	}
}

// Cover is the outcome of a cover fetch. Image is non-nil exactly when
// Source is not SourceUnavailable. Reason explains an unavailable cover and
// is nil when no URL was given.
type Cover struct {
	Image  *image.NRGBA
	Source Source
	Reason error
}

// Available reports whether the cover holds a decoded image.
func (c Cover) Available() bool { return c.Source != SourceUnavailable && c.Image != nil }

func unavailable(reason error) Cover { return Cover{Source: SourceUnavailable, Reason: reason} }

// StatusError reports a non-2xx response from a cover host.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d", e.URL, e.StatusCode)
}

// Fetcher downloads covers through a cache.Store. It is safe for concurrent
// use; each FetchCover call is independent.
type Fetcher struct {
	store     *cache.Store
	client    *http.Client
	timeout   time.Duration
	userAgent string
	logger    *log.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-download timeout (default 8s).
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithClient replaces the HTTP client.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for per-cover diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		if l != nil {
			f.logger = l
		}
	}
}

// NewFetcher creates a Fetcher backed by store.
func NewFetcher(store *cache.Store, opts ...Option) *Fetcher {
	f := &Fetcher{
		store:     store,
		client:    &http.Client{},
		timeout:   DefaultTimeout,
		userAgent: DefaultUserAgent,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FetchCover resolves rawURL to a decoded image using the cache of
// namespace ("" is the shared namespace). It never fails: problems are
// reported through an unavailable Cover.
func (f *Fetcher) FetchCover(ctx context.Context, rawURL, namespace string) Cover {
	if rawURL == "" {
		return unavailable(nil)
	}
	if err := terrors.ValidateURL(rawURL); err != nil {
		f.logger.Debug("skipping cover", "url", rawURL, "err", err)
		return unavailable(err)
	}

	path := f.store.PathFor(rawURL, namespace)
	if f.store.Exists(path) {
		img, err := f.readCached(ctx, path)
		if err == nil {
			return Cover{Image: img, Source: SourceCache}
		}
		f.logger.Debug("cached cover unusable, refetching", "path", path, "err", err)
	} else {
		observability.Cache().OnCacheMiss(ctx, "cover")
	}

	data, err := f.download(ctx, rawURL)
	if err != nil {
		f.logger.Warn("cover download failed", "url", rawURL, "err", err)
		return unavailable(err)
	}
	if err := f.store.Write(ctx, path, data); err != nil {
		f.logger.Warn("cover cache write failed", "path", path, "err", err)
		return unavailable(err)
	}
	img, err := DecodeRGB(data)
	if err != nil {
		f.logger.Warn("cover decode failed", "url", rawURL, "err", err)
		return unavailable(fmt.Errorf("decode %s: %w", rawURL, err))
	}
	return Cover{Image: img, Source: SourceNetwork}
}

func (f *Fetcher) readCached(ctx context.Context, path string) (*image.NRGBA, error) {
	data, err := f.store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return DecodeRGB(data)
}

// download performs exactly one GET and returns the whole body.
func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	host, path := splitURL(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeInvalidInput, err, "build request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "image/*")

	observability.HTTP().OnRequest(ctx, req.Method, host, path)
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, host, path, err)
		return nil, terrors.Wrap(terrors.ErrCodeNetwork, err, "GET %s", rawURL)
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCoverBytes+1))
	if err != nil {
		return nil, terrors.Wrap(terrors.ErrCodeNetwork, err, "read body of %s", rawURL)
	}
	if len(data) > maxCoverBytes {
		return nil, errors.New("cover exceeds size limit")
	}
	return data, nil
}

func splitURL(rawURL string) (host, path string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	return u.Host, u.Path
}
