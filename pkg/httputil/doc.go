// Package httputil fetches cover images over HTTP through the on-disk cache.
//
// # Overview
//
// [Fetcher.FetchCover] resolves a URL to a decoded RGB image:
//
//  1. An empty URL is a no-op and yields an unavailable [Cover].
//  2. If the namespace cache holds the URL, the file is decoded. A file that
//     fails to decode counts as a miss.
//  3. Otherwise a single GET is issued with the configured timeout. The raw
//     body is written to the cache and then decoded.
//
// Every failure (transport error, timeout, non-2xx status, cache write error,
// undecodable bytes) yields an unavailable Cover carrying the reason. The
// fetcher never returns an error and never retries.
//
// Returned images are independent copies: they share no memory with the
// response body or the cache file.
//
// Usage:
//
//	store, _ := cache.NewStore("var/cover_cache")
//	f := httputil.NewFetcher(store, httputil.WithTimeout(8*time.Second))
//	cover := f.FetchCover(ctx, "https://covers.example.com/b1.jpg", userID)
//	if cover.Available() {
//	    draw(cover.Image)
//	}
package httputil
