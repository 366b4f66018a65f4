package errors

import (
	"net/url"
	"unicode"
)

// maxURLLength bounds cover URLs accepted for fetching.
const maxURLLength = 2048

// ValidateURL validates a cover URL before it is fetched. Only absolute
// http and https URLs with a host are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	if len(rawURL) > maxURLLength {
		return New(ErrCodeInvalidInput, "URL too long (max %d characters)", maxURLLength)
	}
	for _, r := range rawURL {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "URL contains control characters")
		}
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "malformed URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must have a host")
	}
	return nil
}
