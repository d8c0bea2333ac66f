package validation

import (
	"net/url"
	"strings"

	apperrors "go-caption-gateway/internal/errors"
)

// URLValidator performs syntactic checks on image URLs before any outbound
// call is made. Reachability is not verified here.
type URLValidator struct {
	allowedSchemes []string
}

// NewURLValidator creates a validator accepting http and https URLs.
func NewURLValidator() *URLValidator {
	return &URLValidator{
		allowedSchemes: []string{"http", "https"},
	}
}

// ValidateImageURL rejects empty, malformed, scheme-less, or host-less URLs.
func (v *URLValidator) ValidateImageURL(imageURL string) error {
	if strings.TrimSpace(imageURL) == "" {
		return apperrors.NewBadRequest("Image URL is required.")
	}

	parsedURL, err := url.Parse(imageURL)
	if err != nil {
		return apperrors.NewBadRequest("Invalid image URL format.")
	}

	if !v.isSchemeAllowed(parsedURL.Scheme) {
		return apperrors.NewBadRequest("Image URL scheme must be http or https.")
	}

	if parsedURL.Host == "" {
		return apperrors.NewBadRequest("Image URL must have a valid host.")
	}

	return nil
}

func (v *URLValidator) isSchemeAllowed(scheme string) bool {
	for _, allowed := range v.allowedSchemes {
		if scheme == allowed {
			return true
		}
	}
	return false
}
