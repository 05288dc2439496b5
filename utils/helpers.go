package utils

import (
	"os"
	"regexp"
	"strings"
)

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugSpaceRe    = regexp.MustCompile(`\s+`)
	slugCollapseRe = regexp.MustCompile(`-+`)
)

// GenerateSlug turns a display name into a URL-safe tenant slug.
func GenerateSlug(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugSpaceRe.ReplaceAllString(s, "-")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	return s
}

// GenerateQRURL builds the public ordering URL encoded into a table QR code.
func GenerateQRURL(restaurantSlug, tableIdentifier string) string {
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	return baseURL + "/order/" + restaurantSlug + "/" + tableIdentifier
}

// SanitizeString trims input and strips angle brackets from customer-supplied text.
func SanitizeString(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(strings.TrimSpace(s), "<", ""), ">", "")
}
