package common

import (
	"crypto/sha256"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const categoryPrefix = "Category:"

// Characters MediaWiki rejects in page titles.
const badTitleChars = "#<>[]|{}"

var underscoreRun = regexp.MustCompile(`_+`)

// NormalizeCategory canonicalizes user-supplied category input so cache keys,
// database rows, and API calls all agree on one spelling. Handles common
// copy-paste shapes: a full wiki URL, an optional "Category:" prefix in any
// case, spaces instead of underscores.
// Example: "https://en.wikipedia.org/wiki/Category:Machine_learning" -> "Machine_learning"
func NormalizeCategory(raw string) string {
	cleaned := strings.TrimSpace(raw)

	// Pasted URL: keep only the last path segment.
	if strings.Contains(cleaned, "://") {
		if parsed, err := url.Parse(cleaned); err == nil {
			segment := parsed.Path
			if idx := strings.LastIndex(segment, "/"); idx >= 0 {
				segment = segment[idx+1:]
			}
			if unescaped, err := url.PathUnescape(segment); err == nil {
				cleaned = unescaped
			} else {
				cleaned = segment
			}
		}
	}

	// The namespace prefix is optional and case-insensitive.
	if len(cleaned) >= len(categoryPrefix) && strings.EqualFold(cleaned[:len(categoryPrefix)], categoryPrefix) {
		cleaned = cleaned[len(categoryPrefix):]
	}

	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, " ", "_")
	cleaned = underscoreRun.ReplaceAllString(cleaned, "_")
	return strings.Trim(cleaned, "_")
}

// DisplayCategory renders a normalized category name for human output.
func DisplayCategory(name string) string {
	return strings.ReplaceAll(name, "_", " ")
}

// ValidateCategory normalizes raw input and rejects names MediaWiki cannot
// accept as titles. Returns the normalized name.
func ValidateCategory(raw string) (string, error) {
	name := NormalizeCategory(raw)
	if name == "" {
		return "", fmt.Errorf("category name is empty")
	}
	if strings.ContainsAny(name, badTitleChars) {
		return "", fmt.Errorf("category name %q contains invalid characters", name)
	}
	return name, nil
}

// ContentHash computes SHA256 hash of content and returns hex string.
func ContentHash(data []byte) string {
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash)
}
