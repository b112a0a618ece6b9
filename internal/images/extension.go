package images

import (
	"net/url"
	"path"
	"strings"
)

// defaultExtension is used when neither the content type nor the URL yields
// a usable extension.
const defaultExtension = "jpg"

// ExtensionFor derives a file extension for a downloaded image, preferring
// the response content type and falling back to the URL path.
func ExtensionFor(contentType, imageURL string) string {
	if ext := extensionFromContentType(contentType); ext != "" {
		return ext
	}
	if ext := extensionFromURL(imageURL); ext != "" {
		return ext
	}
	return defaultExtension
}

// extensionFromContentType maps an image content type to an extension:
// the subtype with any "+suffix" stripped, jpeg normalized to jpg, and
// anything non-alphanumeric discarded.
func extensionFromContentType(contentType string) string {
	mediaType := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if !strings.HasPrefix(mediaType, "image/") {
		return ""
	}

	subtype := strings.TrimPrefix(mediaType, "image/")
	if idx := strings.Index(subtype, "+"); idx >= 0 {
		subtype = subtype[:idx]
	}
	if subtype == "jpeg" {
		subtype = "jpg"
	}

	if subtype == "" || !isAlphanumeric(subtype) {
		return ""
	}
	return subtype
}

// extensionFromURL pulls an extension from the trailing path segment.
func extensionFromURL(imageURL string) string {
	u, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(u.Path), "."))
	if ext == "jpeg" {
		ext = "jpg"
	}
	if ext == "" || len(ext) > 5 || !isAlphanumeric(ext) {
		return ""
	}
	return ext
}

func isAlphanumeric(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
