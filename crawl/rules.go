// Package crawl: URL and file filtering rules.
// Provides helpers to filter, normalize, and validate discovery candidates.
package crawl

import (
	"net/url"
	"path"
	"strings"
)

// convertibleExtensions are the source extensions picked up by discovery.
var convertibleExtensions = map[string]bool{
	".kml": true,
	".kmz": true,
}

// IsConvertible checks if a file name or URL path points to a KML/KMZ file.
func IsConvertible(name string) bool {
	if u, err := url.Parse(name); err == nil && u.Scheme != "" {
		name = u.Path
	}
	return convertibleExtensions[strings.ToLower(path.Ext(name))]
}

// IsSameDomain checks if the given URL belongs to the specified domain.
func IsSameDomain(rawURL string, domain string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return parsed.Host == domain
}

// IsBelow checks if rawURL's path lies under the directory of base.
// Index pages often link back to parents; those are not followed.
func IsBelow(rawURL string, base *url.URL) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasPrefix(parsed.Path, indexDir(base.Path))
}

// IsIndex checks if a URL looks like a directory listing (trailing slash).
func IsIndex(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.HasSuffix(parsed.Path, "/")
}

// NormalizeURL strips fragments and queries for deduplication.
func NormalizeURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	parsed.Fragment = ""
	parsed.RawQuery = ""
	return parsed.String()
}

// indexDir returns the directory part of an index path, with trailing slash.
func indexDir(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	dir := path.Dir(p)
	if dir == "/" || dir == "." {
		return "/"
	}
	return dir + "/"
}
