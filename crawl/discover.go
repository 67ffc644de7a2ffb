// Package crawl provides source discovery for --all mode.
// A local directory is walked for .kml/.kmz files; a URL is treated as an
// index page (e.g. a web server directory listing) whose links are followed
// breadth-first, keeping discovery separate from the conversion pipeline.
package crawl

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxIndexPages bounds index crawling to avoid runaway crawls.
const maxIndexPages = 100

// Target is one discovered source.
type Target struct {
	// Location is the path or URL passed to the fetcher.
	Location string
	// Rel is the location relative to the discovery root, used to mirror
	// the directory structure in the output.
	Rel string
}

// Getter retrieves the body of a URL.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// DiscoverAll finds every KML/KMZ source below root, which is either a
// local directory or an http(s) index URL.
func DiscoverAll(ctx context.Context, root string, getter Getter) ([]Target, error) {
	parsed, err := url.Parse(root)
	if err == nil && (parsed.Scheme == "http" || parsed.Scheme == "https") && parsed.Host != "" {
		return discoverFromIndex(ctx, parsed, getter)
	}
	return discoverFromDir(root)
}

// discoverFromDir walks a directory tree in lexical order.
func discoverFromDir(root string) ([]Target, error) {
	var targets []Target
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsConvertible(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		targets = append(targets, Target{Location: p, Rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return targets, nil
}

// discoverFromIndex crawls index pages below base and collects file links.
func discoverFromIndex(ctx context.Context, base *url.URL, getter Getter) ([]Target, error) {
	pages := NewQueue()
	files := NewQueue()
	domain := base.Host

	start := NormalizeURL(base.String())
	if IsConvertible(start) {
		files.Add(start)
	} else {
		pages.Add(start)
	}

	for pages.HasNext() && pages.Visited() <= maxIndexPages {
		current := pages.Next()

		body, err := getter.Get(ctx, current)
		if err != nil {
			if current == start {
				return nil, fmt.Errorf("fetching index: %w", err)
			}
			continue // Skip failed sub-indexes, don't block the crawl.
		}

		links, err := extractLinks(string(body), current)
		if err != nil {
			continue
		}

		for _, link := range links {
			link = NormalizeURL(link)
			if !IsSameDomain(link, domain) || !IsBelow(link, base) {
				continue
			}
			switch {
			case IsConvertible(link):
				files.Add(link)
			case IsIndex(link):
				pages.Add(link)
			}
		}
	}

	dir := indexDir(base.Path)
	targets := make([]Target, 0, len(files.All()))
	for _, loc := range files.All() {
		u, _ := url.Parse(loc)
		rel := strings.TrimPrefix(u.Path, dir)
		if unescaped, err := url.PathUnescape(rel); err == nil {
			rel = unescaped
		}
		targets = append(targets, Target{Location: loc, Rel: rel})
	}
	return targets, nil
}

// extractLinks extracts all href values from <a> tags, resolving relative URLs.
func extractLinks(html string, baseURL string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	base, _ := url.Parse(baseURL)
	var links []string

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}

		resolved := resolveURL(href, base)
		if resolved != "" {
			links = append(links, resolved)
		}
	})

	return links, nil
}

// resolveURL resolves a potentially relative URL against a base.
func resolveURL(href string, base *url.URL) string {
	// Skip mailto, javascript, sort links of listings, etc.
	if strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "#") || strings.HasPrefix(href, "?") {
		return ""
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	resolved := base.ResolveReference(parsed)
	resolved.Fragment = ""
	return resolved.String()
}
