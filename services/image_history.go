package services

import (
	"strings"

	"github.com/siravitrin-eng/the-pos-67079349/models"
)

// imageHistoryLimit caps the reuse picker to the most recent unique URLs.
const imageHistoryLimit = 12

// ImageHistory derives the reusable image list from a catalog snapshot:
// non-empty http(s) URLs, deduplicated preserving first appearance,
// capped at imageHistoryLimit. Recomputed from scratch on every call; it
// holds no identity beyond the URL string.
func ImageHistory(products []models.Product) []string {
	seen := make(map[string]bool)
	urls := make([]string, 0, imageHistoryLimit)

	for _, p := range products {
		url := p.Image
		if url == "" || !strings.HasPrefix(url, "http") {
			continue
		}
		if seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
		if len(urls) == imageHistoryLimit {
			break
		}
	}
	return urls
}
