// Package payload locates the inline data-carrying script blocks that
// Threads embeds in its rendered pages. Filtering is pure substring
// containment so irrelevant blocks never pay JSON parse cost.
package payload

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Marker identifies a data-carrying block among the inline JSON scripts.
const Marker = `"ScheduledServerJS"`

// Key names used by callers with ContainsKey.
const (
	KeyProfile     = "follower_count"
	KeyThreadItems = "thread_items"
)

// Blocks returns the raw text of every inline JSON data script in the
// rendered HTML, in document order. A page with no matching scripts yields
// an empty slice, never an error from the selection itself.
func Blocks(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var blocks []string
	doc.Find(`script[type="application/json"][data-sjs]`).Each(func(_ int, sel *goquery.Selection) {
		if text := sel.Text(); text != "" {
			blocks = append(blocks, text)
		}
	})
	return blocks, nil
}

// HasMarker reports whether the block carries the data sentinel.
func HasMarker(block string) bool {
	return strings.Contains(block, Marker)
}

// ContainsKey reports whether the block mentions the given key name.
func ContainsKey(block, key string) bool {
	return strings.Contains(block, key)
}
