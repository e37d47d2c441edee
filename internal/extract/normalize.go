package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// NormalizeReplyCount turns the reply-count hint into an integer. The
// upstream field is free text like "12 replies" on some surfaces and a bare
// number on others; absent or unparseable values stay absent.
func NormalizeReplyCount(r gjson.Result) *int64 {
	switch r.Type {
	case gjson.Number:
		n := r.Int()
		return &n
	case gjson.String:
		fields := strings.Fields(r.String())
		if len(fields) == 0 {
			return nil
		}
		n, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			return nil
		}
		return &n
	default:
		return nil
	}
}

// DedupeURLs collapses a URL list to set semantics. Output is sorted so the
// result is stable regardless of discovery order.
func DedupeURLs(urls []string) []string {
	if len(urls) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(urls))
	var out []string
	for _, u := range urls {
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
