// Package correlate classifies extracted thread items into the page's
// primary post and its replies, or into the own-replies of a given user.
package correlate

import (
	"errors"

	"github.com/thread-miners/scrape/pkg/models"
)

// ErrPrimaryNotFound means no item on the page matched the code the fetch
// was targeting. Callers treat this as recoverable: skip this post's reply
// enrichment and continue the batch.
var ErrPrimaryNotFound = errors.New("primary post not found")

// Split partitions items around the one whose code matches expectedCode.
// Every other item becomes a reply, preserving discovery order. When the
// expected code appears more than once the first occurrence wins.
func Split(items []models.ThreadItem, expectedCode string) (models.ThreadItem, []models.ThreadItem, error) {
	var primary models.ThreadItem
	var replies []models.ThreadItem
	found := false

	for _, item := range items {
		if !found && item.Code == expectedCode {
			primary = item
			found = true
			continue
		}
		replies = append(replies, item)
	}

	if !found {
		return models.ThreadItem{}, nil, ErrPrimaryNotFound
	}
	return primary, replies, nil
}

// FilterOwn selects the items authored by username, preserving order. Used
// on the "replies by this user" listing rather than a post's own reply page.
func FilterOwn(items []models.ThreadItem, username string) []models.ThreadItem {
	var own []models.ThreadItem
	for _, item := range items {
		if item.Username == username {
			own = append(own, item)
		}
	}
	return own
}
