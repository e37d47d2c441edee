// Package extract projects normalized records out of the deeply nested,
// partially undocumented JSON payloads found in rendered Threads pages.
// All projections null-propagate: a missing intermediate node yields a zero
// value for that field, never a panic or an error.
package extract

import (
	"fmt"

	"github.com/thread-miners/scrape/pkg/models"
	"github.com/tidwall/gjson"
)

// PostURLTemplate is how a thread item's canonical URL is rebuilt from its
// author and code.
const PostURLTemplate = "https://www.threads.net/@%s/post/%s"

// ProfileURLTemplate is the canonical profile URL for a username.
const ProfileURLTemplate = "https://www.threads.net/@%s"

// Profile projects a Profile out of one raw payload block. It returns nil
// when no "user" subtree with a resolvable username exists; on trees that
// are present but partial or malformed this is a normal outcome, not a
// fault.
func Profile(block string) *models.Profile {
	for _, user := range lookupAll(gjson.Parse(block), "user") {
		username := user.Get("username")
		if !username.Exists() || username.String() == "" {
			continue
		}

		p := &models.Profile{
			Username:      username.String(),
			FullName:      user.Get("full_name").String(),
			Bio:           user.Get("biography").String(),
			FollowerCount: user.Get("follower_count").Int(),
			IsPrivate:     user.Get("text_post_app_is_private").Bool(),
			IsVerified:    user.Get("is_verified").Bool(),
			URL:           fmt.Sprintf(ProfileURLTemplate, username.String()),
		}

		// Highest-resolution picture is the last element of the ordered list.
		if versions := user.Get("hd_profile_pic_versions").Array(); len(versions) > 0 {
			p.ProfilePicURL = versions[len(versions)-1].Get("url").String()
		}

		for _, link := range user.Get("bio_links.#.url").Array() {
			if link.String() != "" {
				p.BioLinks = append(p.BioLinks, link.String())
			}
		}

		return p
	}
	return nil
}

// ThreadItems projects every thread item found anywhere in the payload
// block, preserving discovery order. Items are kept even when optional
// fields fail to project; an item without a code is still emitted here and
// dropped by the caller before correlation.
func ThreadItems(block string) []models.ThreadItem {
	var items []models.ThreadItem
	for _, list := range lookupAll(gjson.Parse(block), "thread_items") {
		if !list.IsArray() {
			continue
		}
		list.ForEach(func(_, raw gjson.Result) bool {
			items = append(items, threadItem(raw))
			return true
		})
	}
	return items
}

func threadItem(raw gjson.Result) models.ThreadItem {
	item := models.ThreadItem{
		Code:       raw.Get("post.code").String(),
		Username:   raw.Get("post.user.username").String(),
		Text:       raw.Get("post.caption.text").String(),
		ImageCount: raw.Get("post.carousel_media_count").Int(),
		LikeCount:  raw.Get("post.like_count").Int(),
		ReplyCount: NormalizeReplyCount(raw.Get("view_replies_cta_string")),
	}

	// Second candidate of each carousel image is the mid-resolution variant.
	for _, img := range raw.Get("post.carousel_media.#.image_versions2.candidates.1.url").Array() {
		if img.String() != "" {
			item.Images = append(item.Images, img.String())
		}
	}

	var videos []string
	for _, v := range raw.Get("post.video_versions.#.url").Array() {
		if v.String() != "" {
			videos = append(videos, v.String())
		}
	}
	item.Videos = DedupeURLs(videos)

	if item.Username != "" && item.Code != "" {
		item.URL = fmt.Sprintf(PostURLTemplate, item.Username, item.Code)
	}
	return item
}

// lookupAll collects every value stored under key at any depth of the tree,
// in document order. This mirrors a recursive key lookup over an unstable
// schema where the interesting subtrees move between releases.
func lookupAll(root gjson.Result, key string) []gjson.Result {
	var found []gjson.Result
	var walk func(r gjson.Result)
	walk = func(r gjson.Result) {
		if !r.IsObject() && !r.IsArray() {
			return
		}
		isObj := r.IsObject()
		r.ForEach(func(k, v gjson.Result) bool {
			if isObj && k.String() == key {
				found = append(found, v)
			}
			walk(v)
			return true
		})
	}
	walk(root)
	return found
}
