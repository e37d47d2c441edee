package extract

import (
	"reflect"
	"testing"

	"github.com/tidwall/gjson"
)

// profilePayload nests the user subtree several levels deep, the way the
// live payloads bury it inside require/bbox wrappers.
const profilePayload = `{
  "require": [["ScheduledServerJS", "handle", null, [{
    "__bbox": {"result": {"data": {"userData": {"user": {
      "username": "alice",
      "full_name": "Alice Lin",
      "biography": "writes things",
      "follower_count": 1234,
      "text_post_app_is_private": false,
      "is_verified": true,
      "hd_profile_pic_versions": [
        {"url": "https://cdn.example/pic-320.jpg", "width": 320},
        {"url": "https://cdn.example/pic-640.jpg", "width": 640}
      ],
      "bio_links": [{"url": "https://alice.example"}, {"url": "https://blog.alice.example"}]
    }}}}}
  }]]]
}`

func TestProfile_FullProjection(t *testing.T) {
	p := Profile(profilePayload)
	if p == nil {
		t.Fatal("expected a profile, got nil")
	}
	if p.Username != "alice" {
		t.Errorf("username = %q", p.Username)
	}
	if p.FullName != "Alice Lin" || p.Bio != "writes things" {
		t.Errorf("unexpected name/bio: %q %q", p.FullName, p.Bio)
	}
	if p.FollowerCount != 1234 {
		t.Errorf("follower_count = %d", p.FollowerCount)
	}
	if p.IsPrivate || !p.IsVerified {
		t.Errorf("flags wrong: private=%v verified=%v", p.IsPrivate, p.IsVerified)
	}
	if p.ProfilePicURL != "https://cdn.example/pic-640.jpg" {
		t.Errorf("expected last picture version, got %q", p.ProfilePicURL)
	}
	if len(p.BioLinks) != 2 {
		t.Errorf("expected 2 bio links, got %v", p.BioLinks)
	}
	if p.URL != "https://www.threads.net/@alice" {
		t.Errorf("url = %q", p.URL)
	}
}

func TestProfile_MissingUsernameReturnsNil(t *testing.T) {
	cases := []string{
		`{}`,
		`{"user": {"full_name": "No Name"}}`,
		`{"data": {"user": {"username": ""}}}`,
		`not even json`,
	}
	for _, c := range cases {
		if p := Profile(c); p != nil {
			t.Errorf("expected nil profile for %q, got %+v", c, p)
		}
	}
}

const threadPayload = `{
  "data": {"data": {"edges": [
    {"node": {"thread_items": [
      {
        "post": {
          "code": "P1",
          "caption": {"text": "first post"},
          "user": {"username": "alice"},
          "like_count": 7,
          "carousel_media_count": 2,
          "carousel_media": [
            {"image_versions2": {"candidates": [{"url": "full-a"}, {"url": "https://cdn.example/a.jpg"}]}},
            {"image_versions2": {"candidates": [{"url": "full-b"}, {"url": "https://cdn.example/b.jpg"}]}}
          ],
          "video_versions": [
            {"url": "https://cdn.example/v1.mp4"},
            {"url": "https://cdn.example/v1.mp4"},
            {"url": "https://cdn.example/v0.mp4"}
          ]
        },
        "view_replies_cta_string": "12 replies"
      },
      {
        "post": {
          "code": "P2",
          "caption": {"text": "second post"},
          "user": {"username": "alice"}
        }
      }
    ]}},
    {"node": {"thread_items": [
      {"post": {"caption": {"text": "orphan without code"}, "user": {"username": "bob"}}}
    ]}}
  ]}}
}`

func TestThreadItems_Projection(t *testing.T) {
	items := ThreadItems(threadPayload)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}

	first := items[0]
	if first.Code != "P1" || first.Username != "alice" || first.Text != "first post" {
		t.Errorf("unexpected first item: %+v", first)
	}
	if first.URL != "https://www.threads.net/@alice/post/P1" {
		t.Errorf("url = %q", first.URL)
	}
	if first.LikeCount != 7 || first.ImageCount != 2 {
		t.Errorf("counts wrong: likes=%d images=%d", first.LikeCount, first.ImageCount)
	}
	if first.ReplyCount == nil || *first.ReplyCount != 12 {
		t.Errorf("reply_count = %v", first.ReplyCount)
	}
	// duplicates collapse, output sorted
	if !reflect.DeepEqual(first.Videos, []string{"https://cdn.example/v0.mp4", "https://cdn.example/v1.mp4"}) {
		t.Errorf("videos = %v", first.Videos)
	}
	if !reflect.DeepEqual(first.Images, []string{"https://cdn.example/a.jpg", "https://cdn.example/b.jpg"}) {
		t.Errorf("images = %v", first.Images)
	}

	// optional fields absent: item kept with zero values
	second := items[1]
	if second.Code != "P2" || second.ReplyCount != nil || len(second.Videos) != 0 {
		t.Errorf("unexpected second item: %+v", second)
	}

	// no code: still emitted here, dropped downstream
	if items[2].Code != "" || items[2].Text != "orphan without code" {
		t.Errorf("unexpected third item: %+v", items[2])
	}
	if items[2].URL != "" {
		t.Errorf("item without code must not get a URL, got %q", items[2].URL)
	}
}

func TestThreadItems_EmptyTree(t *testing.T) {
	if items := ThreadItems(`{"nothing": "here"}`); len(items) != 0 {
		t.Errorf("expected no items, got %v", items)
	}
}

func TestNormalizeReplyCount(t *testing.T) {
	if n := NormalizeReplyCount(gjson.Parse(`"12 replies"`)); n == nil || *n != 12 {
		t.Errorf("free text: got %v", n)
	}
	if n := NormalizeReplyCount(gjson.Parse(`5`)); n == nil || *n != 5 {
		t.Errorf("numeric passthrough: got %v", n)
	}
	if n := NormalizeReplyCount(gjson.Parse(`{}`).Get("missing")); n != nil {
		t.Errorf("absent must stay absent, got %v", n)
	}
	if n := NormalizeReplyCount(gjson.Parse(`"View replies"`)); n != nil {
		t.Errorf("non-numeric token must stay absent, got %v", n)
	}
}

func TestDedupeURLs(t *testing.T) {
	a := DedupeURLs([]string{"b", "a", "b", "a", "c"})
	b := DedupeURLs([]string{"c", "b", "a"})
	if !reflect.DeepEqual(a, b) {
		t.Errorf("dedupe must be order-independent: %v vs %v", a, b)
	}
	if len(a) != 3 {
		t.Errorf("expected 3 unique entries, got %v", a)
	}
	if DedupeURLs(nil) != nil {
		t.Error("nil input should stay nil")
	}
}
