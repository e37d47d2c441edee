package models

// Profile represents the scraped user profile. Username is the natural key:
// a profile that already exists in storage is never overwritten.
type Profile struct {
	Username      string   `json:"username"`
	FullName      string   `json:"full_name,omitempty"`
	Bio           string   `json:"bio,omitempty"`
	FollowerCount int64    `json:"follower_count"`
	ProfilePicURL string   `json:"profile_pic,omitempty"`
	BioLinks      []string `json:"bio_links,omitempty"`
	URL           string   `json:"url"`
	IsPrivate     bool     `json:"is_private"`
	IsVerified    bool     `json:"is_verified"`
}

// ThreadItem is one extracted post-or-reply record before correlation
// decides its role. Optional fields that could not be projected are left
// at their zero value; only a missing Code makes an item unusable.
type ThreadItem struct {
	Code       string   `json:"code"`
	Username   string   `json:"username"`
	Text       string   `json:"text"`
	URL        string   `json:"url"`
	Videos     []string `json:"videos,omitempty"`
	Images     []string `json:"images,omitempty"`
	ImageCount int64    `json:"image_count,omitempty"`
	ReplyCount *int64   `json:"reply_count,omitempty"`
	LikeCount  int64    `json:"like_count,omitempty"`
}

// Post is a persistence-shaped row keyed by its post code.
type Post struct {
	Code   string `json:"post_code"`
	Author string `json:"author_username"`
	Text   string `json:"text"`
	URL    string `json:"post_url"`
}

// Reply is a persistence-shaped row keyed by its reply code.
// ParentPostCode may reference a post not owned by the scraped profile.
type Reply struct {
	Code           string `json:"reply_code"`
	ParentPostCode string `json:"parent_post_code"`
	Author         string `json:"author_username"`
	Text           string `json:"text"`
	URL            string `json:"reply_url"`
}

// RunStatus is the caller-visible outcome of a scrape run.
type RunStatus string

const (
	StatusDone    RunStatus = "done"
	StatusNoPosts RunStatus = "no_posts"
	StatusError   RunStatus = "error"
)

// BatchResult reports what the persistence batch actually did.
// Skipped counts are natural-key collisions, not failures.
type BatchResult struct {
	ProfileInserted bool `json:"profile_inserted"`
	PostsInserted   int  `json:"posts_inserted"`
	PostsSkipped    int  `json:"posts_skipped"`
	RepliesInserted int  `json:"replies_inserted"`
	RepliesSkipped  int  `json:"replies_skipped"`
}

// RunResult is the aggregate outcome surfaced to the triggering interface.
// Per-post partial failures are logged, never reported here.
type RunResult struct {
	Username    string      `json:"username"`
	Status      RunStatus   `json:"status"`
	ThreadCount int         `json:"thread_count"`
	ReplyCount  int         `json:"reply_count"`
	Batch       BatchResult `json:"batch"`
}
