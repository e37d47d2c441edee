// Package pipeline sequences one scrape run: render the profile page,
// extract the profile and its thread items, enrich every post with its
// replies, and persist the deduplicated batch. One failing reply fetch
// never aborts the run; only the mandatory profile fetch is fatal.
package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/thread-miners/scrape/internal/correlate"
	"github.com/thread-miners/scrape/internal/extract"
	"github.com/thread-miners/scrape/internal/payload"
	"github.com/thread-miners/scrape/internal/ratelimit"
	"github.com/thread-miners/scrape/internal/renderer"
	"github.com/thread-miners/scrape/internal/retry"
	"github.com/thread-miners/scrape/pkg/models"
)

// Saver is the persistence capability the pipeline hands its batch to.
type Saver interface {
	SaveBatch(ctx context.Context, profile *models.Profile, posts []models.Post, replies []models.Reply) (models.BatchResult, error)
}

// Options tunes one pipeline instance.
type Options struct {
	BaseURL      string
	ReadyMarker  string
	FetchTimeout time.Duration
	RunTimeout   time.Duration
	ReplyWorkers int
	ProfileRetry retry.Config
	ReplyRetry   retry.Config
}

// DefaultOptions matches the live site.
func DefaultOptions() Options {
	return Options{
		BaseURL:      "https://www.threads.net",
		ReadyMarker:  "[data-pressable-container=true]",
		FetchTimeout: 15 * time.Second,
		RunTimeout:   5 * time.Minute,
		ReplyWorkers: 3,
		ProfileRetry: retry.Config{MaxAttempts: 3, InitialBackoff: time.Second, MaxBackoff: 15 * time.Second, Multiplier: 2.0},
		ReplyRetry:   retry.DefaultConfig(),
	}
}

// Pipeline orchestrates scrape runs over a shared renderer session.
type Pipeline struct {
	renderer renderer.Renderer
	saver    Saver
	limiter  ratelimit.RateLimiter
	opts     Options
	progress func(done, total int)
}

// New wires a pipeline. The renderer session is owned by the caller and
// shared across runs.
func New(r renderer.Renderer, s Saver, lim ratelimit.RateLimiter, opts Options) *Pipeline {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultOptions().BaseURL
	}
	if opts.ReadyMarker == "" {
		opts.ReadyMarker = DefaultOptions().ReadyMarker
	}
	if opts.ReplyWorkers <= 0 {
		opts.ReplyWorkers = 1
	}
	return &Pipeline{renderer: r, saver: s, limiter: lim, opts: opts}
}

// OnProgress registers a callback invoked after each reply fetch completes.
func (p *Pipeline) OnProgress(fn func(done, total int)) {
	p.progress = fn
}

// Run executes the whole pipeline for one username. The returned RunResult
// is always non-nil; its Status mirrors the error value (StatusError is
// accompanied by a non-nil error, the other statuses by nil).
func (p *Pipeline) Run(ctx context.Context, username string) (*models.RunResult, error) {
	result := &models.RunResult{Username: username, Status: models.StatusError}

	if p.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RunTimeout)
		defer cancel()
	}

	profileURL := fmt.Sprintf("%s/@%s", p.opts.BaseURL, username)
	log.Info().Str("username", username).Str("url", profileURL).Msg("Starting scrape run")

	// The profile fetch is mandatory; a timeout here fails the run.
	html, err := p.fetch(ctx, profileURL, p.opts.ProfileRetry)
	if err != nil {
		return result, fmt.Errorf("profile fetch for %s: %w", username, err)
	}

	profile, items, err := p.parseProfilePage(html)
	if err != nil {
		return result, fmt.Errorf("profile page parse for %s: %w", username, err)
	}
	items = dropCodeless(items)
	log.Info().
		Str("state", "threads_listed").
		Bool("profile_extracted", profile != nil).
		Int("thread_items", len(items)).
		Msg("Profile page processed")

	if len(items) == 0 {
		// Terminal but not an error. The profile row is still persisted
		// when extraction produced one.
		if profile != nil {
			batch, err := p.saver.SaveBatch(ctx, profile, nil, nil)
			if err != nil {
				return result, fmt.Errorf("persisting profile for %s: %w", username, err)
			}
			result.Batch = batch
		}
		result.Status = models.StatusNoPosts
		return result, nil
	}

	repliesByPost := p.enrichReplies(ctx, items)
	ownReplies := p.fetchOwnReplies(ctx, username)

	posts, replies := buildBatch(items, repliesByPost, ownReplies, username)
	batch, err := p.saver.SaveBatch(ctx, profile, posts, replies)
	if err != nil {
		return result, fmt.Errorf("persisting batch for %s: %w", username, err)
	}

	result.Status = models.StatusDone
	result.ThreadCount = len(posts)
	result.ReplyCount = len(replies)
	result.Batch = batch
	log.Info().
		Str("state", "done").
		Int("posts", len(posts)).
		Int("replies", len(replies)).
		Msg("Scrape run completed")
	return result, nil
}

// fetch renders one URL with rate limiting and a bounded retry budget.
func (p *Pipeline) fetch(ctx context.Context, url string, cfg retry.Config) (string, error) {
	var html string
	err := retry.WithRetry(ctx, cfg, func() error {
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx, url); err != nil {
				return err
			}
		}
		out, err := p.renderer.Render(ctx, url, p.opts.ReadyMarker, p.opts.FetchTimeout)
		if err != nil {
			return err
		}
		html = out
		return nil
	})
	return html, err
}

// parseProfilePage locates the data blocks and extracts zero-or-one profile
// plus zero-or-more thread items.
func (p *Pipeline) parseProfilePage(html string) (*models.Profile, []models.ThreadItem, error) {
	blocks, err := payload.Blocks(html)
	if err != nil {
		return nil, nil, err
	}

	var profile *models.Profile
	var items []models.ThreadItem
	for _, block := range blocks {
		if !payload.HasMarker(block) {
			continue
		}
		if profile == nil && payload.ContainsKey(block, payload.KeyProfile) {
			profile = extract.Profile(block)
		}
		if payload.ContainsKey(block, payload.KeyThreadItems) {
			items = append(items, extract.ThreadItems(block)...)
		}
	}
	return profile, items, nil
}

// enrichReplies renders every post's reply page through the worker pool.
// Each fetch is isolated: a timeout, missing marker, or absent primary
// leaves that post with zero replies and is logged as a warning.
func (p *Pipeline) enrichReplies(ctx context.Context, posts []models.ThreadItem) [][]models.ThreadItem {
	repliesByPost := make([][]models.ThreadItem, len(posts))

	var done int
	var mu sync.Mutex
	forEach(ctx, len(posts), p.opts.ReplyWorkers, func(i int) {
		code := posts[i].Code
		replies, err := p.fetchThreadReplies(ctx, code)
		if err != nil {
			log.Warn().Str("post_code", code).Err(err).Msg("Reply fetch failed, continuing without replies")
		} else {
			repliesByPost[i] = replies
		}

		if p.progress != nil {
			mu.Lock()
			done++
			p.progress(done, len(posts))
			mu.Unlock()
		}
	})
	return repliesByPost
}

// fetchThreadReplies renders one post's page and correlates its items.
func (p *Pipeline) fetchThreadReplies(ctx context.Context, code string) ([]models.ThreadItem, error) {
	url := fmt.Sprintf("%s/t/%s/", p.opts.BaseURL, code)
	html, err := p.fetch(ctx, url, p.opts.ReplyRetry)
	if err != nil {
		return nil, err
	}

	blocks, err := payload.Blocks(html)
	if err != nil {
		return nil, err
	}

	for _, block := range blocks {
		if !payload.HasMarker(block) || !payload.ContainsKey(block, payload.KeyThreadItems) {
			continue
		}
		items := dropCodeless(extract.ThreadItems(block))
		if len(items) == 0 {
			continue
		}
		primary, replies, err := correlate.Split(items, code)
		if err != nil {
			// This block did not carry the targeted thread; later blocks
			// on the same page still might.
			continue
		}
		log.Debug().
			Str("post_code", primary.Code).
			Int("replies", len(replies)).
			Msg("Thread correlated")
		return replies, nil
	}
	return nil, correlate.ErrPrimaryNotFound
}

// fetchOwnReplies processes the profile's "replies by this user" listing.
// The fetch is isolated the same way per-post fetches are.
func (p *Pipeline) fetchOwnReplies(ctx context.Context, username string) []models.ThreadItem {
	url := fmt.Sprintf("%s/@%s/replies", p.opts.BaseURL, username)
	html, err := p.fetch(ctx, url, p.opts.ReplyRetry)
	if err != nil {
		log.Warn().Str("username", username).Err(err).Msg("Own-replies fetch failed, continuing without them")
		return nil
	}

	blocks, err := payload.Blocks(html)
	if err != nil {
		log.Warn().Str("username", username).Err(err).Msg("Own-replies parse failed")
		return nil
	}

	var own []models.ThreadItem
	for _, block := range blocks {
		if !payload.HasMarker(block) || !payload.ContainsKey(block, payload.KeyThreadItems) {
			continue
		}
		items := dropCodeless(extract.ThreadItems(block))
		own = append(own, correlate.FilterOwn(items, username)...)
	}
	return own
}

// buildBatch shapes the persistence batch. Rows with empty text are
// excluded entirely so the downstream classifier always has valid input.
func buildBatch(posts []models.ThreadItem, repliesByPost [][]models.ThreadItem, ownReplies []models.ThreadItem, username string) ([]models.Post, []models.Reply) {
	var outPosts []models.Post
	var outReplies []models.Reply

	for i, post := range posts {
		if post.Text != "" {
			outPosts = append(outPosts, models.Post{
				Code:   post.Code,
				Author: post.Username,
				Text:   post.Text,
				URL:    post.URL,
			})
		}
		for _, reply := range repliesByPost[i] {
			if reply.Text == "" {
				continue
			}
			outReplies = append(outReplies, models.Reply{
				Code:           reply.Code,
				ParentPostCode: post.Code,
				Author:         reply.Username,
				Text:           reply.Text,
				URL:            reply.URL,
			})
		}
	}

	for _, reply := range ownReplies {
		if reply.Text == "" {
			continue
		}
		// The listing payload carries no containing-post context, so the
		// parent falls back to the reply's own code.
		// TODO: derive the real parent once the listing payload exposes it.
		log.Warn().
			Str("reply_code", reply.Code).
			Str("username", username).
			Msg("No parent signal for own reply, falling back to its own code")
		outReplies = append(outReplies, models.Reply{
			Code:           reply.Code,
			ParentPostCode: reply.Code,
			Author:         reply.Username,
			Text:           reply.Text,
			URL:            reply.URL,
		})
	}

	return outPosts, outReplies
}

// dropCodeless removes items without a natural key before correlation.
func dropCodeless(items []models.ThreadItem) []models.ThreadItem {
	kept := items[:0:0]
	for _, item := range items {
		if item.Code == "" {
			log.Debug().Str("text", item.Text).Msg("Dropping thread item without code")
			continue
		}
		kept = append(kept, item)
	}
	return kept
}
