// Package store persists scraped profiles, posts, and replies in SQLite
// with duplicate-skip semantics keyed on natural keys.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite3 driver
	"github.com/rs/zerolog/log"
	"github.com/thread-miners/scrape/pkg/models"
)

// Outcome reports what a single upsert did.
type Outcome int

const (
	Inserted Outcome = iota
	Skipped
)

// Store wraps the SQLite handle.
type Store struct {
	db *sql.DB
}

// Open connects to the database at dbPath, creating the file and schema on
// first use.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	log.Debug().Str("path", dbPath).Msg("Database ready")
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// UpsertProfile inserts the profile unless its username already exists.
// First write wins; an existing row is never overwritten.
func (s *Store) UpsertProfile(ctx context.Context, p models.Profile) (Outcome, error) {
	res, err := s.db.ExecContext(ctx, `
        INSERT OR IGNORE INTO profiles (username, full_name, bio, followers, url, is_private, is_verified)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.Username, p.FullName, p.Bio, p.FollowerCount, p.URL, p.IsPrivate, p.IsVerified)
	if err != nil {
		return Skipped, fmt.Errorf("failed to upsert profile %s: %w", p.Username, err)
	}
	return outcome(res)
}

// UpsertPost inserts the post unless its code already exists.
func (s *Store) UpsertPost(ctx context.Context, p models.Post) (Outcome, error) {
	return s.upsertPost(ctx, s.db, p)
}

// UpsertReply inserts the reply unless its code already exists.
func (s *Store) UpsertReply(ctx context.Context, r models.Reply) (Outcome, error) {
	return s.upsertReply(ctx, s.db, r)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsertPost(ctx context.Context, ex execer, p models.Post) (Outcome, error) {
	res, err := ex.ExecContext(ctx, `
        INSERT OR IGNORE INTO posts (post_code, username, post_text, post_url)
        VALUES (?, ?, ?, ?)`,
		p.Code, p.Author, p.Text, p.URL)
	if err != nil {
		return Skipped, fmt.Errorf("failed to upsert post %s: %w", p.Code, err)
	}
	return outcome(res)
}

func (s *Store) upsertReply(ctx context.Context, ex execer, r models.Reply) (Outcome, error) {
	res, err := ex.ExecContext(ctx, `
        INSERT OR IGNORE INTO replies (reply_code, post_code, username, reply_text, reply_url)
        VALUES (?, ?, ?, ?, ?)`,
		r.Code, r.ParentPostCode, r.Author, r.Text, r.URL)
	if err != nil {
		return Skipped, fmt.Errorf("failed to upsert reply %s: %w", r.Code, err)
	}
	return outcome(res)
}

// SaveBatch writes one scrape run's output in dependency order (profile,
// posts, then replies, since replies reference post codes) inside a single
// transaction. Natural-key collisions are counted as skips and never abort
// the batch; any other failure rolls the whole batch back.
func (s *Store) SaveBatch(ctx context.Context, profile *models.Profile, posts []models.Post, replies []models.Reply) (models.BatchResult, error) {
	var result models.BatchResult

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin batch: %w", err)
	}
	defer tx.Rollback()

	if profile != nil {
		res, err := tx.ExecContext(ctx, `
            INSERT OR IGNORE INTO profiles (username, full_name, bio, followers, url, is_private, is_verified)
            VALUES (?, ?, ?, ?, ?, ?, ?)`,
			profile.Username, profile.FullName, profile.Bio, profile.FollowerCount,
			profile.URL, profile.IsPrivate, profile.IsVerified)
		if err != nil {
			return result, fmt.Errorf("failed to upsert profile %s: %w", profile.Username, err)
		}
		out, err := outcome(res)
		if err != nil {
			return result, err
		}
		result.ProfileInserted = out == Inserted
		if out == Skipped {
			log.Debug().Str("username", profile.Username).Msg("Profile already exists, keeping stored row")
		}
	}

	for _, p := range posts {
		out, err := s.upsertPost(ctx, tx, p)
		if err != nil {
			return result, err
		}
		if out == Inserted {
			result.PostsInserted++
		} else {
			result.PostsSkipped++
		}
	}

	for _, r := range replies {
		out, err := s.upsertReply(ctx, tx, r)
		if err != nil {
			return result, err
		}
		if out == Inserted {
			result.RepliesInserted++
		} else {
			result.RepliesSkipped++
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit batch: %w", err)
	}

	log.Info().
		Int("posts_inserted", result.PostsInserted).
		Int("posts_skipped", result.PostsSkipped).
		Int("replies_inserted", result.RepliesInserted).
		Int("replies_skipped", result.RepliesSkipped).
		Msg("Batch persisted")
	return result, nil
}

func outcome(res sql.Result) (Outcome, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return Skipped, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return Skipped, nil
	}
	return Inserted, nil
}
