package store

import (
	"context"
	"fmt"
)

// Kind distinguishes the two annotated tables.
type Kind string

const (
	KindPost  Kind = "posts"
	KindReply Kind = "replies"
)

// UnlabeledText is a stored row the classifier has not seen yet.
type UnlabeledText struct {
	Kind Kind
	ID   int64
	Text string
}

// UnlabeledTexts returns every post and reply without a label. Text fields
// are guaranteed non-empty because empty rows are excluded from persistence
// batches entirely.
func (s *Store) UnlabeledTexts(ctx context.Context) ([]UnlabeledText, error) {
	var out []UnlabeledText
	for _, kind := range []Kind{KindPost, KindReply} {
		col := "post_text"
		if kind == KindReply {
			col = "reply_text"
		}
		rows, err := s.db.QueryContext(ctx,
			fmt.Sprintf("SELECT id, %s FROM %s WHERE label IS NULL", col, kind))
		if err != nil {
			return nil, fmt.Errorf("failed to query unlabeled %s: %w", kind, err)
		}
		for rows.Next() {
			row := UnlabeledText{Kind: kind}
			if err := rows.Scan(&row.ID, &row.Text); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan unlabeled %s: %w", kind, err)
			}
			out = append(out, row)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return out, nil
}

// SetLabel writes the classifier verdict back to one row.
func (s *Store) SetLabel(ctx context.Context, kind Kind, id int64, label int, confidence float64) error {
	_, err := s.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %s SET label = ?, confidence = ? WHERE id = ?", kind),
		label, confidence, id)
	if err != nil {
		return fmt.Errorf("failed to set label on %s/%d: %w", kind, id, err)
	}
	return nil
}

// ProfileStats aggregates stored counts for one username.
type ProfileStats struct {
	Posts          int
	Replies        int
	FlaggedPosts   int
	FlaggedReplies int
}

// Stats reports how many rows exist for a profile and how many the
// classifier flagged positive.
func (s *Store) Stats(ctx context.Context, username string) (ProfileStats, error) {
	var st ProfileStats
	err := s.db.QueryRowContext(ctx, `
        SELECT COUNT(*), COALESCE(SUM(CASE WHEN label = 1 THEN 1 ELSE 0 END), 0)
        FROM posts WHERE username = ?`, username).Scan(&st.Posts, &st.FlaggedPosts)
	if err != nil {
		return st, fmt.Errorf("failed to count posts for %s: %w", username, err)
	}
	err = s.db.QueryRowContext(ctx, `
        SELECT COUNT(*), COALESCE(SUM(CASE WHEN label = 1 THEN 1 ELSE 0 END), 0)
        FROM replies WHERE username = ?`, username).Scan(&st.Replies, &st.FlaggedReplies)
	if err != nil {
		return st, fmt.Errorf("failed to count replies for %s: %w", username, err)
	}
	return st, nil
}
