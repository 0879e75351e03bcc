package clean

import (
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
)

// Cleaner filters and normalizes collections of posts and comments. The
// preprocessor is optional; without one, text fields pass through untouched.
type Cleaner struct {
	pre *Preprocessor
}

// NewCleaner returns a cleaner using pre for text fields. pre may be nil.
func NewCleaner(pre *Preprocessor) *Cleaner {
	return &Cleaner{pre: pre}
}

// PostOptions control CleanPosts. Nil pointer fields disable the
// corresponding filter. Score and date bounds are inclusive. Keep, when set,
// is a caller-supplied predicate applied after the built-in filters.
type PostOptions struct {
	MinScore      *int
	After         *time.Time
	Before        *time.Time
	Keep          func(domain.Post) bool
	CleanTitle    bool
	CleanSelftext bool
}

// CommentOptions control CleanComments, analogous to PostOptions.
type CommentOptions struct {
	MinScore  *int
	After     *time.Time
	Before    *time.Time
	Keep      func(domain.Comment) bool
	CleanBody bool
}

// CleanPosts de-duplicates by id (keeping the highest-score occurrence),
// applies the score, date, and predicate filters, and cleans the requested
// text fields. Empty input yields empty output.
func (c *Cleaner) CleanPosts(posts []domain.Post, opts PostOptions) []domain.Post {
	deduped := make([]domain.Post, 0, len(posts))
	index := make(map[string]int, len(posts))
	for _, p := range posts {
		if i, seen := index[p.ID]; seen {
			if p.Score > deduped[i].Score {
				deduped[i] = p
			}
			continue
		}
		index[p.ID] = len(deduped)
		deduped = append(deduped, p)
	}

	out := make([]domain.Post, 0, len(deduped))
	for _, p := range deduped {
		if opts.MinScore != nil && p.Score < *opts.MinScore {
			continue
		}
		if !inWindow(p.CreatedUTC, opts.After, opts.Before) {
			continue
		}
		if opts.Keep != nil && !opts.Keep(p) {
			continue
		}
		if c.pre != nil {
			if opts.CleanTitle {
				p.Title = c.pre.Clean(p.Title)
			}
			if opts.CleanSelftext {
				p.Selftext = c.pre.Clean(p.Selftext)
			}
		}
		out = append(out, p)
	}
	return out
}

// CleanComments de-duplicates by id (keeping the highest-score occurrence),
// applies the score, date, and predicate filters, and cleans the body when
// requested.
func (c *Cleaner) CleanComments(comments []domain.Comment, opts CommentOptions) []domain.Comment {
	deduped := make([]domain.Comment, 0, len(comments))
	index := make(map[string]int, len(comments))
	for _, cm := range comments {
		if i, seen := index[cm.ID]; seen {
			if cm.Score > deduped[i].Score {
				deduped[i] = cm
			}
			continue
		}
		index[cm.ID] = len(deduped)
		deduped = append(deduped, cm)
	}

	out := make([]domain.Comment, 0, len(deduped))
	for _, cm := range deduped {
		if opts.MinScore != nil && cm.Score < *opts.MinScore {
			continue
		}
		if !inWindow(cm.CreatedUTC, opts.After, opts.Before) {
			continue
		}
		if opts.Keep != nil && !opts.Keep(cm) {
			continue
		}
		if c.pre != nil && opts.CleanBody {
			cm.Body = c.pre.Clean(cm.Body)
		}
		out = append(out, cm)
	}
	return out
}

func inWindow(t time.Time, after, before *time.Time) bool {
	if after != nil && t.Before(*after) {
		return false
	}
	if before != nil && t.After(*before) {
		return false
	}
	return true
}
