// Package storage persists scraped posts and comments to interchangeable
// file-backed backends (SQLite, JSON, CSV) behind a single contract.
package storage

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
)

// Filter maps column names (as listed in the posts/comments schemas) to
// required equality values. A nil or empty filter matches everything.
// Unknown keys are ignored.
type Filter map[string]any

// Backend is the common contract over all storage variants. Saves upsert by
// id: records with an existing id overwrite the stored copy rather than
// failing. The returned count is the number of records written.
type Backend interface {
	SavePosts(posts []domain.Post) (int, error)
	SaveComments(comments []domain.Comment) (int, error)
	GetPosts(filter Filter) ([]domain.Post, error)
	GetComments(filter Filter) ([]domain.Comment, error)
	Close() error
}

func validatePosts(posts []domain.Post) error {
	for _, p := range posts {
		if field := p.Validate(); field != "" {
			return &ValidationError{Collection: "posts", ID: p.ID, Field: field}
		}
	}
	return nil
}

func validateComments(comments []domain.Comment) error {
	for _, c := range comments {
		if field := c.Validate(); field != "" {
			return &ValidationError{Collection: "comments", ID: c.ID, Field: field}
		}
	}
	return nil
}

// filterValue renders a value in the canonical form used for equality
// comparison across backends, so that e.g. a bool filter matches a CSV
// backend's decoded bool and an int filter matches an int64 from SQLite.
func filterValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.UTC().Format(time.RFC3339)
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case bool:
		return strconv.FormatBool(t)
	case float32:
		return strconv.FormatFloat(float64(t), 'g', -1, 64)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func postField(p domain.Post, key string) (any, bool) {
	switch key {
	case "id":
		return p.ID, true
	case "title":
		return p.Title, true
	case "author":
		return p.Author, true
	case "created_utc":
		return p.CreatedUTC, true
	case "score":
		return p.Score, true
	case "upvote_ratio":
		return p.UpvoteRatio, true
	case "num_comments":
		return p.NumComments, true
	case "url":
		return p.URL, true
	case "selftext":
		return p.Selftext, true
	case "is_self":
		return p.IsSelf, true
	case "permalink":
		return p.Permalink, true
	case "flair":
		return p.Flair, true
	case "domain":
		return p.Domain, true
	case "is_video":
		return p.IsVideo, true
	case "is_original_content":
		return p.IsOriginalContent, true
	case "subreddit":
		return p.Subreddit, true
	}
	return nil, false
}

func commentField(c domain.Comment, key string) (any, bool) {
	switch key {
	case "id":
		return c.ID, true
	case "post_id":
		return c.PostID, true
	case "parent_id":
		return c.ParentID, true
	case "author":
		return c.Author, true
	case "created_utc":
		return c.CreatedUTC, true
	case "score":
		return c.Score, true
	case "body":
		return c.Body, true
	case "permalink":
		return c.Permalink, true
	case "depth":
		return c.Depth, true
	case "is_submitter":
		return c.IsSubmitter, true
	case "subreddit":
		return c.Subreddit, true
	}
	return nil, false
}

func matchPost(p domain.Post, filter Filter) bool {
	for key, want := range filter {
		got, ok := postField(p, key)
		if !ok {
			continue
		}
		if filterValue(got) != filterValue(want) {
			return false
		}
	}
	return true
}

func matchComment(c domain.Comment, filter Filter) bool {
	for key, want := range filter {
		got, ok := commentField(c, key)
		if !ok {
			continue
		}
		if filterValue(got) != filterValue(want) {
			return false
		}
	}
	return true
}
