package domain

import (
	"context"
	"time"
)

// Target represents one subreddit to scrape, with an optional score floor
// applied later by the cleaner.
type Target struct {
	Subreddit string
	MinScore  int
}

// Post is a single submission as persisted by the storage backends.
type Post struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Author            string    `json:"author"`
	CreatedUTC        time.Time `json:"created_utc"`
	Score             int       `json:"score"`
	UpvoteRatio       float64   `json:"upvote_ratio"`
	NumComments       int       `json:"num_comments"`
	URL               string    `json:"url"`
	Selftext          string    `json:"selftext"`
	IsSelf            bool      `json:"is_self"`
	Permalink         string    `json:"permalink"`
	Flair             string    `json:"flair,omitempty"`
	Domain            string    `json:"domain"`
	IsVideo           bool      `json:"is_video"`
	IsOriginalContent bool      `json:"is_original_content"`
	Subreddit         string    `json:"subreddit"`
}

// Comment is a single comment. ParentID is nil for root comments; when set it
// names either the post or another comment in the same thread. Storage treats
// that reference as best-effort and never validates it.
type Comment struct {
	ID          string    `json:"id"`
	PostID      string    `json:"post_id"`
	ParentID    *string   `json:"parent_id"`
	Author      string    `json:"author"`
	CreatedUTC  time.Time `json:"created_utc"`
	Score       int       `json:"score"`
	Body        string    `json:"body"`
	Permalink   string    `json:"permalink"`
	Depth       int       `json:"depth"`
	IsSubmitter bool      `json:"is_submitter"`
	Subreddit   string    `json:"subreddit"`
}

// ScrapeResult is the combined output of one posts-with-comments fetch.
type ScrapeResult struct {
	Posts    []Post    `json:"posts"`
	Comments []Comment `json:"comments"`
}

// FetchOptions control a post listing fetch.
type FetchOptions struct {
	Limit      int
	Sort       string // hot, new, top, rising, controversial
	TimeFilter string // hour, day, week, month, year, all
}

// Fetcher is the interface for pulling data from reddit. Implementations
// handle authentication and pacing; callers see only clean records.
type Fetcher interface {
	FetchPosts(ctx context.Context, subreddit string, opts FetchOptions) ([]Post, error)
	FetchComments(ctx context.Context, postID string) ([]Comment, error)
}

// Validate reports the first missing required field, or "" if the post is
// complete enough to persist.
func (p Post) Validate() string {
	switch {
	case p.ID == "":
		return "id"
	case p.Title == "":
		return "title"
	case p.Author == "":
		return "author"
	case p.Subreddit == "":
		return "subreddit"
	}
	return ""
}

// Validate reports the first missing required field, or "" if the comment is
// complete enough to persist.
func (c Comment) Validate() string {
	switch {
	case c.ID == "":
		return "id"
	case c.PostID == "":
		return "post_id"
	case c.Author == "":
		return "author"
	case c.Subreddit == "":
		return "subreddit"
	}
	return ""
}
