// Package collector fetches posts and comments from reddit through
// interchangeable clients: the authenticated API, the public JSON endpoints,
// or a mock for tests and dry runs.
package collector

import (
	"context"
	"log/slog"
	"strings"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
)

// PostsWithComments fetches a post listing and then, sequentially, the full
// comment tree of every post. Pacing is the fetcher's concern.
func PostsWithComments(ctx context.Context, f domain.Fetcher, sub string, opts domain.FetchOptions) (*domain.ScrapeResult, error) {
	posts, err := f.FetchPosts(ctx, sub, opts)
	if err != nil {
		return nil, err
	}

	result := &domain.ScrapeResult{Posts: posts}
	for _, p := range posts {
		comments, err := f.FetchComments(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		slog.Debug("fetched comments", "post", p.ID, "count", len(comments))
		result.Comments = append(result.Comments, comments...)
	}
	return result, nil
}

// parentRef strips the t1_/t3_ type prefix from a parent fullname. A parent
// of kind t3 is the post itself, so root comments get a nil reference.
func parentRef(fullname string) *string {
	if fullname == "" || strings.HasPrefix(fullname, "t3_") {
		return nil
	}
	id := fullname
	if i := strings.IndexByte(fullname, '_'); i >= 0 {
		id = fullname[i+1:]
	}
	return &id
}

// authorName maps deleted accounts to the reddit convention.
func authorName(name string) string {
	if name == "" {
		return "[deleted]"
	}
	return name
}
