package collector

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
	"github.com/loganintech/go-reddit/v2/reddit"
	"golang.org/x/time/rate"
)

// APIClient fetches through the authenticated reddit API.
type APIClient struct {
	client  *reddit.Client
	limiter *rate.Limiter
}

var _ domain.Fetcher = (*APIClient)(nil)

func NewAPIClient(id, secret, user, pass, userAgent string) (*APIClient, error) {
	creds := reddit.Credentials{ID: id, Secret: secret, Username: user, Password: pass}

	client, err := reddit.NewClient(creds, reddit.WithUserAgent(userAgent))
	if err != nil {
		return nil, err
	}

	// API Rate Limit: ~60 reqs/min (safe buffer)
	limiter := rate.NewLimiter(rate.Every(1*time.Second), 1)

	return &APIClient{client: client, limiter: limiter}, nil
}

func (ac *APIClient) FetchPosts(ctx context.Context, sub string, opts domain.FetchOptions) ([]domain.Post, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	listOpts := &reddit.ListOptions{Limit: opts.Limit}
	timedOpts := &reddit.ListPostOptions{ListOptions: *listOpts, Time: opts.TimeFilter}

	var posts []*reddit.Post
	var err error
	switch opts.Sort {
	case "", "hot":
		posts, _, err = ac.client.Subreddit.HotPosts(ctx, sub, listOpts)
	case "new":
		posts, _, err = ac.client.Subreddit.NewPosts(ctx, sub, listOpts)
	case "rising":
		posts, _, err = ac.client.Subreddit.RisingPosts(ctx, sub, listOpts)
	case "top":
		posts, _, err = ac.client.Subreddit.TopPosts(ctx, sub, timedOpts)
	case "controversial":
		posts, _, err = ac.client.Subreddit.ControversialPosts(ctx, sub, timedOpts)
	default:
		return nil, fmt.Errorf("invalid sort %q (use hot, new, top, rising, or controversial)", opts.Sort)
	}
	if err != nil {
		return nil, fmt.Errorf("authenticated api error: %w", err)
	}

	result := make([]domain.Post, 0, len(posts))
	for _, p := range posts {
		result = append(result, convertAPIPost(p))
	}
	return result, nil
}

func (ac *APIClient) FetchComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	if err := ac.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	pc, _, err := ac.client.Post.Get(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("authenticated api error: %w", err)
	}

	var result []domain.Comment
	for _, c := range pc.Comments {
		result = appendAPIComment(result, c, postID, 0)
	}
	return result, nil
}

// appendAPIComment flattens a comment and its reply tree, tracking depth.
func appendAPIComment(out []domain.Comment, c *reddit.Comment, postID string, depth int) []domain.Comment {
	var created time.Time
	if c.Created != nil {
		created = c.Created.Time
	}
	out = append(out, domain.Comment{
		ID:          c.ID,
		PostID:      postID,
		ParentID:    parentRef(c.ParentID),
		Author:      authorName(c.Author),
		CreatedUTC:  created,
		Score:       c.Score,
		Body:        c.Body,
		Permalink:   c.Permalink,
		Depth:       depth,
		IsSubmitter: c.IsSubmitter,
		Subreddit:   c.SubredditName,
	})
	for _, reply := range c.Replies.Comments {
		out = appendAPIComment(out, reply, postID, depth+1)
	}
	return out
}

func convertAPIPost(p *reddit.Post) domain.Post {
	var created time.Time
	if p.Created != nil {
		created = p.Created.Time
	}
	return domain.Post{
		ID:          p.ID,
		Title:       p.Title,
		Author:      authorName(p.Author),
		CreatedUTC:  created,
		Score:       p.Score,
		UpvoteRatio: float64(p.UpvoteRatio),
		NumComments: p.NumberOfComments,
		URL:         p.URL,
		Selftext:    p.Body,
		IsSelf:      p.IsSelfPost,
		Permalink:   p.Permalink,
		Domain:      urlDomain(p.URL),
		Subreddit:   p.SubredditName,
	}
}

// urlDomain extracts the link domain; the API client has no domain field so
// it is derived from the post URL.
func urlDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
