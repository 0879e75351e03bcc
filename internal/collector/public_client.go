package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
	"golang.org/x/time/rate"
)

// PublicClient fetches through reddit's public JSON endpoints. No credentials
// are needed but a User-Agent is mandatory and the rate limit is stricter.
type PublicClient struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	baseURL    string
}

var _ domain.Fetcher = (*PublicClient)(nil)

type publicPost struct {
	ID                string  `json:"id"`
	Title             string  `json:"title"`
	Author            string  `json:"author"`
	CreatedUTC        float64 `json:"created_utc"`
	Score             int     `json:"score"`
	UpvoteRatio       float64 `json:"upvote_ratio"`
	NumComments       int     `json:"num_comments"`
	URL               string  `json:"url"`
	Selftext          string  `json:"selftext"`
	IsSelf            bool    `json:"is_self"`
	Permalink         string  `json:"permalink"`
	Flair             string  `json:"link_flair_text"`
	Domain            string  `json:"domain"`
	IsVideo           bool    `json:"is_video"`
	IsOriginalContent bool    `json:"is_original_content"`
	Subreddit         string  `json:"subreddit"`
}

type publicListing struct {
	Data struct {
		Children []struct {
			Kind string     `json:"kind"`
			Data publicPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type publicComment struct {
	ID          string          `json:"id"`
	ParentID    string          `json:"parent_id"`
	Author      string          `json:"author"`
	CreatedUTC  float64         `json:"created_utc"`
	Score       int             `json:"score"`
	Body        string          `json:"body"`
	Permalink   string          `json:"permalink"`
	Depth       int             `json:"depth"`
	IsSubmitter bool            `json:"is_submitter"`
	Subreddit   string          `json:"subreddit"`
	Replies     json.RawMessage `json:"replies"`
}

type publicCommentListing struct {
	Data struct {
		Children []struct {
			Kind string        `json:"kind"`
			Data publicComment `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func NewPublicClient(userAgent string) (*PublicClient, error) {
	if userAgent == "" {
		return nil, fmt.Errorf("user agent is required for public access")
	}
	return &PublicClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		// Public JSON Limit: 1 req / 2 seconds (Stricter)
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: userAgent,
		baseURL:   "https://www.reddit.com",
	}, nil
}

func (pc *PublicClient) FetchPosts(ctx context.Context, sub string, opts domain.FetchOptions) ([]domain.Post, error) {
	sort := opts.Sort
	if sort == "" {
		sort = "hot"
	}
	switch sort {
	case "hot", "new", "top", "rising", "controversial":
	default:
		return nil, fmt.Errorf("invalid sort %q (use hot, new, top, rising, or controversial)", sort)
	}

	url := fmt.Sprintf("%s/r/%s/%s.json?limit=%d&raw_json=1", pc.baseURL, sub, sort, opts.Limit)
	if opts.TimeFilter != "" {
		url += "&t=" + opts.TimeFilter
	}

	var listing publicListing
	if err := pc.getJSON(ctx, url, &listing); err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		if child.Kind != "t3" {
			continue
		}
		d := child.Data
		posts = append(posts, domain.Post{
			ID:                d.ID,
			Title:             d.Title,
			Author:            authorName(d.Author),
			CreatedUTC:        time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Score:             d.Score,
			UpvoteRatio:       d.UpvoteRatio,
			NumComments:       d.NumComments,
			URL:               d.URL,
			Selftext:          d.Selftext,
			IsSelf:            d.IsSelf,
			Permalink:         d.Permalink,
			Flair:             d.Flair,
			Domain:            d.Domain,
			IsVideo:           d.IsVideo,
			IsOriginalContent: d.IsOriginalContent,
			Subreddit:         d.Subreddit,
		})
	}
	return posts, nil
}

func (pc *PublicClient) FetchComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	url := fmt.Sprintf("%s/comments/%s.json?raw_json=1", pc.baseURL, postID)

	// The comments endpoint returns two listings: the post and its comment tree.
	var envelopes []json.RawMessage
	if err := pc.getJSON(ctx, url, &envelopes); err != nil {
		return nil, err
	}
	if len(envelopes) < 2 {
		return nil, fmt.Errorf("unexpected comments response shape for post %s", postID)
	}

	var listing publicCommentListing
	if err := json.Unmarshal(envelopes[1], &listing); err != nil {
		return nil, fmt.Errorf("decode comments for post %s: %w", postID, err)
	}

	var comments []domain.Comment
	walkPublicComments(&comments, listing, postID, 0)
	return comments, nil
}

// walkPublicComments flattens the nested reply listings. The "replies" field
// is an empty string for leaf comments and a listing object otherwise.
func walkPublicComments(out *[]domain.Comment, listing publicCommentListing, postID string, depth int) {
	for _, child := range listing.Data.Children {
		if child.Kind != "t1" {
			continue // "more" stubs are not expanded via the public endpoint
		}
		d := child.Data
		*out = append(*out, domain.Comment{
			ID:          d.ID,
			PostID:      postID,
			ParentID:    parentRef(d.ParentID),
			Author:      authorName(d.Author),
			CreatedUTC:  time.Unix(int64(d.CreatedUTC), 0).UTC(),
			Score:       d.Score,
			Body:        d.Body,
			Permalink:   d.Permalink,
			Depth:       depth,
			IsSubmitter: d.IsSubmitter,
			Subreddit:   d.Subreddit,
		})
		if len(d.Replies) > 0 && d.Replies[0] == '{' {
			var nested publicCommentListing
			if err := json.Unmarshal(d.Replies, &nested); err == nil {
				walkPublicComments(out, nested, postID, depth+1)
			}
		}
	}
}

func (pc *PublicClient) getJSON(ctx context.Context, url string, v any) error {
	if err := pc.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", pc.userAgent)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("reddit public access status: %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}
