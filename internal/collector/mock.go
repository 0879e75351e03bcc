package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
)

// MockClient implements domain.Fetcher with deterministic fake data.
type MockClient struct{}

var _ domain.Fetcher = (*MockClient)(nil)

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (mc *MockClient) FetchPosts(ctx context.Context, sub string, opts domain.FetchOptions) ([]domain.Post, error) {
	base := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

	posts := make([]domain.Post, 0, opts.Limit)
	for i := 0; i < opts.Limit; i++ {
		posts = append(posts, domain.Post{
			ID:          fmt.Sprintf("mock_%s_%d", sub, i),
			Title:       fmt.Sprintf("Simulated post #%d from r/%s", i, sub),
			Author:      "simulated_user",
			CreatedUTC:  base.Add(time.Duration(i) * time.Hour),
			Score:       10 * (i + 1),
			UpvoteRatio: 0.9,
			NumComments: 2,
			URL:         "http://localhost/mock-url",
			Selftext:    "Simulated selftext.",
			IsSelf:      true,
			Permalink:   fmt.Sprintf("/r/%s/comments/mock_%s_%d/", sub, sub, i),
			Domain:      "self." + sub,
			Subreddit:   sub,
		})
	}
	return posts, nil
}

func (mc *MockClient) FetchComments(ctx context.Context, postID string) ([]domain.Comment, error) {
	base := time.Date(2024, time.March, 1, 13, 0, 0, 0, time.UTC)

	rootID := postID + "_c0"
	return []domain.Comment{
		{
			ID:          rootID,
			PostID:      postID,
			Author:      "simulated_commenter",
			CreatedUTC:  base,
			Score:       5,
			Body:        "Simulated root comment.",
			Permalink:   fmt.Sprintf("/comments/%s/%s/", postID, rootID),
			Depth:       0,
			Subreddit:   "mock",
			IsSubmitter: false,
		},
		{
			ID:          postID + "_c1",
			PostID:      postID,
			ParentID:    &rootID,
			Author:      "simulated_user",
			CreatedUTC:  base.Add(10 * time.Minute),
			Score:       2,
			Body:        "Simulated reply.",
			Permalink:   fmt.Sprintf("/comments/%s/%s_c1/", postID, postID),
			Depth:       1,
			Subreddit:   "mock",
			IsSubmitter: true,
		},
	}, nil
}
