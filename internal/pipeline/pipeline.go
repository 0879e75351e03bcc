// Package pipeline sequences one scrape run: fetch, clean, store, verify.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/clean"
	"github.com/kaispeidel/reddit-pipeline/internal/collector"
	"github.com/kaispeidel/reddit-pipeline/internal/domain"
	"github.com/kaispeidel/reddit-pipeline/internal/storage"
)

// Config describes one pipeline run against a single subreddit.
type Config struct {
	Subreddit  string
	Limit      int
	Sort       string
	TimeFilter string

	// Cleaning; MinScore nil disables the score filter.
	MinScore  *int
	CleanText bool

	// Fetch retry policy. Storage and cleaning errors are never retried.
	FetchAttempts int
	RetryDelay    time.Duration
}

// Summary reports what one run fetched and stored.
type Summary struct {
	PostsFetched    int
	CommentsFetched int
	PostsStored     int
	CommentsStored  int
}

// Runner wires a fetcher, cleaner, and storage backend into a driver.
type Runner struct {
	fetcher domain.Fetcher
	cleaner *clean.Cleaner
	backend storage.Backend
}

func NewRunner(f domain.Fetcher, c *clean.Cleaner, b storage.Backend) *Runner {
	return &Runner{fetcher: f, cleaner: c, backend: b}
}

// Run executes fetch, clean, store, and a verification read for cfg.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Summary, error) {
	opts := domain.FetchOptions{
		Limit:      cfg.Limit,
		Sort:       cfg.Sort,
		TimeFilter: cfg.TimeFilter,
	}

	slog.Info("starting scrape", "subreddit", cfg.Subreddit, "limit", cfg.Limit, "sort", cfg.Sort)

	var result *domain.ScrapeResult
	err := withRetry(ctx, cfg.FetchAttempts, cfg.RetryDelay, func() error {
		var fetchErr error
		result, fetchErr = collector.PostsWithComments(ctx, r.fetcher, cfg.Subreddit, opts)
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch r/%s: %w", cfg.Subreddit, err)
	}

	posts := result.Posts
	comments := result.Comments
	slog.Info("scraped", "posts", len(posts), "comments", len(comments))

	summary := &Summary{PostsFetched: len(posts), CommentsFetched: len(comments)}

	if cfg.MinScore != nil || cfg.CleanText {
		posts = r.cleaner.CleanPosts(posts, clean.PostOptions{
			MinScore:      cfg.MinScore,
			CleanTitle:    cfg.CleanText,
			CleanSelftext: cfg.CleanText,
		})
		comments = r.cleaner.CleanComments(comments, clean.CommentOptions{
			MinScore:  cfg.MinScore,
			CleanBody: cfg.CleanText,
		})
		slog.Info("cleaned", "posts", len(posts), "comments", len(comments))
	}

	stored, err := r.backend.SavePosts(posts)
	if err != nil {
		return nil, fmt.Errorf("store posts: %w", err)
	}
	summary.PostsStored = stored

	stored, err = r.backend.SaveComments(comments)
	if err != nil {
		return nil, fmt.Errorf("store comments: %w", err)
	}
	summary.CommentsStored = stored

	// Verification read: the batch must be visible through the backend.
	storedPosts, err := r.backend.GetPosts(storage.Filter{"subreddit": cfg.Subreddit})
	if err != nil {
		return nil, fmt.Errorf("verify posts: %w", err)
	}
	slog.Info("stored", "posts", summary.PostsStored, "comments", summary.CommentsStored,
		"visible_posts", len(storedPosts))

	return summary, nil
}

// RunTargets runs the pipeline for each target in order, applying each
// target's score floor. The first failure aborts the batch.
func (r *Runner) RunTargets(ctx context.Context, targets []domain.Target, base Config) ([]*Summary, error) {
	summaries := make([]*Summary, 0, len(targets))
	for _, t := range targets {
		cfg := base
		cfg.Subreddit = t.Subreddit
		if t.MinScore > 0 {
			min := t.MinScore
			cfg.MinScore = &min
		}
		s, err := r.Run(ctx, cfg)
		if err != nil {
			return summaries, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
