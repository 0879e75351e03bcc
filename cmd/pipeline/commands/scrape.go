package commands

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/clean"
	"github.com/kaispeidel/reddit-pipeline/internal/collector"
	"github.com/kaispeidel/reddit-pipeline/internal/ingest"
	"github.com/kaispeidel/reddit-pipeline/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	subreddit   string
	targetsFile string
	limit       int
	sortBy      string
	timeFilter  string
	minScore    int
	cleanText   bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Fetch posts and comments, clean them, and store them",
	RunE:  runScrape,
}

func init() {
	scrapeCmd.Flags().StringVar(&subreddit, "subreddit", "", "Subreddit to scrape")
	scrapeCmd.Flags().StringVar(&targetsFile, "targets", "", "CSV of subreddit,min_score targets for a batch run")
	scrapeCmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of posts to scrape")
	scrapeCmd.Flags().StringVar(&sortBy, "sort", "hot", "Post sorting (hot, new, top, rising, controversial)")
	scrapeCmd.Flags().StringVar(&timeFilter, "time", "week", "Time filter for top/controversial (hour, day, week, month, year, all)")
	scrapeCmd.Flags().IntVar(&minScore, "min-score", 0, "Drop posts and comments below this score")
	scrapeCmd.Flags().BoolVar(&cleanText, "clean-text", false, "Normalize title, selftext, and body text")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	if subreddit == "" && targetsFile == "" {
		return fmt.Errorf("either --subreddit or --targets is required")
	}

	backend, err := openBackend()
	if err != nil {
		return err
	}
	defer backend.Close()

	fetcher, err := collector.NewCollector()
	if err != nil {
		return err
	}

	var pre *clean.Preprocessor
	if cleanText {
		pre = clean.NewPreprocessor()
	}
	runner := pipeline.NewRunner(fetcher, clean.NewCleaner(pre), backend)

	cfg := pipeline.Config{
		Subreddit:     subreddit,
		Limit:         limit,
		Sort:          sortBy,
		TimeFilter:    timeFilter,
		CleanText:     cleanText,
		FetchAttempts: 3,
		RetryDelay:    time.Second,
	}
	if cmd.Flags().Changed("min-score") {
		cfg.MinScore = &minScore
	}

	ctx := cmd.Context()

	if targetsFile != "" {
		targets, err := ingest.LoadTargets(targetsFile)
		if err != nil {
			return fmt.Errorf("load targets: %w", err)
		}
		if len(targets) == 0 {
			return fmt.Errorf("no valid targets in %s", targetsFile)
		}
		slog.Info("starting batch run", "targets", len(targets))
		_, err = runner.RunTargets(ctx, targets, cfg)
		return err
	}

	summary, err := runner.Run(ctx, cfg)
	if err != nil {
		return err
	}
	slog.Info("pipeline complete",
		"posts_fetched", summary.PostsFetched,
		"comments_fetched", summary.CommentsFetched,
		"posts_stored", summary.PostsStored,
		"comments_stored", summary.CommentsStored)
	return nil
}
