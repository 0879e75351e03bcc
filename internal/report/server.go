// Package report serves summary charts over stored data.
package report

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/kaispeidel/reddit-pipeline/internal/domain"
	"github.com/kaispeidel/reddit-pipeline/internal/storage"
)

const topDomainCount = 10

// StartServer serves charts built from the backend's posts on every request.
func StartServer(backend storage.Backend, addr string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		posts, err := backend.GetPosts(nil)
		if err != nil {
			slog.Error("report query failed", "err", err)
			http.Error(w, "failed to load posts", http.StatusInternalServerError)
			return
		}

		if err := renderCharts(w, posts); err != nil {
			slog.Error("chart render failed", "err", err)
		}
	})

	return http.ListenAndServe(addr, mux)
}

// renderCharts writes all charts to w, stopping at the first failure.
func renderCharts(w io.Writer, posts []domain.Post) error {
	if err := subredditPie(posts).Render(w); err != nil {
		return err
	}
	if err := domainBar(posts).Render(w); err != nil {
		return err
	}
	return scoreBar(posts).Render(w)
}

// subredditPie shows how posts distribute across subreddits.
func subredditPie(posts []domain.Post) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Posts per Subreddit"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
	)

	counts := make(map[string]int)
	for _, p := range posts {
		counts[p.Subreddit]++
	}

	var items []opts.PieData
	for sub, n := range counts {
		items = append(items, opts.PieData{Name: sub, Value: n})
	}
	pie.AddSeries("Posts", items)
	return pie
}

// domainBar shows the most linked domains.
func domainBar(posts []domain.Post) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Top Domains"}))

	counts := make(map[string]int)
	for _, p := range posts {
		if p.Domain != "" {
			counts[p.Domain]++
		}
	}

	domains := make([]string, 0, len(counts))
	for d := range counts {
		domains = append(domains, d)
	}
	sort.Slice(domains, func(i, j int) bool {
		if counts[domains[i]] != counts[domains[j]] {
			return counts[domains[i]] > counts[domains[j]]
		}
		return domains[i] < domains[j]
	})
	if len(domains) > topDomainCount {
		domains = domains[:topDomainCount]
	}

	var values []opts.BarData
	for _, d := range domains {
		values = append(values, opts.BarData{Value: counts[d]})
	}
	bar.SetXAxis(domains).AddSeries("Posts", values)
	return bar
}

// scoreBar shows average and maximum score per subreddit.
func scoreBar(posts []domain.Post) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Scores per Subreddit"}))

	totals := make(map[string]int)
	maxes := make(map[string]int)
	counts := make(map[string]int)
	for _, p := range posts {
		totals[p.Subreddit] += p.Score
		counts[p.Subreddit]++
		if p.Score > maxes[p.Subreddit] {
			maxes[p.Subreddit] = p.Score
		}
	}

	subs := make([]string, 0, len(counts))
	for s := range counts {
		subs = append(subs, s)
	}
	sort.Strings(subs)

	var avgs, tops []opts.BarData
	for _, s := range subs {
		avg := fmt.Sprintf("%.1f", float64(totals[s])/float64(counts[s]))
		avgs = append(avgs, opts.BarData{Value: avg})
		tops = append(tops, opts.BarData{Value: maxes[s]})
	}
	bar.SetXAxis(subs).
		AddSeries("Average score", avgs).
		AddSeries("Top score", tops)
	return bar
}
