package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reportPosts() []domain.Post {
	return []domain.Post{
		{ID: "a", Subreddit: "golang", Domain: "go.dev", Score: 10},
		{ID: "b", Subreddit: "golang", Domain: "go.dev", Score: 30},
		{ID: "c", Subreddit: "rust", Domain: "blog.rust-lang.org", Score: 5},
		{ID: "d", Subreddit: "rust", Score: 15},
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("write refused")
}

func TestRenderChartsWritesAll(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderCharts(&buf, reportPosts()))

	html := buf.String()
	assert.Contains(t, html, "Posts per Subreddit")
	assert.Contains(t, html, "Top Domains")
	assert.Contains(t, html, "Scores per Subreddit")
}

func TestRenderChartsReportsWriteFailure(t *testing.T) {
	assert.Error(t, renderCharts(failingWriter{}, reportPosts()))
}

func TestSubredditPieRenders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, subredditPie(reportPosts()).Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "Posts per Subreddit")
	assert.Contains(t, html, "golang")
	assert.Contains(t, html, "rust")
}

func TestDomainBarSkipsEmptyDomains(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, domainBar(reportPosts()).Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "go.dev")
	assert.Contains(t, html, "blog.rust-lang.org")
}

func TestScoreBarRenders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, scoreBar(reportPosts()).Render(&buf))

	html := buf.String()
	assert.Contains(t, html, "Average score")
	assert.Contains(t, html, "20.0")
	assert.Contains(t, html, "10.0")
}
