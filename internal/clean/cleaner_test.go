package clean

import (
	"testing"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func post(id string, score int, created time.Time) domain.Post {
	return domain.Post{
		ID:         id,
		Title:      "Some Title",
		Author:     "author",
		Subreddit:  "golang",
		Score:      score,
		CreatedUTC: created,
	}
}

func comment(id string, score int, created time.Time) domain.Comment {
	return domain.Comment{
		ID:         id,
		PostID:     "p1",
		Author:     "author",
		Subreddit:  "golang",
		Score:      score,
		Body:       "Some Body",
		CreatedUTC: created,
	}
}

var baseTime = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestCleanPostsEmptyInput(t *testing.T) {
	c := NewCleaner(nil)

	assert.Empty(t, c.CleanPosts(nil, PostOptions{}))
	assert.Empty(t, c.CleanComments(nil, CommentOptions{}))
}

func TestCleanPostsDedupeKeepsHighestScore(t *testing.T) {
	c := NewCleaner(nil)
	posts := []domain.Post{
		post("dup", 3, baseTime),
		post("other", 1, baseTime),
		post("dup", 7, baseTime),
	}

	got := c.CleanPosts(posts, PostOptions{})
	assert.Len(t, got, 2)
	assert.Equal(t, "dup", got[0].ID)
	assert.Equal(t, 7, got[0].Score)
	assert.Equal(t, "other", got[1].ID)
}

func TestCleanPostsMinScoreInclusive(t *testing.T) {
	c := NewCleaner(nil)
	min := 10
	posts := []domain.Post{
		post("a", 5, baseTime),
		post("b", 10, baseTime),
		post("c", 15, baseTime),
	}

	got := c.CleanPosts(posts, PostOptions{MinScore: &min})
	ids := []string{got[0].ID, got[1].ID}
	assert.Equal(t, []string{"b", "c"}, ids)
}

func TestCleanPostsDateWindow(t *testing.T) {
	c := NewCleaner(nil)
	after := baseTime
	before := baseTime.Add(48 * time.Hour)
	posts := []domain.Post{
		post("early", 1, baseTime.Add(-time.Hour)),
		post("onAfter", 1, baseTime),
		post("mid", 1, baseTime.Add(24*time.Hour)),
		post("onBefore", 1, before),
		post("late", 1, before.Add(time.Minute)),
	}

	got := c.CleanPosts(posts, PostOptions{After: &after, Before: &before})
	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"onAfter", "mid", "onBefore"}, ids)
}

func TestCleanPostsTextFields(t *testing.T) {
	c := NewCleaner(NewPreprocessor())
	p := post("a", 1, baseTime)
	p.Title = "The BEST Title!"
	p.Selftext = "Visit https://example.com NOW."

	got := c.CleanPosts([]domain.Post{p}, PostOptions{CleanTitle: true, CleanSelftext: true})
	assert.Equal(t, "best title", got[0].Title)
	assert.Equal(t, "visit", got[0].Selftext)
}

func TestCleanPostsSkipsTextWithoutFlags(t *testing.T) {
	c := NewCleaner(NewPreprocessor())
	p := post("a", 1, baseTime)
	p.Title = "UNTOUCHED, Title!"

	got := c.CleanPosts([]domain.Post{p}, PostOptions{})
	assert.Equal(t, "UNTOUCHED, Title!", got[0].Title)
}

func TestCleanPostsKeepPredicate(t *testing.T) {
	c := NewCleaner(nil)
	selfPost := post("self", 1, baseTime)
	selfPost.IsSelf = true
	linkPost := post("link", 1, baseTime)

	got := c.CleanPosts([]domain.Post{selfPost, linkPost}, PostOptions{
		Keep: func(p domain.Post) bool { return p.IsSelf },
	})
	require.Len(t, got, 1)
	assert.Equal(t, "self", got[0].ID)
}

func TestCleanPostsKeepAfterBuiltinFilters(t *testing.T) {
	c := NewCleaner(nil)
	min := 10
	posts := []domain.Post{
		post("low", 5, baseTime),
		post("match", 20, baseTime),
		post("rejected", 30, baseTime),
	}

	got := c.CleanPosts(posts, PostOptions{
		MinScore: &min,
		Keep:     func(p domain.Post) bool { return p.ID != "rejected" },
	})
	require.Len(t, got, 1)
	assert.Equal(t, "match", got[0].ID)
}

func TestCleanCommentsKeepPredicate(t *testing.T) {
	c := NewCleaner(nil)
	short := comment("short", 1, baseTime)
	long := comment("long", 1, baseTime)
	long.Body = "a substantially longer comment body"

	got := c.CleanComments([]domain.Comment{short, long}, CommentOptions{
		Keep: func(cm domain.Comment) bool { return len(cm.Body) > 20 },
	})
	require.Len(t, got, 1)
	assert.Equal(t, "long", got[0].ID)
}

func TestCleanCommentsDedupeAndFilter(t *testing.T) {
	c := NewCleaner(nil)
	min := 5
	comments := []domain.Comment{
		comment("dup", 2, baseTime),
		comment("dup", 8, baseTime),
		comment("low", 4, baseTime),
	}

	got := c.CleanComments(comments, CommentOptions{MinScore: &min})
	assert.Len(t, got, 1)
	assert.Equal(t, "dup", got[0].ID)
	assert.Equal(t, 8, got[0].Score)
}

func TestCleanCommentsBody(t *testing.T) {
	c := NewCleaner(NewPreprocessor())
	cm := comment("c1", 1, baseTime)
	cm.Body = "This is SO cool: https://example.com"

	got := c.CleanComments([]domain.Comment{cm}, CommentOptions{CleanBody: true})
	assert.Equal(t, "cool", got[0].Body)
}
