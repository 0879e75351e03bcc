package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

const listingBody = `{
  "data": {
    "children": [
      {"kind": "t3", "data": {
        "id": "abc",
        "title": "Go 1.24 released",
        "author": "gopher",
        "created_utc": 1709294400,
        "score": 250,
        "upvote_ratio": 0.95,
        "num_comments": 12,
        "url": "https://go.dev/blog",
        "selftext": "",
        "is_self": false,
        "permalink": "/r/golang/comments/abc/",
        "link_flair_text": "release",
        "domain": "go.dev",
        "is_video": false,
        "is_original_content": false,
        "subreddit": "golang"
      }},
      {"kind": "t5", "data": {"id": "ignored"}}
    ]
  }
}`

const commentsBody = `[
  {"data": {"children": []}},
  {"data": {"children": [
    {"kind": "t1", "data": {
      "id": "c1",
      "parent_id": "t3_abc",
      "author": "",
      "created_utc": 1709298000,
      "score": 9,
      "body": "root comment",
      "permalink": "/r/golang/comments/abc/c1/",
      "is_submitter": false,
      "subreddit": "golang",
      "replies": {"data": {"children": [
        {"kind": "t1", "data": {
          "id": "c2",
          "parent_id": "t1_c1",
          "author": "gopher",
          "created_utc": 1709298600,
          "score": 3,
          "body": "nested reply",
          "permalink": "/r/golang/comments/abc/c2/",
          "is_submitter": true,
          "subreddit": "golang",
          "replies": ""
        }}
      ]}}
    }},
    {"kind": "more", "data": {"id": "stub"}}
  ]}}
]`

func testPublicClient(baseURL string) *PublicClient {
	return &PublicClient{
		httpClient: &http.Client{Timeout: time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 1),
		userAgent:  "pipeline-test/0.1",
		baseURL:    baseURL,
	}
}

func TestPublicClientFetchPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/r/golang/hot.json", r.URL.Path)
		assert.Equal(t, "pipeline-test/0.1", r.Header.Get("User-Agent"))
		w.Write([]byte(listingBody))
	}))
	defer srv.Close()

	pc := testPublicClient(srv.URL)
	posts, err := pc.FetchPosts(context.Background(), "golang", domain.FetchOptions{Limit: 25})
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "abc", p.ID)
	assert.Equal(t, "Go 1.24 released", p.Title)
	assert.Equal(t, time.Unix(1709294400, 0).UTC(), p.CreatedUTC)
	assert.Equal(t, 250, p.Score)
	assert.Equal(t, "release", p.Flair)
	assert.Equal(t, "go.dev", p.Domain)
	assert.False(t, p.IsSelf)
}

func TestPublicClientFetchPostsInvalidSort(t *testing.T) {
	pc := testPublicClient("http://localhost:0")
	_, err := pc.FetchPosts(context.Background(), "golang", domain.FetchOptions{Sort: "best"})
	assert.Error(t, err)
}

func TestPublicClientFetchComments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comments/abc.json", r.URL.Path)
		w.Write([]byte(commentsBody))
	}))
	defer srv.Close()

	pc := testPublicClient(srv.URL)
	comments, err := pc.FetchComments(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, comments, 2)

	root := comments[0]
	assert.Equal(t, "c1", root.ID)
	assert.Equal(t, "abc", root.PostID)
	assert.Nil(t, root.ParentID)
	assert.Equal(t, "[deleted]", root.Author)
	assert.Equal(t, 0, root.Depth)

	reply := comments[1]
	assert.Equal(t, "c2", reply.ID)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, "c1", *reply.ParentID)
	assert.Equal(t, 1, reply.Depth)
	assert.True(t, reply.IsSubmitter)
}

func TestPublicClientNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	pc := testPublicClient(srv.URL)
	_, err := pc.FetchPosts(context.Background(), "golang", domain.FetchOptions{Limit: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestNewPublicClientRequiresUserAgent(t *testing.T) {
	_, err := NewPublicClient("")
	assert.Error(t, err)
}
