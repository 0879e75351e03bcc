package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostValidate(t *testing.T) {
	p := Post{ID: "a", Title: "t", Author: "u", Subreddit: "golang"}
	assert.Empty(t, p.Validate())

	p.Title = ""
	assert.Equal(t, "title", p.Validate())

	assert.Equal(t, "id", Post{}.Validate())
}

func TestCommentValidate(t *testing.T) {
	c := Comment{ID: "c1", PostID: "p1", Author: "u", Subreddit: "golang"}
	assert.Empty(t, c.Validate())

	c.PostID = ""
	assert.Equal(t, "post_id", c.Validate())
}

func TestPostJSONFieldNames(t *testing.T) {
	p := Post{
		ID:         "a",
		Title:      "t",
		Author:     "u",
		Subreddit:  "golang",
		CreatedUTC: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		IsSelf:     true,
	}
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Contains(t, fields, "created_utc")
	assert.Contains(t, fields, "is_self")
	assert.Contains(t, fields, "num_comments")
	// Empty flair is omitted to match the source payloads.
	assert.NotContains(t, fields, "flair")
}
