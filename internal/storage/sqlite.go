package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteBackend stores posts and comments in two tables keyed by id.
type SQLiteBackend struct {
	db   *sql.DB
	path string
}

var _ Backend = (*SQLiteBackend)(nil)

var (
	postColumns = []string{
		"id", "title", "author", "created_utc", "score", "upvote_ratio",
		"num_comments", "url", "selftext", "is_self", "permalink", "flair",
		"domain", "is_video", "is_original_content", "subreddit",
	}
	commentColumns = []string{
		"id", "post_id", "parent_id", "author", "created_utc", "score",
		"body", "permalink", "depth", "is_submitter", "subreddit",
	}
)

// NewSQLite opens or creates the database at path and ensures the schema.
func NewSQLite(path string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "open", Path: path, Err: err}
	}
	s := &SQLiteBackend{db: db, path: path}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, &StorageError{Op: "migrate", Path: path, Err: err}
	}
	return s, nil
}

func (s *SQLiteBackend) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		created_utc TEXT NOT NULL,
		score INTEGER NOT NULL,
		upvote_ratio REAL,
		num_comments INTEGER NOT NULL,
		url TEXT,
		selftext TEXT,
		is_self INTEGER NOT NULL,
		permalink TEXT,
		flair TEXT,
		domain TEXT,
		is_video INTEGER,
		is_original_content INTEGER,
		subreddit TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS comments (
		id TEXT PRIMARY KEY,
		post_id TEXT NOT NULL,
		parent_id TEXT,
		author TEXT NOT NULL,
		created_utc TEXT NOT NULL,
		score INTEGER NOT NULL,
		body TEXT,
		permalink TEXT,
		depth INTEGER,
		is_submitter INTEGER,
		subreddit TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_posts_subreddit ON posts(subreddit);
	CREATE INDEX IF NOT EXISTS idx_comments_post_id ON comments(post_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

// SavePosts upserts the batch in a single transaction.
func (s *SQLiteBackend) SavePosts(posts []domain.Post) (int, error) {
	if err := validatePosts(posts); err != nil {
		return 0, err
	}
	if len(posts) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, &StorageError{Op: "save posts", Path: s.path, Err: err}
	}
	stmt, err := tx.Prepare(`
		INSERT INTO posts (id, title, author, created_utc, score, upvote_ratio,
			num_comments, url, selftext, is_self, permalink, flair, domain,
			is_video, is_original_content, subreddit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			created_utc = excluded.created_utc,
			score = excluded.score,
			upvote_ratio = excluded.upvote_ratio,
			num_comments = excluded.num_comments,
			url = excluded.url,
			selftext = excluded.selftext,
			is_self = excluded.is_self,
			permalink = excluded.permalink,
			flair = excluded.flair,
			domain = excluded.domain,
			is_video = excluded.is_video,
			is_original_content = excluded.is_original_content,
			subreddit = excluded.subreddit`)
	if err != nil {
		tx.Rollback()
		return 0, &StorageError{Op: "save posts", Path: s.path, Err: err}
	}
	defer stmt.Close()

	for _, p := range posts {
		_, err := stmt.Exec(p.ID, p.Title, p.Author, p.CreatedUTC.UTC().Format(time.RFC3339),
			p.Score, p.UpvoteRatio, p.NumComments, p.URL, p.Selftext, p.IsSelf,
			p.Permalink, p.Flair, p.Domain, p.IsVideo, p.IsOriginalContent, p.Subreddit)
		if err != nil {
			tx.Rollback()
			return 0, &StorageError{Op: "save posts", Path: s.path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, &StorageError{Op: "save posts", Path: s.path, Err: err}
	}
	return len(posts), nil
}

// SaveComments upserts the batch in a single transaction.
func (s *SQLiteBackend) SaveComments(comments []domain.Comment) (int, error) {
	if err := validateComments(comments); err != nil {
		return 0, err
	}
	if len(comments) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, &StorageError{Op: "save comments", Path: s.path, Err: err}
	}
	stmt, err := tx.Prepare(`
		INSERT INTO comments (id, post_id, parent_id, author, created_utc,
			score, body, permalink, depth, is_submitter, subreddit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			post_id = excluded.post_id,
			parent_id = excluded.parent_id,
			author = excluded.author,
			created_utc = excluded.created_utc,
			score = excluded.score,
			body = excluded.body,
			permalink = excluded.permalink,
			depth = excluded.depth,
			is_submitter = excluded.is_submitter,
			subreddit = excluded.subreddit`)
	if err != nil {
		tx.Rollback()
		return 0, &StorageError{Op: "save comments", Path: s.path, Err: err}
	}
	defer stmt.Close()

	for _, c := range comments {
		_, err := stmt.Exec(c.ID, c.PostID, c.ParentID, c.Author,
			c.CreatedUTC.UTC().Format(time.RFC3339), c.Score, c.Body,
			c.Permalink, c.Depth, c.IsSubmitter, c.Subreddit)
		if err != nil {
			tx.Rollback()
			return 0, &StorageError{Op: "save comments", Path: s.path, Err: err}
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, &StorageError{Op: "save comments", Path: s.path, Err: err}
	}
	return len(comments), nil
}

// GetPosts returns posts matching all filter keys.
func (s *SQLiteBackend) GetPosts(filter Filter) ([]domain.Post, error) {
	query := "SELECT " + strings.Join(postColumns, ", ") + " FROM posts"
	where, args := buildWhere(filter, postColumns)
	rows, err := s.db.Query(query+where, args...)
	if err != nil {
		return nil, &StorageError{Op: "get posts", Path: s.path, Err: err}
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		var p domain.Post
		var created string
		var flair sql.NullString
		if err := rows.Scan(&p.ID, &p.Title, &p.Author, &created, &p.Score,
			&p.UpvoteRatio, &p.NumComments, &p.URL, &p.Selftext, &p.IsSelf,
			&p.Permalink, &flair, &p.Domain, &p.IsVideo, &p.IsOriginalContent,
			&p.Subreddit); err != nil {
			return nil, &SchemaError{Collection: "posts", Field: "row", Err: err}
		}
		t, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, &SchemaError{Collection: "posts", Field: "created_utc", Err: err}
		}
		p.CreatedUTC = t
		p.Flair = flair.String
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "get posts", Path: s.path, Err: err}
	}
	return posts, nil
}

// GetComments returns comments matching all filter keys.
func (s *SQLiteBackend) GetComments(filter Filter) ([]domain.Comment, error) {
	query := "SELECT " + strings.Join(commentColumns, ", ") + " FROM comments"
	where, args := buildWhere(filter, commentColumns)
	rows, err := s.db.Query(query+where, args...)
	if err != nil {
		return nil, &StorageError{Op: "get comments", Path: s.path, Err: err}
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var created string
		var parent sql.NullString
		if err := rows.Scan(&c.ID, &c.PostID, &parent, &c.Author, &created,
			&c.Score, &c.Body, &c.Permalink, &c.Depth, &c.IsSubmitter,
			&c.Subreddit); err != nil {
			return nil, &SchemaError{Collection: "comments", Field: "row", Err: err}
		}
		t, err := time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, &SchemaError{Collection: "comments", Field: "created_utc", Err: err}
		}
		c.CreatedUTC = t
		if parent.Valid {
			v := parent.String
			c.ParentID = &v
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "get comments", Path: s.path, Err: err}
	}
	return comments, nil
}

// buildWhere turns a filter into a WHERE clause over known columns only;
// unknown keys are skipped.
func buildWhere(filter Filter, columns []string) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}
	var clauses []string
	var args []any
	for _, col := range columns {
		v, ok := filter[col]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("%s = ?", col))
		if t, isTime := v.(time.Time); isTime {
			args = append(args, t.UTC().Format(time.RFC3339))
		} else {
			args = append(args, v)
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
