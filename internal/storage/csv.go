package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
)

// CSVBackend stores each collection as a CSV file with a header row. Booleans
// are written as true/false and timestamps as RFC3339 so records decode back
// without loss. Upserts follow the same keyed-map rewrite as the JSON backend.
type CSVBackend struct {
	postsFile    string
	commentsFile string
}

var _ Backend = (*CSVBackend)(nil)

// NewCSV initializes CSV storage in dir, creating the directory if needed.
// Collection files are created lazily on first save.
func NewCSV(dir string) (*CSVBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "init", Path: dir, Err: err}
	}
	return &CSVBackend{
		postsFile:    filepath.Join(dir, "posts.csv"),
		commentsFile: filepath.Join(dir, "comments.csv"),
	}, nil
}

// Close is a no-op; files are not held open between operations.
func (b *CSVBackend) Close() error { return nil }

// SavePosts upserts posts by id into posts.csv.
func (b *CSVBackend) SavePosts(posts []domain.Post) (int, error) {
	if err := validatePosts(posts); err != nil {
		return 0, err
	}
	existing, err := b.readPosts()
	if err != nil {
		return 0, err
	}

	byID := make(map[string]int, len(existing))
	for i, p := range existing {
		byID[p.ID] = i
	}
	for _, p := range posts {
		if i, ok := byID[p.ID]; ok {
			existing[i] = p
		} else {
			byID[p.ID] = len(existing)
			existing = append(existing, p)
		}
	}

	rows := make([][]string, 0, len(existing)+1)
	rows = append(rows, postColumns)
	for _, p := range existing {
		rows = append(rows, postRecord(p))
	}
	if err := writeCSVFile(b.postsFile, rows); err != nil {
		return 0, err
	}
	return len(posts), nil
}

// SaveComments upserts comments by id into comments.csv.
func (b *CSVBackend) SaveComments(comments []domain.Comment) (int, error) {
	if err := validateComments(comments); err != nil {
		return 0, err
	}
	existing, err := b.readComments()
	if err != nil {
		return 0, err
	}

	byID := make(map[string]int, len(existing))
	for i, c := range existing {
		byID[c.ID] = i
	}
	for _, c := range comments {
		if i, ok := byID[c.ID]; ok {
			existing[i] = c
		} else {
			byID[c.ID] = len(existing)
			existing = append(existing, c)
		}
	}

	rows := make([][]string, 0, len(existing)+1)
	rows = append(rows, commentColumns)
	for _, c := range existing {
		rows = append(rows, commentRecord(c))
	}
	if err := writeCSVFile(b.commentsFile, rows); err != nil {
		return 0, err
	}
	return len(comments), nil
}

// GetPosts returns posts matching all filter keys.
func (b *CSVBackend) GetPosts(filter Filter) ([]domain.Post, error) {
	posts, err := b.readPosts()
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return posts, nil
	}
	var matched []domain.Post
	for _, p := range posts {
		if matchPost(p, filter) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// GetComments returns comments matching all filter keys.
func (b *CSVBackend) GetComments(filter Filter) ([]domain.Comment, error) {
	comments, err := b.readComments()
	if err != nil {
		return nil, err
	}
	if len(filter) == 0 {
		return comments, nil
	}
	var matched []domain.Comment
	for _, c := range comments {
		if matchComment(c, filter) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func postRecord(p domain.Post) []string {
	return []string{
		p.ID,
		p.Title,
		p.Author,
		p.CreatedUTC.UTC().Format(time.RFC3339),
		strconv.Itoa(p.Score),
		strconv.FormatFloat(p.UpvoteRatio, 'g', -1, 64),
		strconv.Itoa(p.NumComments),
		p.URL,
		p.Selftext,
		strconv.FormatBool(p.IsSelf),
		p.Permalink,
		p.Flair,
		p.Domain,
		strconv.FormatBool(p.IsVideo),
		strconv.FormatBool(p.IsOriginalContent),
		p.Subreddit,
	}
}

func commentRecord(c domain.Comment) []string {
	parent := ""
	if c.ParentID != nil {
		parent = *c.ParentID
	}
	return []string{
		c.ID,
		c.PostID,
		parent,
		c.Author,
		c.CreatedUTC.UTC().Format(time.RFC3339),
		strconv.Itoa(c.Score),
		c.Body,
		c.Permalink,
		strconv.Itoa(c.Depth),
		strconv.FormatBool(c.IsSubmitter),
		c.Subreddit,
	}
}

func (b *CSVBackend) readPosts() ([]domain.Post, error) {
	rows, err := readCSVFile(b.postsFile, len(postColumns))
	if err != nil || rows == nil {
		return nil, err
	}
	posts := make([]domain.Post, 0, len(rows))
	for _, rec := range rows {
		p, err := decodePost(rec)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (b *CSVBackend) readComments() ([]domain.Comment, error) {
	rows, err := readCSVFile(b.commentsFile, len(commentColumns))
	if err != nil || rows == nil {
		return nil, err
	}
	comments := make([]domain.Comment, 0, len(rows))
	for _, rec := range rows {
		c, err := decodeComment(rec)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, nil
}

func decodePost(rec []string) (domain.Post, error) {
	var p domain.Post
	created, err := time.Parse(time.RFC3339, rec[3])
	if err != nil {
		return p, &SchemaError{Collection: "posts", Field: "created_utc", Err: err}
	}
	score, err := strconv.Atoi(rec[4])
	if err != nil {
		return p, &SchemaError{Collection: "posts", Field: "score", Err: err}
	}
	ratio, err := strconv.ParseFloat(rec[5], 64)
	if err != nil {
		return p, &SchemaError{Collection: "posts", Field: "upvote_ratio", Err: err}
	}
	numComments, err := strconv.Atoi(rec[6])
	if err != nil {
		return p, &SchemaError{Collection: "posts", Field: "num_comments", Err: err}
	}
	isSelf, err := strconv.ParseBool(rec[9])
	if err != nil {
		return p, &SchemaError{Collection: "posts", Field: "is_self", Err: err}
	}
	isVideo, err := strconv.ParseBool(rec[13])
	if err != nil {
		return p, &SchemaError{Collection: "posts", Field: "is_video", Err: err}
	}
	isOC, err := strconv.ParseBool(rec[14])
	if err != nil {
		return p, &SchemaError{Collection: "posts", Field: "is_original_content", Err: err}
	}
	return domain.Post{
		ID:                rec[0],
		Title:             rec[1],
		Author:            rec[2],
		CreatedUTC:        created,
		Score:             score,
		UpvoteRatio:       ratio,
		NumComments:       numComments,
		URL:               rec[7],
		Selftext:          rec[8],
		IsSelf:            isSelf,
		Permalink:         rec[10],
		Flair:             rec[11],
		Domain:            rec[12],
		IsVideo:           isVideo,
		IsOriginalContent: isOC,
		Subreddit:         rec[15],
	}, nil
}

func decodeComment(rec []string) (domain.Comment, error) {
	var c domain.Comment
	created, err := time.Parse(time.RFC3339, rec[4])
	if err != nil {
		return c, &SchemaError{Collection: "comments", Field: "created_utc", Err: err}
	}
	score, err := strconv.Atoi(rec[5])
	if err != nil {
		return c, &SchemaError{Collection: "comments", Field: "score", Err: err}
	}
	depth, err := strconv.Atoi(rec[8])
	if err != nil {
		return c, &SchemaError{Collection: "comments", Field: "depth", Err: err}
	}
	isSubmitter, err := strconv.ParseBool(rec[9])
	if err != nil {
		return c, &SchemaError{Collection: "comments", Field: "is_submitter", Err: err}
	}
	c = domain.Comment{
		ID:          rec[0],
		PostID:      rec[1],
		Author:      rec[3],
		CreatedUTC:  created,
		Score:       score,
		Body:        rec[6],
		Permalink:   rec[7],
		Depth:       depth,
		IsSubmitter: isSubmitter,
		Subreddit:   rec[10],
	}
	if rec[2] != "" {
		parent := rec[2]
		c.ParentID = &parent
	}
	return c, nil
}

// readCSVFile returns the data rows of path, or nil if the file does not
// exist yet.
func readCSVFile(path string, wantFields int) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "read", Path: path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = wantFields

	var rows [][]string
	line := 0
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &SchemaError{Collection: filepath.Base(path), Field: "row", Err: err}
		}
		line++
		if line == 1 {
			continue // header
		}
		if len(rec) != wantFields {
			return nil, &SchemaError{
				Collection: filepath.Base(path),
				Field:      "row",
				Err:        fmt.Errorf("expected %d fields, got %d", wantFields, len(rec)),
			}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func writeCSVFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	return f.Close()
}
