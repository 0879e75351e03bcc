package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
)

// JSONBackend stores each collection as a JSON array in its own file under
// a data directory. Upserts load the existing array into a map keyed by id,
// overwrite, and rewrite the whole file.
type JSONBackend struct {
	postsFile    string
	commentsFile string
}

var _ Backend = (*JSONBackend)(nil)

// NewJSON initializes JSON storage in dir, creating it and empty collection
// files if needed.
func NewJSON(dir string) (*JSONBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, &StorageError{Op: "init", Path: dir, Err: err}
	}
	b := &JSONBackend{
		postsFile:    filepath.Join(dir, "posts.json"),
		commentsFile: filepath.Join(dir, "comments.json"),
	}
	for _, f := range []string{b.postsFile, b.commentsFile} {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			if err := os.WriteFile(f, []byte("[]"), 0o644); err != nil {
				return nil, &StorageError{Op: "init", Path: f, Err: err}
			}
		}
	}
	return b, nil
}

// Close is a no-op; files are not held open between operations.
func (b *JSONBackend) Close() error { return nil }

// SavePosts upserts posts by id into posts.json.
func (b *JSONBackend) SavePosts(posts []domain.Post) (int, error) {
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

	if err := writeJSONFile(b.postsFile, existing); err != nil {
		return 0, err
	}
	return len(posts), nil
}

// SaveComments upserts comments by id into comments.json.
func (b *JSONBackend) SaveComments(comments []domain.Comment) (int, error) {
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

	if err := writeJSONFile(b.commentsFile, existing); err != nil {
		return 0, err
	}
	return len(comments), nil
}

// GetPosts returns posts matching all filter keys.
func (b *JSONBackend) GetPosts(filter Filter) ([]domain.Post, error) {
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
func (b *JSONBackend) GetComments(filter Filter) ([]domain.Comment, error) {
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

func (b *JSONBackend) readPosts() ([]domain.Post, error) {
	data, err := os.ReadFile(b.postsFile)
	if err != nil {
		return nil, &StorageError{Op: "read posts", Path: b.postsFile, Err: err}
	}
	var posts []domain.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, &SchemaError{Collection: "posts", Field: "document", Err: err}
	}
	return posts, nil
}

func (b *JSONBackend) readComments() ([]domain.Comment, error) {
	data, err := os.ReadFile(b.commentsFile)
	if err != nil {
		return nil, &StorageError{Op: "read comments", Path: b.commentsFile, Err: err}
	}
	var comments []domain.Comment
	if err := json.Unmarshal(data, &comments); err != nil {
		return nil, &SchemaError{Collection: "comments", Field: "document", Err: err}
	}
	return comments, nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return &StorageError{Op: "write", Path: path, Err: err}
	}
	return f.Close()
}
