package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRemovesURLs(t *testing.T) {
	p := &Preprocessor{RemoveURLs: true, CollapseWhitespace: true}

	assert.Equal(t, "check this out", p.Clean("check this https://example.com/path?q=1 out"))
	assert.Equal(t, "see", p.Clean("see www.example.com"))
}

func TestCleanStripsPunctuation(t *testing.T) {
	p := &Preprocessor{StripPunctuation: true}

	assert.Equal(t, "Hello world Great", p.Clean("Hello, world! (Great?)"))
	assert.Equal(t, "dont", p.Clean("don't"))
}

func TestCleanLowercases(t *testing.T) {
	p := &Preprocessor{Lowercase: true}

	assert.Equal(t, "tifu by deleting prod", p.Clean("TIFU By Deleting PROD"))
}

func TestCleanRemovesStopwords(t *testing.T) {
	p := &Preprocessor{Lowercase: true, RemoveStopwords: true}

	assert.Equal(t, "quick brown fox jumps lazy dog", p.Clean("the quick brown fox jumps over the lazy dog"))
}

func TestCleanCollapsesWhitespace(t *testing.T) {
	p := &Preprocessor{CollapseWhitespace: true}

	assert.Equal(t, "a b c", p.Clean("  a\t b \n c  "))
}

func TestCleanAllTransforms(t *testing.T) {
	p := NewPreprocessor()

	got := p.Clean("The BEST guide: https://reddit.com/r/golang  (really!)")
	assert.Equal(t, "best guide really", got)
}

func TestCleanEmptyString(t *testing.T) {
	assert.Equal(t, "", NewPreprocessor().Clean(""))
}

func TestZeroValueIsNoOp(t *testing.T) {
	var p Preprocessor
	in := "  Raw TEXT, with http://urls.example and   spaces  "
	assert.Equal(t, in, p.Clean(in))
}

func TestCleanIsIdempotent(t *testing.T) {
	inputs := []string{
		"The quick brown fox visited https://example.com!",
		"ALL CAPS, punctuation... and    gaps",
		"a the of and or",
		"plain text",
	}
	// Every flag combination must satisfy Clean(Clean(x)) == Clean(x).
	for mask := 0; mask < 32; mask++ {
		p := &Preprocessor{
			RemoveURLs:         mask&1 != 0,
			StripPunctuation:   mask&2 != 0,
			Lowercase:          mask&4 != 0,
			RemoveStopwords:    mask&8 != 0,
			CollapseWhitespace: mask&16 != 0,
		}
		for _, in := range inputs {
			once := p.Clean(in)
			assert.Equal(t, once, p.Clean(once), "flags=%05b input=%q", mask, in)
		}
	}
}

func TestCleanBatch(t *testing.T) {
	p := &Preprocessor{Lowercase: true}

	got := p.CleanBatch([]string{"One", "TWO", ""})
	assert.Equal(t, []string{"one", "two", ""}, got)
}
