// Package clean normalizes scraped text and filters post/comment collections
// before handoff to analysis.
package clean

import (
	"regexp"
	"strings"
)

var (
	urlPattern         = regexp.MustCompile(`https?://\S+|www\.\S+`)
	punctuationPattern = regexp.MustCompile(`[^\w\s]`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// Preprocessor applies rule-based text normalization. The zero value is a
// no-op; enable transforms via the flags. Transforms always run in a fixed
// order (URLs, punctuation, case, stopwords, whitespace) so output is
// deterministic, and Clean is idempotent for every flag combination.
type Preprocessor struct {
	RemoveURLs         bool
	StripPunctuation   bool
	Lowercase          bool
	RemoveStopwords    bool
	CollapseWhitespace bool
}

// NewPreprocessor returns a preprocessor with every transform enabled.
func NewPreprocessor() *Preprocessor {
	return &Preprocessor{
		RemoveURLs:         true,
		StripPunctuation:   true,
		Lowercase:          true,
		RemoveStopwords:    true,
		CollapseWhitespace: true,
	}
}

// Clean applies the enabled transforms to text.
func (p *Preprocessor) Clean(text string) string {
	if text == "" {
		return ""
	}
	if p.RemoveURLs {
		text = urlPattern.ReplaceAllString(text, "")
	}
	if p.StripPunctuation {
		text = punctuationPattern.ReplaceAllString(text, "")
	}
	if p.Lowercase {
		text = strings.ToLower(text)
	}
	if p.RemoveStopwords {
		kept := make([]string, 0, 16)
		for _, tok := range strings.Fields(text) {
			if !stopwords[tok] {
				kept = append(kept, tok)
			}
		}
		text = strings.Join(kept, " ")
	}
	if p.CollapseWhitespace {
		text = strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " "))
	}
	return text
}

// CleanBatch applies Clean to each text in order.
func (p *Preprocessor) CleanBatch(texts []string) []string {
	out := make([]string, len(texts))
	for i, t := range texts {
		out[i] = p.Clean(t)
	}
	return out
}
