// Package ingest loads scrape targets from operator-supplied CSV files.
package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/kaispeidel/reddit-pipeline/internal/domain"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

// LoadTargets reads a subreddit,min_score CSV. The header row is skipped and
// rows with invalid subreddit names are dropped (fail-soft).
func LoadTargets(path string) ([]domain.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// Wrap in BOM stripper
	r := csv.NewReader(stripBOM(f))
	r.FieldsPerRecord = -1

	// Consume the header up front; a malformed header row must not shift the
	// header skip onto the first data row.
	if _, err := r.Read(); err == io.EOF {
		return nil, nil
	}

	var targets []domain.Target
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		if len(record) == 0 {
			continue
		}

		sub := strings.TrimSpace(record[0])
		if !subNameRegex.MatchString(sub) {
			continue
		}

		minScore := 0
		if len(record) > 1 {
			minScore, _ = strconv.Atoi(strings.TrimSpace(record[1]))
		}

		targets = append(targets, domain.Target{
			Subreddit: sub,
			MinScore:  minScore,
		})
	}
	return targets, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rn, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rn != '\ufeff' {
		br.UnreadRune()
	}
	return br
}
