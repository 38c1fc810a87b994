package service

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/agnivade/levenshtein"

	"github.com/cattrack/cattrack/internal/database/repository"
)

// MinSuggestionScore drops weak matches from suggestions.
const MinSuggestionScore = 40

// Suggestion is a scored category for a description.
type Suggestion struct {
	CategoryID string
	Name       string
	Score      int // 0..100
}

// Categoriser suggests categories from transactions that already have one.
// Fit loads labelled transactions; Predict is pure and safe for concurrent use.
type Categoriser struct {
	Transactions *repository.TransactionRepo
	Categories   *repository.CategoryRepo

	mu       sync.RWMutex
	examples []example
	names    map[string]string
}

type example struct {
	text       string
	categoryID string
}

// Fit reloads the labelled examples and category names.
func (c *Categoriser) Fit(ctx context.Context) error {
	labelled, err := c.Transactions.Labelled(ctx)
	if err != nil {
		return err
	}
	cats, err := c.Categories.List(ctx)
	if err != nil {
		return err
	}
	c.Train(labelled, cats)
	return nil
}

// Train replaces the model with the given examples.
func (c *Categoriser) Train(labelled []repository.Labelled, cats []repository.Category) {
	seen := make(map[example]struct{}, len(labelled))
	examples := make([]example, 0, len(labelled))
	for _, l := range labelled {
		ex := example{text: normaliseDescription(l.Description), categoryID: l.CategoryID}
		if ex.text == "" {
			continue
		}
		if _, ok := seen[ex]; ok {
			continue
		}
		seen[ex] = struct{}{}
		examples = append(examples, ex)
	}
	names := make(map[string]string, len(cats))
	for _, cat := range cats {
		names[cat.ID] = cat.Name
	}

	c.mu.Lock()
	c.examples = examples
	c.names = names
	c.mu.Unlock()
}

// Predict returns the best score per category, highest first, at most limit
// entries (limit <= 0 means all).
func (c *Categoriser) Predict(description string, limit int) []Suggestion {
	text := normaliseDescription(description)
	if text == "" {
		return nil
	}

	c.mu.RLock()
	best := map[string]int{}
	for _, ex := range c.examples {
		if _, ok := c.names[ex.categoryID]; !ok {
			continue
		}
		score := similarity(text, ex.text)
		if score > best[ex.categoryID] {
			best[ex.categoryID] = score
		}
	}
	out := make([]Suggestion, 0, len(best))
	for id, score := range best {
		if score < MinSuggestionScore {
			continue
		}
		out = append(out, Suggestion{CategoryID: id, Name: c.names[id], Score: score})
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Suggest fits on current data and predicts for description.
func (c *Categoriser) Suggest(ctx context.Context, description string, limit int) ([]Suggestion, error) {
	if err := c.Fit(ctx); err != nil {
		return nil, err
	}
	return c.Predict(description, limit), nil
}

// similarity maps Levenshtein distance onto 0..100.
func similarity(a, b string) int {
	if a == b {
		return 100
	}
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return int(math.Round((1 - float64(dist)/float64(longest)) * 100))
}

// normaliseDescription upper-cases and drops digits and punctuation, which
// are mostly card numbers, store ids and dates.
func normaliseDescription(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
