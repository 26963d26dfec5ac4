package simplifier

import (
	"unicode/utf8"

	"github.com/upb/task-simplifier/models"
)

// Selector picks the winning result of a fan-out. Select returns the index
// of the winner and false when no result qualifies.
type Selector interface {
	Select(results []models.CallResult) (int, bool)
}

// ShortestText picks the successful result with the fewest characters.
// Ties go to the earliest result, so input order decides between equals.
type ShortestText struct{}

// Select implements Selector
func (ShortestText) Select(results []models.CallResult) (int, bool) {
	best, bestLen := -1, 0
	for i, r := range results {
		if !r.Success {
			continue
		}
		n := utf8.RuneCountInString(r.SimplifiedTask)
		if best == -1 || n < bestLen {
			best, bestLen = i, n
		}
	}
	return best, best >= 0
}
