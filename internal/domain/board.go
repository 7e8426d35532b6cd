package domain

import (
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Board is a planning board inside a workspace.
type Board struct {
	ID          int64
	WorkspaceID int64
	Title       string
	Description string
	Active      bool
	StartDate   time.Time
	CreatedByID string
	CreatedAt   time.Time
}

type NoteCategory struct {
	ID         int64
	BoardID    int64
	Title      string
	Sequential int
}

type Note struct {
	ID          int64
	BoardID     int64
	CategoryID  int64
	Title       string
	Description string
	Content     string
	Active      bool
	CreatedByID string
	CreatedAt   time.Time
}

// FoldTitle reduces a title to a comparison key: accents removed, whitespace
// dropped, lower-cased.
func FoldTitle(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, folded)
}

// MatchCategory finds the category whose folded title equals title's.
func MatchCategory(categories []NoteCategory, title string) (NoteCategory, bool) {
	key := FoldTitle(title)
	for _, c := range categories {
		if FoldTitle(c.Title) == key {
			return c, true
		}
	}
	return NoteCategory{}, false
}

// NextCategorySequential returns one past the highest sequential in use.
func NextCategorySequential(categories []NoteCategory) int {
	maxSeq := 0
	for _, c := range categories {
		if c.Sequential > maxSeq {
			maxSeq = c.Sequential
		}
	}
	return maxSeq + 1
}
