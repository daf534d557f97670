// Package intent tags inbound messages so the right prompt template and
// search augmentation can be chosen. Classification is plain case-insensitive
// keyword containment; anything ambiguous stays General rather than guessing.
package intent

import "strings"

type Intent int

const (
	General Intent = iota
	Movie
	Code
)

func (i Intent) String() string {
	switch i {
	case Movie:
		return "movie"
	case Code:
		return "code"
	default:
		return "general"
	}
}

// Keyword sets cover both Ukrainian and English phrasing. The lists are
// policy data carried over from production traffic; order does not matter.
var movieKeywords = []string{
	"фільм", "серіал", "аніме", "мультфільм", "movie", "anime", "series",
	"кіно", "фильм", "сюжет", "сюжету", "опис",
}

var codeKeywords = []string{
	"код", "html", "css", "js", "javascript", "python", "створи", "скрипт",
	"програма", "create", "program",
}

// Classify tags text as Movie, Code or General. A text matching both keyword
// sets is treated as General: a query that mentions both "python" and "аніме"
// is ambiguous and must not be misrouted to either template.
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	movie := containsAny(lower, movieKeywords)
	code := containsAny(lower, codeKeywords)

	switch {
	case movie && code:
		return General
	case movie:
		return Movie
	case code:
		return Code
	default:
		return General
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
