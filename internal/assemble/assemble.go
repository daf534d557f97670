// Package assemble builds the bounded conversational context handed to the
// generation backend, stitching short follow-up questions ("2014?", "який
// жанр?") onto the previous movie query so the backend keeps its referent.
package assemble

import (
	"strings"
	"unicode"

	"github.com/olehsv/kinobot/internal/intent"
)

// ContextTail is how many recent history lines accompany each request.
const ContextTail = 4

// followUpMarkers are terms that signal the message refines the previous
// movie query rather than starting a new one.
var followUpMarkers = []string{"год", "рік", "країна", "страна", "жанр", "сюжет"}

// Result is the assembled prompt input plus the movie-query transition the
// store should apply.
type Result struct {
	FullQuery    string
	ContextLines []string
	Intent       intent.Intent
	// NextMovieQuery is the value lastMovieQuery should take after this
	// message: unchanged when stitched, the incoming text for a fresh movie
	// query, empty otherwise.
	NextMovieQuery string
	Stitched       bool
}

// Assemble combines the incoming text with the account's retained movie query
// and recent history. It is pure; the caller applies NextMovieQuery.
func Assemble(lastMovieQuery string, history []string, text string) Result {
	var r Result

	if lastMovieQuery != "" && isFollowUp(text) {
		r.Stitched = true
		r.FullQuery = lastMovieQuery + " " + text
		r.NextMovieQuery = lastMovieQuery
		r.ContextLines = append(r.ContextLines, "👤: "+lastMovieQuery)
	} else {
		r.FullQuery = text
		if intent.Classify(text) == intent.Movie {
			r.NextMovieQuery = text
		}
	}

	tail := history
	if len(tail) > ContextTail {
		tail = tail[len(tail)-ContextTail:]
	}
	r.ContextLines = append(r.ContextLines, tail...)

	// Classify the combined query: a stitched "Interstellar 2014" should
	// route as a movie lookup even though "2014" alone would not.
	r.Intent = intent.Classify(r.FullQuery)
	if r.Stitched && r.Intent == intent.General {
		r.Intent = intent.Movie
	}
	return r
}

func isFollowUp(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	if isDigits(trimmed) {
		return true
	}
	lower := strings.ToLower(trimmed)
	for _, marker := range followUpMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
