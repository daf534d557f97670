package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{name: "code ukrainian", text: "напиши python код", want: Code},
		{name: "movie ukrainian", text: "який рейтинг у цього фільму", want: Movie},
		{name: "both keywords is ambiguous", text: "напиши код про фільм", want: General},
		{name: "movie english", text: "what anime has the best plot", want: Movie},
		{name: "code english", text: "create a program in javascript", want: Code},
		{name: "plain chat", text: "як справи?", want: General},
		{name: "empty", text: "", want: General},
		{name: "case insensitive", text: "PYTHON скрипт", want: Code},
		{name: "movie and code mixed english", text: "write python code for a movie database", want: General},
		{name: "substring containment", text: "опиши сюжет", want: Movie},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text), "text: %q", tt.text)
		})
	}
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "movie", Movie.String())
	assert.Equal(t, "code", Code.String())
	assert.Equal(t, "general", General.String())
}
