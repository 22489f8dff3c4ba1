package question

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCorrect(t *testing.T) {
	q := Question{ID: 1, CorrectAnswers: []string{"B", "D"}}

	tests := []struct {
		name     string
		selected []string
		want     bool
	}{
		{"exact", []string{"B", "D"}, true},
		{"reordered", []string{"D", "B"}, true},
		{"lowercase", []string{"b", "d"}, true},
		{"duplicate letters", []string{"B", "B", "D"}, true},
		{"partial", []string{"B"}, false},
		{"extra", []string{"B", "C", "D"}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, q.IsCorrect(tt.selected))
		})
	}
}

func TestClassifyTopic(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"", DefaultTopic},
		{"zzz", DefaultTopic},
		{"OSPF BGP EIGRP", "Routing & Switching Protocols"},
		{"Configure WPA3 on the SSID", "Wireless Networking"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyTopic(tt.text), "ClassifyTopic(%q)", tt.text)
	}
}

func TestTopicOrClassified(t *testing.T) {
	assert.Equal(t, "Custom", Question{Topic: "Custom", Text: "OSPF"}.TopicOrClassified())
	assert.Equal(t, "Routing & Switching Protocols", Question{Text: "OSPF BGP EIGRP"}.TopicOrClassified())
}

func TestTopicsEndsWithDefault(t *testing.T) {
	topics := Topics()
	require.NotEmpty(t, topics)
	assert.Equal(t, DefaultTopic, topics[len(topics)-1])
}

const validFile = `[
  {"id": 1, "text": "OSPF BGP EIGRP", "options": [{"letter": "A", "text": "x"}, {"letter": "B", "text": "y"}], "correctAnswers": ["A"]},
  {"id": 2, "text": "Pick two", "options": [{"letter": "A", "text": "x"}, {"letter": "B", "text": "y"}, {"letter": "C", "text": "z"}], "correctAnswers": ["A", "C"], "topic": "Custom"}
]`

func TestParse(t *testing.T) {
	qs, err := Parse([]byte(validFile))
	require.NoError(t, err)
	require.Len(t, qs, 2)

	assert.Equal(t, "Routing & Switching Protocols", qs[0].Topic)
	assert.False(t, qs[0].IsMultiSelect)
	assert.Equal(t, "Custom", qs[1].Topic)
	assert.True(t, qs[1].IsMultiSelect)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{`},
		{"not an array", `{"id": 1}`},
		{"missing text", `[{"id": 1, "options": [{"letter": "A", "text": "x"}, {"letter": "B", "text": "y"}], "correctAnswers": ["A"]}]`},
		{"no correct answers", `[{"id": 1, "text": "q", "options": [{"letter": "A", "text": "x"}, {"letter": "B", "text": "y"}], "correctAnswers": []}]`},
		{"bad letter", `[{"id": 1, "text": "q", "options": [{"letter": "AB", "text": "x"}, {"letter": "B", "text": "y"}], "correctAnswers": ["A"]}]`},
		{"duplicate id", `[
			{"id": 1, "text": "q", "options": [{"letter": "A", "text": "x"}, {"letter": "B", "text": "y"}], "correctAnswers": ["A"]},
			{"id": 1, "text": "r", "options": [{"letter": "A", "text": "x"}, {"letter": "B", "text": "y"}], "correctAnswers": ["B"]}
		]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.raw))
			require.ErrorIs(t, err, ErrInvalidFile)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	require.NoError(t, os.WriteFile(path, []byte(validFile), 0o644))

	qs, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, qs, 2)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestIndex(t *testing.T) {
	idx := Index([]Question{{ID: 3, Text: "a"}, {ID: 7, Text: "b"}})
	assert.Len(t, idx, 2)
	assert.Equal(t, "b", idx[7].Text)
}
