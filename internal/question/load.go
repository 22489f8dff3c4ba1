package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalidFile is returned when a question file fails schema validation.
var ErrInvalidFile = errors.New("invalid question file")

const schemaURL = "schema://questions.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

// LoadFile reads and validates a JSON question file.
func LoadFile(path string) ([]Question, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read questions: %w", err)
	}
	return Parse(raw)
}

// Parse validates raw JSON against the question schema and decodes it.
// Questions without a topic are classified from their text, and duplicate
// IDs are rejected.
func Parse(raw []byte) ([]Question, error) {
	sch, err := fileValidator()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}

	var questions []Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}

	seen := make(map[int]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		if seen[q.ID] {
			return nil, fmt.Errorf("%w: duplicate question id %d", ErrInvalidFile, q.ID)
		}
		seen[q.ID] = true
		if strings.TrimSpace(q.Topic) == "" {
			q.Topic = ClassifyTopic(q.Text)
		}
		if len(q.CorrectAnswers) > 1 {
			q.IsMultiSelect = true
		}
	}
	return questions, nil
}

func fileValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(fileSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}
