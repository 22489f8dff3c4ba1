package question

// fileSchema describes a question file: a JSON array of questions.
const fileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "options", "correctAnswers"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "text": {"type": "string", "minLength": 1},
      "options": {
        "type": "array",
        "minItems": 2,
        "items": {
          "type": "object",
          "required": ["letter", "text"],
          "properties": {
            "letter": {"type": "string", "pattern": "^[A-Za-z]$"},
            "text": {"type": "string"}
          }
        }
      },
      "correctAnswers": {
        "type": "array",
        "minItems": 1,
        "items": {"type": "string", "pattern": "^[A-Za-z]$"}
      },
      "isMultiSelect": {"type": "boolean"},
      "topic": {"type": "string"},
      "explanation": {"type": "string"}
    }
  }
}`
