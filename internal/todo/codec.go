package todo

import (
	"encoding/json"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/idilsaglam/tada/internal/model"
)

const listSchemaURL = "https://github.com/idilsaglam/tada/todos.schema.json"

const listSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "complete"],
    "properties": {
      "id": {"type": "integer", "minimum": 1},
      "text": {"type": "string"},
      "complete": {"type": "boolean"}
    }
  }
}`

var listSchema = jsonschema.MustCompileString(listSchemaURL, listSchemaJSON)

// Encode serializes the list in its persisted form. An empty list encodes
// as [] rather than null.
func Encode(items []model.Item) (string, error) {
	b, err := json.Marshal(model.Clone(items))
	if err != nil {
		return "", fmt.Errorf("json marshal: %w", err)
	}
	return string(b), nil
}

// Decode parses a persisted list. A JSON null decodes to an empty list.
// Ids must be strictly increasing so the last item always carries the
// largest id.
func Decode(s string) ([]model.Item, error) {
	if strings.TrimSpace(s) == "null" {
		return []model.Item{}, nil
	}

	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("json decode: %w", err)
	}
	if err := listSchema.Validate(raw); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}

	var items []model.Item
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i].ID <= items[i-1].ID {
			return nil, fmt.Errorf("id %d at position %d does not follow id %d", items[i].ID, i, items[i-1].ID)
		}
	}
	return model.Clone(items), nil
}
