package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/abhisek/todomon/internal/tasks"
)

const saveSchemaURL = "mem://todomon/user-save.json"

// saveSchema describes the on-disk save document. Saves written before tasks
// existed have no "tasks" key, so it is optional.
var saveSchema = map[string]any{
	"type":     "object",
	"required": []any{"xp", "level", "current_pokemon_id"},
	"properties": map[string]any{
		"xp":                 map[string]any{"type": "integer", "minimum": 0},
		"level":              map[string]any{"type": "integer", "minimum": 1},
		"current_pokemon_id": map[string]any{"type": "integer", "minimum": 1},
		"tasks": map[string]any{
			"type": []any{"array", "null"},
			"items": map[string]any{
				"type":     "object",
				"required": []any{"name", "completed", "recurring"},
				"properties": map[string]any{
					"name":      map[string]any{"type": "string", "minLength": 1},
					"completed": map[string]any{"type": "boolean"},
					"recurring": map[string]any{"type": "boolean"},
					"due_date": map[string]any{
						"type":    []any{"string", "null"},
						"pattern": `^\d{4}-\d{2}-\d{2}$`,
					},
				},
			},
		},
	},
}

var (
	compiledSaveOnce sync.Once
	compiledSave     *jsonschema.Schema
	compiledSaveErr  error
)

func saveValidator() (*jsonschema.Schema, error) {
	compiledSaveOnce.Do(func() {
		// The compiler wants a parsed JSON value, not Go ints.
		defBytes, err := json.Marshal(saveSchema)
		if err != nil {
			compiledSaveErr = fmt.Errorf("marshal schema definition: %w", err)
			return
		}
		var defParsed any
		if err := json.Unmarshal(defBytes, &defParsed); err != nil {
			compiledSaveErr = fmt.Errorf("parse schema definition: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource(saveSchemaURL, defParsed); err != nil {
			compiledSaveErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiledSave, compiledSaveErr = c.Compile(saveSchemaURL)
		if compiledSaveErr != nil {
			compiledSaveErr = fmt.Errorf("compile schema: %w", compiledSaveErr)
		}
	})
	return compiledSave, compiledSaveErr
}

// decodeSave validates raw against the save schema and decodes it. Any
// failure is reported as ErrCorrupt.
func decodeSave(raw []byte) (*UserSave, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrCorrupt, err)
	}

	compiled, err := saveValidator()
	if err != nil {
		return nil, err
	}
	if err := compiled.Validate(parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	var save UserSave
	if err := json.Unmarshal(raw, &save); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if save.Tasks == nil {
		save.Tasks = []tasks.Task{}
	}
	if err := save.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &save, nil
}
