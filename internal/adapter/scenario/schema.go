package scenario

import (
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// ValidateSchema checks a raw scenario document against the JSON schema
// before the typed Parse runs, so authoring mistakes surface with schema
// paths instead of zero-value surprises.
func ValidateSchema(doc []byte, schemaPath string) error {
	schema, err := jsonschema.Compile(schemaPath)
	if err != nil {
		return fmt.Errorf("scenario schema: %w", err)
	}
	var v any
	if err := yaml.Unmarshal(doc, &v); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	return nil
}

// LoadValidated is the production entry point: schema check, then the
// typed load.
func LoadValidated(path, schemaPath string) (Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, err
	}
	if schemaPath != "" {
		if err := ValidateSchema(b, schemaPath); err != nil {
			return Scenario{}, err
		}
	}
	return Parse(b)
}
