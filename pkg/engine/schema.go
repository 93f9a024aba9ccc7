package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const schemaURL = "https://credit-grader.local/schemas/ruleset.schema.json"

var documentSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := rulesFS.ReadFile("rules/schema.json")
	if err != nil {
		return nil, err
	}
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	if err := c.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("rule set schema load failed: %w", err)
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("rule set schema compile failed: %w", err)
	}
	return compiled, nil
})

// validateDocument checks the structure of a YAML rule set before it is decoded.
// The YAML tree goes through JSON so numbers reach the validator as json.Number.
func validateDocument(data []byte) error {
	schema, err := documentSchema()
	if err != nil {
		return err
	}

	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to parse rule set: %w", err)
	}
	if tree == nil {
		return fmt.Errorf("rule set is empty")
	}
	b, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("rule set is not JSON compatible: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("rule set is not JSON compatible: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("rule set does not match schema: %w", err)
	}
	return nil
}
