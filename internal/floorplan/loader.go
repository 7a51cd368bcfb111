package floorplan

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, decodes and validates a floor plan YAML file.
func Load(path string) (*FloorPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading floor plan: %w", err)
	}
	fp, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fp, nil
}

// Parse decodes and validates a floor plan from YAML bytes.
// Unknown keys are rejected so typos in access rules don't silently disable them.
func Parse(data []byte) (*FloorPlan, error) {
	var fp FloorPlan
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fp); err != nil {
		return nil, fmt.Errorf("parsing floor plan: %w", err)
	}
	if err := Validate(&fp); err != nil {
		return nil, err
	}
	return &fp, nil
}

// decodeStrict decodes node into v rejecting unknown keys. Custom
// unmarshalers need it because node.Decode does not inherit KnownFields
// from the outer decoder.
func decodeStrict(node *yaml.Node, v any) error {
	raw, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	return dec.Decode(v)
}
