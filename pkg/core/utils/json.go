// Package utils holds the parsing helpers shared by the tool dispatch and
// agent layers: repairing model-emitted JSON and reading Hjson resources.
package utils

import (
	"encoding/json"
	"fmt"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
)

// RepairJSON fixes the malformations models commonly emit: single quotes,
// unquoted keys, trailing commas, unclosed brackets, fenced code blocks
// around the payload.
func RepairJSON(raw string) (string, error) {
	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return "", fmt.Errorf("json repair failed: %w", err)
	}
	return repaired, nil
}

// DecodeArguments parses a model-emitted tool-call argument object, repairing
// it first when a strict parse fails. An empty input is an empty argument
// set, not an error.
func DecodeArguments(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var args map[string]any
	if err := json.Unmarshal([]byte(raw), &args); err == nil {
		return args, nil
	}
	repaired, err := RepairJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("arguments are not valid JSON: %w", err)
	}
	if err := json.Unmarshal([]byte(repaired), &args); err != nil {
		return nil, fmt.Errorf("arguments are not a JSON object: %w", err)
	}
	return args, nil
}

// UnmarshalHJSON parses an Hjson document (comments, unquoted keys, optional
// commas) into v. Resource files like the tool schema are written in Hjson
// so they can carry inline commentary.
func UnmarshalHJSON(data []byte, v any) error {
	if err := hjson.Unmarshal(data, v); err != nil {
		return fmt.Errorf("hjson parse failed: %w", err)
	}
	return nil
}

// HJSONToJSON converts an Hjson document to canonical JSON.
func HJSONToJSON(data []byte) ([]byte, error) {
	var v any
	if err := hjson.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("hjson parse failed: %w", err)
	}
	return json.Marshal(v)
}
