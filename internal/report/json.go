package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// JSONReporter writes the token dump as indented JSON
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

// Format writes doc as JSON followed by a newline
func (r *JSONReporter) Format(doc *Document, writer io.Writer) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal tokens to JSON: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	_, err = writer.Write([]byte("\n"))
	return err
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}

// YAMLReporter writes the token dump as YAML
type YAMLReporter struct{}

// NewYAMLReporter creates a new YAML reporter
func NewYAMLReporter() *YAMLReporter {
	return &YAMLReporter{}
}

// Format writes doc as a YAML document
func (r *YAMLReporter) Format(doc *Document, writer io.Writer) error {
	enc := yaml.NewEncoder(writer)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write YAML output: %w", err)
	}
	return enc.Close()
}

// Name returns the name of this reporter
func (r *YAMLReporter) Name() string {
	return "yaml"
}
