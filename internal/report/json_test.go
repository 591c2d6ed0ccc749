package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const sample = "SELECT 1;\nINSERT INTO t VALUES (1)"

func TestNewDocument(t *testing.T) {
	doc := NewDocument("input.sql", sample)
	if len(doc.Statements) != 2 {
		t.Fatalf("got %d statements, want 2", len(doc.Statements))
	}
	first, second := doc.Statements[0], doc.Statements[1]
	if first.Index != 1 || !first.Query || !first.EndReached {
		t.Errorf("first statement = %+v", first)
	}
	if second.Index != 2 || second.Query || second.EndReached {
		t.Errorf("second statement = %+v", second)
	}
}

func TestJSONReporter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewJSONReporter().Format(NewDocument("input.sql", sample), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded struct {
		Source     string `json:"source"`
		Statements []struct {
			Query  bool `json:"query"`
			Tokens []struct {
				Kind string `json:"kind"`
				Text string `json:"text"`
			} `json:"tokens"`
		} `json:"statements"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Invalid JSON output: %v", err)
	}

	if decoded.Source != "input.sql" || len(decoded.Statements) != 2 {
		t.Fatalf("decoded = %+v", decoded)
	}
	tok := decoded.Statements[0].Tokens[0]
	if tok.Kind != "keyword" || tok.Text != "SELECT" {
		t.Errorf("first token = %+v, want keyword SELECT", tok)
	}
	if !strings.HasSuffix(buf.String(), "}\n") {
		t.Error("JSON output should end with a newline")
	}
}

func TestYAMLReporter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewYAMLReporter().Format(NewDocument("-", "SELECT 1"), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Invalid YAML output: %v\n%s", err, buf.String())
	}
	if decoded["source"] != "-" {
		t.Errorf("source = %v", decoded["source"])
	}
	if !strings.Contains(buf.String(), "kind: keyword") {
		t.Errorf("kinds should render by name:\n%s", buf.String())
	}
}

func TestTextReporter_Format(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTextReporter().Format(NewDocument("-", "SELECT 'a\tb';"), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"# statement 1: query terminated", "OFFSET", `"'a\tb'"`, "terminator"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestGetFormatter(t *testing.T) {
	for _, name := range SupportedFormats() {
		if !ValidFormat(name) {
			t.Errorf("ValidFormat(%q) = false", name)
		}
		f, err := GetFormatter(FormatType(name))
		if err != nil {
			t.Fatalf("GetFormatter(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
	}

	if ValidFormat("lcov") {
		t.Error("ValidFormat(lcov) = true")
	}
	if _, err := GetFormatter("html"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
