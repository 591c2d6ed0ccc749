package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cybertec-postgresql/sqllimit/internal/limiter"
	"github.com/cybertec-postgresql/sqllimit/internal/parser"
)

// Formatter renders the lexer and segmenter view of an input
type Formatter interface {
	// Format writes the statements to the writer
	Format(doc *Document, writer io.Writer) error

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported token dump formats
type FormatType string

const (
	FormatJSON FormatType = "json"
	FormatYAML FormatType = "yaml"
	FormatText FormatType = "text"
)

// Document is the token dump of one input
type Document struct {
	Source     string      `json:"source" yaml:"source"`
	Statements []Statement `json:"statements" yaml:"statements"`
}

// Statement is one segmented statement with its tokens
type Statement struct {
	Index      int            `json:"index" yaml:"index"`
	Query      bool           `json:"query" yaml:"query"`           // Subject to limit enforcement
	EndReached bool           `json:"endReached" yaml:"endReached"` // Closed by a terminator
	Tokens     []parser.Token `json:"tokens" yaml:"tokens"`
}

// NewDocument tokenizes and segments sql
func NewDocument(source, sql string) *Document {
	stmts := parser.SplitStatements(sql)
	doc := &Document{Source: source, Statements: make([]Statement, 0, len(stmts))}
	for i, stmt := range stmts {
		doc.Statements = append(doc.Statements, Statement{
			Index:      i + 1,
			Query:      limiter.IsQuery(stmt),
			EndReached: stmt.EndReached,
			Tokens:     stmt.Tokens,
		})
	}
	return doc
}

// GetFormatter returns a formatter for the specified format type
func GetFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONReporter(), nil
	case FormatYAML:
		return NewYAMLReporter(), nil
	case FormatText:
		return NewTextReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(SupportedFormats(), ", "))
	}
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatJSON, FormatYAML, FormatText:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatText)}
}
