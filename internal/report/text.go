package report

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
)

// TextReporter writes one aligned row per token, grouped by statement
type TextReporter struct{}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Format writes doc as a table
func (r *TextReporter) Format(doc *Document, writer io.Writer) error {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)

	for _, stmt := range doc.Statements {
		flags := ""
		if stmt.Query {
			flags += " query"
		}
		if stmt.EndReached {
			flags += " terminated"
		}
		fmt.Fprintf(tw, "# statement %d:%s\n", stmt.Index, flags)
		fmt.Fprintln(tw, "OFFSET\tLEVEL\tKIND\tTEXT\t")
		for _, tok := range stmt.Tokens {
			// Quoting keeps line breaks and tabs from breaking the table
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t\n", tok.Start, tok.ParenLevel, tok.Kind, strconv.Quote(tok.Text))
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write text output: %w", err)
	}
	return nil
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}
