package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/cybertec-postgresql/sqllimit/internal/discovery"
	"github.com/cybertec-postgresql/sqllimit/internal/errors"
	"github.com/cybertec-postgresql/sqllimit/internal/report"
)

// Tokens dumps the tokens and statements of one input. An empty path or "-"
// reads stdin; an empty output or "-" writes to stdout.
func Tokens(path, format, outputPath string, stdin io.Reader, stdout io.Writer) error {
	// Step 1: Validate format
	if !report.ValidFormat(format) {
		return errors.NewContractError("format", format,
			fmt.Sprintf("unsupported format %q", format),
			fmt.Sprintf("Use one of: %v", report.SupportedFormats()))
	}
	formatter, err := report.GetFormatter(report.FormatType(format))
	if err != nil {
		return err
	}

	// Step 2: Read input
	if path == "" {
		path = discovery.StdinPath
	}
	var data []byte
	if path == discovery.StdinPath {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return errors.NewInputError(path, err.Error())
	}

	// Step 3: Format and output
	writer := stdout
	if outputPath != "-" && outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		writer = f
	}

	if err := formatter.Format(report.NewDocument(path, string(data)), writer); err != nil {
		return fmt.Errorf("failed to format tokens: %w", err)
	}

	if outputPath != "-" && outputPath != "" {
		fmt.Fprintf(os.Stderr, "Tokens written to %s\n", outputPath)
	}
	return nil
}
