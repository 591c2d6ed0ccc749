package discovery

import "time"

// StdinPath names standard input on the command line
const StdinPath = "-"

// DiscoveredFile represents one SQL input to rewrite
type DiscoveredFile struct {
	Path         string     // Absolute path to file, or StdinPath
	RelativePath string     // Path relative to the directory it was found in, or the argument as given
	Source       SourceType // Where the SQL comes from
	ModTime      time.Time  // Last modification time (zero for stdin)
}

// SourceType indicates where an input is read from
type SourceType int

const (
	SourceFile  SourceType = iota // A file named directly or found under a directory
	SourceStdin                   // Standard input
)

// String returns a string representation of SourceType
func (st SourceType) String() string {
	switch st {
	case SourceFile:
		return "file"
	case SourceStdin:
		return "stdin"
	default:
		return "unknown"
	}
}

// IsStdin reports whether the input is standard input
func (f DiscoveredFile) IsStdin() bool {
	return f.Source == SourceStdin
}
