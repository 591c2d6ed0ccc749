package parser

// keywords is the fixed table of words classified as Keyword rather than
// Ident. It is filled once at package initialisation and only read afterwards,
// so concurrent scanners can share it.
//
// The table only needs the words that statement classification and
// LIMIT/OFFSET/FETCH placement look at; everything else stays an Ident.
var keywords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// statement leaders
		"select", "insert", "update", "delete", "merge", "replace", "with",
		"create", "alter", "drop", "truncate", "grant", "revoke",
		"explain", "show", "describe", "set", "use", "call", "exec", "execute",
		"begin", "commit", "rollback", "declare", "values", "table",
		// clause words
		"from", "where", "group", "by", "having", "order", "window",
		"union", "intersect", "except", "all", "distinct", "as", "into",
		"join", "on", "recursive",
		// row limiting
		"limit", "offset", "fetch", "first", "next", "row", "rows",
		"only", "ties", "percent", "top",
		// locking clauses
		"for", "share", "no", "key", "nowait", "skip", "locked", "lock", "in", "mode",
	} {
		keywords[w] = struct{}{}
	}
}

// IsKeyword reports whether the lower-case word is in the keyword table.
func IsKeyword(word string) bool {
	_, ok := keywords[word]
	return ok
}
