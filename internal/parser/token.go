package parser

import (
	"strconv"
	"strings"
)

// Kind is the lexical category of a token.
type Kind int

// EOF is returned by Scan when the input is fully consumed.
const EOF Kind = 0

const (
	Whitespace  Kind = iota + 1 // Run of blanks, or a single line break
	Comment                     // -- line comment or /* block comment */
	LParen                      // (
	RParen                      // )
	Comma                       // ,
	Period                      // .
	Number                      // Unsigned integer literal
	Terminator                  // ; or \g
	QuotedIdent                 // "ident", `ident` or [ident]
	String                      // 'text'
	Ident                       // Unquoted identifier
	Keyword                     // Identifier found in the keyword table
	Operator                    // Anything else
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case EOF:
		return "eof"
	case Whitespace:
		return "whitespace"
	case Comment:
		return "comment"
	case LParen:
		return "lparen"
	case RParen:
		return "rparen"
	case Comma:
		return "comma"
	case Period:
		return "period"
	case Number:
		return "number"
	case Terminator:
		return "terminator"
	case QuotedIdent:
		return "quotedIdentifier"
	case String:
		return "string"
	case Ident:
		return "identifier"
	case Keyword:
		return "keyword"
	case Operator:
		return "operator"
	default:
		return "unknown"
	}
}

// MarshalText lets tokens render their kind by name in JSON dumps.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// IsPunctuation reports whether k is one of the single-character punctuation kinds.
func (k Kind) IsPunctuation() bool {
	return k >= LParen && k <= Period
}

// Token is a single lexical token of SQL text.
//
// Tokens are values: rewriting a statement never edits a token in place, it
// splices new tokens into a fresh slice.
type Token struct {
	Kind       Kind   `json:"kind" yaml:"kind"`
	Text       string `json:"text" yaml:"text"`             // Raw source bytes, or synthetic text for inserted tokens
	Value      string `json:"value" yaml:"value"`           // Normalized payload
	Start      int    `json:"start" yaml:"start"`           // Byte offset of the first character (0-based)
	End        int    `json:"end" yaml:"end"`               // Byte offset just past the last character
	ParenLevel int    `json:"parenLevel" yaml:"parenLevel"` // Nesting depth inside the owning statement
	LineBreaks int    `json:"lineBreaks" yaml:"lineBreaks"` // Number of line breaks in Text
}

// Is reports whether t is the keyword word. word must be lower case.
func (t Token) Is(word string) bool {
	return t.Kind == Keyword && t.Value == word
}

// IsAny reports whether t is one of the given keywords.
func (t Token) IsAny(words ...string) bool {
	for _, w := range words {
		if t.Is(w) {
			return true
		}
	}
	return false
}

// IsSignificant reports whether t carries meaning, i.e. is neither
// whitespace nor a comment.
func (t Token) IsSignificant() bool {
	return t.Kind != Whitespace && t.Kind != Comment && t.Kind != EOF
}

// IsLineBreak reports whether t is a line-break whitespace token.
func (t Token) IsLineBreak() bool {
	return t.Kind == Whitespace && t.LineBreaks > 0
}

// Synthetic tokens have no source position; Start and End are -1.

// NewSpace returns a single blank used in front of inserted words.
func NewSpace() Token {
	return Token{Kind: Whitespace, Text: " ", Value: " ", Start: -1, End: -1}
}

// NewKeyword returns a keyword token rendered in lower case.
func NewKeyword(word string) Token {
	word = strings.ToLower(word)
	return Token{Kind: Keyword, Text: word, Value: word, Start: -1, End: -1}
}

// NewNumber returns a number token for n.
func NewNumber(n int) Token {
	s := strconv.Itoa(n)
	return Token{Kind: Number, Text: s, Value: s, Start: -1, End: -1}
}

// countLineBreaks counts \n, \r\n and lone \r sequences in s.
func countLineBreaks(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			n++
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
			n++
		}
	}
	return n
}
