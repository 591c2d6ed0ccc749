/*
 * lexer.go
 *
 * Lossless SQL tokenizer.
 *
 * Unlike a compiler front end this scanner never discards anything: blanks,
 * line breaks and comments are tokens like any other, so concatenating the
 * Text of every token returned for an input reproduces that input byte for
 * byte.  The rewriter depends on this: it edits statements by splicing
 * tokens and renders them back by concatenation.
 *
 * The scanner is deliberately dialect-agnostic.  It knows just enough to keep
 * quoting, comments and statement terminators from being misread; it does not
 * attempt to recognise floats, casts, parameters or dollar quoting.
 *
 * Rule order (first match wins at the current position):
 *
 *   1. line break, or a run of blanks
 *   2. -- line comment, slash-star block comment
 *   3. ( ) , .
 *   4. unsigned integer: 0 or [1-9][0-9]*
 *   5. terminator: ; or \g
 *   6. quoted identifier: "x", `x`, [x]
 *   7. string: 'x'
 *   8. identifier / keyword: word bytes and any non-ASCII byte
 *   9. operator: everything else, up to the start of a token of rules 1-8
 *
 * Usage:
 *
 *	for _, tok := range parser.Tokenize(src) { … }
 */
package parser

import (
	"strings"
)

// Scanner tokenizes SQL text one token at a time.
type Scanner struct {
	src string
	pos int

	bracket   int  // Index of the next ']' while it lies ahead of pos
	noBracket bool // No ']' remains in src
}

// NewScanner returns a Scanner that reads from src.
func NewScanner(src string) *Scanner { return &Scanner{src: src} }

// Pos returns the byte offset of the next character to be read.
func (s *Scanner) Pos() int { return s.pos }

/*
 * Scan returns the next token, or a token of Kind EOF once the input is
 * exhausted.  ParenLevel is always zero here; nesting is a per-statement
 * property assigned by Segment.
 */
func (s *Scanner) Scan() Token {
	if s.pos >= len(s.src) {
		return Token{Kind: EOF, Start: s.pos, End: s.pos}
	}
	start := s.pos
	ch := s.src[s.pos]

	switch {
	case ch == '\n':
		s.pos++
		return s.token(Whitespace, start)
	case ch == '\r':
		s.pos++
		if s.peek(0) == '\n' {
			s.pos++
		}
		return s.token(Whitespace, start)
	case isBlank(ch):
		for s.pos < len(s.src) && isBlank(s.src[s.pos]) {
			s.pos++
		}
		return s.token(Whitespace, start)

	case ch == '-' && s.peek(1) == '-':
		return s.lineComment(start)
	case ch == '/' && s.peek(1) == '*':
		return s.blockComment(start)

	case ch == '(':
		s.pos++
		return s.token(LParen, start)
	case ch == ')':
		s.pos++
		return s.token(RParen, start)
	case ch == ',':
		s.pos++
		return s.token(Comma, start)
	case ch == '.':
		s.pos++
		return s.token(Period, start)

	case isDigit(ch):
		return s.number(start)

	case ch == ';':
		s.pos++
		return s.token(Terminator, start)
	case ch == '\\' && s.peek(1) == 'g':
		s.pos += 2
		return s.token(Terminator, start)

	case ch == '"' || ch == '`':
		return s.quoted(start, QuotedIdent, ch)
	case ch == '[' && s.closingBracket() >= 0:
		return s.bracketIdent(start)

	case ch == '\'':
		return s.quoted(start, String, '\'')

	case isWordByte(ch):
		return s.word(start)

	default:
		return s.operator(start)
	}
}

// ScanAll tokenises the entire source and returns every token (no EOF entry).
func (s *Scanner) ScanAll() []Token {
	var toks []Token
	for {
		t := s.Scan()
		if t.Kind == EOF {
			break
		}
		toks = append(toks, t)
	}
	return toks
}

// Tokenize converts src into its flat token sequence. It never fails.
func Tokenize(src string) []Token {
	return NewScanner(src).ScanAll()
}

// ---------------------------------------------------------------------------
// Internal scanner methods
// ---------------------------------------------------------------------------

// peek returns the byte at position s.pos+offset, or 0 if out of bounds.
func (s *Scanner) peek(offset int) byte {
	if i := s.pos + offset; i < len(s.src) {
		return s.src[i]
	}
	return 0
}

// token builds a token spanning src[start:s.pos] whose value is the raw text.
func (s *Scanner) token(kind Kind, start int) Token {
	text := s.src[start:s.pos]
	return Token{
		Kind:       kind,
		Text:       text,
		Value:      text,
		Start:      start,
		End:        s.pos,
		LineBreaks: countLineBreaks(text),
	}
}

// lineComment consumes from "--" up to, but not including, the line break.
func (s *Scanner) lineComment(start int) Token {
	for s.pos < len(s.src) && s.src[s.pos] != '\n' && s.src[s.pos] != '\r' {
		s.pos++
	}
	return s.token(Comment, start)
}

/*
 * blockComment consumes a slash-star comment.  Comments do not nest; the
 * first star-slash closes it.  An unterminated comment runs to end of input
 * so that nothing after it is mistaken for SQL.
 */
func (s *Scanner) blockComment(start int) Token {
	s.pos += 2
	if idx := strings.Index(s.src[s.pos:], "*/"); idx >= 0 {
		s.pos += idx + 2
	} else {
		s.pos = len(s.src)
	}
	return s.token(Comment, start)
}

/*
 * number consumes "0" or a non-zero digit followed by digits.  A leading
 * zero is a complete number on its own, so "007" scans as three tokens; only
 * plain integers are ever inserted, so nothing finer is needed.
 */
func (s *Scanner) number(start int) Token {
	if s.src[s.pos] == '0' {
		s.pos++
		return s.token(Number, start)
	}
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	return s.token(Number, start)
}

/*
 * quoted consumes a literal delimited by quote: a '…' string, a "…"
 * identifier or a `…` identifier.  A doubled quote character inside the
 * literal stands for one literal quote and does not close it.  Strings may
 * span lines.  An unterminated literal runs to end of input.
 *
 * Value holds the content without the delimiters, with doubled quotes
 * collapsed.
 */
func (s *Scanner) quoted(start int, kind Kind, quote byte) Token {
	s.pos++ /* opening quote */
	var value strings.Builder
	for s.pos < len(s.src) {
		ch := s.src[s.pos]
		if ch != quote {
			value.WriteByte(ch)
			s.pos++
			continue
		}
		s.pos++
		if s.peek(0) == quote {
			value.WriteByte(quote)
			s.pos++
			continue
		}
		break
	}
	tok := s.token(kind, start)
	tok.Value = value.String()
	return tok
}

// bracketIdent consumes a [ident]. The caller has checked that a ']' follows.
func (s *Scanner) bracketIdent(start int) Token {
	s.pos = s.closingBracket() + 1
	tok := s.token(QuotedIdent, start)
	tok.Value = s.src[start+1 : s.pos-1]
	return tok
}

// closingBracket returns the index of the first ']' after s.pos, or -1. The
// position is remembered until the scan moves past it, so a run of unclosed
// '[' does not rescan the rest of the input for each one.
func (s *Scanner) closingBracket() int {
	if s.noBracket {
		return -1
	}
	if s.bracket <= s.pos {
		i := strings.IndexByte(s.src[s.pos+1:], ']')
		if i < 0 {
			s.noBracket = true
			return -1
		}
		s.bracket = s.pos + 1 + i
	}
	return s.bracket
}

// word consumes an identifier and classifies it against the keyword table.
func (s *Scanner) word(start int) Token {
	for s.pos < len(s.src) && isWordByte(s.src[s.pos]) {
		s.pos++
	}
	tok := s.token(Ident, start)
	tok.Value = strings.ToLower(tok.Text)
	if IsKeyword(tok.Value) {
		tok.Kind = Keyword
	}
	return tok
}

/*
 * operator consumes a maximal run of characters that start no other token.
 * The first byte is always taken, which is what makes the scanner total:
 * an unclosed '[' or a stray control character becomes an Operator instead
 * of stalling the scan.
 */
func (s *Scanner) operator(start int) Token {
	s.pos++
	for s.pos < len(s.src) && !s.startsToken() {
		s.pos++
	}
	return s.token(Operator, start)
}

// startsToken reports whether a token of rules 1-8 (or a '[') begins at s.pos.
func (s *Scanner) startsToken() bool {
	ch := s.src[s.pos]
	switch {
	case ch == '\n' || ch == '\r' || isBlank(ch):
		return true
	case ch == '-' && s.peek(1) == '-':
		return true
	case ch == '/' && s.peek(1) == '*':
		return true
	case ch == '\\' && s.peek(1) == 'g':
		return true
	case isDigit(ch) || isWordByte(ch):
		return true
	}
	return strings.IndexByte("(),.;'\"`[", ch) >= 0
}

// isBlank reports whether ch is horizontal whitespace.
func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

/*
 * isWordByte accepts [A-Za-z0-9_] and every byte of a multi-byte UTF-8
 * sequence, which admits non-English identifiers without decoding runes.
 */
func isWordByte(ch byte) bool {
	return ch == '_' || isDigit(ch) || (ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') || ch >= 0x80
}
