package parser

import (
	"strings"
)

// Statement is the run of tokens between top-level terminators.
//
// A statement owns its tokens, including the whitespace and comments that
// precede it and the terminator that closes it, so joining the rendered
// statements of an input reproduces the input.
type Statement struct {
	Tokens         []Token
	StatementToken *Token // First significant token; nil for blank or comment-only groups
	EndReached     bool   // Closed by a terminator at paren level 0
}

/*
 * Segment partitions a flat token sequence into statements.
 *
 * A paren counter, reset for every statement, assigns ParenLevel: '(' is
 * recorded at the current level and raises it, ')' lowers it (never below
 * zero) and is recorded at the lowered level, so a matched pair shares the
 * level of the tokens around it.  A '(' that is never closed does not raise
 * the level, just as a stray ')' cannot lower it below zero.  A terminator at
 * level zero closes the statement and belongs to it; a ';' inside
 * parentheses does not split.  Tokens left after the last terminator form a
 * final statement.
 */
func Segment(tokens []Token) []*Statement {
	var stmts []*Statement
	cur := &Statement{}
	level := 0
	unclosed := unclosedParens(tokens)

	for i, tok := range tokens {
		switch tok.Kind {
		case LParen:
			tok.ParenLevel = level
			if !unclosed[i] {
				level++
			}
		case RParen:
			if level > 0 {
				level--
			}
			tok.ParenLevel = level
		default:
			tok.ParenLevel = level
		}

		cur.Tokens = append(cur.Tokens, tok)
		if cur.StatementToken == nil && tok.IsSignificant() {
			lead := tok
			cur.StatementToken = &lead
		}

		if tok.Kind == Terminator && level == 0 {
			cur.EndReached = true
			stmts = append(stmts, cur)
			cur = &Statement{}
		}
	}

	if len(cur.Tokens) > 0 {
		stmts = append(stmts, cur)
	}
	return stmts
}

// unclosedParens marks every '(' in tokens that no later ')' closes.
func unclosedParens(tokens []Token) []bool {
	unclosed := make([]bool, len(tokens))
	var open []int
	for i, tok := range tokens {
		switch tok.Kind {
		case LParen:
			open = append(open, i)
		case RParen:
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
	}
	for _, i := range open {
		unclosed[i] = true
	}
	return unclosed
}

// SplitStatements tokenises src and segments it into statements.
func SplitStatements(src string) []*Statement {
	return Segment(Tokenize(src))
}

// String renders the statement by concatenating the text of its tokens.
func (s *Statement) String() string {
	var b strings.Builder
	for _, t := range s.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Join renders a sequence of statements back into one text.
func Join(stmts []*Statement) string {
	var b strings.Builder
	for _, s := range stmts {
		for _, t := range s.Tokens {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// LeadIndex returns the index of the first significant token, or -1.
func (s *Statement) LeadIndex() int {
	for i, t := range s.Tokens {
		if t.IsSignificant() {
			return i
		}
	}
	return -1
}

// TerminatorIndex returns the index of the closing terminator, or
// len(s.Tokens) when the statement is unterminated.
func (s *Statement) TerminatorIndex() int {
	if s.EndReached {
		for i := len(s.Tokens) - 1; i >= 0; i-- {
			if s.Tokens[i].Kind == Terminator && s.Tokens[i].ParenLevel == 0 {
				return i
			}
		}
	}
	return len(s.Tokens)
}

// Insert splices toks in front of index at, at the paren level of the token
// found there (or of the last token when appending).
func (s *Statement) Insert(at int, toks ...Token) {
	level := 0
	switch {
	case at < len(s.Tokens):
		level = s.Tokens[at].ParenLevel
	case len(s.Tokens) > 0:
		level = s.Tokens[len(s.Tokens)-1].ParenLevel
	}
	s.InsertAt(at, level, toks...)
}

/*
 * InsertAt splices toks in front of index at and records them at the given
 * paren level.  The tokens slice is rebuilt rather than shifted in place, so
 * a caller holding the previous slice keeps seeing the original tokens.
 */
func (s *Statement) InsertAt(at, level int, toks ...Token) {
	out := make([]Token, 0, len(s.Tokens)+len(toks))
	out = append(out, s.Tokens[:at]...)
	for _, t := range toks {
		t.ParenLevel = level
		out = append(out, t)
	}
	out = append(out, s.Tokens[at:]...)
	s.Tokens = out
}

// Replace swaps the token at index i for tok, keeping the original paren level.
func (s *Statement) Replace(i int, tok Token) {
	tok.ParenLevel = s.Tokens[i].ParenLevel
	out := make([]Token, len(s.Tokens))
	copy(out, s.Tokens)
	out[i] = tok
	s.Tokens = out
}
