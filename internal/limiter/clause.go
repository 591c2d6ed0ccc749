package limiter

import (
	"github.com/cybertec-postgresql/sqllimit/internal/errors"
	"github.com/cybertec-postgresql/sqllimit/internal/parser"
)

/*
 * Clause lookup.
 *
 * Every probe below scans forward from the statement's leading data keyword
 * (the SELECT) and only looks at tokens on that keyword's own paren level, so
 * a LIMIT inside a sub-query, a CTE body or a function call is never taken for
 * the outer statement's clause.  Scans stop at the top-level terminator.
 *
 * Probes return token indices into the statement's token slice.  They do not
 * modify anything.
 */

// LimitClause locates a LIMIT clause in one of its three shapes:
//
//	LIMIT count
//	LIMIT offset, count
//	LIMIT count OFFSET offset
type LimitClause struct {
	Keyword int // LIMIT
	Count   int // Row-count number
	Offset  int // Offset number, -1 when the clause carries none
	End     int // Last token of the clause
}

// OffsetClause locates a standalone OFFSET n [ROW|ROWS] clause.
type OffsetClause struct {
	Keyword int // OFFSET
	Value   int // Offset number
	End     int // Last token of the clause
}

// FetchClause locates FETCH FIRST|NEXT [n] ROW|ROWS ONLY|WITH TIES.
type FetchClause struct {
	Keyword int // FETCH
	Unit    int // FIRST or NEXT
	Count   int // Row-count number, -1 when omitted (meaning one row)
	End     int // Last token of the clause
}

// FindLimitClause returns the first LIMIT clause on the level of tokens[from].
// A LIMIT that is not followed by the numbers its shape requires is reported
// as a *errors.MalformedClauseError.
func FindLimitClause(tokens []parser.Token, from int) (LimitClause, bool, error) {
	k := findKeyword(tokens, from, "limit")
	if k < 0 {
		return LimitClause{}, false, nil
	}

	n := nextSignificant(tokens, k)
	if n < 0 || tokens[n].Kind != parser.Number {
		return LimitClause{}, false, errors.NewMalformedClauseError("limit", tokens[k].Start,
			"Expected number after LIMIT")
	}
	c := LimitClause{Keyword: k, Count: n, Offset: -1, End: n}

	m := nextSignificant(tokens, n)
	if m < 0 {
		return c, true, nil
	}
	switch {
	case tokens[m].Kind == parser.Comma:
		o := nextSignificant(tokens, m)
		if o < 0 || tokens[o].Kind != parser.Number {
			return LimitClause{}, false, errors.NewMalformedClauseError("limit", tokens[k].Start,
				"Expected number after LIMIT offset and comma")
		}
		c.Offset, c.Count, c.End = n, o, o
	case tokens[m].Is("offset"):
		o := nextSignificant(tokens, m)
		if o < 0 || tokens[o].Kind != parser.Number {
			return LimitClause{}, false, errors.NewMalformedClauseError("offset", tokens[m].Start,
				"Expected number after OFFSET")
		}
		c.Offset, c.End = o, o
		if r := nextSignificant(tokens, o); r >= 0 && tokens[r].IsAny("row", "rows") {
			c.End = r
		}
	}
	return c, true, nil
}

// FindOffsetValue returns the index of the token carrying the statement's
// offset, whichever of the recognised forms expresses it.
func FindOffsetValue(tokens []parser.Token, from int) (int, bool, error) {
	lc, hasLimit, err := FindLimitClause(tokens, from)
	if err != nil {
		return -1, false, err
	}
	if hasLimit && lc.Offset >= 0 {
		return lc.Offset, true, nil
	}

	oc, ok, err := findOffsetClause(tokens, from, hasLimit)
	if err != nil || !ok {
		return -1, false, err
	}
	return oc.Value, true, nil
}

/*
 * findOffsetClause finds a standalone OFFSET clause.  Without a LIMIT clause
 * the ANSI form OFFSET n ROW|ROWS is required.  When the statement also has a
 * LIMIT n clause, a bare OFFSET n is accepted too: PostgreSQL allows the two
 * clauses in either order.
 */
func findOffsetClause(tokens []parser.Token, from int, hasLimit bool) (OffsetClause, bool, error) {
	k := findKeyword(tokens, from, "offset")
	if k < 0 {
		return OffsetClause{}, false, nil
	}

	n := nextSignificant(tokens, k)
	if n < 0 || tokens[n].Kind != parser.Number {
		return OffsetClause{}, false, errors.NewMalformedClauseError("offset", tokens[k].Start,
			"Expected number after OFFSET or ROW/ROWS")
	}
	c := OffsetClause{Keyword: k, Value: n, End: n}

	r := nextSignificant(tokens, n)
	switch {
	case r >= 0 && tokens[r].IsAny("row", "rows"):
		c.End = r
	case hasLimit:
		// bare OFFSET n alongside LIMIT n
	default:
		return OffsetClause{}, false, errors.NewMalformedClauseError("offset", tokens[k].Start,
			"Expected number after OFFSET or ROW/ROWS")
	}
	return c, true, nil
}

// FindFetchClause returns the first FETCH clause on the level of tokens[from].
func FindFetchClause(tokens []parser.Token, from int) (FetchClause, bool, error) {
	k := findKeyword(tokens, from, "fetch")
	if k < 0 {
		return FetchClause{}, false, nil
	}

	u := nextSignificant(tokens, k)
	if u < 0 || !tokens[u].IsAny("first", "next") {
		return FetchClause{}, false, errors.NewMalformedClauseError("fetch", tokens[k].Start,
			"Expected FIRST or NEXT after FETCH")
	}
	c := FetchClause{Keyword: k, Unit: u, Count: -1}

	r := nextSignificant(tokens, u)
	if r >= 0 && tokens[r].Kind == parser.Number {
		c.Count = r
		r = nextSignificant(tokens, r)
	}
	if r < 0 || !tokens[r].IsAny("row", "rows") {
		return FetchClause{}, false, errors.NewMalformedClauseError("fetch", tokens[k].Start,
			"Expected ROW/ROWS in FETCH clause")
	}
	c.End = r

	if x := nextSignificant(tokens, r); x >= 0 {
		switch {
		case tokens[x].Is("only"):
			c.End = x
		case tokens[x].Is("with"):
			if y := nextSignificant(tokens, x); y >= 0 && tokens[y].Is("ties") {
				c.End = y
			}
		}
	}
	return c, true, nil
}

// findLockingClause returns the index of a trailing FOR UPDATE / FOR SHARE /
// FOR NO KEY UPDATE / FOR KEY SHARE or LOCK IN SHARE MODE clause, or -1.
// Row limiting clauses must precede these.
func findLockingClause(tokens []parser.Token, from int) int {
	return findOwnLevel(tokens, from, func(i int) bool {
		next := nextSignificant(tokens, i)
		if next < 0 {
			return false
		}
		switch {
		case tokens[i].Is("for"):
			return tokens[next].IsAny("update", "share", "no", "key")
		case tokens[i].Is("lock"):
			return tokens[next].Is("in")
		}
		return false
	})
}

// dataKeyword returns the index of the keyword that decides whether the
// statement is a query: the leading SELECT, or for WITH the first
// SELECT/INSERT/UPDATE/DELETE/MERGE after the common table expressions.
func dataKeyword(stmt *parser.Statement) (int, bool) {
	lead := stmt.LeadIndex()
	if lead < 0 {
		return -1, false
	}
	tokens := stmt.Tokens
	switch {
	case tokens[lead].Is("select"):
		return lead, true
	case tokens[lead].Is("with"):
		i := findOwnLevel(tokens, lead+1, func(i int) bool {
			return tokens[i].IsAny("select", "insert", "update", "delete", "merge")
		})
		if i >= 0 && tokens[i].Is("select") {
			return i, true
		}
	}
	return -1, false
}

// findKeyword returns the index of the first keyword word on the level of
// tokens[from], or -1.
func findKeyword(tokens []parser.Token, from int, word string) int {
	return findOwnLevel(tokens, from, func(i int) bool {
		return tokens[i].Is(word)
	})
}

/*
 * findOwnLevel returns the first index i >= from whose token sits on the
 * paren level of tokens[from] and satisfies match.  Deeper tokens are
 * skipped; a shallower token or the top-level terminator ends the scan.
 */
func findOwnLevel(tokens []parser.Token, from int, match func(i int) bool) int {
	if from < 0 || from >= len(tokens) {
		return -1
	}
	level := tokens[from].ParenLevel
	for i := from; i < len(tokens); i++ {
		t := tokens[i]
		if t.Kind == parser.Terminator && t.ParenLevel == 0 {
			break
		}
		if t.ParenLevel < level {
			break
		}
		if t.ParenLevel == level && match(i) {
			return i
		}
	}
	return -1
}

// nextSignificant returns the index of the first significant token after i, or -1.
func nextSignificant(tokens []parser.Token, i int) int {
	for j := i + 1; j < len(tokens); j++ {
		if tokens[j].IsSignificant() {
			return j
		}
	}
	return -1
}

// lastSignificantBefore returns the position just past the last significant
// token before boundary, so that inserted text lands after the clause it
// extends but ahead of any trailing blanks and comments. It falls back to
// boundary when only blanks lie between from and boundary.
func lastSignificantBefore(tokens []parser.Token, from, boundary int) int {
	for i := boundary - 1; i >= from; i-- {
		if tokens[i].IsSignificant() {
			return i + 1
		}
	}
	return boundary
}
