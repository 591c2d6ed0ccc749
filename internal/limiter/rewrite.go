package limiter

import (
	"strconv"

	"github.com/cybertec-postgresql/sqllimit/internal/parser"
)

// EnforceLimit makes sure stmt returns at most limitNumber rows.
//
// Strategies are tried in order: the first one whose clause is present has its
// row count lowered to limitNumber when larger, and nothing else happens. When
// none is present, a clause of the first strategy is inserted. Counts are never
// raised and clauses are never removed. Statements that are not queries are
// left alone.
func EnforceLimit(stmt *parser.Statement, strategies []Strategy, limitNumber int) error {
	from, ok := dataKeyword(stmt)
	if !ok {
		return nil
	}

	for _, strategy := range strategies {
		switch strategy {
		case StrategyLimit:
			lc, found, err := FindLimitClause(stmt.Tokens, from)
			if err != nil {
				return err
			}
			if found {
				lowerCount(stmt, lc.Count, limitNumber)
				return nil
			}
		case StrategyFetch:
			fc, found, err := FindFetchClause(stmt.Tokens, from)
			if err != nil {
				return err
			}
			if found {
				if fc.Count >= 0 {
					lowerCount(stmt, fc.Count, limitNumber)
				} else if limitNumber < 1 {
					// FETCH FIRST ROW ONLY means one row
					stmt.Insert(fc.Unit+1, parser.NewSpace(), parser.NewNumber(limitNumber))
				}
				return nil
			}
		}
	}

	if len(strategies) == 0 {
		return nil
	}
	return insertLimit(stmt, from, strategies[0], limitNumber)
}

// EnforceOffset makes sure stmt skips offsetNumber rows, unless it already
// expresses an offset in any recognised form, in which case the existing value
// is kept whatever it is. Run it after EnforceLimit so the offset can attach to
// the limit clause.
func EnforceOffset(stmt *parser.Statement, offsetNumber int) error {
	from, ok := dataKeyword(stmt)
	if !ok {
		return nil
	}
	tokens := stmt.Tokens
	level := tokens[from].ParenLevel

	if _, found, err := FindOffsetValue(tokens, from); err != nil || found {
		return err
	}

	lc, found, err := FindLimitClause(tokens, from)
	if err != nil {
		return err
	}
	if found {
		stmt.InsertAt(lc.End+1, level, offsetTokens(offsetNumber, false)...)
		return nil
	}

	fc, found, err := FindFetchClause(tokens, from)
	if err != nil {
		return err
	}
	if found {
		at := lastSignificantBefore(tokens, from, fc.Keyword)
		stmt.InsertAt(at, level, offsetTokens(offsetNumber, true)...)
		return nil
	}

	at := lastSignificantBefore(tokens, from, tailBoundary(stmt, from))
	stmt.InsertAt(at, level, offsetTokens(offsetNumber, false)...)
	return nil
}

/*
 * insertLimit adds a new row limiting clause.
 *
 * Trailing clauses are ordered OFFSET, FETCH, locking clause, terminator.  A
 * LIMIT goes in front of the first of these that the statement has; a FETCH
 * goes after any OFFSET (the ANSI order) but still ahead of a locking clause.
 * In both cases the text is attached right after the last significant token,
 * so a trailing line comment never swallows it.
 */
func insertLimit(stmt *parser.Statement, from int, strategy Strategy, limitNumber int) error {
	tokens := stmt.Tokens
	boundary := tailBoundary(stmt, from)

	if strategy == StrategyLimit {
		oc, found, err := findOffsetClause(tokens, from, false)
		if err != nil {
			return err
		}
		if found && oc.Keyword < boundary {
			boundary = oc.Keyword
		}
		if f := findKeyword(tokens, from, "fetch"); f >= 0 && f < boundary {
			boundary = f
		}
	}

	at := lastSignificantBefore(tokens, from, boundary)
	stmt.InsertAt(at, tokens[from].ParenLevel, limitTokens(strategy, limitNumber)...)
	return nil
}

// tailBoundary is the index before which a clause appended to the end of the
// statement must go: a locking clause if there is one, else the terminator.
func tailBoundary(stmt *parser.Statement, from int) int {
	if l := findLockingClause(stmt.Tokens, from); l >= 0 {
		return l
	}
	return stmt.TerminatorIndex()
}

// lowerCount replaces the number at index i with limitNumber if it is larger.
// A count too large to parse is larger than any int.
func lowerCount(stmt *parser.Statement, i int, limitNumber int) {
	current, err := strconv.Atoi(stmt.Tokens[i].Value)
	if err == nil && current <= limitNumber {
		return
	}
	stmt.Replace(i, parser.NewNumber(limitNumber))
}

// limitTokens renders " limit n" or " fetch first n rows only".
func limitTokens(strategy Strategy, n int) []parser.Token {
	if strategy == StrategyFetch {
		return []parser.Token{
			parser.NewSpace(), parser.NewKeyword("fetch"),
			parser.NewSpace(), parser.NewKeyword("first"),
			parser.NewSpace(), parser.NewNumber(n),
			parser.NewSpace(), parser.NewKeyword("rows"),
			parser.NewSpace(), parser.NewKeyword("only"),
		}
	}
	return []parser.Token{
		parser.NewSpace(), parser.NewKeyword("limit"),
		parser.NewSpace(), parser.NewNumber(n),
	}
}

// offsetTokens renders " offset n", with a trailing " rows" when the offset
// precedes a FETCH clause.
func offsetTokens(n int, rows bool) []parser.Token {
	toks := []parser.Token{
		parser.NewSpace(), parser.NewKeyword("offset"),
		parser.NewSpace(), parser.NewNumber(n),
	}
	if rows {
		toks = append(toks, parser.NewSpace(), parser.NewKeyword("rows"))
	}
	return toks
}
