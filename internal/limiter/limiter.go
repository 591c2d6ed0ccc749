// Package limiter enforces a row ceiling and a result offset on SQL text.
//
// Input is split into statements with the lossless tokenizer of package
// parser. Each query statement (SELECT, or WITH … SELECT) gets its LIMIT or
// FETCH clause lowered or added and, when requested, an OFFSET added. Every
// other statement, and every byte outside the edited clauses, is passed
// through unchanged.
//
// The package keeps no state between calls and may be used concurrently.
package limiter

import (
	"fmt"

	"github.com/cybertec-postgresql/sqllimit/internal/errors"
	"github.com/cybertec-postgresql/sqllimit/internal/parser"
)

// Request describes one enforcement run.
type Request struct {
	SQL          string
	LimitNumber  int        // Row ceiling, >= 0
	OffsetNumber *int       // Offset to add when none is present; nil skips offset enforcement
	Strategies   []Strategy // Ordered preference; nil means DefaultStrategies
}

// Result is the outcome of Process.
type Result struct {
	SQL        string // Rewritten text
	Statements int    // Statements in the input
	Queries    int    // Statements eligible for enforcement
}

// Validate checks the request against the input contract.
func (r *Request) Validate() error {
	if r.LimitNumber < 0 {
		return errors.NewContractError("limit", r.LimitNumber,
			fmt.Sprintf("must be a non-negative integer, got %d", r.LimitNumber),
			"Pass the maximum number of rows a query may return")
	}
	if r.OffsetNumber != nil && *r.OffsetNumber < 0 {
		return errors.NewContractError("offset", *r.OffsetNumber,
			fmt.Sprintf("must be a non-negative integer, got %d", *r.OffsetNumber),
			"Omit the offset to skip offset enforcement")
	}
	if r.Strategies != nil {
		return validateStrategies(r.Strategies)
	}
	return nil
}

// Limit rewrites sql so that every query returns at most limitNumber rows and,
// when offsetNumber is not nil, skips offsetNumber rows unless it already has
// an offset. strategies may be nil for the default order (limit, then fetch).
//
// Any error aborts the whole input; partial rewrites are never returned.
func Limit(sql string, strategies []Strategy, limitNumber int, offsetNumber *int) (string, error) {
	return Enforce(Request{
		SQL:          sql,
		LimitNumber:  limitNumber,
		OffsetNumber: offsetNumber,
		Strategies:   strategies,
	})
}

// Enforce is Limit with its arguments in a Request.
func Enforce(req Request) (string, error) {
	res, err := Process(req)
	if err != nil {
		return "", err
	}
	return res.SQL, nil
}

// Process runs the request and reports statement counts alongside the text.
func Process(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	strategies := req.Strategies
	if strategies == nil {
		strategies = DefaultStrategies
	}

	stmts := parser.SplitStatements(req.SQL)
	res := &Result{Statements: len(stmts)}

	for _, stmt := range stmts {
		if _, ok := dataKeyword(stmt); !ok {
			continue
		}
		res.Queries++

		if err := EnforceLimit(stmt, strategies, req.LimitNumber); err != nil {
			return nil, err
		}
		if req.OffsetNumber != nil {
			if err := EnforceOffset(stmt, *req.OffsetNumber); err != nil {
				return nil, err
			}
		}
	}

	res.SQL = parser.Join(stmts)
	return res, nil
}

// IsQuery reports whether stmt is subject to enforcement.
func IsQuery(stmt *parser.Statement) bool {
	_, ok := dataKeyword(stmt)
	return ok
}
