package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/cybertec-postgresql/sqllimit/pkg/types"
	"github.com/jackc/pgx/v5/pgconn"
)

// Process exit codes
const (
	ExitOK        = 0
	ExitFailure   = 1 // I/O, verification and other runtime failures
	ExitContract  = 2 // Invalid arguments or configuration
	ExitMalformed = 3 // Input holds a clause that cannot be rewritten
)

// MalformedClauseError reports a LIMIT, OFFSET or FETCH keyword that is not
// followed by the tokens its clause requires. The message names the construct
// only and never echoes literal values from the query.
type MalformedClauseError struct {
	Clause  string // LIMIT, OFFSET or FETCH
	Offset  int    // Byte offset of the clause keyword in the statement source
	Message string
}

func (e *MalformedClauseError) Error() string {
	return fmt.Sprintf("malformed %s clause at offset %d: %s", e.Clause, e.Offset, e.Message)
}

// NewMalformedClauseError creates a new MalformedClauseError
func NewMalformedClauseError(clause string, offset int, message string) *MalformedClauseError {
	return &MalformedClauseError{
		Clause:  strings.ToUpper(clause),
		Offset:  offset,
		Message: message,
	}
}

// ContractError reports arguments that violate the rewriter's input contract,
// such as a negative limit or an unknown limit strategy.
type ContractError struct {
	Field      string
	Value      interface{}
	Message    string
	Suggestion string
}

func (e *ContractError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	if e.Suggestion != "" {
		msg += "\nSuggestion: " + e.Suggestion
	}
	return msg
}

// NewContractError creates a new ContractError
func NewContractError(field string, value interface{}, message, suggestion string) *ContractError {
	return &ContractError{
		Field:      field,
		Value:      value,
		Message:    message,
		Suggestion: suggestion,
	}
}

// InputError represents an SQL source that could not be read
type InputError struct {
	Path    string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("failed to read %s: %s", e.Path, e.Message)
}

// NewInputError creates a new InputError
func NewInputError(path, message string) *InputError {
	return &InputError{
		Path:    path,
		Message: message,
	}
}

// VerificationError represents a rewritten query the server refused to plan
type VerificationError struct {
	Statement int             // 1-based statement number within the input
	SQLError  *pgconn.PgError // PostgreSQL error details, nil for transport errors
	Message   string
}

func (e *VerificationError) Error() string {
	if e.SQLError != nil {
		return fmt.Sprintf("statement %d failed verification: [%s] %s", e.Statement, e.SQLError.Code, e.SQLError.Message)
	}
	return fmt.Sprintf("statement %d failed verification: %s", e.Statement, e.Message)
}

// NewVerificationError creates a new VerificationError from a server error
func NewVerificationError(statement int, err error) *VerificationError {
	ve := &VerificationError{Statement: statement, Message: err.Error()}
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		ve.SQLError = pgErr
	}
	return ve
}

// ConnectionError represents PostgreSQL connection failure
type ConnectionError struct {
	Message    string
	Suggestion string
}

func (e *ConnectionError) Error() string {
	msg := "failed to connect to PostgreSQL: " + e.Message
	if e.Suggestion != "" {
		msg += "\nSuggestion: " + e.Suggestion
	}
	return msg
}

// ExitCode maps an error to the process exit code
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var contractErr *ContractError
	var configErr *types.ConfigError
	var clauseErr *MalformedClauseError
	switch {
	case stderrors.As(err, &contractErr), stderrors.As(err, &configErr):
		return ExitContract
	case stderrors.As(err, &clauseErr):
		return ExitMalformed
	default:
		return ExitFailure
	}
}
