package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// pgClass is how one SQLSTATE is surfaced: the code clients see and
// whether the statement is worth running again
type pgClass struct {
	code  ErrorCode
	retry bool
}

var pgStates = map[string]pgClass{
	"23505": {code: ErrorCodeDuplicateKey},    // unique_violation
	"23503": {code: ErrorCodeInvalidArgument}, // foreign_key_violation
	"22001": {code: ErrorCodeInvalidArgument}, // string_data_right_truncation
	"22P02": {code: ErrorCodeInvalidArgument}, // invalid_text_representation
	"23502": {code: ErrorCodeValidation},      // not_null_violation
	"23514": {code: ErrorCodeValidation},      // check_violation
	"40001": {code: ErrorCodeDB, retry: true}, // serialization_failure
	"40P01": {code: ErrorCodeDB, retry: true}, // deadlock_detected
	"55P03": {code: ErrorCodeDB, retry: true}, // lock_not_available
	"57014": {code: ErrorCodeUnavailable},     // query_canceled, statement_timeout
	"25006": {code: ErrorCodeUnavailable},     // read_only_sql_transaction
	"57P03": {code: ErrorCodeUnavailable},     // cannot_connect_now
}

// abortedCommit lists the text pgx uses for aborted commits that carry no SQLSTATE
var abortedCommit = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// IsSQLState reports whether err wraps a Postgres error with SQLSTATE state
func IsSQLState(err error, state string) bool {
	pe, ok := pgError(err)
	return ok && pe.Code == state
}

// DBErrorCode classifies a Postgres error; ok is false when err is not one.
// States without a mapping are ErrorCodeDB.
func DBErrorCode(err error) (code ErrorCode, ok bool) {
	pe, ok := pgError(err)
	if !ok {
		return ErrorCodeUnknown, false
	}
	if c, known := pgStates[pe.Code]; known {
		return c.code, true
	}
	return ErrorCodeDB, true
}

// FromPostgres wraps err under msg with its classified code; nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	code, _ := DBErrorCode(err)
	if code == ErrorCodeUnknown {
		code = ErrorCodeDB
	}
	return &Error{code: code, msg: msg, orig: err}
}

// IsRetryable reports transient contention: serialization failures,
// deadlocks and lock timeouts. Cancellation and statement timeouts are final.
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := pgError(err); ok {
		return pgStates[pe.Code].retry
	}
	s := strings.ToLower(Root(err).Error())
	for _, frag := range abortedCommit {
		if strings.Contains(s, frag) {
			return true
		}
	}
	return false
}
