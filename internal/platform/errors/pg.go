package errors

import (
	"context"
	stderrs "errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// sqlstateCodes maps the SQLSTATEs the repos can hit; anything else is ErrorCodeDB
var sqlstateCodes = map[string]ErrorCode{
	"23505": ErrorCodeDuplicateKey,    // unique_violation
	"23503": ErrorCodeInvalidArgument, // foreign_key_violation
	"23502": ErrorCodeValidation,      // not_null_violation
	"23514": ErrorCodeValidation,      // check_violation
	"22001": ErrorCodeInvalidArgument, // string_data_right_truncation
	"22P02": ErrorCodeInvalidArgument, // invalid_text_representation
	"42501": ErrorCodeForbidden,       // insufficient_privilege, row level security
	"25006": ErrorCodeUnavailable,     // read_only_sql_transaction
	"57P03": ErrorCodeUnavailable,     // cannot_connect_now
}

// transient SQLSTATEs: serialization_failure, deadlock_detected, lock_not_available
var retryStates = map[string]bool{"40001": true, "40P01": true, "55P03": true}

var retryText = []string{
	"commit unexpectedly resulted in rollback",
	"deadlock detected",
	"could not serialize access",
	"canceling statement due to lock timeout",
	"canceling statement due to statement timeout",
	"terminating connection due to administrator command",
}

func pgError(err error) (*pgconn.PgError, bool) {
	var pe *pgconn.PgError
	ok := stderrs.As(err, &pe)
	return pe, ok
}

// SQLState is the Postgres error code in err's chain, empty when there is none
func SQLState(err error) string {
	if pe, ok := pgError(err); ok {
		return pe.Code
	}
	return ""
}

// IsDuplicateKey reports a unique violation
func IsDuplicateKey(err error) bool { return SQLState(err) == "23505" }

// FromPostgres wraps a driver error under msg, classified by SQLSTATE, with
// the column as field when Postgres names one. nil stays nil
func FromPostgres(err error, msg string) error {
	if err == nil {
		return nil
	}
	pe, ok := pgError(err)
	if !ok {
		return Wrap(err, ErrorCodeDB, msg)
	}
	code, known := sqlstateCodes[pe.Code]
	if !known {
		code = ErrorCodeDB
	}
	out := Wrap(err, code, msg)
	if col := strings.TrimSpace(pe.ColumnName); col != "" {
		out = WithField(out, col)
	}
	return out
}

// IsRetryable reports transient database failures. Context cancellation is
// never retryable
func IsRetryable(err error) bool {
	if err == nil || stderrs.Is(err, context.Canceled) || stderrs.Is(err, context.DeadlineExceeded) {
		return false
	}
	if pe, ok := pgError(err); ok {
		return retryStates[pe.Code]
	}
	s := strings.ToLower(Root(err).Error())
	for _, t := range retryText {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
