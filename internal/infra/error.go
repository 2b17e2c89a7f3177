package infra

import (
	"errors"
	"log/slog"

	"clinic-scheduler/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// Is maps repository kinds onto the scheduling error taxonomy.
func (e RepositoryError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == errs.ErrNotFound
	case KindExclusionViolated:
		return target == errs.ErrConflict
	case KindDuplicateKey, KindForeignKeyViolated:
		return target == errs.ErrValidation
	case KindDBFailure:
		return target == errs.ErrDatabaseOperationFailed
	}
	return false
}

func WrapRepoErr(slogger *slog.Logger, kind RepositoryErrorKind, msg string, err error) error {
	logArgs := []any{
		slog.String("kind", string(kind)),
	}
	if err != nil {
		logArgs = append(logArgs, slog.String("error", err.Error()))
	}

	if kind == KindDBFailure {
		slogger.Error("Repository error: "+msg, logArgs...)
	} else {
		slogger.Warn("Repository error: "+msg, logArgs...)
	}

	if err != nil {
		err = errs.Wrap(err, msg)
	}

	return RepositoryError{Kind: kind, msg: msg, err: err}
}

// ClassifyPgError picks the kind for a driver error. The driver error stays
// reachable through Unwrap, so serialization failures remain retryable.
func ClassifyPgError(err error) RepositoryErrorKind {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return KindDBFailure
	}
	switch pgErr.Code {
	case pgErrUniqueViolation:
		return KindDuplicateKey
	case pgErrForeignKeyViolation:
		return KindForeignKeyViolated
	case pgErrExclusionViolation:
		return KindExclusionViolated
	default:
		return KindDBFailure
	}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"
	KindExclusionViolated  RepositoryErrorKind = "EXCLUSION_VIOLATED"
)

const (
	pgErrUniqueViolation     = "23505"
	pgErrForeignKeyViolation = "23503"
	pgErrExclusionViolation  = "23P01"
)
