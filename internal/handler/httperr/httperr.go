package httperr

import (
	"net/http"
	"time"

	"clinic-scheduler/internal/domain/booking"
	"clinic-scheduler/internal/domain/surgicalcase"
	"clinic-scheduler/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

type ConflictDetail struct {
	Retryable bool            `json:"retryable"`
	Conflicts []ConflictEntry `json:"conflicts"`
}

type ConflictEntry struct {
	BookingID string    `json:"booking_id"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Status    string    `json:"status"`
}

type StaleDetail struct {
	Retryable bool  `json:"retryable"`
	Expected  int64 `json:"expected_version"`
	Actual    int64 `json:"actual_version"`
}

type ReadinessDetail struct {
	Missing []string `json:"missing"`
}

type TransitionDetail struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type ValidationDetail struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithDomainError picks the status and detail from the error kind.
// fallback is used as the message for errors that carry no kind.
func AbortWithDomainError(c *gin.Context, err error, fallback string) {
	status, msg, detail := Classify(err)
	if status == http.StatusInternalServerError {
		msg = fallback
	}
	AbortWithError(c, status, err, msg, detail)
}

func Classify(err error) (status int, msg string, detail any) {
	var (
		conflictErr   *booking.ConflictError
		staleErr      *errs.StaleVersionError
		readinessErr  *surgicalcase.ReadinessError
		transitionErr *surgicalcase.InvalidTransitionError
		validationErr *errs.ValidationError
	)

	switch {
	case errs.As(err, &validationErr):
		return http.StatusBadRequest, "Invalid request", ValidationDetail{Field: validationErr.Field, Reason: validationErr.Reason}
	case errs.Is(err, errs.ErrValidation):
		return http.StatusBadRequest, "Invalid request", nil
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "Not found", nil
	case errs.As(err, &conflictErr):
		entries := make([]ConflictEntry, 0, len(conflictErr.Conflicts))
		for _, cf := range conflictErr.Conflicts {
			entries = append(entries, ConflictEntry{
				BookingID: cf.BookingID.String(),
				Start:     cf.Interval.Start(),
				End:       cf.Interval.End(),
				Status:    cf.Status.String(),
			})
		}
		return http.StatusConflict, "Scheduling conflict", ConflictDetail{Retryable: true, Conflicts: entries}
	case errs.Is(err, errs.ErrConflict):
		return http.StatusConflict, "Scheduling conflict", ConflictDetail{Retryable: true, Conflicts: []ConflictEntry{}}
	case errs.As(err, &staleErr):
		return http.StatusConflict, "Stale version", StaleDetail{Retryable: true, Expected: staleErr.Expected, Actual: staleErr.Actual}
	case errs.Is(err, errs.ErrStaleVersion):
		return http.StatusConflict, "Stale version", StaleDetail{Retryable: true}
	case errs.Is(err, errs.ErrExpiredHold):
		return http.StatusGone, "Hold expired", nil
	case errs.As(err, &readinessErr):
		return http.StatusUnprocessableEntity, "Case is not ready for scheduling", ReadinessDetail{Missing: readinessErr.Missing}
	case errs.As(err, &transitionErr):
		return http.StatusUnprocessableEntity, "Invalid status transition", TransitionDetail{From: transitionErr.From.String(), To: transitionErr.To.String()}
	case errs.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, "Invalid status transition", nil
	default:
		return http.StatusInternalServerError, "Internal server error", nil
	}
}
