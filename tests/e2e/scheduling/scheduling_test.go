//go:build e2e

package scheduling_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	reqdto "clinic-scheduler/internal/handler/dto/request"
	resdto "clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/internal/pkg/ptr"
	"clinic-scheduler/tests/common/builder"
	"clinic-scheduler/tests/common/dbtest"
	"clinic-scheduler/tests/common/httptest"
	"clinic-scheduler/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	holdsURL       = "/api/bookings/holds"
	bookingURL     = "/api/bookings/%s"
	confirmURL     = "/api/bookings/%s/confirm"
	cancelURL      = "/api/bookings/%s/cancel"
	rescheduleURL  = "/api/bookings/%s/reschedule"
	casesURL       = "/api/cases"
	caseURL        = "/api/cases/%s"
	transitionURL  = "/api/cases/%s/transitions"
	slotsURL       = "/api/resources/%s/slots?from=%s"
	conflictsURL   = "/api/conflicts"
	utilizationURL = "/api/resources/%s/utilization?from=%s&to=%s"
)

type SchedulingSuite struct {
	e2e.SharedSuite
	actor string
}

func (s *SchedulingSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()
	s.actor = uuid.NewString()
}

func TestSchedulingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(SchedulingSuite))
}

// nextMonday returns 09:00 UTC on the Monday after next, well clear of any lead time.
func nextMonday() time.Time {
	now := time.Now().UTC()
	days := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	d := now.AddDate(0, 0, days+7)
	return time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, time.UTC)
}

func (s *SchedulingSuite) hold(resourceID uuid.UUID, caseID *uuid.UUID, start time.Time) resdto.BookingResponse {
	t := s.T()
	req := reqdto.HoldRequest{ResourceID: resourceID, CaseID: caseID, Start: start, End: start.Add(30 * time.Minute)}
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, holdsURL, req, s.actor)
	var res resdto.BookingResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
	return res
}

func (s *SchedulingSuite) readyCase() resdto.CaseResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, casesURL, builder.NewCaseBuilder().BuildCreateRequestDTO(), s.actor)
	var created resdto.CaseResponse
	httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)

	current := created
	for _, target := range []string{"PLANNING", "READY_FOR_SCHEDULING"} {
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(transitionURL, current.ID),
			reqdto.TransitionRequest{Target: target, ExpectedVersion: ptr.To(current.Version)}, s.actor)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &current)
	}
	require.Equal(t, "READY_FOR_SCHEDULING", current.Status)
	return current
}

// =============================================================================
// Holds and confirmation
// =============================================================================

func (s *SchedulingSuite) TestHoldAndConfirm() {
	s.Run("Normal case: hold then confirm moves the booking to confirmed", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Theatre 1", "theater", "UTC")
		start := nextMonday()

		held := s.hold(resourceID, nil, start)
		assert.Equal(t, "provisional", held.Status)
		assert.Equal(t, int64(1), held.Version)
		require.NotNil(t, held.ExpiresAt)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, held.ID),
			reqdto.ConfirmRequest{ExpectedVersion: held.Version}, s.actor)
		var confirmed resdto.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &confirmed)

		want := held
		want.Status = "confirmed"
		want.Version = 2
		want.ExpiresAt = nil
		want.ConfirmedBy = ptr.To(uuid.MustParse(s.actor))
		opts := cmp.Options{
			cmpopts.IgnoreFields(resdto.BookingResponse{}, "CreatedAt", "UpdatedAt"),
			cmpopts.EquateApproxTime(time.Second),
		}
		if diff := cmp.Diff(want, confirmed, opts); diff != "" {
			t.Errorf("confirmed booking mismatch (-want +got):\n%s", diff)
		}
		assert.Equal(t, 1, dbtest.CountBookings(t, s.DB, resourceID, "confirmed"))
	})

	s.Run("Error case: overlapping hold is rejected with the blocking booking", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Theatre 2", "theater", "UTC")
		start := nextMonday()
		first := s.hold(resourceID, nil, start)

		req := reqdto.HoldRequest{ResourceID: resourceID, Start: start.Add(15 * time.Minute), End: start.Add(45 * time.Minute)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, holdsURL, req, s.actor)
		detail := httptest.AssertErrorResponse(t, w, http.StatusConflict, "Scheduling conflict")

		require.NotNil(t, detail)
		assert.Equal(t, true, detail["retryable"])
		conflicts, ok := detail["conflicts"].([]any)
		require.True(t, ok)
		require.Len(t, conflicts, 1)
		assert.Equal(t, first.ID.String(), conflicts[0].(map[string]any)["booking_id"])
	})

	s.Run("Error case: confirm with a stale version is rejected", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Theatre 3", "theater", "UTC")
		held := s.hold(resourceID, nil, nextMonday())

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, held.ID),
			reqdto.ConfirmRequest{ExpectedVersion: held.Version + 5}, s.actor)
		detail := httptest.AssertErrorResponse(t, w, http.StatusConflict, "Stale version")
		assert.EqualValues(t, held.Version, detail["actual_version"])
	})

	s.Run("Error case: missing actor header is rejected", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Theatre 4", "theater", "UTC")
		start := nextMonday()
		req := reqdto.HoldRequest{ResourceID: resourceID, Start: start, End: start.Add(30 * time.Minute)}

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, holdsURL, req, "")
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "X-Actor-ID")
	})

	s.Run("Error case: unknown booking returns 404", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(bookingURL, uuid.New()), nil, "")
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "")
	})
}

// =============================================================================
// Cancel and reschedule
// =============================================================================

func (s *SchedulingSuite) TestCancelAndReschedule() {
	s.Run("Normal case: cancelled hold frees the interval", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Dr. Okafor", "doctor", "UTC")
		start := nextMonday()
		held := s.hold(resourceID, nil, start)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(cancelURL, held.ID),
			reqdto.CancelRequest{ExpectedVersion: held.Version, Reason: "patient request"}, s.actor)
		var cancelled resdto.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &cancelled)
		assert.Equal(t, "cancelled", cancelled.Status)
		assert.Equal(t, "patient request", cancelled.CancelReason)

		again := s.hold(resourceID, nil, start)
		assert.NotEqual(t, held.ID, again.ID)
	})

	s.Run("Normal case: reschedule moves a confirmed booking", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Dr. Lindqvist", "doctor", "UTC")
		start := nextMonday()
		held := s.hold(resourceID, nil, start)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, held.ID),
			reqdto.ConfirmRequest{ExpectedVersion: held.Version}, s.actor)
		var confirmed resdto.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &confirmed)

		newStart := start.Add(2 * time.Hour)
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(rescheduleURL, held.ID),
			reqdto.RescheduleRequest{ExpectedVersion: confirmed.Version, Start: newStart, End: newStart.Add(30 * time.Minute)}, s.actor)
		var moved resdto.BookingResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &moved)

		assert.True(t, moved.Start.Equal(newStart))
		assert.Equal(t, "confirmed", moved.Status)
		assert.Greater(t, moved.Version, confirmed.Version)
	})
}

// =============================================================================
// Surgical case lifecycle
// =============================================================================

func (s *SchedulingSuite) TestCaseLifecycle() {
	s.Run("Normal case: confirming a case booking schedules the case", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Theatre 5", "theater", "UTC")
		sc := s.readyCase()

		held := s.hold(resourceID, &sc.ID, nextMonday())
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, held.ID),
			reqdto.ConfirmRequest{ExpectedVersion: held.Version}, s.actor)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(caseURL, sc.ID), nil, "")
		var got resdto.CaseResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &got)
		assert.Equal(t, "SCHEDULED", got.Status)
		require.NotNil(t, got.BookingID)
		assert.Equal(t, held.ID, *got.BookingID)
	})

	s.Run("Error case: incomplete checklist blocks readiness", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, casesURL,
			reqdto.CreateCaseRequest{Title: "Knee arthroscopy"}, s.actor)
		var created resdto.CaseResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)
		assert.Equal(t, "DRAFT", created.Status)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(transitionURL, created.ID),
			reqdto.TransitionRequest{Target: "PLANNING"}, s.actor)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(transitionURL, created.ID),
			reqdto.TransitionRequest{Target: "READY_FOR_SCHEDULING"}, s.actor)
		detail := httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "not ready")
		missing, ok := detail["missing"].([]any)
		require.True(t, ok)
		assert.Len(t, missing, 5)
	})

	s.Run("Error case: skipping statuses is an invalid transition", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, casesURL, builder.NewCaseBuilder().BuildCreateRequestDTO(), s.actor)
		var created resdto.CaseResponse
		httptest.AssertSuccessResponse(t, w, http.StatusCreated, &created)

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(transitionURL, created.ID),
			reqdto.TransitionRequest{Target: "IN_THEATER"}, s.actor)
		detail := httptest.AssertErrorResponse(t, w, http.StatusUnprocessableEntity, "Invalid status transition")
		assert.Equal(t, "DRAFT", detail["from"])
		assert.Equal(t, "IN_THEATER", detail["to"])
	})
}

// =============================================================================
// Availability queries
// =============================================================================

func (s *SchedulingSuite) TestAvailabilityQueries() {
	s.Run("Normal case: a held slot is no longer offered", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Theatre 6", "theater", "UTC")
		start := nextMonday()
		day := start.Format("2006-01-02")

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(slotsURL, resourceID, day), nil, "")
		var before struct {
			Slots []resdto.SlotResponse `json:"slots"`
		}
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &before)
		require.NotEmpty(t, before.Slots)
		assert.True(t, containsStart(before.Slots, start))

		s.hold(resourceID, nil, start)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, fmt.Sprintf(slotsURL, resourceID, day), nil, "")
		var after struct {
			Slots []resdto.SlotResponse `json:"slots"`
		}
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &after)
		assert.False(t, containsStart(after.Slots, start))
		assert.Less(t, len(after.Slots), len(before.Slots))
	})

	s.Run("Normal case: conflict report lists overlapping bookings", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Theatre 7", "theater", "UTC")
		start := nextMonday()
		held := s.hold(resourceID, nil, start)

		req := reqdto.ConflictRequest{ResourceID: resourceID, Start: start.Add(10 * time.Minute), End: start.Add(20 * time.Minute)}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, conflictsURL, req, "")
		var report resdto.ConflictReportResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &report)
		assert.True(t, report.HasConflict)
		require.Len(t, report.Conflicts, 1)
		assert.Equal(t, held.ID, report.Conflicts[0].BookingID)

		req.ExcludeBookingID = &held.ID
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, conflictsURL, req, "")
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &report)
		assert.False(t, report.HasConflict)
	})

	s.Run("Normal case: utilization counts booked minutes over the range", func() {
		t := s.T()
		resourceID := dbtest.CreateTestResource(t, s.DB, "Theatre 8", "theater", "UTC")
		start := nextMonday()
		held := s.hold(resourceID, nil, start)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, fmt.Sprintf(confirmURL, held.ID),
			reqdto.ConfirmRequest{ExpectedVersion: held.Version}, s.actor)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
		to := from.Add(24 * time.Hour)
		w = httptest.PerformRequest(t, s.Router, http.MethodGet,
			fmt.Sprintf(utilizationURL, resourceID, from.Format(time.RFC3339), to.Format(time.RFC3339)), nil, "")
		var util resdto.UtilizationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &util)
		assert.Equal(t, 30, util.BusyMinutes)
		assert.Equal(t, 1440, util.TotalMinutes)
		assert.Equal(t, 1410, util.FreeMinutes)
	})
}

func containsStart(slots []resdto.SlotResponse, start time.Time) bool {
	for _, sl := range slots {
		if sl.Start.Equal(start) {
			return true
		}
	}
	return false
}
