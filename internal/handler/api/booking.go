package api

import (
	"net/http"

	reqdto "clinic-scheduler/internal/handler/dto/request"
	resdto "clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/handler/middleware"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	cmds commands.BookingCommands
	q    queries.BookingQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q}
}

// @Summary Place a hold
// @Description Create a provisional booking that expires unless confirmed
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "Acting staff member"
// @Param request body reqdto.HoldRequest true "Hold request"
// @Success 201 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /bookings/holds [post]
func (h *BookingHandler) Hold(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)
	var req reqdto.HoldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.Hold(c.Request.Context(), req.ToCommand(actorID))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Hold failed")
		return
	}
	render(c, http.StatusCreated, resdto.FromBookingView, view)
}

// @Summary Confirm a hold
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "Acting staff member"
// @Param id path string true "Booking ID"
// @Param request body reqdto.ConfirmRequest true "Confirm request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /bookings/{id}/confirm [post]
func (h *BookingHandler) Confirm(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)
	var req reqdto.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.Confirm(c.Request.Context(), req.ToCommand(id, actorID))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Confirm failed")
		return
	}
	render(c, http.StatusOK, resdto.FromBookingView, view)
}

// @Summary Cancel a booking
// @Description Cancelling an already cancelled booking is a no-op
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "Acting staff member"
// @Param id path string true "Booking ID"
// @Param request body reqdto.CancelRequest true "Cancel request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)
	var req reqdto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.Cancel(c.Request.Context(), req.ToCommand(id, actorID))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Cancel failed")
		return
	}
	render(c, http.StatusOK, resdto.FromBookingView, view)
}

// @Summary Reschedule a booking
// @Tags bookings
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "Acting staff member"
// @Param id path string true "Booking ID"
// @Param request body reqdto.RescheduleRequest true "Reschedule request"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 410 {object} httperr.Response
// @Router /bookings/{id}/reschedule [post]
func (h *BookingHandler) Reschedule(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)
	var req reqdto.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.Reschedule(c.Request.Context(), req.ToCommand(id, actorID))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Reschedule failed")
		return
	}
	render(c, http.StatusOK, resdto.FromBookingView, view)
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}
	view, err := h.q.GetBooking(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load booking")
		return
	}
	render(c, http.StatusOK, resdto.FromBookingView, view)
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	return pathID(c, "Invalid booking id")
}

func pathID(c *gin.Context, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, msg, nil)
		return uuid.Nil, false
	}
	return id, true
}

// render writes the response built from v, or a 500 when it cannot be built.
func render[V, R any](c *gin.Context, status int, build func(V) (R, error), v V) {
	res, err := build(v)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(status, res)
}
