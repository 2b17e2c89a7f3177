package api

import (
	"net/http"

	reqdto "clinic-scheduler/internal/handler/dto/request"
	resdto "clinic-scheduler/internal/handler/dto/response"
	"clinic-scheduler/internal/handler/httperr"
	"clinic-scheduler/internal/pkg/config"
	"clinic-scheduler/internal/usecase/commands"
	"clinic-scheduler/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	cmds            commands.AvailabilityCommands
	q               queries.AvailabilityQueries
	defaultTimezone string
}

func NewAvailabilityHandler(cmds commands.AvailabilityCommands, q queries.AvailabilityQueries, cfg config.SchedulingConfig) *AvailabilityHandler {
	return &AvailabilityHandler{cmds: cmds, q: q, defaultTimezone: cfg.DefaultTimezone}
}

// @Summary Create resource
// @Description Register a doctor calendar or operating theater
// @Tags resources
// @Accept json
// @Produce json
// @Param request body reqdto.CreateResourceRequest true "Create resource request"
// @Success 201 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Router /resources [post]
func (h *AvailabilityHandler) CreateResource(c *gin.Context) {
	var req reqdto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	res, err := h.cmds.CreateResource(c.Request.Context(), req.ToCommand(h.defaultTimezone))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Create resource failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromResource(res))
}

// @Summary Replace working-day template
// @Tags resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param request body reqdto.ReplaceTemplateRequest true "Template"
// @Success 200 {object} resdto.TemplateResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/template [put]
func (h *AvailabilityHandler) ReplaceTemplate(c *gin.Context) {
	id, ok := pathID(c, "Invalid resource id")
	if !ok {
		return
	}
	var req reqdto.ReplaceTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	cmd, err := req.ToCommand(id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid request")
		return
	}
	tpl, err := h.cmds.ReplaceTemplate(c.Request.Context(), cmd)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Replace template failed")
		return
	}
	c.JSON(http.StatusOK, resdto.FromTemplate(tpl))
}

// @Summary Add date override
// @Tags resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param request body reqdto.OverrideRequest true "Override"
// @Success 201 {object} resdto.OverrideResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/overrides [post]
func (h *AvailabilityHandler) AddOverride(c *gin.Context) {
	id, ok := pathID(c, "Invalid resource id")
	if !ok {
		return
	}
	var req reqdto.OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	o, err := req.ToDomain(id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid request")
		return
	}
	saved, err := h.cmds.AddOverride(c.Request.Context(), o)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Add override failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromOverride(saved))
}

// @Summary Add block
// @Tags resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param request body reqdto.BlockRequest true "Block"
// @Success 201 {object} resdto.BlockResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/blocks [post]
func (h *AvailabilityHandler) AddBlock(c *gin.Context) {
	id, ok := pathID(c, "Invalid resource id")
	if !ok {
		return
	}
	var req reqdto.BlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	b, err := req.ToDomain(id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid request")
		return
	}
	saved, err := h.cmds.AddBlock(c.Request.Context(), b)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Add block failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBlock(saved))
}

// @Summary Add break
// @Tags resources
// @Accept json
// @Produce json
// @Param id path string true "Resource ID"
// @Param request body reqdto.BreakRequest true "Break"
// @Success 201 {object} resdto.BreakResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/breaks [post]
func (h *AvailabilityHandler) AddBreak(c *gin.Context) {
	id, ok := pathID(c, "Invalid resource id")
	if !ok {
		return
	}
	var req reqdto.BreakRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	b, err := req.ToDomain(id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid request")
		return
	}
	saved, err := h.cmds.AddBreak(c.Request.Context(), b)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Add break failed")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromBreak(saved))
}

// @Summary List slots
// @Description Candidate slots for the dates [from, to); to defaults to the day after from
// @Tags availability
// @Produce json
// @Param id path string true "Resource ID"
// @Param from query string true "First date (YYYY-MM-DD)"
// @Param to query string false "Exclusive end date (YYYY-MM-DD)"
// @Param duration query int false "Slot length in minutes"
// @Param include_unavailable query bool false "Also return taken slots"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/slots [get]
func (h *AvailabilityHandler) Slots(c *gin.Context) {
	id, ok := pathID(c, "Invalid resource id")
	if !ok {
		return
	}
	var req reqdto.SlotsQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	q, err := req.ToQuery(id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Invalid query")
		return
	}
	slots, err := h.q.GenerateSlots(c.Request.Context(), q)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Slot generation failed")
		return
	}
	res, err := resdto.FromSlots(slots)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": res})
}

// @Summary Find conflicts
// @Description Report active bookings that overlap a proposed interval, widened by the buffer
// @Tags availability
// @Accept json
// @Produce json
// @Param request body reqdto.ConflictRequest true "Proposed interval"
// @Success 200 {object} resdto.ConflictReportResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /conflicts [post]
func (h *AvailabilityHandler) Conflicts(c *gin.Context) {
	var req reqdto.ConflictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	report, err := h.q.FindConflicts(c.Request.Context(), req.ToQuery())
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Conflict check failed")
		return
	}
	render(c, http.StatusOK, resdto.FromConflictReport, report)
}

// @Summary Resource utilization
// @Tags availability
// @Produce json
// @Param id path string true "Resource ID"
// @Param from query string true "Range start (RFC 3339)"
// @Param to query string true "Range end (RFC 3339)"
// @Success 200 {object} resdto.UtilizationResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /resources/{id}/utilization [get]
func (h *AvailabilityHandler) Utilization(c *gin.Context) {
	id, ok := pathID(c, "Invalid resource id")
	if !ok {
		return
	}
	var req reqdto.UtilizationQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	view, err := h.q.ResourceUtilization(c.Request.Context(), req.ToQuery(id))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Utilization failed")
		return
	}
	render(c, http.StatusOK, resdto.FromUtilization, view)
}
