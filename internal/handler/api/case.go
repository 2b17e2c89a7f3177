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
)

type CaseHandler struct {
	cmds commands.CaseCommands
	q    queries.BookingQueries
}

func NewCaseHandler(cmds commands.CaseCommands, q queries.BookingQueries) *CaseHandler {
	return &CaseHandler{cmds: cmds, q: q}
}

// @Summary Create case
// @Description Create a surgical case in DRAFT with its planning checklist
// @Tags cases
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "Acting staff member"
// @Param request body reqdto.CreateCaseRequest true "Create case request"
// @Success 201 {object} resdto.CaseResponse
// @Failure 400 {object} httperr.Response
// @Router /cases [post]
func (h *CaseHandler) Create(c *gin.Context) {
	actorID, _ := middleware.GetActorID(c)
	var req reqdto.CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.CreateCase(c.Request.Context(), req.ToCommand(actorID))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Create case failed")
		return
	}
	render(c, http.StatusCreated, resdto.FromCaseView, view)
}

// @Summary Get case
// @Tags cases
// @Produce json
// @Param id path string true "Case ID"
// @Success 200 {object} resdto.CaseResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cases/{id} [get]
func (h *CaseHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "Invalid case id")
	if !ok {
		return
	}
	view, err := h.q.GetCase(c.Request.Context(), id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load case")
		return
	}
	render(c, http.StatusOK, resdto.FromCaseView, view)
}

// @Summary Transition case status
// @Description Move a case along its lifecycle; entering READY_FOR_SCHEDULING requires a complete checklist
// @Tags cases
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "Acting staff member"
// @Param id path string true "Case ID"
// @Param request body reqdto.TransitionRequest true "Transition request"
// @Success 200 {object} resdto.CaseResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /cases/{id}/transitions [post]
func (h *CaseHandler) Transition(c *gin.Context) {
	id, ok := pathID(c, "Invalid case id")
	if !ok {
		return
	}
	actorID, _ := middleware.GetActorID(c)
	var req reqdto.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.TransitionStatus(c.Request.Context(), req.ToCommand(id, actorID))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Transition failed")
		return
	}
	render(c, http.StatusOK, resdto.FromCaseView, view)
}

// @Summary Update case plan
// @Description Record planning artefacts; omitted fields keep their stored value
// @Tags cases
// @Accept json
// @Produce json
// @Param X-Actor-ID header string true "Acting staff member"
// @Param id path string true "Case ID"
// @Param request body reqdto.ChecklistRequest true "Checklist changes"
// @Success 200 {object} resdto.CaseResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /cases/{id}/plan [put]
func (h *CaseHandler) UpdatePlan(c *gin.Context) {
	id, ok := pathID(c, "Invalid case id")
	if !ok {
		return
	}
	var req reqdto.ChecklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	view, err := h.cmds.UpdatePlan(c.Request.Context(), req.ToCommand(id))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Update plan failed")
		return
	}
	render(c, http.StatusOK, resdto.FromCaseView, view)
}
