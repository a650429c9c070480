package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoncada/servitec-api/internal/repository"
	"github.com/jmoncada/servitec-api/internal/services"
)

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// @Summary List Audit Logs
// @Description Get a paginated list of audit log entries (Admin)
// @Tags Audits
// @Accept json
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param user_id query int false "Filter by user"
// @Param entity query string false "Filter by entity"
// @Param action query string false "Filter by action"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /audits [get]
func (h *AuditHandler) Index(c *gin.Context) {
	query := &repository.AuditQuery{ListQuery: parseListQuery(c)}
	query.UserID = queryID(c, "user_id")
	query.Entity = c.Query("entity")
	query.Action = c.Query("action")

	logs, total, err := h.auditService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"audits":     logs,
		"pagination": paginationResponse(query.ListQuery, total),
	})
}
