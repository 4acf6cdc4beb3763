package leave

import (
	"net/http"

	"go-gaji/internal/shared/apperror"
	"go-gaji/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	actorID := c.GetString("user_id_validated")

	var req CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), actorID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	actorID := c.GetString("user_id_validated")
	resp, err := h.service.Approve(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Reject(c *gin.Context) {
	actorID := c.GetString("user_id_validated")
	resp, err := h.service.Reject(c.Request.Context(), actorID, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
