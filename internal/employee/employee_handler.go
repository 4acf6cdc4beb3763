package employee

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

func (h *Handler) GetAll(c *gin.Context) {
	resp, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetOptions(c *gin.Context) {
	resp, err := h.service.GetOptions(c.Request.Context())
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
