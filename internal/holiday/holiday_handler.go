package holiday

import (
	"net/http"
	"strconv"
	"time"

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

func (h *Handler) Create(c *gin.Context) {
	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(time.Now().Year())))
	if err != nil {
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "invalid year", nil)
		return
	}

	resp, svcErr := h.service.GetAllByYear(c.Request.Context(), year)
	if svcErr != nil {
		httpErr := apperror.ToHTTP(svcErr)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
