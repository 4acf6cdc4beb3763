package attendance

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

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) ImportScan(c *gin.Context) {
	var req ImportScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.ImportScan(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ManualEntry(c *gin.Context) {
	var req ManualEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Input tidak valid", err.Error())
		return
	}

	resp, err := h.service.ManualEntry(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) Reclassify(c *gin.Context) {
	resp, err := h.service.Reclassify(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID := c.Param("employee_id")
	start := c.Query("start_date")
	end := c.Query("end_date")

	resp, err := h.service.GetByEmployeeAndPeriod(c.Request.Context(), employeeID, start, end)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetAllByDate(c *gin.Context) {
	date := c.DefaultQuery("date", time.Now().Format("2006-01-02"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	resp, total, err := h.service.GetAllByDate(c.Request.Context(), date, page, pageSize)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}
