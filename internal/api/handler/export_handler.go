package handler

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AnukaFonseka/tution-management-app/internal/service"
	"github.com/AnukaFonseka/tution-management-app/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportPayments 导出指定月份缴费报表 (.xlsx)，缺省当月
// GET /api/v1/export/payments?month=9&year=2026
func (h *ExportHandler) ExportPayments(c *gin.Context) {
	month, year, ok := monthYearQuery(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportPayments(c.Request.Context(), month, year)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, filename, contentTypeXLSX, buf.Bytes())
}

// ExportTimetable 导出每周课程表 (.ics)，以本周为首次发生周
// GET /api/v1/export/timetable
func (h *ExportHandler) ExportTimetable(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportTimetable(c.Request.Context(), time.Now())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeAttachment(c, filename, contentTypeICS, buf.Bytes())
}

// writeAttachment 设置下载响应头并写出文件内容
func writeAttachment(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", contentType)
	c.Data(http.StatusOK, contentType, data)
}

// handleExportError 统一处理导出模块业务错误
func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoPayments):
		response.NotFound(c, 26001, "该月份暂无缴费记录")
	case errors.Is(err, service.ErrExportNoSchedules):
		response.NotFound(c, 26002, "暂无课程安排")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
