package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoPayments   = errors.New("该月份暂无缴费记录")
	ErrExportNoSchedules  = errors.New("暂无课程安排")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 月度缴费报表导出为 Excel (.xlsx)，课程表导出为 iCalendar (.ics)
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportPayments 导出指定月份缴费报表
	ExportPayments(ctx context.Context, month, year int) (*bytes.Buffer, string, error)
	// ExportTimetable 导出每周课程表，以传入周的周日为第一次上课日期
	ExportTimetable(ctx context.Context, weekStart time.Time) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportPayments — 月度缴费报表 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 标题行：YYYY-MM 缴费报表
//   - 表头：学生 | 班级 | 金额 | 状态 | 收款时间
//   - 末行：合计金额 / 已收金额

func (s *exportService) ExportPayments(ctx context.Context, month, year int) (*bytes.Buffer, string, error) {
	payments, err := s.repo.Payment.List(ctx, repository.PaymentFilter{Month: &month, Year: &year})
	if err != nil {
		s.logger.Error("查询缴费记录失败", zap.Error(err))
		return nil, "", err
	}
	if len(payments) == 0 {
		return nil, "", ErrExportNoPayments
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "缴费报表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 24)
	f.SetColWidth(sheetName, "C", "E", 14)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%d-%02d 缴费报表", year, month))
	f.MergeCell(sheetName, "A1", "E1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	statusNames := map[string]string{
		model.PaymentStatusPending: "待缴",
		model.PaymentStatusPaid:    "已缴",
		model.PaymentStatusOverdue: "逾期",
	}
	headers := []string{"学生", "班级", "金额", "状态", "收款时间"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s2", col), h)
		f.SetCellStyle(sheetName, fmt.Sprintf("%s2", col), fmt.Sprintf("%s2", col), headerStyle)
	}

	// 数据行
	row := 3
	for i := range payments {
		p := &payments[i]
		studentName, className := p.StudentID, p.ClassID
		if p.Student != nil {
			studentName = p.Student.Name
		}
		if p.Class != nil {
			className = p.Class.Name
		}
		paidAt := "-"
		if p.PaidAt != nil {
			paidAt = p.PaidAt.Format("2006-01-02 15:04")
		}

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), studentName)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), className)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), p.Amount.StringFixed(2))
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), statusNames[p.Status])
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), paidAt)
		row++
	}

	// 合计行
	total, paid := sumPayments(payments)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), "合计")
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), total)
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", row+1), "已收")
	f.SetCellValue(sheetName, fmt.Sprintf("C%d", row+1), paid)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("缴费报表_%d-%02d.xlsx", year, month)
	return buf, filename, nil
}

func sumPayments(payments []model.Payment) (total, paid string) {
	t := decimal.Zero
	p := decimal.Zero
	for i := range payments {
		t = t.Add(payments[i].Amount)
		if payments[i].Status == model.PaymentStatusPaid {
			p = p.Add(payments[i].Amount)
		}
	}
	return t.StringFixed(2), p.StringFixed(2)
}

// ═══════════════════════════════════════════════════════════
// ExportTimetable — 每周课程表 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每个上课时间段生成一个每周重复 (RRULE FREQ=WEEKLY) 的事件，
// 首次发生日期取 weekStart 所在周内对应的星期几。

var icsWeekdays = [7]string{"SU", "MO", "TU", "WE", "TH", "FR", "SA"}

func (s *exportService) ExportTimetable(ctx context.Context, weekStart time.Time) (*bytes.Buffer, string, error) {
	schedules, err := s.repo.Class.ListAllSchedules(ctx)
	if err != nil {
		s.logger.Error("查询课程表失败", zap.Error(err))
		return nil, "", err
	}
	if len(schedules) == 0 {
		return nil, "", ErrExportNoSchedules
	}

	// 对齐到所在周的周日
	weekSunday := weekStart.AddDate(0, 0, -int(weekStart.Weekday()))

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//tution-management-app//timetable//EN")

	for i := range schedules {
		sch := &schedules[i]
		if sch.Class == nil || sch.DayOfWeek < 0 || sch.DayOfWeek > 6 {
			continue
		}

		start, err := scheduleStartAt(weekSunday, sch)
		if err != nil {
			s.logger.Warn("跳过无法解析的上课时间",
				zap.String("schedule_id", sch.ID),
				zap.String("start_time", sch.StartTime))
			continue
		}
		end := start.Add(time.Duration(sch.Duration) * time.Minute)

		event := cal.AddEvent(uuid.NewString())
		event.SetSummary(fmt.Sprintf("%s (%s)", sch.Class.Name, sch.Class.ClassType))
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetDtStampTime(time.Now())
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;BYDAY=%s", icsWeekdays[sch.DayOfWeek]))
	}

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, "课程表.ics", nil
}

// scheduleStartAt 计算时间段在指定周内的首次开始时刻
func scheduleStartAt(weekSunday time.Time, sch *model.ClassSchedule) (time.Time, error) {
	t, err := time.Parse("15:04", sch.StartTime)
	if err != nil {
		t, err = time.Parse("15:04:05", sch.StartTime)
		if err != nil {
			return time.Time{}, err
		}
	}
	day := weekSunday.AddDate(0, 0, sch.DayOfWeek)
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, weekSunday.Location()), nil
}
