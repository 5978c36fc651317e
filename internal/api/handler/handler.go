package handler

import "github.com/AnukaFonseka/tution-management-app/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Student    *StudentHandler
	Class      *ClassHandler
	Payment    *PaymentHandler
	Assignment *AssignmentHandler
	Lookup     *LookupHandler
	Timetable  *TimetableHandler
	Dashboard  *DashboardHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Student:    NewStudentHandler(svc.Student),
		Class:      NewClassHandler(svc.Class),
		Payment:    NewPaymentHandler(svc.Payment),
		Assignment: NewAssignmentHandler(svc.Assignment),
		Lookup:     NewLookupHandler(svc.Lookup),
		Timetable:  NewTimetableHandler(svc.Timetable),
		Dashboard:  NewDashboardHandler(svc.Dashboard),
		Export:     NewExportHandler(svc.Export),
	}
}
