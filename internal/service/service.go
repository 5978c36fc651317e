package service

import (
	"go.uber.org/zap"

	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Student    StudentService
	Class      ClassService
	Enrollment EnrollmentService
	Payment    PaymentService
	Assignment AssignmentService
	Lookup     LookupService
	Timetable  TimetableService
	Dashboard  DashboardService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(repo *repository.Repository, logger *zap.Logger) *Service {
	enrollment := NewEnrollmentService(repo, logger)
	return &Service{
		Student:    NewStudentService(repo, enrollment, logger),
		Class:      NewClassService(repo, logger),
		Enrollment: enrollment,
		Payment:    NewPaymentService(repo, logger),
		Assignment: NewAssignmentService(repo, logger),
		Lookup:     NewLookupService(repo, logger),
		Timetable:  NewTimetableService(repo, logger),
		Dashboard:  NewDashboardService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
