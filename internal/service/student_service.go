package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// ── 学生模块业务错误 ──

var (
	ErrStudentNotFound = errors.New("学生不存在")
)

// 学生详情中返回的最近缴费记录条数
const recentPaymentLimit = 12

// StudentService 学生业务接口
type StudentService interface {
	Create(ctx context.Context, req *dto.CreateStudentRequest, ref time.Time) (*dto.StudentDetailResponse, error)
	GetByID(ctx context.Context, id string) (*dto.StudentDetailResponse, error)
	List(ctx context.Context, grade, search string) ([]dto.StudentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, ref time.Time) (*dto.StudentDetailResponse, error)
	Delete(ctx context.Context, id string) error
}

type studentService struct {
	repo        *repository.Repository
	enrollments EnrollmentService
	logger      *zap.Logger
}

// NewStudentService 创建 StudentService 实例
func NewStudentService(repo *repository.Repository, enrollments EnrollmentService, logger *zap.Logger) StudentService {
	return &studentService{repo: repo, enrollments: enrollments, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *studentService) Create(ctx context.Context, req *dto.CreateStudentRequest, ref time.Time) (*dto.StudentDetailResponse, error) {
	student := &model.Student{
		Name:       req.Name,
		Grade:      req.Grade,
		Phone:      req.Phone,
		ParentName: req.ParentName,
	}

	if err := s.repo.Student.Create(ctx, student); err != nil {
		s.logger.Error("创建学生失败", zap.Error(err))
		return nil, err
	}

	if len(req.Enrollments) > 0 {
		if err := s.enrollments.SyncEnrollments(ctx, student.ID, req.Enrollments, ref); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, student.ID)
}

// ────────────────────── GetByID ──────────────────────

func (s *studentService) GetByID(ctx context.Context, id string) (*dto.StudentDetailResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	payments, err := s.repo.Payment.ListRecentByStudent(ctx, id, recentPaymentLimit)
	if err != nil {
		s.logger.Error("查询学生缴费记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toStudentDetail(student, payments), nil
}

// ────────────────────── List ──────────────────────

func (s *studentService) List(ctx context.Context, grade, search string) ([]dto.StudentResponse, error) {
	students, err := s.repo.Student.List(ctx, repository.StudentFilter{Grade: grade, Search: search})
	if err != nil {
		s.logger.Error("列出学生失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StudentResponse, 0, len(students))
	for i := range students {
		result = append(result, s.toStudentResponse(&students[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *studentService) Update(ctx context.Context, id string, req *dto.UpdateStudentRequest, ref time.Time) (*dto.StudentDetailResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Grade != nil {
		student.Grade = *req.Grade
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.ParentName != nil {
		student.ParentName = req.ParentName
	}

	// Save 不连带写关联，先清空避免 gorm upsert 选课记录
	student.Enrollments = nil
	if err := s.repo.Student.Update(ctx, student); err != nil {
		s.logger.Error("更新学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// Enrollments 为 nil 表示不动选课；空数组表示退掉全部班级
	if req.Enrollments != nil {
		if err := s.enrollments.SyncEnrollments(ctx, id, *req.Enrollments, ref); err != nil {
			return nil, err
		}
	}

	return s.GetByID(ctx, id)
}

// ────────────────────── Delete ──────────────────────

func (s *studentService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Student.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.String("id", id), zap.Error(err))
		return err
	}

	// 选课与缴费记录由外键级联删除
	if err := s.repo.Student.Delete(ctx, id); err != nil {
		s.logger.Error("删除学生失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 响应转换 ──────────────────────

func (s *studentService) toStudentResponse(student *model.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:         student.ID,
		Name:       student.Name,
		Grade:      student.Grade,
		Phone:      student.Phone,
		ParentName: student.ParentName,
		CreatedAt:  student.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  student.UpdatedAt.Format(time.RFC3339),
	}
}

func (s *studentService) toStudentDetail(student *model.Student, payments []model.Payment) *dto.StudentDetailResponse {
	detail := &dto.StudentDetailResponse{
		StudentResponse: s.toStudentResponse(student),
		EnrolledClasses: make([]dto.EnrolledClassResponse, 0, len(student.Enrollments)),
		RecentPayments:  make([]dto.PaymentResponse, 0, len(payments)),
	}

	for _, e := range student.Enrollments {
		if e.Class == nil {
			continue
		}
		ec := dto.EnrolledClassResponse{
			ClassID:   e.ClassID,
			ClassName: e.Class.Name,
			ClassType: e.Class.ClassType,
			Fee:       e.Class.Fee.StringFixed(2),
			Schedules: toScheduleResponses(e.Class.Schedules),
		}
		if e.CustomFee != nil {
			fee := e.CustomFee.StringFixed(2)
			ec.CustomFee = &fee
		}
		detail.EnrolledClasses = append(detail.EnrolledClasses, ec)
	}

	for i := range payments {
		detail.RecentPayments = append(detail.RecentPayments, toPaymentResponse(&payments[i]))
	}

	return detail
}
