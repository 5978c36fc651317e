package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// ── 班级模块业务错误 ──

var (
	ErrClassNotFound       = errors.New("班级不存在")
	ErrClassFeeInvalid     = errors.New("班级费用格式不正确")
	ErrClassSubjectUnknown = errors.New("所选科目不存在")
)

// ClassService 班级业务接口
type ClassService interface {
	Create(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error)
	// GetByID 返回班级详情：点名册带指定月份的缴费状态，并附作业列表
	GetByID(ctx context.Context, id string, month, year int) (*dto.ClassDetailResponse, error)
	List(ctx context.Context) ([]dto.ClassResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateClassRequest, ref time.Time) (*dto.ClassResponse, error)
	Delete(ctx context.Context, id string) error
}

type classService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewClassService 创建 ClassService 实例
func NewClassService(repo *repository.Repository, logger *zap.Logger) ClassService {
	return &classService{repo: repo, logger: logger}
}

// validateSubjects 校验科目 ID 在字典表中都存在（每次操作读一次快照）
func (s *classService) validateSubjects(ctx context.Context, ids []string) error {
	subjects, err := s.repo.Lookup.ListSubjectsByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("查询科目失败", zap.Error(err))
		return err
	}
	known := make(map[string]bool, len(subjects))
	for _, sub := range subjects {
		known[sub.ID] = true
	}
	for _, id := range ids {
		if !known[id] {
			return ErrClassSubjectUnknown
		}
	}
	return nil
}

// ────────────────────── Create ──────────────────────

func (s *classService) Create(ctx context.Context, req *dto.CreateClassRequest) (*dto.ClassResponse, error) {
	fee, err := decimal.NewFromString(req.Fee)
	if err != nil || fee.IsNegative() {
		return nil, ErrClassFeeInvalid
	}
	if err := s.validateSubjects(ctx, req.SubjectIDs); err != nil {
		return nil, err
	}

	class := &model.Class{
		Name:       req.Name,
		Grades:     model.IntArray(req.Grades),
		SubjectIDs: model.UUIDArray(req.SubjectIDs),
		ClassType:  req.ClassType,
		Fee:        fee,
	}
	for _, in := range req.Schedules {
		class.Schedules = append(class.Schedules, model.ClassSchedule{
			DayOfWeek: in.DayOfWeek,
			StartTime: in.StartTime,
			Duration:  in.Duration,
		})
	}

	if err := s.repo.Class.Create(ctx, class); err != nil {
		s.logger.Error("创建班级失败", zap.Error(err))
		return nil, err
	}

	return s.toClassResponse(class, 0), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *classService) GetByID(ctx context.Context, id string, month, year int) (*dto.ClassDetailResponse, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	enrollments, err := s.repo.Enrollment.ListByClass(ctx, id)
	if err != nil {
		s.logger.Error("查询班级学生失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	assignments, err := s.repo.Assignment.ListByClass(ctx, id)
	if err != nil {
		s.logger.Error("查询班级作业失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	detail := &dto.ClassDetailResponse{
		ClassResponse: *s.toClassResponse(class, int64(len(enrollments))),
		Roster:        make([]dto.ClassRosterEntry, 0, len(enrollments)),
		Assignments:   make([]dto.AssignmentResponse, 0, len(assignments)),
	}

	for _, e := range enrollments {
		if e.Student == nil {
			continue
		}
		entry := dto.ClassRosterEntry{
			StudentID:     e.StudentID,
			StudentName:   e.Student.Name,
			StudentGrade:  e.Student.Grade,
			PaymentStatus: model.PaymentStatusPending,
		}
		if e.CustomFee != nil {
			fee := e.CustomFee.StringFixed(2)
			entry.CustomFee = &fee
		}

		// 该月无缴费记录时按待缴展示，标记缴费时再按需创建
		payment, err := s.repo.Payment.GetByKey(ctx, e.StudentID, id, month, year)
		if err == nil {
			entry.PaymentID = &payment.ID
			entry.PaymentStatus = payment.Status
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询缴费记录失败", zap.String("student_id", e.StudentID), zap.Error(err))
			return nil, err
		}

		detail.Roster = append(detail.Roster, entry)
	}

	for i := range assignments {
		detail.Assignments = append(detail.Assignments, toAssignmentResponse(&assignments[i]))
	}

	return detail, nil
}

// ────────────────────── List ──────────────────────

func (s *classService) List(ctx context.Context) ([]dto.ClassResponse, error) {
	classes, err := s.repo.Class.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ClassResponse, 0, len(classes))
	for i := range classes {
		count, err := s.repo.Enrollment.CountByClass(ctx, classes[i].ID)
		if err != nil {
			s.logger.Error("统计班级人数失败", zap.String("id", classes[i].ID), zap.Error(err))
			return nil, err
		}
		result = append(result, *s.toClassResponse(&classes[i], count))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *classService) Update(ctx context.Context, id string, req *dto.UpdateClassRequest, ref time.Time) (*dto.ClassResponse, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		class.Name = *req.Name
	}
	if req.Grades != nil {
		class.Grades = model.IntArray(*req.Grades)
	}
	if req.SubjectIDs != nil {
		if err := s.validateSubjects(ctx, *req.SubjectIDs); err != nil {
			return nil, err
		}
		class.SubjectIDs = model.UUIDArray(*req.SubjectIDs)
	}
	if req.ClassType != nil {
		class.ClassType = *req.ClassType
	}

	feeChanged := false
	if req.Fee != nil {
		fee, err := decimal.NewFromString(*req.Fee)
		if err != nil || fee.IsNegative() {
			return nil, ErrClassFeeInvalid
		}
		feeChanged = !class.Fee.Equal(fee)
		class.Fee = fee
	}

	class.Schedules = nil
	if err := s.repo.Class.Update(ctx, class); err != nil {
		s.logger.Error("更新班级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Schedules != nil {
		schedules := make([]model.ClassSchedule, 0, len(*req.Schedules))
		for _, in := range *req.Schedules {
			schedules = append(schedules, model.ClassSchedule{
				DayOfWeek: in.DayOfWeek,
				StartTime: in.StartTime,
				Duration:  in.Duration,
			})
		}
		if err := s.repo.Class.ReplaceSchedules(ctx, id, schedules); err != nil {
			s.logger.Error("替换上课时间失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
	}

	// 默认费用调整后，对未设自定义费用的在读学生调整参考月起 pending 记录的金额
	if feeChanged {
		enrollments, err := s.repo.Enrollment.ListByClass(ctx, id)
		if err != nil {
			s.logger.Error("查询班级学生失败", zap.String("id", id), zap.Error(err))
			return nil, err
		}
		refMonth, refYear := int(ref.Month()), ref.Year()
		for _, e := range enrollments {
			if e.CustomFee != nil {
				continue
			}
			if err := s.repo.Payment.UpdateAmountInWindow(ctx, e.StudentID, id, refMonth, refYear, class.Fee); err != nil {
				s.logger.Error("调整缴费金额失败",
					zap.String("student_id", e.StudentID),
					zap.String("class_id", id),
					zap.Error(err))
				return nil, err
			}
		}
	}

	return s.GetByIDSummary(ctx, id)
}

// GetByIDSummary 重新查询班级并返回不带点名册的摘要响应
func (s *classService) GetByIDSummary(ctx context.Context, id string) (*dto.ClassResponse, error) {
	class, err := s.repo.Class.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.Enrollment.CountByClass(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toClassResponse(class, count), nil
}

// ────────────────────── Delete ──────────────────────

func (s *classService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Class.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Class.Delete(ctx, id); err != nil {
		s.logger.Error("删除班级失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 响应转换 ──────────────────────

func toScheduleResponses(schedules []model.ClassSchedule) []dto.ClassScheduleResponse {
	result := make([]dto.ClassScheduleResponse, 0, len(schedules))
	for _, sch := range schedules {
		result = append(result, dto.ClassScheduleResponse{
			ID:        sch.ID,
			DayOfWeek: sch.DayOfWeek,
			StartTime: sch.StartTime,
			Duration:  sch.Duration,
		})
	}
	return result
}

func (s *classService) toClassResponse(class *model.Class, studentCount int64) *dto.ClassResponse {
	return &dto.ClassResponse{
		ID:           class.ID,
		Name:         class.Name,
		Grades:       []int(class.Grades),
		SubjectIDs:   []string(class.SubjectIDs),
		ClassType:    class.ClassType,
		Fee:          class.Fee.StringFixed(2),
		Schedules:    toScheduleResponses(class.Schedules),
		StudentCount: studentCount,
		CreatedAt:    class.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    class.UpdatedAt.Format(time.RFC3339),
	}
}
