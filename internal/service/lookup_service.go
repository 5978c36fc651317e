package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/dto"
	"github.com/AnukaFonseka/tution-management-app/internal/model"
	"github.com/AnukaFonseka/tution-management-app/internal/repository"
)

// ── 基础数据模块业务错误 ──

var (
	ErrGradeNotFound          = errors.New("年级不存在")
	ErrSubjectNotFound        = errors.New("科目不存在")
	ErrAssignmentTypeNotFound = errors.New("作业类型不存在")
)

// LookupService 基础数据（设置页）业务接口
type LookupService interface {
	CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*dto.GradeResponse, error)
	ListGrades(ctx context.Context, activeOnly bool) ([]dto.GradeResponse, error)
	UpdateGrade(ctx context.Context, id string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error)
	// ReorderGrade 与相邻年级交换 display_order
	ReorderGrade(ctx context.Context, id string, req *dto.ReorderGradeRequest) error
	DeleteGrade(ctx context.Context, id string) error

	CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error)
	ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error)
	UpdateSubject(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error)
	DeleteSubject(ctx context.Context, id string) error

	CreateAssignmentType(ctx context.Context, req *dto.CreateAssignmentTypeRequest) (*dto.AssignmentTypeResponse, error)
	ListAssignmentTypes(ctx context.Context, activeOnly bool) ([]dto.AssignmentTypeResponse, error)
	UpdateAssignmentType(ctx context.Context, id string, req *dto.UpdateAssignmentTypeRequest) (*dto.AssignmentTypeResponse, error)
	DeleteAssignmentType(ctx context.Context, id string) error
}

type lookupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLookupService 创建 LookupService 实例
func NewLookupService(repo *repository.Repository, logger *zap.Logger) LookupService {
	return &lookupService{repo: repo, logger: logger}
}

// ────────────────────── Grade ──────────────────────

func (s *lookupService) CreateGrade(ctx context.Context, req *dto.CreateGradeRequest) (*dto.GradeResponse, error) {
	maxOrder, err := s.repo.Lookup.MaxGradeDisplayOrder(ctx)
	if err != nil {
		s.logger.Error("查询年级排序失败", zap.Error(err))
		return nil, err
	}

	grade := &model.Grade{
		Name:         req.Name,
		DisplayOrder: maxOrder + 1,
		IsActive:     true,
	}
	if err := s.repo.Lookup.CreateGrade(ctx, grade); err != nil {
		s.logger.Error("创建年级失败", zap.Error(err))
		return nil, err
	}
	resp := toGradeResponse(grade)
	return &resp, nil
}

func (s *lookupService) ListGrades(ctx context.Context, activeOnly bool) ([]dto.GradeResponse, error) {
	grades, err := s.repo.Lookup.ListGrades(ctx, activeOnly)
	if err != nil {
		s.logger.Error("列出年级失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.GradeResponse, 0, len(grades))
	for i := range grades {
		result = append(result, toGradeResponse(&grades[i]))
	}
	return result, nil
}

func (s *lookupService) UpdateGrade(ctx context.Context, id string, req *dto.UpdateGradeRequest) (*dto.GradeResponse, error) {
	grade, err := s.repo.Lookup.GetGradeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGradeNotFound
		}
		s.logger.Error("查询年级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		grade.Name = *req.Name
	}
	if req.IsActive != nil {
		grade.IsActive = *req.IsActive
	}

	if err := s.repo.Lookup.UpdateGrade(ctx, grade); err != nil {
		s.logger.Error("更新年级失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toGradeResponse(grade)
	return &resp, nil
}

func (s *lookupService) ReorderGrade(ctx context.Context, id string, req *dto.ReorderGradeRequest) error {
	grade, err := s.repo.Lookup.GetGradeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		s.logger.Error("查询年级失败", zap.String("id", id), zap.Error(err))
		return err
	}

	targetOrder := grade.DisplayOrder - 1
	if req.Direction == "down" {
		targetOrder = grade.DisplayOrder + 1
	}

	neighbor, err := s.repo.Lookup.GetGradeByDisplayOrder(ctx, targetOrder)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 已在边界，无需移动
			return nil
		}
		s.logger.Error("查询相邻年级失败", zap.Error(err))
		return err
	}

	if err := s.repo.Lookup.SwapGradeOrder(ctx, grade, neighbor); err != nil {
		s.logger.Error("交换年级排序失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *lookupService) DeleteGrade(ctx context.Context, id string) error {
	if _, err := s.repo.Lookup.GetGradeByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGradeNotFound
		}
		s.logger.Error("查询年级失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Lookup.DeleteGrade(ctx, id); err != nil {
		s.logger.Error("删除年级失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Subject ──────────────────────

func (s *lookupService) CreateSubject(ctx context.Context, req *dto.CreateSubjectRequest) (*dto.SubjectResponse, error) {
	subject := &model.Subject{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Lookup.CreateSubject(ctx, subject); err != nil {
		s.logger.Error("创建科目失败", zap.Error(err))
		return nil, err
	}
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *lookupService) ListSubjects(ctx context.Context) ([]dto.SubjectResponse, error) {
	subjects, err := s.repo.Lookup.ListSubjects(ctx)
	if err != nil {
		s.logger.Error("列出科目失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.SubjectResponse, 0, len(subjects))
	for i := range subjects {
		result = append(result, toSubjectResponse(&subjects[i]))
	}
	return result, nil
}

func (s *lookupService) UpdateSubject(ctx context.Context, id string, req *dto.UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	subject, err := s.repo.Lookup.GetSubjectByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		subject.Name = *req.Name
	}
	if req.Description != nil {
		subject.Description = req.Description
	}

	if err := s.repo.Lookup.UpdateSubject(ctx, subject); err != nil {
		s.logger.Error("更新科目失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toSubjectResponse(subject)
	return &resp, nil
}

func (s *lookupService) DeleteSubject(ctx context.Context, id string) error {
	if _, err := s.repo.Lookup.GetSubjectByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		s.logger.Error("查询科目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Lookup.DeleteSubject(ctx, id); err != nil {
		s.logger.Error("删除科目失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── AssignmentType ──────────────────────

func (s *lookupService) CreateAssignmentType(ctx context.Context, req *dto.CreateAssignmentTypeRequest) (*dto.AssignmentTypeResponse, error) {
	at := &model.AssignmentType{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.repo.Lookup.CreateAssignmentType(ctx, at); err != nil {
		s.logger.Error("创建作业类型失败", zap.Error(err))
		return nil, err
	}
	resp := toAssignmentTypeResponse(at)
	return &resp, nil
}

func (s *lookupService) ListAssignmentTypes(ctx context.Context, activeOnly bool) ([]dto.AssignmentTypeResponse, error) {
	types, err := s.repo.Lookup.ListAssignmentTypes(ctx, activeOnly)
	if err != nil {
		s.logger.Error("列出作业类型失败", zap.Error(err))
		return nil, err
	}
	result := make([]dto.AssignmentTypeResponse, 0, len(types))
	for i := range types {
		result = append(result, toAssignmentTypeResponse(&types[i]))
	}
	return result, nil
}

func (s *lookupService) UpdateAssignmentType(ctx context.Context, id string, req *dto.UpdateAssignmentTypeRequest) (*dto.AssignmentTypeResponse, error) {
	at, err := s.repo.Lookup.GetAssignmentTypeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssignmentTypeNotFound
		}
		s.logger.Error("查询作业类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		at.Name = *req.Name
	}
	if req.Description != nil {
		at.Description = req.Description
	}
	if req.IsActive != nil {
		at.IsActive = *req.IsActive
	}

	if err := s.repo.Lookup.UpdateAssignmentType(ctx, at); err != nil {
		s.logger.Error("更新作业类型失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toAssignmentTypeResponse(at)
	return &resp, nil
}

func (s *lookupService) DeleteAssignmentType(ctx context.Context, id string) error {
	if _, err := s.repo.Lookup.GetAssignmentTypeByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAssignmentTypeNotFound
		}
		s.logger.Error("查询作业类型失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := s.repo.Lookup.DeleteAssignmentType(ctx, id); err != nil {
		s.logger.Error("删除作业类型失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 响应转换 ──────────────────────

func toGradeResponse(g *model.Grade) dto.GradeResponse {
	return dto.GradeResponse{
		ID:           g.ID,
		Name:         g.Name,
		DisplayOrder: g.DisplayOrder,
		IsActive:     g.IsActive,
	}
}

func toSubjectResponse(sub *model.Subject) dto.SubjectResponse {
	return dto.SubjectResponse{
		ID:          sub.ID,
		Name:        sub.Name,
		Description: sub.Description,
	}
}

func toAssignmentTypeResponse(at *model.AssignmentType) dto.AssignmentTypeResponse {
	return dto.AssignmentTypeResponse{
		ID:          at.ID,
		Name:        at.Name,
		Description: at.Description,
		IsActive:    at.IsActive,
	}
}
