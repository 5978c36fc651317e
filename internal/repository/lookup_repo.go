package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

// LookupRepository 基础数据（年级、科目、作业类型）数据访问接口
type LookupRepository interface {
	CreateGrade(ctx context.Context, grade *model.Grade) error
	GetGradeByID(ctx context.Context, id string) (*model.Grade, error)
	ListGrades(ctx context.Context, activeOnly bool) ([]model.Grade, error)
	UpdateGrade(ctx context.Context, grade *model.Grade) error
	DeleteGrade(ctx context.Context, id string) error
	MaxGradeDisplayOrder(ctx context.Context) (int, error)
	// GetGradeByDisplayOrder 用于排序调整时查找相邻项
	GetGradeByDisplayOrder(ctx context.Context, order int) (*model.Grade, error)
	// SwapGradeOrder 交换两个年级的 display_order，在单个事务内完成
	SwapGradeOrder(ctx context.Context, a, b *model.Grade) error

	CreateSubject(ctx context.Context, subject *model.Subject) error
	GetSubjectByID(ctx context.Context, id string) (*model.Subject, error)
	ListSubjects(ctx context.Context) ([]model.Subject, error)
	ListSubjectsByIDs(ctx context.Context, ids []string) ([]model.Subject, error)
	UpdateSubject(ctx context.Context, subject *model.Subject) error
	DeleteSubject(ctx context.Context, id string) error

	CreateAssignmentType(ctx context.Context, at *model.AssignmentType) error
	GetAssignmentTypeByID(ctx context.Context, id string) (*model.AssignmentType, error)
	ListAssignmentTypes(ctx context.Context, activeOnly bool) ([]model.AssignmentType, error)
	UpdateAssignmentType(ctx context.Context, at *model.AssignmentType) error
	DeleteAssignmentType(ctx context.Context, id string) error
}

type lookupRepo struct {
	db *gorm.DB
}

// NewLookupRepo 创建 LookupRepository 实例
func NewLookupRepo(db *gorm.DB) LookupRepository {
	return &lookupRepo{db: db}
}

// ────────────────────── Grade ──────────────────────

func (r *lookupRepo) CreateGrade(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Create(grade).Error
}

func (r *lookupRepo) GetGradeByID(ctx context.Context, id string) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *lookupRepo) ListGrades(ctx context.Context, activeOnly bool) ([]model.Grade, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var grades []model.Grade
	err := q.Order("display_order ASC").Find(&grades).Error
	return grades, err
}

func (r *lookupRepo) UpdateGrade(ctx context.Context, grade *model.Grade) error {
	return r.db.WithContext(ctx).Save(grade).Error
}

func (r *lookupRepo) DeleteGrade(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Grade{}).Error
}

func (r *lookupRepo) MaxGradeDisplayOrder(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Grade{}).
		Select("COALESCE(MAX(display_order), 0)").
		Scan(&max).Error
	return max, err
}

func (r *lookupRepo) GetGradeByDisplayOrder(ctx context.Context, order int) (*model.Grade, error) {
	var grade model.Grade
	err := r.db.WithContext(ctx).
		Where("display_order = ?", order).
		First(&grade).Error
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

func (r *lookupRepo) SwapGradeOrder(ctx context.Context, a, b *model.Grade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orderA, orderB := a.DisplayOrder, b.DisplayOrder
		if err := tx.Model(&model.Grade{}).
			Where("id = ?", a.ID).
			Update("display_order", orderB).Error; err != nil {
			return err
		}
		return tx.Model(&model.Grade{}).
			Where("id = ?", b.ID).
			Update("display_order", orderA).Error
	})
}

// ────────────────────── Subject ──────────────────────

func (r *lookupRepo) CreateSubject(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Create(subject).Error
}

func (r *lookupRepo) GetSubjectByID(ctx context.Context, id string) (*model.Subject, error) {
	var subject model.Subject
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&subject).Error
	if err != nil {
		return nil, err
	}
	return &subject, nil
}

func (r *lookupRepo) ListSubjects(ctx context.Context) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.db.WithContext(ctx).Order("name ASC").Find(&subjects).Error
	return subjects, err
}

func (r *lookupRepo) ListSubjectsByIDs(ctx context.Context, ids []string) ([]model.Subject, error) {
	if len(ids) == 0 {
		return []model.Subject{}, nil
	}
	var subjects []model.Subject
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&subjects).Error
	return subjects, err
}

func (r *lookupRepo) UpdateSubject(ctx context.Context, subject *model.Subject) error {
	return r.db.WithContext(ctx).Save(subject).Error
}

func (r *lookupRepo) DeleteSubject(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Subject{}).Error
}

// ────────────────────── AssignmentType ──────────────────────

func (r *lookupRepo) CreateAssignmentType(ctx context.Context, at *model.AssignmentType) error {
	return r.db.WithContext(ctx).Create(at).Error
}

func (r *lookupRepo) GetAssignmentTypeByID(ctx context.Context, id string) (*model.AssignmentType, error) {
	var at model.AssignmentType
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&at).Error
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *lookupRepo) ListAssignmentTypes(ctx context.Context, activeOnly bool) ([]model.AssignmentType, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var types []model.AssignmentType
	err := q.Order("name ASC").Find(&types).Error
	return types, err
}

func (r *lookupRepo) UpdateAssignmentType(ctx context.Context, at *model.AssignmentType) error {
	return r.db.WithContext(ctx).Save(at).Error
}

func (r *lookupRepo) DeleteAssignmentType(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.AssignmentType{}).Error
}
