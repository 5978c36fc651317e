package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

// EnrollmentRepository 选课关系数据访问接口
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *model.StudentClass) error
	GetByStudentAndClass(ctx context.Context, studentID, classID string) (*model.StudentClass, error)
	ListByStudent(ctx context.Context, studentID string) ([]model.StudentClass, error)
	ListByClass(ctx context.Context, classID string) ([]model.StudentClass, error)
	UpdateCustomFee(ctx context.Context, studentID, classID string, customFee *decimal.Decimal) error
	Delete(ctx context.Context, studentID, classID string) error
	CountByClass(ctx context.Context, classID string) (int64, error)
}

type enrollmentRepo struct {
	db *gorm.DB
}

// NewEnrollmentRepo 创建 EnrollmentRepository 实例
func NewEnrollmentRepo(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepo{db: db}
}

func (r *enrollmentRepo) Create(ctx context.Context, enrollment *model.StudentClass) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *enrollmentRepo) GetByStudentAndClass(ctx context.Context, studentID, classID string) (*model.StudentClass, error) {
	var enrollment model.StudentClass
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]model.StudentClass, error) {
	var enrollments []model.StudentClass
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("student_id = ?", studentID).
		Find(&enrollments).Error
	return enrollments, err
}

func (r *enrollmentRepo) ListByClass(ctx context.Context, classID string) ([]model.StudentClass, error) {
	var enrollments []model.StudentClass
	err := r.db.WithContext(ctx).
		Preload("Student").
		Where("class_id = ?", classID).
		Find(&enrollments).Error
	return enrollments, err
}

// UpdateCustomFee 设置或清除自定义费用，customFee 为 nil 时恢复为班级标准费用
func (r *enrollmentRepo) UpdateCustomFee(ctx context.Context, studentID, classID string, customFee *decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.StudentClass{}).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Update("custom_fee", customFee).Error
}

func (r *enrollmentRepo) Delete(ctx context.Context, studentID, classID string) error {
	return r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Delete(&model.StudentClass{}).Error
}

func (r *enrollmentRepo) CountByClass(ctx context.Context, classID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StudentClass{}).
		Where("class_id = ?", classID).
		Count(&count).Error
	return count, err
}
