package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

// StudentFilter 学生列表查询条件
type StudentFilter struct {
	Grade  string // 按年级过滤
	Search string // 按姓名模糊匹配
}

// StudentRepository 学生数据访问接口
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	GetByID(ctx context.Context, id string) (*model.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]model.Student, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type studentRepo struct {
	db *gorm.DB
}

// NewStudentRepo 创建 StudentRepository 实例
func NewStudentRepo(db *gorm.DB) StudentRepository {
	return &studentRepo{db: db}
}

func (r *studentRepo) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

func (r *studentRepo) GetByID(ctx context.Context, id string) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Preload("Enrollments").
		Preload("Enrollments.Class").
		Where("id = ?", id).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

func (r *studentRepo) List(ctx context.Context, filter StudentFilter) ([]model.Student, error) {
	q := r.db.WithContext(ctx).
		Preload("Enrollments").
		Preload("Enrollments.Class")
	if filter.Grade != "" {
		q = q.Where("grade = ?", filter.Grade)
	}
	if filter.Search != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	var students []model.Student
	err := q.Order("name ASC").Find(&students).Error
	return students, err
}

func (r *studentRepo) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

// Delete 物理删除学生，关联的选课与缴费记录由外键级联删除
func (r *studentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Student{}).Error
}

func (r *studentRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Student{}).
		Count(&count).Error
	return count, err
}
