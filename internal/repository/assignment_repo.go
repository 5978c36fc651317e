package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

// AssignmentRepository 作业与作业提交数据访问接口
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *model.Assignment) error
	GetByID(ctx context.Context, id string) (*model.Assignment, error)
	ListByClass(ctx context.Context, classID string) ([]model.Assignment, error)
	Update(ctx context.Context, assignment *model.Assignment) error
	Delete(ctx context.Context, id string) error

	// BatchCreateSubmissions 为班级在读学生批量生成空白提交记录，
	// 已存在的 (assignment, student) 组合自动跳过
	BatchCreateSubmissions(ctx context.Context, submissions []model.AssignmentSubmission) error
	GetSubmission(ctx context.Context, id string) (*model.AssignmentSubmission, error)
	UpdateSubmission(ctx context.Context, submission *model.AssignmentSubmission) error
}

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo 创建 AssignmentRepository 实例
func NewAssignmentRepo(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) Create(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *assignmentRepo) GetByID(ctx context.Context, id string) (*model.Assignment, error) {
	var assignment model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Type").
		Preload("Submissions").
		Preload("Submissions.Student").
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *assignmentRepo) ListByClass(ctx context.Context, classID string) ([]model.Assignment, error) {
	var assignments []model.Assignment
	err := r.db.WithContext(ctx).
		Preload("Type").
		Where("class_id = ?", classID).
		Order("deadline DESC").
		Find(&assignments).Error
	return assignments, err
}

func (r *assignmentRepo) Update(ctx context.Context, assignment *model.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Assignment{}).Error
}

func (r *assignmentRepo) BatchCreateSubmissions(ctx context.Context, submissions []model.AssignmentSubmission) error {
	if len(submissions) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "assignment_id"}, {Name: "student_id"},
			},
			DoNothing: true,
		}).
		Create(&submissions).Error
}

func (r *assignmentRepo) GetSubmission(ctx context.Context, id string) (*model.AssignmentSubmission, error) {
	var submission model.AssignmentSubmission
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&submission).Error
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func (r *assignmentRepo) UpdateSubmission(ctx context.Context, submission *model.AssignmentSubmission) error {
	return r.db.WithContext(ctx).Save(submission).Error
}
