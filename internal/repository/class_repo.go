package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

// ClassTypeCount 按班级类型的数量统计
type ClassTypeCount struct {
	ClassType string
	Count     int64
}

// ClassRepository 班级数据访问接口
type ClassRepository interface {
	Create(ctx context.Context, class *model.Class) error
	GetByID(ctx context.Context, id string) (*model.Class, error)
	List(ctx context.Context) ([]model.Class, error)
	Update(ctx context.Context, class *model.Class) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByType(ctx context.Context) ([]ClassTypeCount, error)

	// ReplaceSchedules 全量替换班级的上课时间段
	ReplaceSchedules(ctx context.Context, classID string, schedules []model.ClassSchedule) error
	ListAllSchedules(ctx context.Context) ([]model.ClassSchedule, error)
}

type classRepo struct {
	db *gorm.DB
}

// NewClassRepo 创建 ClassRepository 实例
func NewClassRepo(db *gorm.DB) ClassRepository {
	return &classRepo{db: db}
}

func (r *classRepo) Create(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Create(class).Error
}

func (r *classRepo) GetByID(ctx context.Context, id string) (*model.Class, error) {
	var class model.Class
	err := r.db.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Where("id = ?", id).
		First(&class).Error
	if err != nil {
		return nil, err
	}
	return &class, nil
}

func (r *classRepo) List(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	err := r.db.WithContext(ctx).
		Preload("Schedules", func(db *gorm.DB) *gorm.DB {
			return db.Order("day_of_week ASC, start_time ASC")
		}).
		Order("name ASC").
		Find(&classes).Error
	return classes, err
}

func (r *classRepo) Update(ctx context.Context, class *model.Class) error {
	return r.db.WithContext(ctx).Save(class).Error
}

func (r *classRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Class{}).Error
}

func (r *classRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Class{}).
		Count(&count).Error
	return count, err
}

func (r *classRepo) CountByType(ctx context.Context) ([]ClassTypeCount, error) {
	var rows []ClassTypeCount
	err := r.db.WithContext(ctx).
		Model(&model.Class{}).
		Select("class_type, COUNT(*) AS count").
		Group("class_type").
		Order("class_type ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *classRepo) ReplaceSchedules(ctx context.Context, classID string, schedules []model.ClassSchedule) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("class_id = ?", classID).
			Delete(&model.ClassSchedule{}).Error; err != nil {
			return err
		}
		if len(schedules) == 0 {
			return nil
		}
		for i := range schedules {
			schedules[i].ClassID = classID
		}
		return tx.Create(&schedules).Error
	})
}

func (r *classRepo) ListAllSchedules(ctx context.Context) ([]model.ClassSchedule, error) {
	var schedules []model.ClassSchedule
	err := r.db.WithContext(ctx).
		Preload("Class").
		Order("day_of_week ASC, start_time ASC").
		Find(&schedules).Error
	return schedules, err
}
