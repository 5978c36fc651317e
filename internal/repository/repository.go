package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Student    StudentRepository
	Class      ClassRepository
	Enrollment EnrollmentRepository
	Payment    PaymentRepository
	Assignment AssignmentRepository
	Lookup     LookupRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:         db,
		Student:    NewStudentRepo(db),
		Class:      NewClassRepo(db),
		Enrollment: NewEnrollmentRepo(db),
		Payment:    NewPaymentRepo(db),
		Assignment: NewAssignmentRepo(db),
		Lookup:     NewLookupRepo(db),
	}
}

// BeginTx 开启一个数据库事务，调用方负责 Commit 或 Rollback。
// 未注入 db 时（单元测试中以 mock 字段构造聚合）返回 nil 事务
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到指定事务连接的 Repository 副本
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
