package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

// PaymentFilter 缴费记录列表查询条件
type PaymentFilter struct {
	StudentID string
	ClassID   string
	Month     *int
	Year      *int
	Status    string
}

// PaymentStatusTotal 按状态统计的缴费金额与笔数
type PaymentStatusTotal struct {
	Status string
	Total  decimal.Decimal
	Count  int64
}

// PaymentRepository 缴费记录数据访问接口
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	// BatchCreate 批量插入缴费记录，已存在的 (student, class, month, year) 自动跳过
	BatchCreate(ctx context.Context, payments []model.Payment) error
	GetByID(ctx context.Context, id string) (*model.Payment, error)
	GetByKey(ctx context.Context, studentID, classID string, month, year int) (*model.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
	UpdateStatus(ctx context.Context, id, status string, paidAt *time.Time) error

	// DeleteUnpaidInWindow 删除指定选课关系从参考月起的未支付记录，
	// 已标记 paid 的历史记录保留
	DeleteUnpaidInWindow(ctx context.Context, studentID, classID string, month, year int) error
	// UpdateAmountInWindow 将指定选课关系从参考月起 pending 状态的记录金额改为 amount，
	// paid 与 overdue 记录的金额固定不变
	UpdateAmountInWindow(ctx context.Context, studentID, classID string, month, year int, amount decimal.Decimal) error

	SumByStatus(ctx context.Context, month, year int) ([]PaymentStatusTotal, error)
	ListRecentPaid(ctx context.Context, limit int) ([]model.Payment, error)
	ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]model.Payment, error)
}

type paymentRepo struct {
	db *gorm.DB
}

// NewPaymentRepo 创建 PaymentRepository 实例
func NewPaymentRepo(db *gorm.DB) PaymentRepository {
	return &paymentRepo{db: db}
}

func (r *paymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepo) BatchCreate(ctx context.Context, payments []model.Payment) error {
	if len(payments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "student_id"}, {Name: "class_id"},
				{Name: "month"}, {Name: "year"},
			},
			DoNothing: true,
		}).
		Create(&payments).Error
}

func (r *paymentRepo) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Class").
		Where("id = ?", id).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) GetByKey(ctx context.Context, studentID, classID string, month, year int) (*model.Payment, error) {
	var payment model.Payment
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ? AND month = ? AND year = ?",
			studentID, classID, month, year).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepo) List(ctx context.Context, filter PaymentFilter) ([]model.Payment, error) {
	q := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Class")
	if filter.StudentID != "" {
		q = q.Where("student_id = ?", filter.StudentID)
	}
	if filter.ClassID != "" {
		q = q.Where("class_id = ?", filter.ClassID)
	}
	if filter.Month != nil {
		q = q.Where("month = ?", *filter.Month)
	}
	if filter.Year != nil {
		q = q.Where("year = ?", *filter.Year)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var payments []model.Payment
	err := q.Order("year DESC, month DESC, created_at DESC").Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) Update(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, id, status string, paidAt *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":  status,
			"paid_at": paidAt,
		}).Error
}

func (r *paymentRepo) DeleteUnpaidInWindow(ctx context.Context, studentID, classID string, month, year int) error {
	return r.db.WithContext(ctx).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Where("(year > ? OR (year = ? AND month >= ?))", year, year, month).
		Where("status <> ?", model.PaymentStatusPaid).
		Delete(&model.Payment{}).Error
}

func (r *paymentRepo) UpdateAmountInWindow(ctx context.Context, studentID, classID string, month, year int, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("student_id = ? AND class_id = ?", studentID, classID).
		Where("(year > ? OR (year = ? AND month >= ?))", year, year, month).
		Where("status = ?", model.PaymentStatusPending).
		Update("amount", amount).Error
}

func (r *paymentRepo) SumByStatus(ctx context.Context, month, year int) ([]PaymentStatusTotal, error) {
	var rows []PaymentStatusTotal
	err := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Select("status, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("month = ? AND year = ?", month, year).
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func (r *paymentRepo) ListRecentPaid(ctx context.Context, limit int) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Preload("Student").
		Preload("Class").
		Where("status = ?", model.PaymentStatusPaid).
		Order("paid_at DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepo) ListRecentByStudent(ctx context.Context, studentID string, limit int) ([]model.Payment, error) {
	var payments []model.Payment
	err := r.db.WithContext(ctx).
		Preload("Class").
		Where("student_id = ?", studentID).
		Order("year DESC, month DESC").
		Limit(limit).
		Find(&payments).Error
	return payments, err
}
