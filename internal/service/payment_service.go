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

// ── 缴费模块业务错误 ──

var (
	ErrPaymentNotFound    = errors.New("缴费记录不存在")
	ErrPaymentNotEnrolled = errors.New("该学生未选此班级")
)

// PaymentService 缴费业务接口
type PaymentService interface {
	// List 按月份列出缴费记录并附当期统计
	List(ctx context.Context, filter repository.PaymentFilter) (*dto.PaymentListResponse, error)
	GetByID(ctx context.Context, id string) (*dto.PaymentResponse, error)
	// UpdateStatus 标记缴费状态；置为 paid 时写入 paid_at，改回其他状态时清除
	UpdateStatus(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest, now time.Time) (*dto.PaymentResponse, error)
	// Ensure 点名页标记缴费：该月记录不存在时按生效费用补建
	Ensure(ctx context.Context, classID string, req *dto.EnsurePaymentRequest, now time.Time) (*dto.PaymentResponse, error)
}

type paymentService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPaymentService 创建 PaymentService 实例
func NewPaymentService(repo *repository.Repository, logger *zap.Logger) PaymentService {
	return &paymentService{repo: repo, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *paymentService) List(ctx context.Context, filter repository.PaymentFilter) (*dto.PaymentListResponse, error) {
	payments, err := s.repo.Payment.List(ctx, filter)
	if err != nil {
		s.logger.Error("列出缴费记录失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.PaymentListResponse{
		List: make([]dto.PaymentResponse, 0, len(payments)),
	}
	for i := range payments {
		resp.List = append(resp.List, toPaymentResponse(&payments[i]))
	}

	// 统计基于列表本身计算，与过滤条件保持一致
	stats := dto.PaymentStats{Total: len(payments)}
	totalAmount := decimal.Zero
	paidAmount := decimal.Zero
	for i := range payments {
		p := &payments[i]
		totalAmount = totalAmount.Add(p.Amount)
		switch p.Status {
		case model.PaymentStatusPaid:
			stats.Paid++
			paidAmount = paidAmount.Add(p.Amount)
		case model.PaymentStatusOverdue:
			stats.Overdue++
		default:
			stats.Pending++
		}
	}
	stats.TotalAmount = totalAmount.StringFixed(2)
	stats.PaidAmount = paidAmount.StringFixed(2)
	resp.Stats = stats

	return resp, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *paymentService) GetByID(ctx context.Context, id string) (*dto.PaymentResponse, error) {
	payment, err := s.repo.Payment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("查询缴费记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toPaymentResponse(payment)
	return &resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *paymentService) UpdateStatus(ctx context.Context, id string, req *dto.UpdatePaymentStatusRequest, now time.Time) (*dto.PaymentResponse, error) {
	payment, err := s.repo.Payment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		s.logger.Error("查询缴费记录失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	var paidAt *time.Time
	if req.Status == model.PaymentStatusPaid {
		paidAt = &now
	}
	if err := s.repo.Payment.UpdateStatus(ctx, id, req.Status, paidAt); err != nil {
		s.logger.Error("更新缴费状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	payment.Status = req.Status
	payment.PaidAt = paidAt
	resp := toPaymentResponse(payment)
	return &resp, nil
}

// ────────────────────── Ensure ──────────────────────

func (s *paymentService) Ensure(ctx context.Context, classID string, req *dto.EnsurePaymentRequest, now time.Time) (*dto.PaymentResponse, error) {
	payment, err := s.repo.Payment.GetByKey(ctx, req.StudentID, classID, req.Month, req.Year)
	if err == nil {
		return s.applyStatus(ctx, payment, req.Status, now)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询缴费记录失败", zap.Error(err))
		return nil, err
	}

	// 记录不存在：按选课生效费用补建
	enrollment, err := s.repo.Enrollment.GetByStudentAndClass(ctx, req.StudentID, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotEnrolled
		}
		s.logger.Error("查询选课关系失败", zap.Error(err))
		return nil, err
	}
	class, err := s.repo.Class.GetByID(ctx, classID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClassNotFound
		}
		s.logger.Error("查询班级失败", zap.String("id", classID), zap.Error(err))
		return nil, err
	}

	payment = &model.Payment{
		StudentID: req.StudentID,
		ClassID:   classID,
		Month:     req.Month,
		Year:      req.Year,
		Amount:    enrollment.EffectiveFee(class.Fee),
		Status:    model.PaymentStatusPending,
	}
	if err := s.repo.Payment.Create(ctx, payment); err != nil {
		s.logger.Error("补建缴费记录失败", zap.Error(err))
		return nil, err
	}

	return s.applyStatus(ctx, payment, req.Status, now)
}

func (s *paymentService) applyStatus(ctx context.Context, payment *model.Payment, status string, now time.Time) (*dto.PaymentResponse, error) {
	if payment.Status != status {
		var paidAt *time.Time
		if status == model.PaymentStatusPaid {
			paidAt = &now
		}
		if err := s.repo.Payment.UpdateStatus(ctx, payment.ID, status, paidAt); err != nil {
			s.logger.Error("更新缴费状态失败", zap.String("id", payment.ID), zap.Error(err))
			return nil, err
		}
		payment.Status = status
		payment.PaidAt = paidAt
	}
	resp := toPaymentResponse(payment)
	return &resp, nil
}

// ────────────────────── 响应转换 ──────────────────────

func toPaymentResponse(p *model.Payment) dto.PaymentResponse {
	resp := dto.PaymentResponse{
		ID:        p.ID,
		StudentID: p.StudentID,
		ClassID:   p.ClassID,
		Month:     p.Month,
		Year:      p.Year,
		Amount:    p.Amount.StringFixed(2),
		Status:    p.Status,
	}
	if p.Student != nil {
		resp.StudentName = p.Student.Name
	}
	if p.Class != nil {
		resp.ClassName = p.Class.Name
	}
	if p.PaidAt != nil {
		paidAt := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &paidAt
	}
	return resp
}
