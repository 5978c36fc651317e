package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

// ── 收费计划计算 ──────────────────────────────────────────────
//
// 选课生效后，从参考月份起到当年 12 月，每月生成一条待缴记录。
// 收费计划不跨年：次年的记录在次年首次操作该选课时按需补建。
// ─────────────────────────────────────────────────────────────

// MonthYear 某一年中的一个月
type MonthYear struct {
	Month int // 1-12
	Year  int
}

// MonthsRemaining 返回参考日期所在月至当年 12 月的 (月, 年) 序列。
// 参考月为 12 月时仅返回一项
func MonthsRemaining(ref time.Time) []MonthYear {
	year := ref.Year()
	months := make([]MonthYear, 0, 13-int(ref.Month()))
	for m := int(ref.Month()); m <= 12; m++ {
		months = append(months, MonthYear{Month: m, Year: year})
	}
	return months
}

// buildPaymentRows 按收费计划为一条选课关系生成待缴记录
func buildPaymentRows(studentID, classID string, amount decimal.Decimal, ref time.Time) []model.Payment {
	schedule := MonthsRemaining(ref)
	rows := make([]model.Payment, 0, len(schedule))
	for _, my := range schedule {
		rows = append(rows, model.Payment{
			StudentID: studentID,
			ClassID:   classID,
			Month:     my.Month,
			Year:      my.Year,
			Amount:    amount,
			Status:    model.PaymentStatusPending,
		})
	}
	return rows
}
