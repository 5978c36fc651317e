package service

import (
	"github.com/shopspring/decimal"

	"github.com/AnukaFonseka/tution-management-app/internal/model"
)

// ── 选课差异计算 ──────────────────────────────────────────────
//
// 纯函数：比较当前选课集合与目标选课集合，产出三类互不重叠的动作：
//   - toAdd:      目标中有、当前没有的班级
//   - toRemove:   当前有、目标中没有的班级
//   - feeChanges: 两边都有但自定义费用发生变化的班级，
//     值为 nil 表示显式清除自定义费用、恢复班级默认
// ─────────────────────────────────────────────────────────────

// DesiredEnrollment 目标选课项
type DesiredEnrollment struct {
	ClassID   string
	CustomFee *decimal.Decimal
}

// EnrollmentDiff 选课集合差异
type EnrollmentDiff struct {
	ToAdd      []DesiredEnrollment
	ToRemove   []string
	FeeChanges map[string]*decimal.Decimal
}

// Empty 差异为空时同步无事可做
func (d EnrollmentDiff) Empty() bool {
	return len(d.ToAdd) == 0 && len(d.ToRemove) == 0 && len(d.FeeChanges) == 0
}

// DiffEnrollments 计算当前选课与目标选课的差异
func DiffEnrollments(current []model.StudentClass, desired []DesiredEnrollment) EnrollmentDiff {
	currentFees := make(map[string]*decimal.Decimal, len(current))
	for _, e := range current {
		currentFees[e.ClassID] = e.CustomFee
	}
	desiredSet := make(map[string]bool, len(desired))

	diff := EnrollmentDiff{FeeChanges: make(map[string]*decimal.Decimal)}

	for _, d := range desired {
		if desiredSet[d.ClassID] {
			// 目标集合中的重复班级只取第一项
			continue
		}
		desiredSet[d.ClassID] = true

		cur, enrolled := currentFees[d.ClassID]
		if !enrolled {
			diff.ToAdd = append(diff.ToAdd, d)
			continue
		}
		if !customFeeEqual(cur, d.CustomFee) {
			diff.FeeChanges[d.ClassID] = d.CustomFee
		}
	}

	for _, e := range current {
		if !desiredSet[e.ClassID] {
			diff.ToRemove = append(diff.ToRemove, e.ClassID)
		}
	}

	return diff
}

// customFeeEqual 比较两个可空自定义费用，nil 与非 nil 视为不同
func customFeeEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
