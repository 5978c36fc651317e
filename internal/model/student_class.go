package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StudentClass 选课表（学生-班级关联） — 对应 student_classes
// CustomFee 为 NULL 时使用班级默认月费
type StudentClass struct {
	ID        string           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	StudentID string           `gorm:"type:uuid;not null;uniqueIndex:uniq_student_class" json:"student_id"`
	ClassID   string           `gorm:"type:uuid;not null;uniqueIndex:uniq_student_class" json:"class_id"`
	CustomFee *decimal.Decimal `gorm:"type:numeric(10,2)"                             json:"custom_fee,omitempty"`
	CreatedAt time.Time        `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联
	Student *Student `gorm:"foreignKey:StudentID;references:ID" json:"student,omitempty"`
	Class   *Class   `gorm:"foreignKey:ClassID;references:ID"   json:"class,omitempty"`
}

// TableName 指定表名
func (StudentClass) TableName() string { return "student_classes" }

// EffectiveFee 返回该选课的生效月费：自定义费用优先，否则班级默认费用
func (sc *StudentClass) EffectiveFee(classFee decimal.Decimal) decimal.Decimal {
	if sc.CustomFee != nil {
		return *sc.CustomFee
	}
	return classFee
}
