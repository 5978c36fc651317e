package model

import "github.com/shopspring/decimal"

// 班级类型枚举值
var ClassTypes = []string{"Individual", "Group", "Extra", "Paper", "Revision", "Theory"}

// Class 班级表 — 对应 classes
type Class struct {
	ID         string          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string          `gorm:"type:varchar(100);not null"                     json:"name"`
	Grades     IntArray        `gorm:"type:int[];not null"                            json:"grades"`
	SubjectIDs UUIDArray       `gorm:"type:uuid[];not null"                           json:"subject_ids"`
	ClassType  string          `gorm:"type:varchar(20);not null"                      json:"class_type"`
	Fee        decimal.Decimal `gorm:"type:numeric(10,2);not null"                    json:"fee"`
	BaseModel

	// 关联
	Schedules   []ClassSchedule `gorm:"foreignKey:ClassID;references:ID" json:"schedules,omitempty"`
	Enrollments []StudentClass  `gorm:"foreignKey:ClassID;references:ID" json:"enrollments,omitempty"`
}

// TableName 指定表名
func (Class) TableName() string { return "classes" }

// ClassSchedule 班级上课时间表 — 对应 class_schedules
type ClassSchedule struct {
	ID        string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClassID   string `gorm:"type:uuid;not null"                             json:"class_id"`
	DayOfWeek int    `gorm:"type:smallint;not null"                         json:"day_of_week"` // 0=周日 … 6=周六
	StartTime string `gorm:"type:time;not null"                             json:"start_time"`  // "15:30"
	Duration  int    `gorm:"not null"                                       json:"duration"`    // 分钟

	// 关联
	Class *Class `gorm:"foreignKey:ClassID;references:ID" json:"class,omitempty"`
}

// TableName 指定表名
func (ClassSchedule) TableName() string { return "class_schedules" }
