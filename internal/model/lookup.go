package model

// 字典表：年级 / 科目 / 作业类型
// 由设置页维护，班级与作业的校验规则基于这些表的快照构建

// Grade 年级字典表 — 对应 grades
type Grade struct {
	ID           string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name         string `gorm:"type:varchar(50);not null"                      json:"name"`
	DisplayOrder int    `gorm:"not null;default:0"                             json:"display_order"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (Grade) TableName() string { return "grades" }

// Subject 科目字典表 — 对应 subjects
type Subject struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Subject) TableName() string { return "subjects" }

// AssignmentType 作业类型字典表 — 对应 assignment_types
type AssignmentType struct {
	ID          string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Description *string `gorm:"type:text"                                      json:"description,omitempty"`
	IsActive    bool    `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (AssignmentType) TableName() string { return "assignment_types" }
