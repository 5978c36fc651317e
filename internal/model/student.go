package model

// Student 学生表 — 对应 students
type Student struct {
	ID         string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name       string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Grade      string  `gorm:"type:varchar(20);not null"                      json:"grade"`
	Phone      *string `gorm:"type:varchar(20)"                               json:"phone,omitempty"`
	ParentName *string `gorm:"type:varchar(100)"                              json:"parent_name,omitempty"`
	BaseModel

	// 关联
	Enrollments []StudentClass `gorm:"foreignKey:StudentID;references:ID" json:"enrollments,omitempty"`
}

// TableName 指定表名
func (Student) TableName() string { return "students" }
