package model

import "time"

// Assignment 作业表 — 对应 assignments
type Assignment struct {
	ID               string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ClassID          string     `gorm:"type:uuid;not null"                             json:"class_id"`
	Name             string     `gorm:"type:varchar(200);not null"                     json:"name"`
	AssignmentTypeID *string    `gorm:"type:uuid"                                      json:"assignment_type_id,omitempty"`
	GivenDate        time.Time  `gorm:"type:date;not null"                             json:"given_date"`
	Deadline         time.Time  `gorm:"type:date;not null"                             json:"deadline"`
	DocumentURL      *string    `gorm:"type:text"                                      json:"document_url,omitempty"`
	Description      *string    `gorm:"type:text"                                      json:"description,omitempty"`
	TotalMarks       int        `gorm:"not null;default:100"                           json:"total_marks"`
	BaseModel

	// 关联
	Class       *Class                 `gorm:"foreignKey:ClassID;references:ID"          json:"class,omitempty"`
	Type        *AssignmentType        `gorm:"foreignKey:AssignmentTypeID;references:ID" json:"type,omitempty"`
	Submissions []AssignmentSubmission `gorm:"foreignKey:AssignmentID;references:ID"     json:"submissions,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// AssignmentSubmission 作业提交表 — 对应 assignment_submissions
// 作业创建时为每个当时在读学生各生成一条；之后选课的学生不补建
type AssignmentSubmission struct {
	ID            string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AssignmentID  string     `gorm:"type:uuid;not null;uniqueIndex:uniq_submission" json:"assignment_id"`
	StudentID     string     `gorm:"type:uuid;not null;uniqueIndex:uniq_submission" json:"student_id"`
	MarksObtained *int       `gorm:""                                               json:"marks_obtained,omitempty"`
	Remarks       *string    `gorm:"type:text"                                      json:"remarks,omitempty"`
	SubmittedAt   *time.Time `gorm:""                                               json:"submitted_at,omitempty"`

	// 关联
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:ID" json:"assignment,omitempty"`
	Student    *Student    `gorm:"foreignKey:StudentID;references:ID"    json:"student,omitempty"`
}

// TableName 指定表名
func (AssignmentSubmission) TableName() string { return "assignment_submissions" }
