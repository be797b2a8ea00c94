package models

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"not null;size:200"`
	Description string `json:"description" gorm:"not null;size:1000"`

	// TeacherID references the owning teacher. Nil after the teacher account
	// was deactivated and no fallback was available. Not a foreign key.
	TeacherID *uint `json:"teacher_id"`

	// StudentIDs is the course-side half of the membership relation,
	// mirrored by each student's CourseIDs.
	StudentIDs datatypes.JSONSlice[uint] `json:"student_ids" gorm:"type:jsonb"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}

// HasStudent reports whether the user id is already on the roster.
func (c *Course) HasStudent(studentID uint) bool {
	return containsID(c.StudentIDs, studentID)
}

// IsTaughtBy reports whether the given user owns this course.
func (c *Course) IsTaughtBy(userID uint) bool {
	return c.TeacherID != nil && *c.TeacherID == userID
}
