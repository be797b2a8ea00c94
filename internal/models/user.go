package models

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
)

// MaxCoursesPerStudent caps how many courses a student may be enrolled in
// at the same time. Enforced at assignment time only.
const MaxCoursesPerStudent = 3

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Name     string   `json:"name" gorm:"not null;size:25"`
	Surname  string   `json:"surname" gorm:"not null;size:25"`
	Username string   `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Phone    string   `json:"phone" gorm:"not null;size:8"`
	Role     UserRole `json:"role" gorm:"not null;size:20"`

	// PasswordHash holds the bcrypt digest, never the source password.
	PasswordHash   string  `json:"-" gorm:"column:password_hash;not null;size:255"`
	ProfilePicture *string `json:"profile_picture,omitempty" gorm:"size:500"`

	// CourseIDs is one side of the user<->course relation. For a teacher it
	// lists courses taught, for a student courses enrolled. There is no
	// foreign key behind it; the course service keeps both sides in sync.
	CourseIDs datatypes.JSONSlice[uint] `json:"course_ids" gorm:"type:jsonb"`

	IsActive bool `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// HasCourse reports whether the course id is already present in the user's
// membership list.
func (u *User) HasCourse(courseID uint) bool {
	return containsID(u.CourseIDs, courseID)
}
