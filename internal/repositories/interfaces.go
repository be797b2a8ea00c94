package repositories

import (
	"context"

	"github.com/SAP-F-2025/academic-service/internal/models"
	"gorm.io/datatypes"
)

// ===== SHARED FILTER STRUCTS =====

type UserFilters struct {
	Role       *models.UserRole `json:"role"`
	ActiveOnly bool             `json:"active_only"`
	Limit      int              `json:"limit"`
	Offset     int              `json:"offset"`
}

type CourseFilters struct {
	TeacherID  *uint `json:"teacher_id"`
	StudentID  *uint `json:"student_id"`
	ActiveOnly bool  `json:"active_only"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// ===== REPOSITORY INTERFACES =====

// UserRepository persists user documents. Writes are atomic per user row;
// keeping user.course_ids consistent with course rosters is the course
// service's job, not the store's.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetByEmailOrUsername resolves the login identifier against either
	// unique column.
	GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.User, error)
	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	Update(ctx context.Context, user *models.User) error

	// SetCourseIDs replaces a user's membership list in a single row update.
	SetCourseIDs(ctx context.Context, id uint, courseIDs datatypes.JSONSlice[uint]) error
	// PullCourseFromUsers removes courseID from the membership list of every
	// given user. Used when a course is deactivated.
	PullCourseFromUsers(ctx context.Context, userIDs []uint, courseID uint) error

	Deactivate(ctx context.Context, id uint) error

	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// CourseRepository persists course documents.
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id uint) (*models.Course, error)
	GetByIDs(ctx context.Context, ids []uint) ([]*models.Course, error)
	List(ctx context.Context, filters CourseFilters) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error

	// SetStudentIDs replaces the roster in a single row update.
	SetStudentIDs(ctx context.Context, id uint, studentIDs datatypes.JSONSlice[uint]) error
	// SetTeacher reassigns the owning teacher (nil clears it).
	SetTeacher(ctx context.Context, id uint, teacherID *uint) error
	// GetByTeacher returns the courses owned by a teacher, active ones only
	// when filters say so.
	GetByTeacher(ctx context.Context, teacherID uint, filters CourseFilters) ([]*models.Course, int64, error)
	// PullStudentFromCourses removes studentID from the roster of every
	// given course. Used when a student account is deactivated.
	PullStudentFromCourses(ctx context.Context, courseIDs []uint, studentID uint) error

	Deactivate(ctx context.Context, id uint) error
}

// Repository aggregates the entity repositories and transaction control.
type Repository interface {
	User() UserRepository
	Course() CourseRepository

	// WithTransaction runs fn against a transaction-bound Repository. Both
	// entity repositories live in one store here, so cross-entity mutations
	// MAY be wrapped in a transaction; the services still apply paired
	// updates in roll-forward order and do not rely on it.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}
