package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/academic-service/internal/auth"
	"github.com/SAP-F-2025/academic-service/internal/cache"
	"github.com/SAP-F-2025/academic-service/internal/events"
	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"github.com/SAP-F-2025/academic-service/internal/validator"
)

// ===== REQUEST STRUCTS =====

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,max=25"`
	Surname  string          `json:"surname" validate:"required,max=25"`
	Username string          `json:"username" validate:"required,max=50"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"required,len=8"`
	Password string          `json:"password" validate:"required,min=8"`
	Role     models.UserRole `json:"role" validate:"required,user_role"`
}

// LoginRequest accepts either the email or the username as identifier.
type LoginRequest struct {
	Email    string `json:"email" validate:"omitempty,email"`
	Username string `json:"username"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=25"`
	Surname        *string `json:"surname" validate:"omitempty,max=25"`
	Phone          *string `json:"phone" validate:"omitempty,len=8"`
	Password       *string `json:"password" validate:"omitempty,min=8"`
	ProfilePicture *string `json:"profile_picture" validate:"omitempty,max=500"`
}

type CreateCourseRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=1000"`
	// TeacherEmail resolves the owning teacher, mirroring how courses
	// reference their teacher by email on creation.
	TeacherEmail string `json:"teacher_email" validate:"required,email"`
}

type UpdateCourseRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	// TeacherEmail, when set, reassigns the course to another teacher.
	TeacherEmail *string `json:"teacher_email" validate:"omitempty,email"`
}

// PageRequest carries pagination for listing operations.
type PageRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

const DefaultPageLimit = 10

// Normalize applies the default page size and clamps negative offsets.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ===== RESPONSE STRUCTS =====

// UserSummary is the public projection embedded in course responses.
type UserSummary struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email"`
}

// CourseSummary is the projection embedded in user responses.
type CourseSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type UserResponse struct {
	ID             uint            `json:"id"`
	Name           string          `json:"name"`
	Surname        string          `json:"surname"`
	Username       string          `json:"username"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Role           models.UserRole `json:"role"`
	ProfilePicture *string         `json:"profile_picture,omitempty"`
	IsActive       bool            `json:"is_active"`
	Courses        []CourseSummary `json:"courses"`
}

type UserListResponse struct {
	Total int64           `json:"total"`
	Users []*UserResponse `json:"users"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

type CourseResponse struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Teacher     *UserSummary  `json:"teacher"`
	Students    []UserSummary `json:"students"`
	IsActive    bool          `json:"is_active"`
}

type CourseListResponse struct {
	Total   int64             `json:"total"`
	Courses []*CourseResponse `json:"courses"`
}

// AssignmentResponse summarizes the student's membership after a
// successful course assignment.
type AssignmentResponse struct {
	StudentID uint            `json:"student_id"`
	Name      string          `json:"name"`
	Surname   string          `json:"surname"`
	Username  string          `json:"username"`
	Courses   []CourseSummary `json:"courses"`
}

// ===== SERVICE INTERFACES =====

type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
}

type UserService interface {
	List(ctx context.Context, page PageRequest) (*UserListResponse, error)
	GetByID(ctx context.Context, id uint) (*UserResponse, error)
	Update(ctx context.Context, id uint, req *UpdateUserRequest, callerID uint) (*UserResponse, error)
	// Deactivate soft-deletes the account and cascades: a teacher's courses
	// move to the fallback account, a student is removed from every roster.
	Deactivate(ctx context.Context, id uint, callerID uint) (*UserResponse, error)
}

type CourseService interface {
	Create(ctx context.Context, req *CreateCourseRequest, callerID uint) (*CourseResponse, error)
	// ListMine returns courses taught (teacher caller) or enrolled
	// (student caller).
	ListMine(ctx context.Context, callerID uint, page PageRequest) (*CourseListResponse, error)
	ListAll(ctx context.Context, page PageRequest) (*CourseListResponse, error)
	GetByID(ctx context.Context, id uint) (*CourseResponse, error)
	Update(ctx context.Context, id uint, req *UpdateCourseRequest, callerID uint) (*CourseResponse, error)
	Deactivate(ctx context.Context, id uint, callerID uint) (*CourseResponse, error)
	Assign(ctx context.Context, courseID uint, callerID uint) (*AssignmentResponse, error)
	// ExportRoster renders the enrolled students of a course as an xlsx
	// sheet. Owner only.
	ExportRoster(ctx context.Context, courseID uint, callerID uint) ([]byte, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthService
	User() UserService
	Course() CourseService
}

type serviceManager struct {
	auth   AuthService
	user   UserService
	course CourseService
}

// Dependencies bundles everything the services need; assembled once in main.
type Dependencies struct {
	Repo      repositories.Repository
	Logger    *slog.Logger
	Validator *validator.Validator
	Cache     cache.CacheService
	Publisher events.EventPublisher
	Tokens    *auth.TokenManager
	Hasher    *auth.PasswordHasher

	// FallbackTeacherID is the account that inherits a deactivated
	// teacher's courses.
	FallbackTeacherID uint
}

func NewServiceManager(deps Dependencies) ServiceManager {
	return &serviceManager{
		auth:   NewAuthService(deps),
		user:   NewUserService(deps),
		course: NewCourseService(deps),
	}
}

func (m *serviceManager) Auth() AuthService     { return m.auth }
func (m *serviceManager) User() UserService     { return m.user }
func (m *serviceManager) Course() CourseService { return m.course }
