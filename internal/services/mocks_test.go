package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/academic-service/internal/auth"
	"github.com/SAP-F-2025/academic-service/internal/cache"
	"github.com/SAP-F-2025/academic-service/internal/events"
	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"github.com/SAP-F-2025/academic-service/internal/validator"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmailOrUsername(ctx context.Context, identifier string) (*models.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) SetCourseIDs(ctx context.Context, id uint, courseIDs datatypes.JSONSlice[uint]) error {
	args := m.Called(ctx, id, courseIDs)
	return args.Error(0)
}

func (m *MockUserRepository) PullCourseFromUsers(ctx context.Context, userIDs []uint, courseID uint) error {
	args := m.Called(ctx, userIDs, courseID)
	return args.Error(0)
}

func (m *MockUserRepository) Deactivate(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockCourseRepository is a mock implementation of CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Course), args.Error(1)
}

func (m *MockCourseRepository) GetByIDs(ctx context.Context, ids []uint) ([]*models.Course, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Course), args.Error(1)
}

func (m *MockCourseRepository) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseRepository) Update(ctx context.Context, course *models.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

func (m *MockCourseRepository) SetStudentIDs(ctx context.Context, id uint, studentIDs datatypes.JSONSlice[uint]) error {
	args := m.Called(ctx, id, studentIDs)
	return args.Error(0)
}

func (m *MockCourseRepository) SetTeacher(ctx context.Context, id uint, teacherID *uint) error {
	args := m.Called(ctx, id, teacherID)
	return args.Error(0)
}

func (m *MockCourseRepository) GetByTeacher(ctx context.Context, teacherID uint, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	args := m.Called(ctx, teacherID, filters)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*models.Course), args.Get(1).(int64), args.Error(2)
}

func (m *MockCourseRepository) PullStudentFromCourses(ctx context.Context, courseIDs []uint, studentID uint) error {
	args := m.Called(ctx, courseIDs, studentID)
	return args.Error(0)
}

func (m *MockCourseRepository) Deactivate(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRepository aggregates the entity mocks behind the Repository interface
type MockRepository struct {
	userRepo   *MockUserRepository
	courseRepo *MockCourseRepository
}

func newMockRepository() *MockRepository {
	return &MockRepository{
		userRepo:   &MockUserRepository{},
		courseRepo: &MockCourseRepository{},
	}
}

func (m *MockRepository) User() repositories.UserRepository     { return m.userRepo }
func (m *MockRepository) Course() repositories.CourseRepository { return m.courseRepo }
func (m *MockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *MockRepository) Ping(ctx context.Context) error { return nil }
func (m *MockRepository) Close() error                   { return nil }

// newTestDeps wires a full dependency set around the given repository mock.
// The bcrypt cost is the minimum to keep the hashing paths fast.
func newTestDeps(repo *MockRepository) Dependencies {
	logger := slog.New(slog.DiscardHandler)
	return Dependencies{
		Repo:              repo,
		Logger:            logger,
		Validator:         validator.New(),
		Cache:             cache.NoopCache{},
		Publisher:         events.NewMockEventPublisher(logger),
		Tokens:            auth.NewTokenManager("test-secret", time.Hour),
		Hasher:            auth.NewPasswordHasher(bcrypt.MinCost),
		FallbackTeacherID: fallbackID,
	}
}

const fallbackID uint = 99

func courseIDList(ids ...uint) datatypes.JSONSlice[uint] {
	list := datatypes.JSONSlice[uint]{}
	return append(list, ids...)
}

func testTeacher(id uint) *models.User {
	return &models.User{
		ID:        id,
		Name:      "Grace",
		Surname:   "Hopper",
		Username:  "ghopper",
		Email:     "grace@academic.local",
		Phone:     "11112222",
		Role:      models.RoleTeacher,
		CourseIDs: courseIDList(),
		IsActive:  true,
	}
}

func testStudent(id uint) *models.User {
	return &models.User{
		ID:        id,
		Name:      "Ada",
		Surname:   "Lovelace",
		Username:  "alovelace",
		Email:     "ada@academic.local",
		Phone:     "33334444",
		Role:      models.RoleStudent,
		CourseIDs: courseIDList(),
		IsActive:  true,
	}
}

func testCourse(id uint, teacherID uint) *models.Course {
	return &models.Course{
		ID:          id,
		Name:        "Algorithms",
		Description: "Introductory algorithms",
		TeacherID:   &teacherID,
		StudentIDs:  courseIDList(),
		IsActive:    true,
	}
}
