package services

import (
	"context"
	"testing"

	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func newUserService(repo *MockRepository) UserService {
	return NewUserService(newTestDeps(repo))
}

func TestUserService_GetByID(t *testing.T) {
	t.Run("deactivated user is still readable by id", func(t *testing.T) {
		repo := newMockRepository()
		user := testStudent(2)
		user.IsActive = false

		repo.userRepo.On("GetByID", mock.Anything, uint(2)).Return(user, nil)
		repo.courseRepo.On("GetByIDs", mock.Anything, []uint{}).Return([]*models.Course{}, nil)

		svc := newUserService(repo)
		resp, err := svc.GetByID(context.Background(), 2)

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
	})

	t.Run("missing user", func(t *testing.T) {
		repo := newMockRepository()
		repo.userRepo.On("GetByID", mock.Anything, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		svc := newUserService(repo)
		_, err := svc.GetByID(context.Background(), 404)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("dangling course id in the membership list is skipped", func(t *testing.T) {
		repo := newMockRepository()
		user := testStudent(2)
		user.CourseIDs = courseIDList(10, 77)

		repo.userRepo.On("GetByID", mock.Anything, uint(2)).Return(user, nil)
		repo.courseRepo.On("GetByIDs", mock.Anything, []uint{10, 77}).
			Return([]*models.Course{testCourse(10, 1)}, nil)

		svc := newUserService(repo)
		resp, err := svc.GetByID(context.Background(), 2)

		assert.NoError(t, err)
		assert.Len(t, resp.Courses, 1)
		assert.Equal(t, uint(10), resp.Courses[0].ID)
	})
}

func TestUserService_Update(t *testing.T) {
	t.Run("self update merges only the provided fields", func(t *testing.T) {
		repo := newMockRepository()
		user := testStudent(2)

		repo.userRepo.On("GetByID", mock.Anything, uint(2)).Return(user, nil)
		repo.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Name == "Augusta" && u.Surname == "Lovelace" && u.Phone == "33334444"
		})).Return(nil)
		repo.courseRepo.On("GetByIDs", mock.Anything, []uint{}).Return([]*models.Course{}, nil)

		name := "Augusta"
		svc := newUserService(repo)
		resp, err := svc.Update(context.Background(), 2, &UpdateUserRequest{Name: &name}, 2)

		assert.NoError(t, err)
		assert.Equal(t, "Augusta", resp.Name)
		repo.userRepo.AssertExpectations(t)
	})

	t.Run("new password is stored hashed, never verbatim", func(t *testing.T) {
		repo := newMockRepository()
		user := testStudent(2)

		repo.userRepo.On("GetByID", mock.Anything, uint(2)).Return(user, nil)
		repo.userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.PasswordHash != "" && u.PasswordHash != "hunter2hunter2"
		})).Return(nil)
		repo.courseRepo.On("GetByIDs", mock.Anything, []uint{}).Return([]*models.Course{}, nil)

		password := "hunter2hunter2"
		svc := newUserService(repo)
		_, err := svc.Update(context.Background(), 2, &UpdateUserRequest{Password: &password}, 2)

		assert.NoError(t, err)
		repo.userRepo.AssertExpectations(t)
	})

	t.Run("updating another account is forbidden", func(t *testing.T) {
		repo := newMockRepository()

		name := "Mallory"
		svc := newUserService(repo)
		_, err := svc.Update(context.Background(), 2, &UpdateUserRequest{Name: &name}, 3)

		assert.ErrorIs(t, err, ErrNotSelf)
		assert.True(t, IsUnauthorized(err))
		repo.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestUserService_Deactivate_Student(t *testing.T) {
	t.Run("student is pulled from every roster and the list cleared", func(t *testing.T) {
		repo := newMockRepository()
		student := testStudent(2)
		student.CourseIDs = courseIDList(10, 11)

		repo.userRepo.On("GetByID", mock.Anything, uint(2)).Return(student, nil)
		repo.courseRepo.On("PullStudentFromCourses", mock.Anything, []uint{10, 11}, uint(2)).Return(nil)
		repo.userRepo.On("SetCourseIDs", mock.Anything, uint(2), courseIDList()).Return(nil)
		repo.userRepo.On("Deactivate", mock.Anything, uint(2)).Return(nil)
		repo.courseRepo.On("GetByIDs", mock.Anything, []uint{}).Return([]*models.Course{}, nil)

		svc := newUserService(repo)
		resp, err := svc.Deactivate(context.Background(), 2, 2)

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
		assert.Empty(t, resp.Courses)
		repo.userRepo.AssertExpectations(t)
		repo.courseRepo.AssertExpectations(t)
	})

	t.Run("already inactive account short-circuits", func(t *testing.T) {
		repo := newMockRepository()
		student := testStudent(2)
		student.IsActive = false

		repo.userRepo.On("GetByID", mock.Anything, uint(2)).Return(student, nil)
		repo.courseRepo.On("GetByIDs", mock.Anything, []uint{}).Return([]*models.Course{}, nil)

		svc := newUserService(repo)
		resp, err := svc.Deactivate(context.Background(), 2, 2)

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
		repo.userRepo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
		repo.courseRepo.AssertNotCalled(t, "PullStudentFromCourses", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deactivating another account is forbidden", func(t *testing.T) {
		repo := newMockRepository()

		svc := newUserService(repo)
		_, err := svc.Deactivate(context.Background(), 2, 3)

		assert.ErrorIs(t, err, ErrNotSelf)
	})
}

func TestUserService_Deactivate_Teacher(t *testing.T) {
	t.Run("courses move to the fallback account, lists merged without duplicates", func(t *testing.T) {
		repo := newMockRepository()
		teacher := testTeacher(1)
		teacher.CourseIDs = courseIDList(10, 11)
		fallback := testTeacher(fallbackID)
		fallback.Email = "admin@academic.local"
		fallback.Username = "admin"
		// the fallback already owns course 11 from an earlier cascade
		fallback.CourseIDs = courseIDList(11)

		repo.userRepo.On("GetByID", mock.Anything, uint(1)).Return(teacher, nil)
		repo.userRepo.On("GetByID", mock.Anything, fallbackID).Return(fallback, nil)
		repo.courseRepo.On("GetByTeacher", mock.Anything, uint(1), mock.MatchedBy(func(f repositories.CourseFilters) bool {
			return f.ActiveOnly
		})).Return([]*models.Course{testCourse(10, 1)}, int64(1), nil)
		repo.courseRepo.On("SetTeacher", mock.Anything, uint(10), &fallback.ID).Return(nil)
		repo.userRepo.On("SetCourseIDs", mock.Anything, fallbackID, courseIDList(11, 10)).Return(nil)
		repo.userRepo.On("SetCourseIDs", mock.Anything, uint(1), courseIDList()).Return(nil)
		repo.userRepo.On("Deactivate", mock.Anything, uint(1)).Return(nil)
		repo.courseRepo.On("GetByIDs", mock.Anything, []uint{}).Return([]*models.Course{}, nil)

		svc := newUserService(repo)
		resp, err := svc.Deactivate(context.Background(), 1, 1)

		assert.NoError(t, err)
		assert.False(t, resp.IsActive)
		assert.Empty(t, resp.Courses)
		repo.userRepo.AssertExpectations(t)
		repo.courseRepo.AssertExpectations(t)
	})

	t.Run("missing fallback account aborts the cascade before any write", func(t *testing.T) {
		repo := newMockRepository()
		teacher := testTeacher(1)
		teacher.CourseIDs = courseIDList(10)

		repo.userRepo.On("GetByID", mock.Anything, uint(1)).Return(teacher, nil)
		repo.userRepo.On("GetByID", mock.Anything, fallbackID).Return(nil, gorm.ErrRecordNotFound)

		svc := newUserService(repo)
		_, err := svc.Deactivate(context.Background(), 1, 1)

		assert.Error(t, err)
		assert.True(t, IsDependency(err))
		repo.courseRepo.AssertNotCalled(t, "SetTeacher", mock.Anything, mock.Anything, mock.Anything)
		repo.userRepo.AssertNotCalled(t, "Deactivate", mock.Anything, mock.Anything)
	})

	t.Run("the fallback account itself cannot be deactivated", func(t *testing.T) {
		repo := newMockRepository()

		svc := newUserService(repo)
		_, err := svc.Deactivate(context.Background(), fallbackID, fallbackID)

		assert.ErrorIs(t, err, ErrFallbackProtected)
		repo.userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}

func TestUserService_List(t *testing.T) {
	t.Run("only active users are listed", func(t *testing.T) {
		repo := newMockRepository()
		student := testStudent(2)

		repo.userRepo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.UserFilters) bool {
			return f.ActiveOnly && f.Limit == DefaultPageLimit
		})).Return([]*models.User{student}, int64(1), nil)
		repo.courseRepo.On("GetByIDs", mock.Anything, []uint{}).Return([]*models.Course{}, nil)

		svc := newUserService(repo)
		resp, err := svc.List(context.Background(), PageRequest{})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
		assert.Len(t, resp.Users, 1)
	})
}
