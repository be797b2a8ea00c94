package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SAP-F-2025/academic-service/internal/models"
)

func TestCourseService_ExportRoster(t *testing.T) {
	t.Run("owner exports enrolled students as xlsx", func(t *testing.T) {
		repo := newMockRepository()
		teacher := testTeacher(1)
		course := testCourse(10, 1)
		course.StudentIDs = courseIDList(2)

		repo.courseRepo.On("GetByID", mock.Anything, uint(10)).Return(course, nil)
		repo.userRepo.On("GetByID", mock.Anything, uint(1)).Return(teacher, nil)
		repo.userRepo.On("GetByIDs", mock.Anything, []uint{2}).Return([]*models.User{testStudent(2)}, nil)

		svc := newCourseService(repo)
		data, err := svc.ExportRoster(context.Background(), 10, 1)

		require.NoError(t, err)
		require.NotEmpty(t, data)

		f, err := excelize.OpenReader(bytes.NewReader(data))
		require.NoError(t, err)
		defer f.Close()

		rows, err := f.GetRows("Roster")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, []string{"ID", "Name", "Surname", "Username", "Email", "Phone"}, rows[0])
		assert.Equal(t, "Ada", rows[1][1])
		assert.Equal(t, "ada@academic.local", rows[1][4])
	})

	t.Run("non-owner cannot export", func(t *testing.T) {
		repo := newMockRepository()
		course := testCourse(10, 1)

		repo.courseRepo.On("GetByID", mock.Anything, uint(10)).Return(course, nil)
		repo.userRepo.On("GetByID", mock.Anything, uint(5)).Return(testTeacher(5), nil)

		svc := newCourseService(repo)
		_, err := svc.ExportRoster(context.Background(), 10, 5)

		assert.ErrorIs(t, err, ErrNotCourseOwner)
		repo.userRepo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	})
}
