package postgres

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CoursePostgreSQL struct {
	db *gorm.DB
}

func NewCoursePostgreSQL(db *gorm.DB) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db}
}

func (r *CoursePostgreSQL) Create(ctx context.Context, course *models.Course) error {
	if course.StudentIDs == nil {
		course.StudentIDs = datatypes.JSONSlice[uint]{}
	}
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *CoursePostgreSQL) GetByID(ctx context.Context, id uint) (*models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CoursePostgreSQL) GetByIDs(ctx context.Context, ids []uint) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}
	var courses []*models.Course
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *CoursePostgreSQL) List(ctx context.Context, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}
	if filters.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filters.TeacherID)
	}
	if filters.StudentID != nil {
		// Roster membership lives in a jsonb array of ids.
		query = query.Where("student_ids @> ?", fmt.Sprintf("[%d]", *filters.StudentID))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	query = query.Order("id ASC")
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var courses []*models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return courses, total, nil
}

func (r *CoursePostgreSQL) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *CoursePostgreSQL) SetStudentIDs(ctx context.Context, id uint, studentIDs datatypes.JSONSlice[uint]) error {
	if studentIDs == nil {
		studentIDs = datatypes.JSONSlice[uint]{}
	}
	res := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Update("student_ids", studentIDs)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CoursePostgreSQL) SetTeacher(ctx context.Context, id uint, teacherID *uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Update("teacher_id", teacherID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CoursePostgreSQL) GetByTeacher(ctx context.Context, teacherID uint, filters repositories.CourseFilters) ([]*models.Course, int64, error) {
	filters.TeacherID = &teacherID
	return r.List(ctx, filters)
}

func (r *CoursePostgreSQL) PullStudentFromCourses(ctx context.Context, courseIDs []uint, studentID uint) error {
	if len(courseIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var courses []*models.Course
		if err := tx.Where("id IN ?", courseIDs).Find(&courses).Error; err != nil {
			return err
		}
		for _, course := range courses {
			if !course.HasStudent(studentID) {
				continue
			}
			updated := models.RemoveID(course.StudentIDs, studentID)
			err := tx.Model(&models.Course{}).
				Where("id = ?", course.ID).
				Update("student_ids", updated).Error
			if err != nil {
				return fmt.Errorf("failed to pull student %d from course %d: %w", studentID, course.ID, err)
			}
		}
		return nil
	})
}

func (r *CoursePostgreSQL) Deactivate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
