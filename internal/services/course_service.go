package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/academic-service/internal/cache"
	"github.com/SAP-F-2025/academic-service/internal/events"
	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"github.com/SAP-F-2025/academic-service/internal/validator"
	"gorm.io/datatypes"
)

const courseCacheTTL = 5 * time.Minute

type courseService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	cache     cache.CacheService
	publisher events.EventPublisher
	policy    AccessPolicy
}

func NewCourseService(deps Dependencies) CourseService {
	return &courseService{
		repo:      deps.Repo,
		logger:    deps.Logger,
		validator: deps.Validator,
		cache:     deps.Cache,
		publisher: deps.Publisher,
	}
}

// Create persists a course owned by the teacher resolved from the request
// email, then appends the course to that teacher's membership list. The
// second step rolls forward: if it fails the course exists without the back
// reference and the error is reported.
func (s *courseService) Create(ctx context.Context, req *CreateCourseRequest, callerID uint) (*CourseResponse, error) {
	s.logger.Info("Creating course", "caller_id", callerID, "name", req.Name)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanCreateCourse(caller); err != nil {
		return nil, err
	}

	teacher, err := s.repo.User().GetByEmail(ctx, req.TeacherEmail)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrTeacherNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}
	if err := s.policy.CanBeAssignedTeacher(teacher); err != nil {
		return nil, err
	}

	course := &models.Course{
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   &teacher.ID,
		StudentIDs:  datatypes.JSONSlice[uint]{},
		IsActive:    true,
	}
	if err := s.repo.Course().Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	updated := models.AppendUniqueID(teacher.CourseIDs, course.ID)
	if err := s.repo.User().SetCourseIDs(ctx, teacher.ID, updated); err != nil {
		return nil, fmt.Errorf("course %d created but teacher back reference failed: %w", course.ID, err)
	}

	s.logger.Info("Course created", "course_id", course.ID, "teacher_id", teacher.ID)
	s.publishEvent(ctx, events.NewAcademicEvent(events.EventCourseCreated, teacher.ID, course.ID, nil))

	return buildCourseResponse(ctx, s.repo, course)
}

func (s *courseService) ListMine(ctx context.Context, callerID uint, page PageRequest) (*CourseListResponse, error) {
	page.Normalize()

	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	filters := repositories.CourseFilters{
		ActiveOnly: true,
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	switch caller.Role {
	case models.RoleTeacher:
		filters.TeacherID = &caller.ID
	case models.RoleStudent:
		filters.StudentID = &caller.ID
	default:
		return nil, ErrInvalidRole
	}

	courses, total, err := s.repo.Course().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}
	return s.buildListResponse(ctx, courses, total)
}

func (s *courseService) ListAll(ctx context.Context, page PageRequest) (*CourseListResponse, error) {
	page.Normalize()

	courses, total, err := s.repo.Course().List(ctx, repositories.CourseFilters{
		ActiveOnly: true,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}
	return s.buildListResponse(ctx, courses, total)
}

func (s *courseService) GetByID(ctx context.Context, id uint) (*CourseResponse, error) {
	key := courseCacheKey(id)

	var cached CourseResponse
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return &cached, nil
	}

	// Direct id lookup returns the course even when deactivated.
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}

	resp, err := buildCourseResponse(ctx, s.repo, course)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, resp, courseCacheTTL); err != nil {
		s.logger.Warn("Failed to cache course", "course_id", id, "error", err)
	}
	return resp, nil
}

// Update applies a partial edit. When the request carries a teacher email
// the course is reassigned: the new teacher must be an active teacher
// (validation failure otherwise, regardless of who calls), then the course
// document changes first, the old teacher's list is pulled, and the new
// teacher's list is pushed only if the id is absent.
func (s *courseService) Update(ctx context.Context, id uint, req *UpdateCourseRequest, callerID uint) (*CourseResponse, error) {
	s.logger.Info("Updating course", "course_id", id, "caller_id", callerID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	// Resolve and vet the replacement teacher before any identity check so
	// an invalid reassignment surfaces as a validation failure either way.
	var newTeacher *models.User
	if req.TeacherEmail != nil {
		newTeacher, err = s.repo.User().GetByEmail(ctx, *req.TeacherEmail)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, ErrTeacherNotFound
			}
			return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
		}
		if err := s.policy.CanBeAssignedTeacher(newTeacher); err != nil {
			return nil, err
		}
	}

	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanUpdateCourse(caller, course); err != nil {
		return nil, err
	}

	oldTeacherID := course.TeacherID

	if req.Name != nil {
		course.Name = *req.Name
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	teacherChanged := newTeacher != nil && (oldTeacherID == nil || *oldTeacherID != newTeacher.ID)
	if teacherChanged {
		course.TeacherID = &newTeacher.ID
	}

	if err := s.repo.Course().Update(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to update course: %w", err)
	}

	if teacherChanged {
		if err := s.moveTeacherReference(ctx, course.ID, oldTeacherID, newTeacher); err != nil {
			return nil, err
		}
		s.publishEvent(ctx, events.NewAcademicEvent(events.EventTeacherReassigned, newTeacher.ID, course.ID, nil))
	} else {
		s.publishEvent(ctx, events.NewAcademicEvent(events.EventCourseUpdated, callerID, course.ID, nil))
	}

	s.invalidate(ctx, course.ID)
	s.logger.Info("Course updated", "course_id", course.ID)

	return buildCourseResponse(ctx, s.repo, course)
}

// moveTeacherReference keeps both membership lists in step after the course
// document already changed owners. Both steps are best-effort roll-forward.
func (s *courseService) moveTeacherReference(ctx context.Context, courseID uint, oldTeacherID *uint, newTeacher *models.User) error {
	if oldTeacherID != nil {
		oldTeacher, err := s.repo.User().GetByID(ctx, *oldTeacherID)
		if err == nil {
			pulled := models.RemoveID(oldTeacher.CourseIDs, courseID)
			if err := s.repo.User().SetCourseIDs(ctx, oldTeacher.ID, pulled); err != nil {
				return fmt.Errorf("course %d reassigned but old teacher still references it: %w", courseID, err)
			}
		} else if !repositories.IsNotFoundError(err) {
			return fmt.Errorf("%w: %v", ErrDependencyFailure, err)
		}
	}

	pushed := models.AppendUniqueID(newTeacher.CourseIDs, courseID)
	if err := s.repo.User().SetCourseIDs(ctx, newTeacher.ID, pushed); err != nil {
		return fmt.Errorf("course %d reassigned but new teacher reference missing: %w", courseID, err)
	}
	return nil
}

// Deactivate soft-deletes the course and pulls its id from every enrolled
// student's list. The roster on the course document is preserved.
func (s *courseService) Deactivate(ctx context.Context, id uint, callerID uint) (*CourseResponse, error) {
	course, err := s.getCourse(ctx, id)
	if err != nil {
		return nil, err
	}

	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanDeleteCourse(caller, course); err != nil {
		return nil, err
	}

	if course.IsActive {
		if err := s.repo.Course().Deactivate(ctx, course.ID); err != nil {
			return nil, fmt.Errorf("failed to deactivate course: %w", err)
		}
		course.IsActive = false

		if err := s.repo.User().PullCourseFromUsers(ctx, course.StudentIDs, course.ID); err != nil {
			return nil, fmt.Errorf("course %d deactivated but student lists not fully cleaned: %w", course.ID, err)
		}

		s.invalidate(ctx, course.ID)
		s.logger.Info("Course deactivated", "course_id", course.ID, "students", len(course.StudentIDs))
		s.publishEvent(ctx, events.NewAcademicEvent(events.EventCourseDeactivated, callerID, course.ID, nil))
	}

	return buildCourseResponse(ctx, s.repo, course)
}

// Assign enrolls the calling student. Capacity and duplicate checks run
// before any write, so a rejection has zero side effects; the paired list
// updates then roll forward, student side first.
func (s *courseService) Assign(ctx context.Context, courseID uint, callerID uint) (*AssignmentResponse, error) {
	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if !caller.IsActive {
		return nil, ErrUserInactive
	}

	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.CanAssignToCourse(caller, course); err != nil {
		return nil, err
	}

	enrolled := models.AppendUniqueID(caller.CourseIDs, course.ID)
	if err := s.repo.User().SetCourseIDs(ctx, caller.ID, enrolled); err != nil {
		return nil, fmt.Errorf("failed to record enrollment: %w", err)
	}

	roster := models.AppendUniqueID(course.StudentIDs, caller.ID)
	if err := s.repo.Course().SetStudentIDs(ctx, course.ID, roster); err != nil {
		return nil, fmt.Errorf("student %d enrolled but roster update failed: %w", caller.ID, err)
	}

	s.invalidate(ctx, course.ID)
	s.logger.Info("Student assigned to course", "student_id", caller.ID, "course_id", course.ID)
	s.publishEvent(ctx, events.NewAcademicEvent(events.EventStudentAssigned, caller.ID, course.ID, nil))

	courses, err := s.repo.Course().GetByIDs(ctx, enrolled)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}
	summaries := make([]CourseSummary, 0, len(courses))
	for _, c := range courses {
		summaries = append(summaries, CourseSummary{ID: c.ID, Name: c.Name})
	}

	return &AssignmentResponse{
		StudentID: caller.ID,
		Name:      caller.Name,
		Surname:   caller.Surname,
		Username:  caller.Username,
		Courses:   summaries,
	}, nil
}

// ===== HELPERS =====

func (s *courseService) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}
	return user, nil
}

func (s *courseService) getCourse(ctx context.Context, id uint) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}
	return course, nil
}

func (s *courseService) buildListResponse(ctx context.Context, courses []*models.Course, total int64) (*CourseListResponse, error) {
	resp := &CourseListResponse{
		Total:   total,
		Courses: make([]*CourseResponse, 0, len(courses)),
	}
	for _, course := range courses {
		cr, err := buildCourseResponse(ctx, s.repo, course)
		if err != nil {
			return nil, err
		}
		resp.Courses = append(resp.Courses, cr)
	}
	return resp, nil
}

func (s *courseService) invalidate(ctx context.Context, courseID uint) {
	if err := s.cache.Delete(ctx, courseCacheKey(courseID)); err != nil {
		s.logger.Warn("Failed to invalidate course cache", "course_id", courseID, "error", err)
	}
}

func (s *courseService) publishEvent(ctx context.Context, event *events.AcademicEvent) {
	if err := s.publisher.PublishAcademicEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}

func courseCacheKey(id uint) string {
	return fmt.Sprintf("academic:course:%d", id)
}
