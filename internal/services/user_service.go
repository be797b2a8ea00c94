package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/academic-service/internal/auth"
	"github.com/SAP-F-2025/academic-service/internal/cache"
	"github.com/SAP-F-2025/academic-service/internal/events"
	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"github.com/SAP-F-2025/academic-service/internal/validator"
	"gorm.io/datatypes"
)

type userService struct {
	repo       repositories.Repository
	logger     *slog.Logger
	validator  *validator.Validator
	hasher     *auth.PasswordHasher
	cache      cache.CacheService
	publisher  events.EventPublisher
	policy     AccessPolicy
	fallbackID uint
}

func NewUserService(deps Dependencies) UserService {
	return &userService{
		repo:       deps.Repo,
		logger:     deps.Logger,
		validator:  deps.Validator,
		hasher:     deps.Hasher,
		cache:      deps.Cache,
		publisher:  deps.Publisher,
		fallbackID: deps.FallbackTeacherID,
	}
}

func (s *userService) List(ctx context.Context, page PageRequest) (*UserListResponse, error) {
	page.Normalize()

	users, total, err := s.repo.User().List(ctx, repositories.UserFilters{
		ActiveOnly: true,
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}

	resp := &UserListResponse{
		Total: total,
		Users: make([]*UserResponse, 0, len(users)),
	}
	for _, user := range users {
		ur, err := buildUserResponse(ctx, s.repo, user)
		if err != nil {
			return nil, err
		}
		resp.Users = append(resp.Users, ur)
	}
	return resp, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*UserResponse, error) {
	// Direct id lookup deliberately ignores the active flag.
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}
	return buildUserResponse(ctx, s.repo, user)
}

func (s *userService) Update(ctx context.Context, id uint, req *UpdateUserRequest, callerID uint) (*UserResponse, error) {
	if err := s.policy.CanUpdateUser(callerID, id); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Surname != nil {
		user.Surname = *req.Surname
	}
	if req.Phone != nil {
		user.Phone = *req.Phone
	}
	if req.ProfilePicture != nil {
		user.ProfilePicture = req.ProfilePicture
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: password hashing failed: %v", ErrDependencyFailure, err)
		}
		user.PasswordHash = hash
	}

	if err := s.repo.User().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", "user_id", user.ID)
	return buildUserResponse(ctx, s.repo, user)
}

// Deactivate flips the account to inactive and cascades membership cleanup.
// The cascade steps roll forward: a failure partway leaves the already
// applied steps in place and is reported, never silently retried or undone.
func (s *userService) Deactivate(ctx context.Context, id uint, callerID uint) (*UserResponse, error) {
	if err := s.policy.CanDeleteUser(callerID, id); err != nil {
		return nil, err
	}
	if id == s.fallbackID {
		return nil, ErrFallbackProtected
	}

	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}

	if user.IsActive {
		switch user.Role {
		case models.RoleTeacher:
			err = s.cascadeTeacher(ctx, user)
		case models.RoleStudent:
			err = s.cascadeStudent(ctx, user)
		default:
			err = ErrInvalidRole
		}
		if err != nil {
			return nil, err
		}

		if err := s.repo.User().Deactivate(ctx, user.ID); err != nil {
			return nil, fmt.Errorf("failed to deactivate user: %w", err)
		}
		user.IsActive = false
		user.CourseIDs = datatypes.JSONSlice[uint]{}

		if err := s.cache.DeletePattern(ctx, "academic:course:*"); err != nil {
			s.logger.Warn("Failed to invalidate course cache", "error", err)
		}

		s.logger.Info("User deactivated", "user_id", user.ID, "role", user.Role)
		s.publishEvent(ctx, events.NewAcademicEvent(events.EventUserDeactivated, user.ID, 0, map[string]interface{}{
			"role": string(user.Role),
		}))
	}

	return buildUserResponse(ctx, s.repo, user)
}

// cascadeTeacher hands the teacher's active courses to the fallback account
// and folds the teacher's course list into the fallback's, deduplicated.
// The fallback's own capacity is intentionally not re-checked; the 3-course
// cap binds students at assignment time only.
func (s *userService) cascadeTeacher(ctx context.Context, teacher *models.User) error {
	fallback, err := s.repo.User().GetByID(ctx, s.fallbackID)
	if err != nil {
		return fmt.Errorf("%w: fallback account %d unavailable: %v", ErrDependencyFailure, s.fallbackID, err)
	}

	courses, _, err := s.repo.Course().GetByTeacher(ctx, teacher.ID, repositories.CourseFilters{
		ActiveOnly: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}

	for _, course := range courses {
		if err := s.repo.Course().SetTeacher(ctx, course.ID, &fallback.ID); err != nil {
			return fmt.Errorf("failed to reassign course %d to fallback: %w", course.ID, err)
		}
	}

	merged := models.MergeIDs(fallback.CourseIDs, teacher.CourseIDs)
	if err := s.repo.User().SetCourseIDs(ctx, fallback.ID, merged); err != nil {
		return fmt.Errorf("failed to merge courses into fallback account: %w", err)
	}

	// Clear the teacher's own list so no course keeps a dangling back
	// reference to an owner it no longer has.
	if err := s.repo.User().SetCourseIDs(ctx, teacher.ID, datatypes.JSONSlice[uint]{}); err != nil {
		return fmt.Errorf("failed to clear teacher course list: %w", err)
	}

	s.logger.Info("Teacher courses reassigned to fallback",
		"teacher_id", teacher.ID,
		"fallback_id", fallback.ID,
		"reassigned", len(courses))
	return nil
}

// cascadeStudent removes the student from every roster and clears the
// student's own membership list.
func (s *userService) cascadeStudent(ctx context.Context, student *models.User) error {
	if err := s.repo.Course().PullStudentFromCourses(ctx, student.CourseIDs, student.ID); err != nil {
		return fmt.Errorf("failed to remove student from rosters: %w", err)
	}
	if err := s.repo.User().SetCourseIDs(ctx, student.ID, datatypes.JSONSlice[uint]{}); err != nil {
		return fmt.Errorf("failed to clear student course list: %w", err)
	}

	s.logger.Info("Student removed from rosters",
		"student_id", student.ID,
		"courses", len(student.CourseIDs))
	return nil
}

func (s *userService) publishEvent(ctx context.Context, event *events.AcademicEvent) {
	if err := s.publisher.PublishAcademicEvent(ctx, event); err != nil {
		s.logger.Warn("Failed to publish event", "event_type", event.Type, "error", err)
	}
}
