package services

import (
	"errors"
	"fmt"

	apperrors "github.com/SAP-F-2025/academic-service/internal/errors"
)

// ===== COMMON SERVICE ERRORS =====

var (
	// Generic errors
	ErrNotFound          = errors.New("resource not found")
	ErrUnauthorized      = errors.New("unauthorized access")
	ErrForbidden         = errors.New("forbidden - insufficient permissions")
	ErrValidationFailed  = errors.New("validation failed")
	ErrConflict          = errors.New("resource conflict")
	ErrDependencyFailure = errors.New("dependency unavailable")
	ErrInternalError     = errors.New("internal server error")

	// User specific errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserInactive      = errors.New("user account is deactivated")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrInvalidRole       = errors.New("invalid user role")
	ErrNotSelf           = errors.New("users may only modify their own account")
	ErrFallbackProtected = errors.New("the fallback account cannot be deactivated")

	// Auth specific errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Course specific errors
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseInactive  = errors.New("course is deactivated")
	ErrTeacherNotFound = errors.New("teacher not found")
	// ErrTeacherRoleRequired covers both creating a course for, and
	// reassigning a course to, a user who is not an active teacher.
	ErrTeacherRoleRequired = errors.New("referenced user does not have the teacher role")
	ErrTeacherInactive     = errors.New("referenced teacher account is deactivated")
	ErrNotCourseOwner      = errors.New("only the owning teacher may modify this course")

	// Membership specific errors
	ErrStudentRoleRequired    = errors.New("only students can be assigned to courses")
	ErrAlreadyEnrolled        = errors.New("student is already assigned to this course")
	ErrCourseCapacityExceeded = errors.New("students cannot be assigned to more than 3 courses")
)

// ===== CUSTOM ERROR TYPES =====

// Use shared validation errors from errors package
type ValidationError = apperrors.ValidationError
type ValidationErrors = apperrors.ValidationErrors

type PermissionError struct {
	UserID     uint   `json:"user_id"`
	ResourceID uint   `json:"resource_id"`
	Resource   string `json:"resource"`
	Action     string `json:"action"`
	Reason     string `json:"reason"`
}

func (pe *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d - %s",
		pe.UserID, pe.Action, pe.Resource, pe.ResourceID, pe.Reason)
}

// ===== ERROR HELPERS =====

// NewValidationError creates a new validation error using the shared type
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return apperrors.NewValidationError(field, message, value)
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

// IsNotFound checks if error represents a "not found" condition
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrCourseNotFound) ||
		errors.Is(err, ErrTeacherNotFound)
}

// IsUnauthorized checks if error represents a role or ownership failure
func IsUnauthorized(err error) bool {
	if errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrUserInactive) ||
		errors.Is(err, ErrNotCourseOwner) ||
		errors.Is(err, ErrNotSelf) ||
		errors.Is(err, ErrStudentRoleRequired) {
		return true
	}
	var pe *PermissionError
	return errors.As(err, &pe)
}

// IsValidation checks if error represents a validation failure
func IsValidation(err error) bool {
	if errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrInvalidRole) ||
		errors.Is(err, ErrTeacherRoleRequired) ||
		errors.Is(err, ErrTeacherInactive) ||
		errors.Is(err, ErrFallbackProtected) {
		return true
	}
	var ve apperrors.ValidationErrors
	return errors.As(err, &ve)
}

// IsConflict checks if error represents a resource conflict
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrDuplicateUsername) ||
		errors.Is(err, ErrAlreadyEnrolled) ||
		errors.Is(err, ErrCourseCapacityExceeded)
}

// IsDependency checks if error represents a store or auth primitive failure
func IsDependency(err error) bool {
	return errors.Is(err, ErrDependencyFailure)
}
