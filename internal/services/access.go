package services

import (
	"github.com/SAP-F-2025/academic-service/internal/models"
)

// AccessPolicy contains the pure authorization decisions. Every method
// inspects already-loaded state and returns nil to allow or a taxonomy
// error to deny; nothing here touches the store.
type AccessPolicy struct{}

// CanCreateCourse allows only teachers to create courses.
func (AccessPolicy) CanCreateCourse(caller *models.User) error {
	switch caller.Role {
	case models.RoleTeacher:
		return nil
	case models.RoleStudent:
		return NewPermissionError(caller.ID, 0, "course", "create", "students cannot create courses")
	default:
		return ErrInvalidRole
	}
}

// CanUpdateCourse allows only the owning teacher.
func (AccessPolicy) CanUpdateCourse(caller *models.User, course *models.Course) error {
	if !course.IsTaughtBy(caller.ID) {
		return ErrNotCourseOwner
	}
	return nil
}

// CanDeleteCourse follows the same ownership rule as update.
func (p AccessPolicy) CanDeleteCourse(caller *models.User, course *models.Course) error {
	return p.CanUpdateCourse(caller, course)
}

// CanAssignToCourse allows an active student with spare capacity who is not
// already enrolled, onto an active course.
func (AccessPolicy) CanAssignToCourse(caller *models.User, course *models.Course) error {
	switch caller.Role {
	case models.RoleStudent:
		// fall through to the membership checks
	case models.RoleTeacher:
		return ErrStudentRoleRequired
	default:
		return ErrInvalidRole
	}

	if !course.IsActive {
		return ErrCourseInactive
	}
	if caller.HasCourse(course.ID) || course.HasStudent(caller.ID) {
		return ErrAlreadyEnrolled
	}
	if len(caller.CourseIDs) >= models.MaxCoursesPerStudent {
		return ErrCourseCapacityExceeded
	}
	return nil
}

// CanUpdateUser is self-service only; there is no admin override.
func (AccessPolicy) CanUpdateUser(callerID, targetID uint) error {
	if callerID != targetID {
		return ErrNotSelf
	}
	return nil
}

// CanDeleteUser follows the same self-service rule.
func (p AccessPolicy) CanDeleteUser(callerID, targetID uint) error {
	return p.CanUpdateUser(callerID, targetID)
}

// CanBeAssignedTeacher validates a user referenced as a course's (new)
// teacher: the role must be teacher and the account active. Establishing a
// new relationship with an inactive entity is always rejected.
func (AccessPolicy) CanBeAssignedTeacher(teacher *models.User) error {
	switch teacher.Role {
	case models.RoleTeacher:
		// role ok
	case models.RoleStudent:
		return ErrTeacherRoleRequired
	default:
		return ErrInvalidRole
	}
	if !teacher.IsActive {
		return ErrTeacherInactive
	}
	return nil
}
