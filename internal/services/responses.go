package services

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
)

// Response builders shared by the auth, user and course services. They
// resolve the raw id lists on a document into embedded public summaries,
// the equivalent of populating references on read.

func userSummary(u *models.User) UserSummary {
	return UserSummary{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
	}
}

// buildUserResponse resolves the user's membership list into course name
// summaries. Unresolvable ids (a documented inconsistency window) are
// skipped rather than failing the read.
func buildUserResponse(ctx context.Context, repo repositories.Repository, user *models.User) (*UserResponse, error) {
	courses, err := repo.Course().GetByIDs(ctx, user.CourseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve course summaries: %w", err)
	}

	byID := make(map[uint]*models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	summaries := make([]CourseSummary, 0, len(user.CourseIDs))
	for _, id := range user.CourseIDs {
		if c, ok := byID[id]; ok {
			summaries = append(summaries, CourseSummary{ID: c.ID, Name: c.Name})
		}
	}

	return &UserResponse{
		ID:             user.ID,
		Name:           user.Name,
		Surname:        user.Surname,
		Username:       user.Username,
		Email:          user.Email,
		Phone:          user.Phone,
		Role:           user.Role,
		ProfilePicture: user.ProfilePicture,
		IsActive:       user.IsActive,
		Courses:        summaries,
	}, nil
}

// buildCourseResponse resolves the teacher reference and the roster into
// public user summaries.
func buildCourseResponse(ctx context.Context, repo repositories.Repository, course *models.Course) (*CourseResponse, error) {
	resp := &CourseResponse{
		ID:          course.ID,
		Name:        course.Name,
		Description: course.Description,
		Students:    []UserSummary{},
		IsActive:    course.IsActive,
	}

	ids := make([]uint, 0, len(course.StudentIDs)+1)
	ids = append(ids, course.StudentIDs...)
	if course.TeacherID != nil {
		ids = append(ids, *course.TeacherID)
	}

	users, err := repo.User().GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user summaries: %w", err)
	}
	byID := make(map[uint]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	if course.TeacherID != nil {
		if t, ok := byID[*course.TeacherID]; ok {
			s := userSummary(t)
			resp.Teacher = &s
		}
	}
	for _, id := range course.StudentIDs {
		if u, ok := byID[id]; ok {
			resp.Students = append(resp.Students, userSummary(u))
		}
	}

	return resp, nil
}
