package events

import (
	"time"

	"github.com/google/uuid"
)

// AcademicEventType enumerates the domain events published by the service.
type AcademicEventType string

const (
	EventUserRegistered    AcademicEventType = "user.registered"
	EventUserDeactivated   AcademicEventType = "user.deactivated"
	EventCourseCreated     AcademicEventType = "course.created"
	EventCourseUpdated     AcademicEventType = "course.updated"
	EventCourseDeactivated AcademicEventType = "course.deactivated"
	EventStudentAssigned   AcademicEventType = "course.student_assigned"
	EventTeacherReassigned AcademicEventType = "course.teacher_reassigned"
)

// AcademicEvent is the envelope for every message on the academic topic.
type AcademicEvent struct {
	ID        string            `json:"id"`
	Type      AcademicEventType `json:"type"`
	Source    string            `json:"source"`
	Version   string            `json:"version"`
	Timestamp time.Time         `json:"timestamp"`

	// Subject identifiers; zero when not applicable to the event type.
	UserID   uint `json:"user_id,omitempty"`
	CourseID uint `json:"course_id,omitempty"`

	Data map[string]interface{} `json:"data,omitempty"`
}

// NewAcademicEvent builds an event envelope with a fresh id and timestamp.
func NewAcademicEvent(eventType AcademicEventType, userID, courseID uint, data map[string]interface{}) *AcademicEvent {
	return &AcademicEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    "academic-service",
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		UserID:    userID,
		CourseID:  courseID,
		Data:      data,
	}
}
