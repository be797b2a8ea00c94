package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ExportRoster renders the enrolled students of a course as an xlsx sheet.
// Only the owning teacher may export.
func (s *courseService) ExportRoster(ctx context.Context, courseID uint, callerID uint) ([]byte, error) {
	course, err := s.getCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	caller, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanUpdateCourse(caller, course); err != nil {
		return nil, err
	}

	students, err := s.repo.User().GetByIDs(ctx, course.StudentIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDependencyFailure, err)
	}

	f := excelize.NewFile()
	sheetName := "Roster"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Name", "Surname", "Username", "Email", "Phone"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, student := range students {
		row := []interface{}{
			student.ID,
			student.Name,
			student.Surname,
			student.Username,
			student.Email,
			student.Phone,
		}
		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	s.logger.Info("Roster exported", "course_id", course.ID, "students", len(students))
	return buf.Bytes(), nil
}
