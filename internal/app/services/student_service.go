package services

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/app/integrity"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/helpers"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// StudentService defines the interface for students and the major
// declarations and enrollments they hold
type StudentService interface {
	CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error)
	GetAllStudents(ctx context.Context) ([]*models.Student, error)
	GetStudentByName(ctx context.Context, name dto.StudentName) (*models.Student, error)
	DeleteStudent(ctx context.Context, name dto.StudentName) error

	DeclareMajor(ctx context.Context, req *dto.DeclareMajorRequest) (*models.StudentMajor, error)
	GetStudentMajors(ctx context.Context, name dto.StudentName) ([]models.StudentMajor, error)
	RemoveMajor(ctx context.Context, req *dto.RemoveMajorRequest) error

	Enroll(ctx context.Context, req *dto.EnrollRequest) (*models.Enrollment, error)
	GetEnrollments(ctx context.Context, name dto.StudentName) ([]models.Enrollment, error)
	Unenroll(ctx context.Context, req *dto.UnenrollRequest) error
}

// studentServiceImpl implements StudentService
type studentServiceImpl struct {
	studentRepo *repositories.StudentRepository
	majorRepo   *repositories.MajorRepository
	courseRepo  *repositories.CourseRepository
	sectionRepo *repositories.SectionRepository
	consistency
}

// NewStudentService creates a new student service
func NewStudentService(
	studentRepo *repositories.StudentRepository,
	majorRepo *repositories.MajorRepository,
	courseRepo *repositories.CourseRepository,
	sectionRepo *repositories.SectionRepository,
	c consistency,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		majorRepo:   majorRepo,
		courseRepo:  courseRepo,
		sectionRepo: sectionRepo,
		consistency: c,
	}
}

// CreateStudent creates a new student with no majors or enrollments
func (s *studentServiceImpl) CreateStudent(ctx context.Context, req *dto.CreateStudentRequest) (*models.Student, error) {
	invalid := validation.Struct("Student", req)

	student := &models.Student{
		LastName:      req.LastName,
		FirstName:     req.FirstName,
		EMail:         req.EMail,
		StudentMajors: []models.StudentMajor{},
		Enrollments:   []models.Enrollment{},
	}

	if err := s.admit(ctx, models.StudentsCollection, student, invalid); err != nil {
		return nil, err
	}
	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// GetAllStudents retrieves all students
func (s *studentServiceImpl) GetAllStudents(ctx context.Context) ([]*models.Student, error) {
	return s.studentRepo.GetAll(ctx)
}

// GetStudentByName retrieves a student by last and first name
func (s *studentServiceImpl) GetStudentByName(ctx context.Context, name dto.StudentName) (*models.Student, error) {
	if err := validation.Struct("Student", name); err != nil {
		return nil, err
	}
	return s.studentRepo.GetByName(ctx, name.LastName, name.FirstName)
}

// DeleteStudent deletes a student that holds no enrollments or major declarations
func (s *studentServiceImpl) DeleteStudent(ctx context.Context, name dto.StudentName) error {
	student, err := s.GetStudentByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.guard.Check(ctx, models.StudentsCollection, student.ID, displayName(student)); err != nil {
		return err
	}
	return s.studentRepo.Delete(ctx, student)
}

// DeclareMajor records a major declaration on the student
func (s *studentServiceImpl) DeclareMajor(ctx context.Context, req *dto.DeclareMajorRequest) (*models.StudentMajor, error) {
	invalid := validation.Struct("Student major", req)
	if failedOn(invalid, "last_name", "first_name", "major_name") {
		return nil, invalid
	}

	declared, err := helpers.ParseDate(req.DeclarationDate)
	if err != nil && !failedOn(invalid, "declaration_date") {
		invalid = withFields(invalid, apperrors.NewValidationError("Student major", apperrors.FieldError{
			Field:   "declaration_date",
			Rule:    "date",
			Message: err.Error(),
		}))
	}

	student, err := s.studentRepo.GetByName(ctx, req.LastName, req.FirstName)
	if err != nil {
		return nil, err
	}
	major, err := s.majorRepo.GetByName(ctx, req.MajorName)
	if err != nil {
		return nil, err
	}

	declaration := models.StudentMajor{
		Student:         student.ID,
		MajorName:       major.MajorName,
		DeclarationDate: declared,
		MajorEmbedded:   []models.MajorEmbedded{integrity.MajorSnapshot(major)},
	}

	err = integrity.EnforceEmbedded(models.StudentsCollection, student.StudentMajors, declaration, models.StudentMajorKeys)
	if err := screen(err, invalid); err != nil {
		return nil, err
	}
	if err := s.studentRepo.AddMajor(ctx, student, declaration); err != nil {
		return nil, err
	}
	return &declaration, nil
}

// GetStudentMajors lists the majors a student has declared
func (s *studentServiceImpl) GetStudentMajors(ctx context.Context, name dto.StudentName) ([]models.StudentMajor, error) {
	student, err := s.GetStudentByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return student.StudentMajors, nil
}

// RemoveMajor drops one major declaration from a student
func (s *studentServiceImpl) RemoveMajor(ctx context.Context, req *dto.RemoveMajorRequest) error {
	if err := validation.Struct("Student major", req); err != nil {
		return err
	}

	student, err := s.studentRepo.GetByName(ctx, req.LastName, req.FirstName)
	if err != nil {
		return err
	}

	found := false
	for _, sm := range student.StudentMajors {
		if sm.MajorName == req.MajorName {
			found = true
			break
		}
	}
	if !found {
		return apperrors.NewNotFoundError("Student major",
			fmt.Sprintf("major name %s for student %s", req.MajorName, displayName(student)))
	}

	return s.studentRepo.RemoveMajor(ctx, student, req.MajorName)
}

// Enroll places a student in a section with exactly one grading outcome
func (s *studentServiceImpl) Enroll(ctx context.Context, req *dto.EnrollRequest) (*models.Enrollment, error) {
	invalid := validation.Struct("Enrollment", req)
	if failedOn(invalid, "last_name", "first_name", "abbreviation", "course_number",
		"section_number", "semester", "section_year", "mode") {
		return nil, invalid
	}

	student, err := s.studentRepo.GetByName(ctx, req.LastName, req.FirstName)
	if err != nil {
		return nil, err
	}
	section, err := lookupSection(ctx, s.courseRepo, s.sectionRepo, req.SectionKey)
	if err != nil {
		return nil, err
	}

	outcome, err := buildOutcome(req, section)
	if outcome == nil {
		return nil, err
	}
	if err != nil && !failedOn(invalid, "application_date") {
		invalid = withFields(invalid, err)
	}

	enrollment := models.Enrollment{
		Student:       student.ID,
		Section:       section.ID,
		Abbreviation:  req.Abbreviation,
		CourseNumber:  section.CourseNumber,
		SectionNumber: section.SectionNumber,
		Semester:      section.Semester,
		SectionYear:   section.SectionYear,
		Outcome:       outcome,
	}

	err = integrity.EnforceEmbedded(models.StudentsCollection, student.Enrollments, enrollment, models.EnrollmentKeys)
	if err := screen(err, invalid); err != nil {
		return nil, err
	}
	if err := s.studentRepo.AddEnrollment(ctx, student, enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// buildOutcome selects the grading outcome named by the request mode. An
// unparsable application date still yields an outcome, with the date failure
// reported alongside.
func buildOutcome(req *dto.EnrollRequest, section *models.Section) (models.Outcome, error) {
	switch req.Mode {
	case models.OutcomePassFail:
		applied, err := helpers.ParseDate(req.ApplicationDate)
		outcome := &models.PassFail{SectionNumber: section.SectionNumber, ApplicationDate: applied}
		if err != nil {
			return outcome, apperrors.NewValidationError("Enrollment", apperrors.FieldError{
				Field:   "application_date",
				Rule:    "date",
				Message: err.Error(),
			})
		}
		return outcome, nil
	case models.OutcomeLetterGrade:
		return &models.LetterGrade{
			SectionNumber:   section.SectionNumber,
			MinSatisfactory: models.MinSatisfactory(req.MinSatisfactory),
		}, nil
	}
	return nil, models.ErrMissingOutcome
}

// GetEnrollments lists the enrollments of a student
func (s *studentServiceImpl) GetEnrollments(ctx context.Context, name dto.StudentName) ([]models.Enrollment, error) {
	student, err := s.GetStudentByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return student.Enrollments, nil
}

// Unenroll drops a student's enrollment in a section
func (s *studentServiceImpl) Unenroll(ctx context.Context, req *dto.UnenrollRequest) error {
	if err := validation.Struct("Enrollment", req); err != nil {
		return err
	}

	student, err := s.studentRepo.GetByName(ctx, req.LastName, req.FirstName)
	if err != nil {
		return err
	}
	section, err := lookupSection(ctx, s.courseRepo, s.sectionRepo, req.SectionKey)
	if err != nil {
		return err
	}

	found := false
	for _, e := range student.Enrollments {
		if e.Section == section.ID {
			found = true
			break
		}
	}
	if !found {
		return apperrors.NewNotFoundError("Enrollment",
			fmt.Sprintf("section %s %d-%d for student %s", req.Abbreviation, section.CourseNumber, section.SectionNumber, displayName(student)))
	}

	return s.studentRepo.RemoveEnrollment(ctx, student, section.ID)
}

func displayName(student *models.Student) string {
	return fmt.Sprintf("%s, %s", student.LastName, student.FirstName)
}
