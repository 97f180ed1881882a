package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// Embedded list fields of a student document
const (
	studentMajorsField = "student_majors"
	enrollmentsField   = "enrollments"
)

// StudentRepository handles store operations for students and the majors
// and enrollments embedded in them
type StudentRepository struct {
	store docstore.Store
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(store docstore.Store) *StudentRepository {
	return &StudentRepository{
		store: store,
	}
}

func studentKey(lastName, firstName string) string {
	return fmt.Sprintf("name %s, %s", lastName, firstName)
}

// Create inserts a new student
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID.IsZero() {
		student.ID = primitive.NewObjectID()
	}
	if student.StudentMajors == nil {
		student.StudentMajors = []models.StudentMajor{}
	}
	if student.Enrollments == nil {
		student.Enrollments = []models.Enrollment{}
	}

	if err := insert(ctx, r.store, models.StudentsCollection, "Student", student); err != nil {
		return err
	}

	logger.Info().Str("lastName", student.LastName).Str("firstName", student.FirstName).Msg("Student created successfully")
	return nil
}

// GetAll retrieves all students
func (r *StudentRepository) GetAll(ctx context.Context) ([]*models.Student, error) {
	var students []*models.Student
	if err := findAll(ctx, r.store, models.StudentsCollection, "student", nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

// GetByName retrieves a student by last and first name
func (r *StudentRepository) GetByName(ctx context.Context, lastName, firstName string) (*models.Student, error) {
	var student models.Student
	err := findOne(ctx, r.store, models.StudentsCollection, "Student",
		studentKey(lastName, firstName),
		docstore.Filter{"last_name": lastName, "first_name": firstName}, &student)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Delete removes a student. Callers run the referential guard first.
func (r *StudentRepository) Delete(ctx context.Context, student *models.Student) error {
	return deleteOne(ctx, r.store, models.StudentsCollection, "Student",
		studentKey(student.LastName, student.FirstName), student.ID)
}

// AddMajor appends a major declaration to the student
func (r *StudentRepository) AddMajor(ctx context.Context, student *models.Student, declaration models.StudentMajor) error {
	if err := r.push(ctx, student, studentMajorsField, declaration); err != nil {
		return err
	}
	logger.Info().Str("student", student.ID.Hex()).Str("majorName", declaration.MajorName).Msg("Major declared")
	return nil
}

// RemoveMajor drops the declaration of majorName from the student
func (r *StudentRepository) RemoveMajor(ctx context.Context, student *models.Student, majorName string) error {
	return r.pull(ctx, student, studentMajorsField, docstore.Filter{"major_name": majorName})
}

// AddEnrollment appends an enrollment to the student
func (r *StudentRepository) AddEnrollment(ctx context.Context, student *models.Student, enrollment models.Enrollment) error {
	if err := r.push(ctx, student, enrollmentsField, enrollment); err != nil {
		return err
	}
	logger.Info().
		Str("student", student.ID.Hex()).
		Str("section", enrollment.Section.Hex()).
		Str("mode", enrollment.Outcome.Mode()).
		Msg("Student enrolled")
	return nil
}

// RemoveEnrollment drops the student's enrollment in a section
func (r *StudentRepository) RemoveEnrollment(ctx context.Context, student *models.Student, section primitive.ObjectID) error {
	return r.pull(ctx, student, enrollmentsField, docstore.Filter{"section": section})
}

func (r *StudentRepository) push(ctx context.Context, student *models.Student, field string, value interface{}) error {
	err := r.store.Push(ctx, models.StudentsCollection, student.ID, field, value)
	if err == nil {
		return nil
	}
	if errors.Is(err, docstore.ErrNoDocuments) {
		return apperrors.NewNotFoundError("Student", studentKey(student.LastName, student.FirstName))
	}
	if translated, ok := translateWriteError("Student", err); ok {
		return translated
	}
	logger.Error().Err(err).Str("field", field).Msg("Error appending to student")
	return fmt.Errorf("error updating student %s: %w", field, err)
}

func (r *StudentRepository) pull(ctx context.Context, student *models.Student, field string, match docstore.Filter) error {
	err := r.store.Pull(ctx, models.StudentsCollection, student.ID, field, match)
	if errors.Is(err, docstore.ErrNoDocuments) {
		return apperrors.NewNotFoundError("Student", studentKey(student.LastName, student.FirstName))
	}
	if err != nil {
		logger.Error().Err(err).Str("field", field).Msg("Error removing from student")
		return fmt.Errorf("error updating student %s: %w", field, err)
	}
	return nil
}
