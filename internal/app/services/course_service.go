package services

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/app/integrity"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// CourseService defines the interface for course operations
type CourseService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error)
	GetAllCourses(ctx context.Context) ([]*models.Course, error)
	DeleteCourse(ctx context.Context, key dto.CourseKey) error
}

// courseServiceImpl implements CourseService
type courseServiceImpl struct {
	courseRepo     *repositories.CourseRepository
	departmentRepo *repositories.DepartmentRepository
	consistency
}

// NewCourseService creates a new course service
func NewCourseService(courseRepo *repositories.CourseRepository, departmentRepo *repositories.DepartmentRepository, c consistency) CourseService {
	return &courseServiceImpl{
		courseRepo:     courseRepo,
		departmentRepo: departmentRepo,
		consistency:    c,
	}
}

// CreateCourse creates a course under its department and records the course
// snapshot on the department
func (s *courseServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest) (*models.Course, error) {
	invalid := validation.Struct("Course", req)
	if failedOn(invalid, "abbreviation") {
		return nil, invalid
	}

	department, err := s.departmentRepo.GetByAbbreviation(ctx, req.Abbreviation)
	if err != nil {
		return nil, err
	}

	course := &models.Course{
		CourseName:         req.CourseName,
		CourseNumber:       req.CourseNumber,
		Description:        req.Description,
		Units:              req.Units,
		Abbreviation:       department.Abbreviation,
		DepartmentEmbedded: integrity.DepartmentSnapshot(department),
	}

	if err := s.admit(ctx, models.CoursesCollection, course, invalid); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	err = s.snapshots.Attach(ctx, models.DepartmentsCollection, department.ID, "course_embedded", integrity.CourseSnapshot(course))
	if err != nil {
		return nil, err
	}
	return course, nil
}

// GetAllCourses retrieves all courses
func (s *courseServiceImpl) GetAllCourses(ctx context.Context) ([]*models.Course, error) {
	return s.courseRepo.GetAll(ctx)
}

// DeleteCourse deletes a course once no section refers to it
func (s *courseServiceImpl) DeleteCourse(ctx context.Context, key dto.CourseKey) error {
	if err := validation.Struct("Course", key); err != nil {
		return err
	}

	course, err := s.courseRepo.GetByNumber(ctx, key.Abbreviation, key.CourseNumber)
	if err != nil {
		return err
	}

	label := fmt.Sprintf("%s %d", course.Abbreviation, course.CourseNumber)
	if err := s.guard.Check(ctx, models.CoursesCollection, course.ID, label); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, course); err != nil {
		return err
	}

	// The course is gone at this point, so a failed detach only leaves a stale snapshot
	department := course.DepartmentEmbedded.Department
	if err := s.snapshots.Detach(ctx, models.DepartmentsCollection, department, "course_embedded", "course", course.ID); err != nil {
		logger.Warn().Err(err).
			Str("course", label).
			Str("department", department.Hex()).
			Msg("Course deleted but its snapshot is still on the department")
	}
	return nil
}
