package services

import (
	"context"
	"fmt"
	"time"

	"github.com/yigit/registrar/internal/app/integrity"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/helpers"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// Sections start within this window, inclusive
var (
	earliestStart = helpers.ClockTime(8, 0)
	latestStart   = helpers.ClockTime(19, 30)
)

// SectionService defines the interface for section operations
type SectionService interface {
	CreateSection(ctx context.Context, req *dto.CreateSectionRequest) (*models.Section, error)
	GetAllSections(ctx context.Context) ([]*models.Section, error)
	GetSectionsByCourse(ctx context.Context, key dto.CourseKey) ([]*models.Section, error)
	DeleteSection(ctx context.Context, key dto.SectionKey) error
}

// sectionServiceImpl implements SectionService
type sectionServiceImpl struct {
	sectionRepo *repositories.SectionRepository
	courseRepo  *repositories.CourseRepository
	consistency
}

// NewSectionService creates a new section service
func NewSectionService(sectionRepo *repositories.SectionRepository, courseRepo *repositories.CourseRepository, c consistency) SectionService {
	return &sectionServiceImpl{
		sectionRepo: sectionRepo,
		courseRepo:  courseRepo,
		consistency: c,
	}
}

// CreateSection schedules a new section of a course
func (s *sectionServiceImpl) CreateSection(ctx context.Context, req *dto.CreateSectionRequest) (*models.Section, error) {
	invalid := validation.Struct("Section", req)
	start, err := parseStartTime(req.StartTime)
	if err != nil && !failedOn(invalid, "start_time") {
		invalid = withFields(invalid, err)
	}
	if failedOn(invalid, "abbreviation", "course_number") {
		return nil, invalid
	}

	course, err := s.courseRepo.GetByNumber(ctx, req.Abbreviation, req.CourseNumber)
	if err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseNumber:   course.CourseNumber,
		SectionNumber:  req.SectionNumber,
		Semester:       models.Semester(req.Semester),
		SectionYear:    req.SectionYear,
		Building:       models.Building(req.Building),
		Room:           req.Room,
		Schedule:       models.Schedule(req.Schedule),
		StartTime:      start,
		Instructor:     req.Instructor,
		CourseEmbedded: integrity.CourseSnapshot(course),
	}

	if err := s.admit(ctx, models.SectionsCollection, section, invalid); err != nil {
		return nil, err
	}
	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}
	return section, nil
}

// parseStartTime parses an HH:MM start time and checks it against the teaching day
func parseStartTime(value string) (time.Time, error) {
	start, err := helpers.ParseClock(value)
	if err != nil || start.Before(earliestStart) || start.After(latestStart) {
		return time.Time{}, apperrors.NewValidationError("Section", apperrors.FieldError{
			Field:   "start_time",
			Rule:    "window",
			Param:   "08:00-19:30",
			Message: "start_time must be between 08:00 and 19:30",
		})
	}
	return start, nil
}

// GetAllSections retrieves all sections
func (s *sectionServiceImpl) GetAllSections(ctx context.Context) ([]*models.Section, error) {
	return s.sectionRepo.GetAll(ctx)
}

// GetSectionsByCourse retrieves the sections of one course
func (s *sectionServiceImpl) GetSectionsByCourse(ctx context.Context, key dto.CourseKey) ([]*models.Section, error) {
	course, err := s.courseRepo.GetByNumber(ctx, key.Abbreviation, key.CourseNumber)
	if err != nil {
		return nil, err
	}
	return s.sectionRepo.GetByCourse(ctx, course.ID)
}

// DeleteSection deletes a section once no student is enrolled in it
func (s *sectionServiceImpl) DeleteSection(ctx context.Context, key dto.SectionKey) error {
	if err := validation.Struct("Section", key); err != nil {
		return err
	}

	section, err := lookupSection(ctx, s.courseRepo, s.sectionRepo, key)
	if err != nil {
		return err
	}

	label := fmt.Sprintf("%s %d-%d %s %d", key.Abbreviation, section.CourseNumber, section.SectionNumber, section.Semester, section.SectionYear)
	if err := s.guard.Check(ctx, models.SectionsCollection, section.ID, label); err != nil {
		return err
	}
	return s.sectionRepo.Delete(ctx, section)
}

// lookupSection resolves a section through its course
func lookupSection(ctx context.Context, courseRepo *repositories.CourseRepository, sectionRepo *repositories.SectionRepository, key dto.SectionKey) (*models.Section, error) {
	course, err := courseRepo.GetByNumber(ctx, key.Abbreviation, key.CourseNumber)
	if err != nil {
		return nil, err
	}
	return sectionRepo.GetByKey(ctx, repositories.SectionKey{
		Course:        course.ID,
		SectionNumber: key.SectionNumber,
		Semester:      models.Semester(key.Semester),
		SectionYear:   key.SectionYear,
	})
}
