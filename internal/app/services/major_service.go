package services

import (
	"context"

	"github.com/yigit/registrar/internal/app/integrity"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/logger"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// MajorService defines the interface for major operations
type MajorService interface {
	CreateMajor(ctx context.Context, req *dto.CreateMajorRequest) (*models.Major, error)
	GetAllMajors(ctx context.Context) ([]*models.Major, error)
	DeleteMajor(ctx context.Context, name string) error
}

// majorServiceImpl implements MajorService
type majorServiceImpl struct {
	majorRepo      *repositories.MajorRepository
	departmentRepo *repositories.DepartmentRepository
	consistency
}

// NewMajorService creates a new major service
func NewMajorService(majorRepo *repositories.MajorRepository, departmentRepo *repositories.DepartmentRepository, c consistency) MajorService {
	return &majorServiceImpl{
		majorRepo:      majorRepo,
		departmentRepo: departmentRepo,
		consistency:    c,
	}
}

// CreateMajor creates a major offered by a department and records the major
// snapshot on the department
func (s *majorServiceImpl) CreateMajor(ctx context.Context, req *dto.CreateMajorRequest) (*models.Major, error) {
	invalid := validation.Struct("Major", req)
	if failedOn(invalid, "abbreviation") {
		return nil, invalid
	}

	department, err := s.departmentRepo.GetByAbbreviation(ctx, req.Abbreviation)
	if err != nil {
		return nil, err
	}

	major := &models.Major{
		MajorName:          req.MajorName,
		Description:        req.Description,
		DepartmentEmbedded: integrity.DepartmentSnapshot(department),
	}

	if err := s.admit(ctx, models.MajorsCollection, major, invalid); err != nil {
		return nil, err
	}
	if err := s.majorRepo.Create(ctx, major); err != nil {
		return nil, err
	}

	err = s.snapshots.Attach(ctx, models.DepartmentsCollection, department.ID, "major_embedded", integrity.MajorSnapshot(major))
	if err != nil {
		return nil, err
	}
	return major, nil
}

// GetAllMajors retrieves all majors
func (s *majorServiceImpl) GetAllMajors(ctx context.Context) ([]*models.Major, error) {
	return s.majorRepo.GetAll(ctx)
}

// DeleteMajor deletes a major once no student has declared it
func (s *majorServiceImpl) DeleteMajor(ctx context.Context, name string) error {
	major, err := s.majorRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}

	if err := s.guard.Check(ctx, models.MajorsCollection, major.ID, major.MajorName); err != nil {
		return err
	}

	if err := s.majorRepo.Delete(ctx, major); err != nil {
		return err
	}

	// The major is gone at this point, so a failed detach only leaves a stale snapshot
	department := major.DepartmentEmbedded.Department
	if err := s.snapshots.Detach(ctx, models.DepartmentsCollection, department, "major_embedded", "major", major.ID); err != nil {
		logger.Warn().Err(err).
			Str("major", major.MajorName).
			Str("department", department.Hex()).
			Msg("Major deleted but its snapshot is still on the department")
	}
	return nil
}
