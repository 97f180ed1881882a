package services

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/validation"
)

// DepartmentService defines the interface for department operations
type DepartmentService interface {
	CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error)
	GetAllDepartments(ctx context.Context) ([]*models.Department, error)
	DeleteDepartment(ctx context.Context, abbreviation string) error
}

// departmentServiceImpl implements DepartmentService
type departmentServiceImpl struct {
	departmentRepo *repositories.DepartmentRepository
	consistency
}

// NewDepartmentService creates a new department service
func NewDepartmentService(departmentRepo *repositories.DepartmentRepository, c consistency) DepartmentService {
	return &departmentServiceImpl{
		departmentRepo: departmentRepo,
		consistency:    c,
	}
}

// CreateDepartment creates a new department
func (s *departmentServiceImpl) CreateDepartment(ctx context.Context, req *dto.CreateDepartmentRequest) (*models.Department, error) {
	invalid := validation.Struct("Department", req)

	department := &models.Department{
		DepartmentName: req.DepartmentName,
		Abbreviation:   req.Abbreviation,
		ChairName:      req.ChairName,
		Building:       models.Building(req.Building),
		Office:         req.Office,
		Description:    req.Description,
	}

	if err := s.admit(ctx, models.DepartmentsCollection, department, invalid); err != nil {
		return nil, err
	}
	if err := s.departmentRepo.Create(ctx, department); err != nil {
		return nil, err
	}
	return department, nil
}

// GetAllDepartments retrieves all departments
func (s *departmentServiceImpl) GetAllDepartments(ctx context.Context) ([]*models.Department, error) {
	return s.departmentRepo.GetAll(ctx)
}

// DeleteDepartment deletes a department once no course or major refers to it
func (s *departmentServiceImpl) DeleteDepartment(ctx context.Context, abbreviation string) error {
	department, err := s.departmentRepo.GetByAbbreviation(ctx, abbreviation)
	if err != nil {
		return err
	}

	if err := s.guard.Check(ctx, models.DepartmentsCollection, department.ID, department.Abbreviation); err != nil {
		return err
	}

	if err := s.departmentRepo.Delete(ctx, department); err != nil {
		return fmt.Errorf("delete department %s: %w", abbreviation, err)
	}
	return nil
}
