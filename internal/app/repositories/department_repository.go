package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// DepartmentRepository handles store operations for departments
type DepartmentRepository struct {
	store docstore.Store
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(store docstore.Store) *DepartmentRepository {
	return &DepartmentRepository{
		store: store,
	}
}

// Create inserts a new department, assigning its ID when unset
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	if department.ID.IsZero() {
		department.ID = primitive.NewObjectID()
	}
	// Snapshot lists must exist as arrays for later pushes
	if department.MajorEmbedded == nil {
		department.MajorEmbedded = []models.MajorEmbedded{}
	}
	if department.CourseEmbedded == nil {
		department.CourseEmbedded = []models.CourseEmbedded{}
	}

	if err := insert(ctx, r.store, models.DepartmentsCollection, "Department", department); err != nil {
		return err
	}

	logger.Info().Str("abbreviation", department.Abbreviation).Msg("Department created successfully")
	return nil
}

// GetAll retrieves all departments
func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*models.Department, error) {
	var departments []*models.Department
	if err := findAll(ctx, r.store, models.DepartmentsCollection, "department", nil, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// GetByAbbreviation retrieves a department by its abbreviation
func (r *DepartmentRepository) GetByAbbreviation(ctx context.Context, abbreviation string) (*models.Department, error) {
	var department models.Department
	err := findOne(ctx, r.store, models.DepartmentsCollection, "Department",
		fmt.Sprintf("abbreviation %s", abbreviation),
		docstore.Filter{"abbreviation": abbreviation}, &department)
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// GetByID retrieves a department through a snapshot back-reference
func (r *DepartmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Department, error) {
	var department models.Department
	err := findOne(ctx, r.store, models.DepartmentsCollection, "Department",
		fmt.Sprintf("id %s", id.Hex()),
		docstore.Filter{docstore.IDField: id}, &department)
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// Delete removes a department. Callers run the referential guard first.
func (r *DepartmentRepository) Delete(ctx context.Context, department *models.Department) error {
	return deleteOne(ctx, r.store, models.DepartmentsCollection, "Department",
		fmt.Sprintf("abbreviation %s", department.Abbreviation), department.ID)
}
