package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// MajorRepository handles store operations for majors
type MajorRepository struct {
	store docstore.Store
}

// NewMajorRepository creates a new major repository
func NewMajorRepository(store docstore.Store) *MajorRepository {
	return &MajorRepository{
		store: store,
	}
}

// Create inserts a new major
func (r *MajorRepository) Create(ctx context.Context, major *models.Major) error {
	if major.ID.IsZero() {
		major.ID = primitive.NewObjectID()
	}

	if err := insert(ctx, r.store, models.MajorsCollection, "Major", major); err != nil {
		return err
	}

	logger.Info().Str("majorName", major.MajorName).Msg("Major created successfully")
	return nil
}

// GetAll retrieves all majors
func (r *MajorRepository) GetAll(ctx context.Context) ([]*models.Major, error) {
	var majors []*models.Major
	if err := findAll(ctx, r.store, models.MajorsCollection, "major", nil, &majors); err != nil {
		return nil, err
	}
	return majors, nil
}

// GetByName retrieves a major by name
func (r *MajorRepository) GetByName(ctx context.Context, name string) (*models.Major, error) {
	var major models.Major
	err := findOne(ctx, r.store, models.MajorsCollection, "Major",
		fmt.Sprintf("name %s", name),
		docstore.Filter{"major_name": name}, &major)
	if err != nil {
		return nil, err
	}
	return &major, nil
}

// Delete removes a major. Callers run the referential guard first.
func (r *MajorRepository) Delete(ctx context.Context, major *models.Major) error {
	return deleteOne(ctx, r.store, models.MajorsCollection, "Major", fmt.Sprintf("name %s", major.MajorName), major.ID)
}
