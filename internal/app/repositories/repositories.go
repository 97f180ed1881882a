package repositories

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/dberrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// Repositories holds all the repository instances
type Repositories struct {
	DepartmentRepository *DepartmentRepository
	CourseRepository     *CourseRepository
	SectionRepository    *SectionRepository
	MajorRepository      *MajorRepository
	StudentRepository    *StudentRepository
}

// NewRepositories initializes all repositories
func NewRepositories(store docstore.Store) *Repositories {
	return &Repositories{
		DepartmentRepository: NewDepartmentRepository(store),
		CourseRepository:     NewCourseRepository(store),
		SectionRepository:    NewSectionRepository(store),
		MajorRepository:      NewMajorRepository(store),
		StudentRepository:    NewStudentRepository(store),
	}
}

// insert writes doc and maps store-level rejections onto the application taxonomy
func insert(ctx context.Context, store docstore.Store, collection, entity string, doc interface{}) error {
	err := store.InsertOne(ctx, collection, doc)
	if err == nil {
		return nil
	}
	if translated, ok := translateWriteError(entity, err); ok {
		logger.Warn().Err(err).Str("collection", collection).Msg("Store rejected insert")
		return translated
	}
	logger.Error().Err(err).Str("collection", collection).Msg("Error inserting document")
	return fmt.Errorf("error creating %s: %w", entity, err)
}

// translateWriteError decodes duplicate-key and schema failures into
// UniquenessViolation and ValidationError. ok is false for any other error.
func translateWriteError(entity string, err error) (translated error, ok bool) {
	var (
		dupErr    *dberrors.DuplicateKeyError
		schemaErr *dberrors.SchemaError
	)

	switch {
	case errors.As(err, &dupErr):
		return apperrors.NewUniquenessViolation(dupErr.Collection, apperrors.Constraint{
			Name:   dupErr.Index,
			Fields: dupErr.Fields,
		}), true
	case errors.As(err, &schemaErr):
		fields := make([]apperrors.FieldError, 0, len(schemaErr.Violations))
		for _, v := range schemaErr.Violations {
			fields = append(fields, apperrors.FieldError{
				Field:   v.Field,
				Rule:    v.Operator,
				Message: v.Message(),
			})
		}
		return apperrors.NewValidationError(entity, fields...), true
	}
	return err, false
}

// findOne looks a document up by natural key; key is the description used in NotFound reports
func findOne(ctx context.Context, store docstore.Store, collection, entity, key string, filter docstore.Filter, out interface{}) error {
	err := store.FindOne(ctx, collection, filter, out)
	if errors.Is(err, docstore.ErrNoDocuments) {
		return apperrors.NewNotFoundError(entity, key)
	}
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Str("key", key).Msg("Error finding document")
		return fmt.Errorf("error retrieving %s: %w", entity, err)
	}
	return nil
}

// deleteOne removes a document by id; a document already gone is reported as NotFound
func deleteOne(ctx context.Context, store docstore.Store, collection, entity, key string, id primitive.ObjectID) error {
	err := store.DeleteOne(ctx, collection, id)
	if errors.Is(err, docstore.ErrNoDocuments) {
		return apperrors.NewNotFoundError(entity, key)
	}
	if err != nil {
		logger.Error().Err(err).Str("collection", collection).Str("key", key).Msg("Error deleting document")
		return fmt.Errorf("error deleting %s: %w", entity, err)
	}
	logger.Info().Str("collection", collection).Str("key", key).Msg("Document deleted")
	return nil
}

// findAll decodes every document of collection into out
func findAll(ctx context.Context, store docstore.Store, collection, entity string, filter docstore.Filter, out interface{}) error {
	if err := store.Find(ctx, collection, filter, out); err != nil {
		logger.Error().Err(err).Str("collection", collection).Msg("Error listing documents")
		return fmt.Errorf("error retrieving %s list: %w", entity, err)
	}
	return nil
}
