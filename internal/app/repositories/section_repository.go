package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// SectionKey is the natural key of a section within its course
type SectionKey struct {
	Course        primitive.ObjectID
	SectionNumber int
	Semester      models.Semester
	SectionYear   int
}

func (k SectionKey) filter() docstore.Filter {
	return docstore.Filter{
		"course_embedded.course": k.Course,
		"section_number":         k.SectionNumber,
		"semester":               string(k.Semester),
		"section_year":           k.SectionYear,
	}
}

func (k SectionKey) String() string {
	return fmt.Sprintf("section number %d in %s %d", k.SectionNumber, k.Semester, k.SectionYear)
}

// SectionRepository handles store operations for sections
type SectionRepository struct {
	store docstore.Store
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(store docstore.Store) *SectionRepository {
	return &SectionRepository{
		store: store,
	}
}

// Create inserts a new section
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if section.ID.IsZero() {
		section.ID = primitive.NewObjectID()
	}

	if err := insert(ctx, r.store, models.SectionsCollection, "Section", section); err != nil {
		return err
	}

	logger.Info().
		Int("courseNumber", section.CourseNumber).
		Int("sectionNumber", section.SectionNumber).
		Str("semester", string(section.Semester)).
		Int("sectionYear", section.SectionYear).
		Msg("Section created successfully")
	return nil
}

// GetAll retrieves all sections
func (r *SectionRepository) GetAll(ctx context.Context) ([]*models.Section, error) {
	var sections []*models.Section
	if err := findAll(ctx, r.store, models.SectionsCollection, "section", nil, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// GetByCourse retrieves the sections offered for a course
func (r *SectionRepository) GetByCourse(ctx context.Context, courseID primitive.ObjectID) ([]*models.Section, error) {
	var sections []*models.Section
	err := findAll(ctx, r.store, models.SectionsCollection, "section",
		docstore.Filter{"course_embedded.course": courseID}, &sections)
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// GetByKey retrieves a section by its natural key
func (r *SectionRepository) GetByKey(ctx context.Context, key SectionKey) (*models.Section, error) {
	var section models.Section
	if err := findOne(ctx, r.store, models.SectionsCollection, "Section", key.String(), key.filter(), &section); err != nil {
		return nil, err
	}
	return &section, nil
}

// Delete removes a section. Callers run the referential guard first.
func (r *SectionRepository) Delete(ctx context.Context, section *models.Section) error {
	key := SectionKey{
		Course:        section.CourseEmbedded.Course,
		SectionNumber: section.SectionNumber,
		Semester:      section.Semester,
		SectionYear:   section.SectionYear,
	}
	return deleteOne(ctx, r.store, models.SectionsCollection, "Section", key.String(), section.ID)
}
