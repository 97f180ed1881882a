package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/logger"
)

// CourseRepository handles store operations for courses
type CourseRepository struct {
	store docstore.Store
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(store docstore.Store) *CourseRepository {
	return &CourseRepository{
		store: store,
	}
}

// Create inserts a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID.IsZero() {
		course.ID = primitive.NewObjectID()
	}

	if err := insert(ctx, r.store, models.CoursesCollection, "Course", course); err != nil {
		return err
	}

	logger.Info().
		Str("abbreviation", course.Abbreviation).
		Int("courseNumber", course.CourseNumber).
		Msg("Course created successfully")
	return nil
}

// GetAll retrieves all courses
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	var courses []*models.Course
	if err := findAll(ctx, r.store, models.CoursesCollection, "course", nil, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// GetByNumber retrieves a course by department abbreviation and course number
func (r *CourseRepository) GetByNumber(ctx context.Context, abbreviation string, courseNumber int) (*models.Course, error) {
	var course models.Course
	err := findOne(ctx, r.store, models.CoursesCollection, "Course",
		fmt.Sprintf("abbreviation %s and course number %d", abbreviation, courseNumber),
		docstore.Filter{"abbreviation": abbreviation, "course_number": courseNumber}, &course)
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// Delete removes a course. Callers run the referential guard first.
func (r *CourseRepository) Delete(ctx context.Context, course *models.Course) error {
	return deleteOne(ctx, r.store, models.CoursesCollection, "Course",
		fmt.Sprintf("abbreviation %s and course number %d", course.Abbreviation, course.CourseNumber), course.ID)
}
