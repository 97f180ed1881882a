package integrity

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
)

// Rule names one kind of document that keeps a target alive
type Rule struct {
	Entity       string // display name of the target
	Dependent    string // collection searched for dependents
	Relationship string
	// Filter selects the dependents of the target document
	Filter func(target primitive.ObjectID) docstore.Filter
}

func refersTo(path string) func(primitive.ObjectID) docstore.Filter {
	return func(target primitive.ObjectID) docstore.Filter {
		return docstore.Filter{path: target}
	}
}

// ownEntries matches the target document itself when one of its embedded lists
// holds an entry owned by it
func ownEntries(path string) func(primitive.ObjectID) docstore.Filter {
	return func(target primitive.ObjectID) docstore.Filter {
		return docstore.Filter{docstore.IDField: target, path: target}
	}
}

// DefaultRules lists the dependents of every collection, keyed by the collection of the target
func DefaultRules() map[string][]Rule {
	return map[string][]Rule{
		models.DepartmentsCollection: {
			{
				Entity:       "Department",
				Dependent:    models.CoursesCollection,
				Relationship: "courses are found in this department",
				Filter:       refersTo("department_embedded.department"),
			},
			{
				Entity:       "Department",
				Dependent:    models.MajorsCollection,
				Relationship: "majors are offered by this department",
				Filter:       refersTo("department_embedded.department"),
			},
		},
		models.CoursesCollection: {
			{
				Entity:       "Course",
				Dependent:    models.SectionsCollection,
				Relationship: "sections are found in this course",
				Filter:       refersTo("course_embedded.course"),
			},
		},
		models.SectionsCollection: {
			{
				Entity:       "Section",
				Dependent:    models.StudentsCollection,
				Relationship: "a student is enrolled in this section",
				Filter:       refersTo("enrollments.section"),
			},
		},
		models.MajorsCollection: {
			{
				Entity:       "Major",
				Dependent:    models.StudentsCollection,
				Relationship: "a student is declared in this major",
				Filter:       refersTo("student_majors.major_embedded.major"),
			},
		},
		models.StudentsCollection: {
			{
				Entity:       "Student",
				Dependent:    models.StudentsCollection,
				Relationship: "the student is enrolled in sections",
				Filter:       ownEntries("enrollments.student"),
			},
			{
				Entity:       "Student",
				Dependent:    models.StudentsCollection,
				Relationship: "the student is declared in a major",
				Filter:       ownEntries("student_majors.student"),
			},
		},
	}
}

// ReferentialGuard refuses deletes that would leave dependents pointing at nothing
type ReferentialGuard struct {
	store docstore.Store
	rules map[string][]Rule
}

// NewReferentialGuard creates a guard over store using DefaultRules
func NewReferentialGuard(store docstore.Store) *ReferentialGuard {
	return &ReferentialGuard{store: store, rules: DefaultRules()}
}

// Check returns a *apperrors.ReferentialIntegrityViolation for the first rule
// with a live dependent of target. key is the natural key shown to the operator.
func (g *ReferentialGuard) Check(ctx context.Context, collection string, target primitive.ObjectID, key string) error {
	for _, rule := range g.rules[collection] {
		n, err := g.store.Count(ctx, rule.Dependent, rule.Filter(target))
		if err != nil {
			return fmt.Errorf("count dependents in %s: %w", rule.Dependent, err)
		}
		if n > 0 {
			return &apperrors.ReferentialIntegrityViolation{
				Entity:       rule.Entity,
				Key:          key,
				Dependent:    rule.Dependent,
				Relationship: rule.Relationship,
			}
		}
	}
	return nil
}
