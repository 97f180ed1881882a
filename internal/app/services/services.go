// Package services implements the registrar operations. Every add resolves
// its parents, runs the uniqueness pre-flight, checks the remaining field rules
// and then inserts. Every delete resolves the target, runs the referential
// guard and then deletes.
package services

import (
	"context"
	"errors"

	"github.com/yigit/registrar/internal/app/integrity"
	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/validation"
)

func init() {
	validation.SetEnums(func(name string) []string {
		return models.EnumValues[name]
	})
}

// Services holds every service of the registrar
type Services struct {
	DepartmentService DepartmentService
	CourseService     CourseService
	SectionService    SectionService
	MajorService      MajorService
	StudentService    StudentService
}

// consistency bundles the integrity collaborators shared by the services
type consistency struct {
	unique    *integrity.UniquenessChecker
	guard     *integrity.ReferentialGuard
	snapshots *integrity.Snapshots
}

// NewServices wires the services over repos and the store they share
func NewServices(store docstore.Store, repos *repositories.Repositories) *Services {
	c := consistency{
		unique:    integrity.NewUniquenessChecker(store),
		guard:     integrity.NewReferentialGuard(store),
		snapshots: integrity.NewSnapshots(store),
	}

	return &Services{
		DepartmentService: NewDepartmentService(repos.DepartmentRepository, c),
		CourseService:     NewCourseService(repos.CourseRepository, repos.DepartmentRepository, c),
		SectionService:    NewSectionService(repos.SectionRepository, repos.CourseRepository, c),
		MajorService:      NewMajorService(repos.MajorRepository, repos.DepartmentRepository, c),
		StudentService: NewStudentService(
			repos.StudentRepository,
			repos.MajorRepository,
			repos.CourseRepository,
			repos.SectionRepository,
			c,
		),
	}
}

// admit runs the uniqueness pre-flight for candidate and then reports invalid,
// the field failures of the request. Keys built from a failing field are not
// reported, so a collision on a well-formed key wins over unrelated field errors.
func (c consistency) admit(ctx context.Context, collection string, candidate interface{}, invalid error) error {
	return screen(c.unique.Enforce(ctx, collection, candidate), invalid)
}

// screen combines the result of a uniqueness check with the field failures
func screen(violation, invalid error) error {
	var uv *apperrors.UniquenessViolation
	if !errors.As(violation, &uv) {
		if violation != nil {
			return violation
		}
		return invalid
	}

	bad := failedFields(invalid)
	kept := make([]apperrors.Constraint, 0, len(uv.Constraints))
	for _, constraint := range uv.Constraints {
		if !anyField(bad, constraint.Fields...) {
			kept = append(kept, constraint)
		}
	}
	if len(kept) == 0 {
		return invalid
	}
	return apperrors.NewUniquenessViolation(uv.Collection, kept...)
}

// failedOn reports whether invalid names one of fields. Parents are only
// looked up by fields that passed.
func failedOn(invalid error, fields ...string) bool {
	return anyField(failedFields(invalid), fields...)
}

// withFields adds the failures of extra to invalid
func withFields(invalid, extra error) error {
	var more *apperrors.ValidationError
	if extra == nil || !errors.As(extra, &more) {
		return invalid
	}
	var verr *apperrors.ValidationError
	if invalid == nil || !errors.As(invalid, &verr) {
		return extra
	}
	fields := append(append([]apperrors.FieldError{}, verr.Fields...), more.Fields...)
	return apperrors.NewValidationError(verr.Entity, fields...)
}

func failedFields(invalid error) map[string]bool {
	bad := map[string]bool{}
	var verr *apperrors.ValidationError
	if errors.As(invalid, &verr) {
		for _, f := range verr.Fields {
			bad[f.Field] = true
		}
	}
	return bad
}

func anyField(bad map[string]bool, fields ...string) bool {
	for _, f := range fields {
		if bad[f] {
			return true
		}
	}
	return false
}
