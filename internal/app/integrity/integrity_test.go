package integrity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/docstore/memstore"
)

func newStore(t *testing.T) *memstore.Store {
	t.Helper()
	store := memstore.New()
	for _, spec := range models.Collections() {
		require.NoError(t, store.EnsureCollection(context.Background(), spec))
	}
	return store
}

func csDepartment() *models.Department {
	return &models.Department{
		ID:             primitive.NewObjectID(),
		DepartmentName: "Computer Science",
		Abbreviation:   "CS",
		ChairName:      "A. Lovelace",
		Building:       models.BuildingEN2,
		Office:         101,
		MajorEmbedded:  []models.MajorEmbedded{},
		CourseEmbedded: []models.CourseEmbedded{},
	}
}

func dataStructures(dept *models.Department) *models.Course {
	return &models.Course{
		ID:                 primitive.NewObjectID(),
		CourseName:         "Data Structures",
		CourseNumber:       201,
		Units:              4,
		Abbreviation:       "CS",
		DepartmentEmbedded: DepartmentSnapshot(dept),
	}
}

func TestCheckReportsFullyMatchingKey(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	checker := NewUniquenessChecker(store)

	dept := csDepartment()
	course := dataStructures(dept)
	require.NoError(t, store.InsertOne(ctx, models.CoursesCollection, course))

	dup := dataStructures(dept)
	dup.CourseName = "Algorithms"
	names, err := checker.Check(ctx, models.CoursesCollection, dup)
	require.NoError(t, err)
	assert.Equal(t, []string{"course_uk_01"}, names)

	dup.CourseName = "Data Structures"
	names, err = checker.Check(ctx, models.CoursesCollection, dup)
	require.NoError(t, err)
	assert.Equal(t, []string{"course_uk_01", "course_uk_02"}, names)
}

func TestCheckWithNoOverlapReportsNothing(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	checker := NewUniquenessChecker(store)

	require.NoError(t, store.InsertOne(ctx, models.DepartmentsCollection, csDepartment()))

	other := &models.Department{
		ID:             primitive.NewObjectID(),
		DepartmentName: "Mathematics",
		Abbreviation:   "MATH",
		ChairName:      "E. Noether",
		Building:       models.BuildingECS,
		Office:         12,
	}
	names, err := checker.Check(ctx, models.DepartmentsCollection, other)
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.NoError(t, checker.Enforce(ctx, models.DepartmentsCollection, other))
}

func TestEnforceReportsConstraintFields(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	checker := NewUniquenessChecker(store)

	dept := csDepartment()
	require.NoError(t, store.InsertOne(ctx, models.DepartmentsCollection, dept))

	clash := csDepartment()
	clash.DepartmentName = "Computing"
	clash.ChairName = "C. Babbage"
	clash.Office = 202

	err := checker.Enforce(ctx, models.DepartmentsCollection, clash)
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{"department_uk_01"}, uv.Names())
	assert.Equal(t, []string{"abbreviation"}, uv.Constraints[0].Fields)
}

func TestCheckTreatsEmptyKeyAsViolated(t *testing.T) {
	store := newStore(t)
	checker := NewUniquenessChecker(store)

	names, err := checker.Check(context.Background(), models.StudentsCollection, map[string]interface{}{"last_name": "Hopper"})
	require.NoError(t, err)
	assert.Equal(t, []string{"student_uk_02"}, names)
}

func TestCheckEmbedded(t *testing.T) {
	section := primitive.NewObjectID()
	existing := []models.Enrollment{{
		Section:      section,
		Abbreviation: "CS",
		CourseNumber: 201,
		Semester:     models.SemesterFall,
		SectionYear:  2024,
		Outcome:      &models.LetterGrade{SectionNumber: 1, MinSatisfactory: models.MinSatisfactoryC},
	}}

	sameCourse := models.Enrollment{
		Section:      primitive.NewObjectID(),
		Abbreviation: "CS",
		CourseNumber: 201,
		Semester:     models.SemesterFall,
		SectionYear:  2024,
		Outcome:      &models.PassFail{SectionNumber: 2},
	}
	names, err := CheckEmbedded(existing, sameCourse, models.EnrollmentKeys)
	require.NoError(t, err)
	assert.Equal(t, []string{models.EnrollmentUK02}, names)

	sameCourse.Section = section
	names, err = CheckEmbedded(existing, sameCourse, models.EnrollmentKeys)
	require.NoError(t, err)
	assert.Equal(t, []string{models.EnrollmentUK01, models.EnrollmentUK02}, names)

	sameCourse.Section = primitive.NewObjectID()
	sameCourse.SectionYear = 2025
	names, err = CheckEmbedded(existing, sameCourse, models.EnrollmentKeys)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestGuardBlocksWhileDependentExists(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	guard := NewReferentialGuard(store)

	dept := csDepartment()
	require.NoError(t, store.InsertOne(ctx, models.DepartmentsCollection, dept))
	require.NoError(t, guard.Check(ctx, models.DepartmentsCollection, dept.ID, "CS"))

	course := dataStructures(dept)
	require.NoError(t, store.InsertOne(ctx, models.CoursesCollection, course))

	err := guard.Check(ctx, models.DepartmentsCollection, dept.ID, "CS")
	var ref *apperrors.ReferentialIntegrityViolation
	require.True(t, errors.As(err, &ref))
	assert.Equal(t, models.CoursesCollection, ref.Dependent)
	assert.Equal(t, "CS", ref.Key)

	n, err := store.Count(ctx, models.DepartmentsCollection, docstore.Filter{"abbreviation": "CS"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestGuardBlocksStudentWithOwnEntries(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	guard := NewReferentialGuard(store)

	student := &models.Student{
		ID:            primitive.NewObjectID(),
		LastName:      "Hopper",
		FirstName:     "Grace",
		EMail:         "grace@example.edu",
		StudentMajors: []models.StudentMajor{},
		Enrollments:   []models.Enrollment{},
	}
	require.NoError(t, store.InsertOne(ctx, models.StudentsCollection, student))
	require.NoError(t, guard.Check(ctx, models.StudentsCollection, student.ID, "Hopper, Grace"))

	require.NoError(t, store.Push(ctx, models.StudentsCollection, student.ID, "enrollments", models.Enrollment{
		Student: student.ID,
		Section: primitive.NewObjectID(),
		Outcome: &models.PassFail{SectionNumber: 1},
	}))

	err := guard.Check(ctx, models.StudentsCollection, student.ID, "Hopper, Grace")
	assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))
}

func TestAttachAndDetachSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	snapshots := NewSnapshots(store)

	dept := csDepartment()
	require.NoError(t, store.InsertOne(ctx, models.DepartmentsCollection, dept))

	course := dataStructures(dept)
	require.NoError(t, snapshots.Attach(ctx, models.DepartmentsCollection, dept.ID, "course_embedded", CourseSnapshot(course)))

	var stored models.Department
	require.NoError(t, store.FindOne(ctx, models.DepartmentsCollection, docstore.Filter{docstore.IDField: dept.ID}, &stored))
	require.Len(t, stored.CourseEmbedded, 1)
	assert.Equal(t, models.CourseEmbedded{Course: course.ID, CourseNumber: 201, CourseName: "Data Structures"}, stored.CourseEmbedded[0])

	require.NoError(t, snapshots.Detach(ctx, models.DepartmentsCollection, dept.ID, "course_embedded", "course", course.ID))
	require.NoError(t, store.FindOne(ctx, models.DepartmentsCollection, docstore.Filter{docstore.IDField: dept.ID}, &stored))
	assert.Empty(t, stored.CourseEmbedded)
}
