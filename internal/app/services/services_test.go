package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/repositories"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/docstore"
	"github.com/yigit/registrar/internal/pkg/docstore/memstore"
)

type fixture struct {
	ctx   context.Context
	store *memstore.Store
	repos *repositories.Repositories
	svc   *Services
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memstore.New()
	for _, spec := range models.Collections() {
		require.NoError(t, store.EnsureCollection(ctx, spec))
	}
	repos := repositories.NewRepositories(store)
	return &fixture{ctx: ctx, store: store, repos: repos, svc: NewServices(store, repos)}
}

func (f *fixture) department(t *testing.T) *models.Department {
	t.Helper()
	dept, err := f.svc.DepartmentService.CreateDepartment(f.ctx, &dto.CreateDepartmentRequest{
		DepartmentName: "Computer Science",
		Abbreviation:   "CS",
		ChairName:      "A. Lovelace",
		Building:       "EN2",
		Office:         101,
	})
	require.NoError(t, err)
	return dept
}

func (f *fixture) course(t *testing.T) *models.Course {
	t.Helper()
	course, err := f.svc.CourseService.CreateCourse(f.ctx, &dto.CreateCourseRequest{
		Abbreviation: "CS",
		CourseName:   "Data Structures",
		CourseNumber: 201,
		Units:        4,
	})
	require.NoError(t, err)
	return course
}

func sectionKey() dto.SectionKey {
	return dto.SectionKey{
		CourseKey:     dto.CourseKey{Abbreviation: "CS", CourseNumber: 201},
		SectionNumber: 1,
		Semester:      "Fall",
		SectionYear:   2024,
	}
}

func (f *fixture) section(t *testing.T) *models.Section {
	t.Helper()
	section, err := f.svc.SectionService.CreateSection(f.ctx, &dto.CreateSectionRequest{
		SectionKey: sectionKey(),
		Building:   "ECS",
		Room:       308,
		Schedule:   "MW",
		StartTime:  "09:30",
		Instructor: "B. Liskov",
	})
	require.NoError(t, err)
	return section
}

func (f *fixture) student(t *testing.T) *models.Student {
	t.Helper()
	student, err := f.svc.StudentService.CreateStudent(f.ctx, &dto.CreateStudentRequest{
		LastName:  "Hopper",
		FirstName: "Grace",
		EMail:     "grace@example.edu",
	})
	require.NoError(t, err)
	return student
}

var grace = dto.StudentName{LastName: "Hopper", FirstName: "Grace"}

func TestCreateCourseAttachesSnapshot(t *testing.T) {
	f := newFixture(t)
	dept := f.department(t)
	course := f.course(t)

	assert.Equal(t, dept.ID, course.DepartmentEmbedded.Department)
	assert.Equal(t, "Computer Science", course.DepartmentEmbedded.DepartmentName)

	stored, err := f.repos.DepartmentRepository.GetByAbbreviation(f.ctx, "CS")
	require.NoError(t, err)
	require.Len(t, stored.CourseEmbedded, 1)
	assert.Equal(t, course.ID, stored.CourseEmbedded[0].Course)
	assert.Equal(t, "Data Structures", stored.CourseEmbedded[0].CourseName)
	assert.Equal(t, 201, stored.CourseEmbedded[0].CourseNumber)
}

func TestDuplicateCourseIsRejected(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)

	_, err := f.svc.CourseService.CreateCourse(f.ctx, &dto.CreateCourseRequest{
		Abbreviation: "CS",
		CourseName:   "Data Structures",
		CourseNumber: 201,
		Units:        4,
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.True(t, uv.Has("course_uk_01"))

	courses, err := f.svc.CourseService.GetAllCourses(f.ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)

	dept, err := f.repos.DepartmentRepository.GetByAbbreviation(f.ctx, "CS")
	require.NoError(t, err)
	assert.Len(t, dept.CourseEmbedded, 1)
}

func TestDuplicateCourseWithOnlyItsKey(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)

	_, err := f.svc.CourseService.CreateCourse(f.ctx, &dto.CreateCourseRequest{
		Abbreviation: "CS",
		CourseNumber: 201,
		CourseName:   "Data Structures",
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.True(t, uv.Has("course_uk_01"))
	assert.False(t, errors.Is(err, apperrors.ErrValidationFailed))
}

func TestCourseFieldRulesCheckedAfterKeys(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)

	_, err := f.svc.CourseService.CreateCourse(f.ctx, &dto.CreateCourseRequest{
		Abbreviation: "CS",
		CourseNumber: 301,
		CourseName:   "Algorithms",
	})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "units", verr.Fields[0].Field)

	courses, err := f.svc.CourseService.GetAllCourses(f.ctx)
	require.NoError(t, err)
	assert.Len(t, courses, 1)
}

func TestDuplicateCourseName(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)

	_, err := f.svc.CourseService.CreateCourse(f.ctx, &dto.CreateCourseRequest{
		Abbreviation: "CS",
		CourseName:   "Data Structures",
		CourseNumber: 202,
		Units:        3,
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{"course_uk_02"}, uv.Names())
}

func TestKeysOnFailingFieldsAreNotReported(t *testing.T) {
	f := newFixture(t)
	f.student(t)

	// A record written before e-mail addresses were checked
	require.NoError(t, f.repos.StudentRepository.Create(f.ctx, &models.Student{
		LastName:  "Babbage",
		FirstName: "Charles",
		EMail:     "charles",
	}))

	// The e-mail collides but is malformed, the name is free
	_, err := f.svc.StudentService.CreateStudent(f.ctx, &dto.CreateStudentRequest{
		LastName:  "Lovelace",
		FirstName: "Ada",
		EMail:     "charles",
	})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "e_mail", verr.Fields[0].Field)

	// The name collides and is well formed
	_, err = f.svc.StudentService.CreateStudent(f.ctx, &dto.CreateStudentRequest{
		LastName:  "Hopper",
		FirstName: "Grace",
		EMail:     "not an address",
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{"student_uk_01"}, uv.Names())
}

func TestCourseUnderMissingDepartment(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CourseService.CreateCourse(f.ctx, &dto.CreateCourseRequest{
		Abbreviation: "MATH",
		CourseName:   "Calculus",
		CourseNumber: 122,
		Units:        4,
	})
	var nf *apperrors.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "abbreviation MATH", nf.Key)
}

func TestCreateDepartmentValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.DepartmentService.CreateDepartment(f.ctx, &dto.CreateDepartmentRequest{
		DepartmentName: "Computer Science",
		Abbreviation:   "COMPSCI",
		ChairName:      "AL",
		Building:       "LIB",
		Office:         101,
	})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))

	fields := map[string]bool{}
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	assert.Equal(t, map[string]bool{"abbreviation": true, "chair_name": true, "building": true}, fields)
}

func TestDeleteDepartmentGuardedUntilDependentsGone(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)
	f.section(t)

	err := f.svc.DepartmentService.DeleteDepartment(f.ctx, "CS")
	var ref *apperrors.ReferentialIntegrityViolation
	require.True(t, errors.As(err, &ref))
	assert.Equal(t, models.CoursesCollection, ref.Dependent)

	err = f.svc.CourseService.DeleteCourse(f.ctx, dto.CourseKey{Abbreviation: "CS", CourseNumber: 201})
	assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))

	require.NoError(t, f.svc.SectionService.DeleteSection(f.ctx, sectionKey()))
	require.NoError(t, f.svc.CourseService.DeleteCourse(f.ctx, dto.CourseKey{Abbreviation: "CS", CourseNumber: 201}))

	dept, err := f.repos.DepartmentRepository.GetByAbbreviation(f.ctx, "CS")
	require.NoError(t, err)
	assert.Empty(t, dept.CourseEmbedded)

	require.NoError(t, f.svc.DepartmentService.DeleteDepartment(f.ctx, "CS"))
	_, err = f.repos.DepartmentRepository.GetByAbbreviation(f.ctx, "CS")
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))
}

func TestDeleteDepartmentBlockedByMajor(t *testing.T) {
	f := newFixture(t)
	f.department(t)

	_, err := f.svc.MajorService.CreateMajor(f.ctx, &dto.CreateMajorRequest{
		Abbreviation: "CS",
		MajorName:    "Computer Science",
		Description:  "Bachelor of Science in Computer Science",
	})
	require.NoError(t, err)

	err = f.svc.DepartmentService.DeleteDepartment(f.ctx, "CS")
	var ref *apperrors.ReferentialIntegrityViolation
	require.True(t, errors.As(err, &ref))
	assert.Equal(t, models.MajorsCollection, ref.Dependent)

	require.NoError(t, f.svc.MajorService.DeleteMajor(f.ctx, "Computer Science"))
	require.NoError(t, f.svc.DepartmentService.DeleteDepartment(f.ctx, "CS"))
}

func TestSectionStartTimeWindow(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)

	for _, start := range []string{"07:59", "19:31", "23:00"} {
		_, err := f.svc.SectionService.CreateSection(f.ctx, &dto.CreateSectionRequest{
			SectionKey: sectionKey(),
			Building:   "ECS",
			Room:       308,
			Schedule:   "MW",
			StartTime:  start,
			Instructor: "B. Liskov",
		})
		var verr *apperrors.ValidationError
		require.True(t, errors.As(err, &verr), start)
		assert.Equal(t, "start_time", verr.Fields[0].Field)
	}
}

func TestSectionDoubleBookingRejected(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)
	f.section(t)

	key := sectionKey()
	key.SectionNumber = 2
	_, err := f.svc.SectionService.CreateSection(f.ctx, &dto.CreateSectionRequest{
		SectionKey: key,
		Building:   "ECS",
		Room:       308,
		Schedule:   "MW",
		StartTime:  "09:30",
		Instructor: "D. Knuth",
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{"section_uk_02"}, uv.Names())

	sections, err := f.svc.SectionService.GetSectionsByCourse(f.ctx, dto.CourseKey{Abbreviation: "CS", CourseNumber: 201})
	require.NoError(t, err)
	assert.Len(t, sections, 1)
}

func TestSectionInstructorDoubleBookingRejected(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)
	f.section(t)

	key := sectionKey()
	key.SectionNumber = 2
	_, err := f.svc.SectionService.CreateSection(f.ctx, &dto.CreateSectionRequest{
		SectionKey: key,
		Building:   "VEC",
		Room:       115,
		Schedule:   "MW",
		StartTime:  "09:30",
		Instructor: "B. Liskov",
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{"section_uk_03"}, uv.Names())

	// Another slot frees the instructor
	_, err = f.svc.SectionService.CreateSection(f.ctx, &dto.CreateSectionRequest{
		SectionKey: key,
		Building:   "VEC",
		Room:       115,
		Schedule:   "TuTh",
		StartTime:  "09:30",
		Instructor: "B. Liskov",
	})
	require.NoError(t, err)
}

func TestEnrollPassFail(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)
	section := f.section(t)
	f.student(t)

	enrollment, err := f.svc.StudentService.Enroll(f.ctx, &dto.EnrollRequest{
		StudentName:     grace,
		SectionKey:      sectionKey(),
		Mode:            models.OutcomePassFail,
		ApplicationDate: "09-01-2024",
	})
	require.NoError(t, err)
	require.NotNil(t, enrollment.PassFail())
	assert.Nil(t, enrollment.LetterGrade())

	enrollments, err := f.svc.StudentService.GetEnrollments(f.ctx, grace)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, section.ID, enrollments[0].Section)
	require.NotNil(t, enrollments[0].PassFail())
	assert.Nil(t, enrollments[0].LetterGrade())
	assert.Equal(t, 1, enrollments[0].PassFail().SectionNumber)

	_, err = f.svc.StudentService.Enroll(f.ctx, &dto.EnrollRequest{
		StudentName:     grace,
		SectionKey:      sectionKey(),
		Mode:            models.OutcomeLetterGrade,
		MinSatisfactory: "C",
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{models.EnrollmentUK01, models.EnrollmentUK02}, uv.Names())
}

func TestEnrollRequiresOutcomeDetails(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)
	f.section(t)
	f.student(t)

	_, err := f.svc.StudentService.Enroll(f.ctx, &dto.EnrollRequest{
		StudentName: grace,
		SectionKey:  sectionKey(),
		Mode:        models.OutcomeLetterGrade,
	})
	var verr *apperrors.ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 1)
	assert.Equal(t, "min_satisfactory", verr.Fields[0].Field)

	enrollments, err := f.svc.StudentService.GetEnrollments(f.ctx, grace)
	require.NoError(t, err)
	assert.Empty(t, enrollments)
}

func TestDuplicateEnrollmentReportedBeforeOutcomeDetails(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)
	f.section(t)
	f.student(t)

	_, err := f.svc.StudentService.Enroll(f.ctx, &dto.EnrollRequest{
		StudentName:     grace,
		SectionKey:      sectionKey(),
		Mode:            models.OutcomeLetterGrade,
		MinSatisfactory: "A",
	})
	require.NoError(t, err)

	_, err = f.svc.StudentService.Enroll(f.ctx, &dto.EnrollRequest{
		StudentName:     grace,
		SectionKey:      sectionKey(),
		Mode:            models.OutcomePassFail,
		ApplicationDate: "2024-09-01",
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{models.EnrollmentUK01, models.EnrollmentUK02}, uv.Names())
}

func TestSectionAndStudentDeleteGuards(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)
	f.section(t)
	f.student(t)

	_, err := f.svc.StudentService.Enroll(f.ctx, &dto.EnrollRequest{
		StudentName:     grace,
		SectionKey:      sectionKey(),
		Mode:            models.OutcomeLetterGrade,
		MinSatisfactory: "B",
	})
	require.NoError(t, err)

	err = f.svc.SectionService.DeleteSection(f.ctx, sectionKey())
	assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))

	err = f.svc.StudentService.DeleteStudent(f.ctx, grace)
	assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))

	require.NoError(t, f.svc.StudentService.Unenroll(f.ctx, &dto.UnenrollRequest{StudentName: grace, SectionKey: sectionKey()}))
	err = f.svc.StudentService.Unenroll(f.ctx, &dto.UnenrollRequest{StudentName: grace, SectionKey: sectionKey()})
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	require.NoError(t, f.svc.SectionService.DeleteSection(f.ctx, sectionKey()))
	require.NoError(t, f.svc.StudentService.DeleteStudent(f.ctx, grace))
}

func TestDeclareMajor(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	major, err := f.svc.MajorService.CreateMajor(f.ctx, &dto.CreateMajorRequest{
		Abbreviation: "CS",
		MajorName:    "Computer Science",
		Description:  "Bachelor of Science in Computer Science",
	})
	require.NoError(t, err)
	f.student(t)

	req := &dto.DeclareMajorRequest{StudentName: grace, MajorName: "Computer Science", DeclarationDate: "08-15-2024"}
	declaration, err := f.svc.StudentService.DeclareMajor(f.ctx, req)
	require.NoError(t, err)
	require.Len(t, declaration.MajorEmbedded, 1)
	assert.Equal(t, major.ID, declaration.MajorEmbedded[0].Major)

	_, err = f.svc.StudentService.DeclareMajor(f.ctx, req)
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{models.StudentMajorUK01}, uv.Names())

	err = f.svc.MajorService.DeleteMajor(f.ctx, "Computer Science")
	assert.True(t, errors.Is(err, apperrors.ErrReferentialIntegrity))

	majors, err := f.svc.StudentService.GetStudentMajors(f.ctx, grace)
	require.NoError(t, err)
	require.Len(t, majors, 1)
	assert.Equal(t, "08-15-2024", majors[0].DeclarationDate.Format("01-02-2006"))

	require.NoError(t, f.svc.StudentService.RemoveMajor(f.ctx, &dto.RemoveMajorRequest{StudentName: grace, MajorName: "Computer Science"}))
	require.NoError(t, f.svc.MajorService.DeleteMajor(f.ctx, "Computer Science"))

	dept, err := f.repos.DepartmentRepository.GetByAbbreviation(f.ctx, "CS")
	require.NoError(t, err)
	assert.Empty(t, dept.MajorEmbedded)
}

func TestDuplicateStudentEmail(t *testing.T) {
	f := newFixture(t)
	f.student(t)

	_, err := f.svc.StudentService.CreateStudent(f.ctx, &dto.CreateStudentRequest{
		LastName:  "Hopper",
		FirstName: "G.",
		EMail:     "grace@example.edu",
	})
	var uv *apperrors.UniquenessViolation
	require.True(t, errors.As(err, &uv))
	assert.Equal(t, []string{"student_uk_02"}, uv.Names())
}

// detachFailingStore loses every pull, so snapshots cannot be detached
type detachFailingStore struct {
	*memstore.Store
}

func (detachFailingStore) Pull(context.Context, string, primitive.ObjectID, string, docstore.Filter) error {
	return errors.New("connection reset")
}

func TestDeleteSucceedsWhenSnapshotDetachFails(t *testing.T) {
	f := newFixture(t)
	f.department(t)
	f.course(t)
	_, err := f.svc.MajorService.CreateMajor(f.ctx, &dto.CreateMajorRequest{
		Abbreviation: "CS",
		MajorName:    "Computer Science",
		Description:  "Bachelor of Science in Computer Science",
	})
	require.NoError(t, err)

	store := detachFailingStore{Store: f.store}
	svc := NewServices(store, repositories.NewRepositories(store))

	require.NoError(t, svc.CourseService.DeleteCourse(f.ctx, dto.CourseKey{Abbreviation: "CS", CourseNumber: 201}))
	require.NoError(t, svc.MajorService.DeleteMajor(f.ctx, "Computer Science"))

	courses, err := svc.CourseService.GetAllCourses(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, courses)
	majors, err := svc.MajorService.GetAllMajors(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, majors)

	// The stale snapshots stay behind
	dept, err := f.repos.DepartmentRepository.GetByAbbreviation(f.ctx, "CS")
	require.NoError(t, err)
	assert.Len(t, dept.CourseEmbedded, 1)
	assert.Len(t, dept.MajorEmbedded, 1)
}
