package models

import "github.com/yigit/registrar/internal/pkg/docstore"

// Collection names
const (
	DepartmentsCollection = "departments"
	CoursesCollection     = "courses"
	SectionsCollection    = "sections"
	MajorsCollection      = "majors"
	StudentsCollection    = "students"
)

// Names of the uniqueness constraints kept on embedded lists. The store cannot
// index these, so they are checked by scanning the owning student.
const (
	StudentMajorUK01 = "student_major_uk_01"
	EnrollmentUK01   = "enrollment_uk_01"
	EnrollmentUK02   = "enrollment_uk_02"
)

// StudentMajorKeys are the unique keys of a student's major declarations
var StudentMajorKeys = []docstore.IndexSpec{
	{Name: StudentMajorUK01, Keys: []string{"major_name"}, Unique: true},
}

// EnrollmentKeys are the unique keys of a student's enrollments
var EnrollmentKeys = []docstore.IndexSpec{
	{Name: EnrollmentUK01, Keys: []string{"section"}, Unique: true},
	{Name: EnrollmentUK02, Keys: []string{"semester", "section_year", "abbreviation", "course_number"}, Unique: true},
}

func unique(name string, keys ...string) docstore.IndexSpec {
	return docstore.IndexSpec{Name: name, Keys: keys, Unique: true}
}

// Collections declares every collection with its unique indexes and store-level schema rules
func Collections() []docstore.CollectionSpec {
	return []docstore.CollectionSpec{
		{
			Name: DepartmentsCollection,
			Indexes: []docstore.IndexSpec{
				unique("department_uk_01", "abbreviation"),
				unique("department_uk_02", "department_name"),
				unique("department_uk_03", "chair_name"),
				unique("department_uk_04", "building", "office"),
			},
			Required: []string{"department_name", "abbreviation", "chair_name", "building", "office"},
			Enums:    map[string][]string{"building": EnumValues[EnumBuilding]},
		},
		{
			Name: CoursesCollection,
			Indexes: []docstore.IndexSpec{
				unique("course_uk_01", "abbreviation", "course_number"),
				unique("course_uk_02", "abbreviation", "course_name"),
			},
			Required: []string{"course_name", "course_number", "units", "abbreviation", "department_embedded"},
		},
		{
			Name: SectionsCollection,
			Indexes: []docstore.IndexSpec{
				unique("section_uk_01", "course_embedded.course", "section_number", "semester", "section_year"),
				unique("section_uk_02", "semester", "section_year", "building", "room", "schedule", "start_time"),
				unique("section_uk_03", "semester", "section_year", "schedule", "start_time", "instructor"),
			},
			Required: []string{
				"course_number", "section_number", "semester", "section_year", "building",
				"room", "schedule", "start_time", "instructor", "course_embedded",
			},
			Enums: map[string][]string{
				"building": EnumValues[EnumBuilding],
				"schedule": EnumValues[EnumSchedule],
				"semester": EnumValues[EnumSemester],
			},
		},
		{
			Name: MajorsCollection,
			Indexes: []docstore.IndexSpec{
				unique("major_uk_01", "major_name"),
			},
			Required: []string{"major_name", "description", "department_embedded"},
		},
		{
			Name: StudentsCollection,
			Indexes: []docstore.IndexSpec{
				unique("student_uk_01", "last_name", "first_name"),
				unique("student_uk_02", "e_mail"),
			},
			Required: []string{"last_name", "first_name", "e_mail"},
		},
	}
}

// CollectionSpec returns the declaration of one collection
func CollectionSpec(name string) (docstore.CollectionSpec, bool) {
	for _, spec := range Collections() {
		if spec.Name == name {
			return spec, true
		}
	}
	return docstore.CollectionSpec{}, false
}
