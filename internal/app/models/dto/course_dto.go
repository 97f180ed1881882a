package dto

// CreateCourseRequest represents course creation data
type CreateCourseRequest struct {
	Abbreviation string `json:"abbreviation" validate:"required,min=1,max=6"` // Owning department
	CourseName   string `json:"course_name" validate:"required,max=50"`
	CourseNumber int    `json:"course_number" validate:"min=100,max=699"`
	Description  string `json:"description" validate:"omitempty,max=500"`
	Units        int    `json:"units" validate:"min=1,max=5"`
}

// CourseKey identifies a course by department abbreviation and number
type CourseKey struct {
	Abbreviation string `json:"abbreviation" validate:"required,min=1,max=6"`
	CourseNumber int    `json:"course_number" validate:"min=100,max=699"`
}

// SectionKey identifies a section of a course in a term
type SectionKey struct {
	CourseKey
	SectionNumber int    `json:"section_number" validate:"min=1"`
	Semester      string `json:"semester" validate:"required,enum=semester"`
	SectionYear   int    `json:"section_year" validate:"min=1900,max=2999"`
}

// CreateSectionRequest represents section creation data
type CreateSectionRequest struct {
	SectionKey
	Building   string `json:"building" validate:"required,enum=building"`
	Room       int    `json:"room" validate:"min=1,max=999"`
	Schedule   string `json:"schedule" validate:"required,enum=schedule"`
	StartTime  string `json:"start_time" validate:"required,clock"` // HH:MM
	Instructor string `json:"instructor" validate:"required"`
}
