package dto

// CreateStudentRequest represents student creation data
type CreateStudentRequest struct {
	LastName  string `json:"last_name" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	EMail     string `json:"e_mail" validate:"required,email"`
}

// StudentName identifies a student by last and first name
type StudentName struct {
	LastName  string `json:"last_name" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
}

// DeclareMajorRequest represents a student's major declaration
type DeclareMajorRequest struct {
	StudentName
	MajorName       string `json:"major_name" validate:"required"`
	DeclarationDate string `json:"declaration_date" validate:"required,date"` // MM-DD-YYYY
}

// RemoveMajorRequest names the major declaration to drop from a student
type RemoveMajorRequest struct {
	StudentName
	MajorName string `json:"major_name" validate:"required"`
}

// EnrollRequest represents an enrollment of a student into a section.
// Mode selects which of ApplicationDate and MinSatisfactory is used.
type EnrollRequest struct {
	StudentName
	SectionKey
	Mode            string `json:"mode" validate:"required,oneof=pass_fail letter_grade"`
	ApplicationDate string `json:"application_date" validate:"required_if=Mode pass_fail,omitempty,date"`
	MinSatisfactory string `json:"min_satisfactory" validate:"required_if=Mode letter_grade,omitempty,enum=min_satisfactory"`
}

// UnenrollRequest names the enrollment to drop from a student
type UnenrollRequest struct {
	StudentName
	SectionKey
}
