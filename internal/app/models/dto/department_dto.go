package dto

// CreateDepartmentRequest represents department creation data
type CreateDepartmentRequest struct {
	DepartmentName string `json:"department_name" validate:"required,max=50"`
	Abbreviation   string `json:"abbreviation" validate:"required,min=1,max=6"`
	ChairName      string `json:"chair_name" validate:"required,min=3,max=80"`
	Building       string `json:"building" validate:"required,enum=building"`
	Office         int    `json:"office" validate:"required,min=1"`
	Description    string `json:"description" validate:"omitempty,max=80"`
}

// CreateMajorRequest represents major creation data
type CreateMajorRequest struct {
	Abbreviation string `json:"abbreviation" validate:"required,min=1,max=6"` // Owning department
	MajorName    string `json:"major_name" validate:"required,min=3,max=80"`
	Description  string `json:"description" validate:"required,max=500"`
}
