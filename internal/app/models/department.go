package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Department represents an academic department
type Department struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	DepartmentName string             `bson:"department_name" json:"departmentName"`
	Abbreviation   string             `bson:"abbreviation" json:"abbreviation"`
	ChairName      string             `bson:"chair_name" json:"chairName"`
	Building       Building           `bson:"building" json:"building"`
	Office         int                `bson:"office" json:"office"`
	Description    string             `bson:"description,omitempty" json:"description,omitempty"` // Optional

	// Snapshots of the majors and courses offered by the department
	MajorEmbedded  []MajorEmbedded  `bson:"major_embedded" json:"majorEmbedded"`
	CourseEmbedded []CourseEmbedded `bson:"course_embedded" json:"courseEmbedded"`
}
