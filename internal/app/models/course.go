package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Course represents a course offered by a department.
type Course struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	CourseName   string             `bson:"course_name" json:"courseName"`
	CourseNumber int                `bson:"course_number" json:"courseNumber"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"` // Optional
	Units        int                `bson:"units" json:"units"`
	Abbreviation string             `bson:"abbreviation" json:"abbreviation"`

	DepartmentEmbedded DepartmentEmbedded `bson:"department_embedded" json:"departmentEmbedded"`
}
