package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// DepartmentEmbedded is the department snapshot stored on courses and majors
type DepartmentEmbedded struct {
	Department     primitive.ObjectID `bson:"department" json:"department"`
	DepartmentName string             `bson:"department_name" json:"departmentName"`
	Abbreviation   string             `bson:"abbreviation" json:"abbreviation"`
}

// MajorEmbedded is the major snapshot stored on departments and student majors
type MajorEmbedded struct {
	Major     primitive.ObjectID `bson:"major" json:"major"`
	MajorName string             `bson:"major_name" json:"majorName"`
}

// CourseEmbedded is the course snapshot stored on departments and sections
type CourseEmbedded struct {
	Course       primitive.ObjectID `bson:"course" json:"course"`
	CourseNumber int                `bson:"course_number" json:"courseNumber"`
	CourseName   string             `bson:"course_name" json:"courseName"`
}
