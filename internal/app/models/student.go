package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student holds a student's identity together with their declared majors and enrollments
type Student struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	LastName  string             `bson:"last_name" json:"lastName"`
	FirstName string             `bson:"first_name" json:"firstName"`
	EMail     string             `bson:"e_mail" json:"eMail"`

	StudentMajors []StudentMajor `bson:"student_majors" json:"studentMajors"`
	Enrollments   []Enrollment   `bson:"enrollments" json:"enrollments"`
}

// StudentMajor is a major declaration, embedded in the student document
type StudentMajor struct {
	Student         primitive.ObjectID `bson:"student" json:"student"` // Owning student
	MajorName       string             `bson:"major_name" json:"majorName"`
	DeclarationDate time.Time          `bson:"declaration_date" json:"declarationDate"`
	MajorEmbedded   []MajorEmbedded    `bson:"major_embedded" json:"majorEmbedded"`
}
