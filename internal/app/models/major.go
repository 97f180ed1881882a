package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Major is a degree program owned by a department
type Major struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	MajorName   string             `bson:"major_name" json:"majorName"`
	Description string             `bson:"description" json:"description"`

	DepartmentEmbedded DepartmentEmbedded `bson:"department_embedded" json:"departmentEmbedded"`
}
