package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Section is one scheduled offering of a course in a given semester
type Section struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	CourseNumber  int                `bson:"course_number" json:"courseNumber"`
	SectionNumber int                `bson:"section_number" json:"sectionNumber"`
	Semester      Semester           `bson:"semester" json:"semester"`
	SectionYear   int                `bson:"section_year" json:"sectionYear"`
	Building      Building           `bson:"building" json:"building"`
	Room          int                `bson:"room" json:"room"`
	Schedule      Schedule           `bson:"schedule" json:"schedule"`
	StartTime     time.Time          `bson:"start_time" json:"startTime"` // Clock time on 2000-01-01 UTC
	Instructor    string             `bson:"instructor" json:"instructor"`

	CourseEmbedded CourseEmbedded `bson:"course_embedded" json:"courseEmbedded"`
}
