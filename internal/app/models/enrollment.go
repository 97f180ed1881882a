package models

import (
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Outcome modes as stored in the enrollment document
const (
	OutcomePassFail    = "pass_fail"
	OutcomeLetterGrade = "letter_grade"
)

var (
	// ErrMissingOutcome is returned when an enrollment has no grading outcome
	ErrMissingOutcome = errors.New("enrollment has no grading outcome")
	// ErrAmbiguousOutcome is returned when a stored enrollment carries both outcomes
	ErrAmbiguousOutcome = errors.New("enrollment has both pass/fail and letter grade outcomes")
)

// Outcome is how an enrollment is graded. It is either *PassFail or *LetterGrade.
type Outcome interface {
	// Mode returns the storage key of the outcome
	Mode() string
	isOutcome()
}

// PassFail grades the enrollment as pass or fail
type PassFail struct {
	SectionNumber   int       `bson:"section_number" json:"sectionNumber"`
	ApplicationDate time.Time `bson:"application_date" json:"applicationDate"`
}

// Mode implements Outcome
func (*PassFail) Mode() string { return OutcomePassFail }
func (*PassFail) isOutcome() {}

// LetterGrade grades the enrollment with a letter and a minimum satisfactory grade
type LetterGrade struct {
	SectionNumber   int             `bson:"section_number" json:"sectionNumber"`
	MinSatisfactory MinSatisfactory `bson:"min_satisfactory" json:"minSatisfactory"`
}

// Mode implements Outcome
func (*LetterGrade) Mode() string { return OutcomeLetterGrade }
func (*LetterGrade) isOutcome() {}

// Enrollment places a student in a section, embedded in the student document
type Enrollment struct {
	Student       primitive.ObjectID `json:"student"` // Owning student
	Section       primitive.ObjectID `json:"section"`
	Abbreviation  string             `json:"abbreviation"`
	CourseNumber  int                `json:"courseNumber"`
	SectionNumber int                `json:"sectionNumber"`
	Semester      Semester           `json:"semester"`
	SectionYear   int                `json:"sectionYear"`
	Outcome       Outcome            `json:"outcome"`
}

// enrollmentDocument is the stored shape of an Enrollment
type enrollmentDocument struct {
	Student       primitive.ObjectID `bson:"student"`
	Section       primitive.ObjectID `bson:"section"`
	Abbreviation  string             `bson:"abbreviation"`
	CourseNumber  int                `bson:"course_number"`
	SectionNumber int                `bson:"section_number"`
	Semester      Semester           `bson:"semester"`
	SectionYear   int                `bson:"section_year"`
	PassFail      *PassFail          `bson:"pass_fail,omitempty"`
	LetterGrade   *LetterGrade       `bson:"letter_grade,omitempty"`
}

// PassFail returns the pass/fail outcome, or nil when graded by letter
func (e Enrollment) PassFail() *PassFail {
	pf, _ := e.Outcome.(*PassFail)
	return pf
}

// LetterGrade returns the letter grade outcome, or nil when graded pass/fail
func (e Enrollment) LetterGrade() *LetterGrade {
	lg, _ := e.Outcome.(*LetterGrade)
	return lg
}

// MarshalBSON writes exactly one of pass_fail and letter_grade
func (e Enrollment) MarshalBSON() ([]byte, error) {
	doc := enrollmentDocument{
		Student:       e.Student,
		Section:       e.Section,
		Abbreviation:  e.Abbreviation,
		CourseNumber:  e.CourseNumber,
		SectionNumber: e.SectionNumber,
		Semester:      e.Semester,
		SectionYear:   e.SectionYear,
	}

	switch o := e.Outcome.(type) {
	case *PassFail:
		if o == nil {
			return nil, ErrMissingOutcome
		}
		doc.PassFail = o
	case *LetterGrade:
		if o == nil {
			return nil, ErrMissingOutcome
		}
		doc.LetterGrade = o
	case nil:
		return nil, ErrMissingOutcome
	default:
		return nil, fmt.Errorf("unsupported enrollment outcome %T", o)
	}
	return bson.Marshal(doc)
}

// UnmarshalBSON rejects stored enrollments with both or neither outcome set
func (e *Enrollment) UnmarshalBSON(data []byte) error {
	var doc enrollmentDocument
	if err := bson.Unmarshal(data, &doc); err != nil {
		return err
	}

	*e = Enrollment{
		Student:       doc.Student,
		Section:       doc.Section,
		Abbreviation:  doc.Abbreviation,
		CourseNumber:  doc.CourseNumber,
		SectionNumber: doc.SectionNumber,
		Semester:      doc.Semester,
		SectionYear:   doc.SectionYear,
	}

	switch {
	case doc.PassFail != nil && doc.LetterGrade != nil:
		return ErrAmbiguousOutcome
	case doc.PassFail != nil:
		e.Outcome = doc.PassFail
	case doc.LetterGrade != nil:
		e.Outcome = doc.LetterGrade
	default:
		return ErrMissingOutcome
	}
	return nil
}
