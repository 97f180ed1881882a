package console

import (
	"fmt"
	"strings"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/pkg/helpers"
)

const ruleWidth = 48

func (c *Console) block(s string) {
	rule := c.styles.rule.Render(strings.Repeat("-", ruleWidth))
	c.println(rule)
	c.println(s)
}

func (c *Console) count(n int, noun string) {
	if n != 1 {
		noun += "s"
	}
	c.println(c.styles.rule.Render(strings.Repeat("-", ruleWidth)))
	c.println(fmt.Sprintf("%d %s", n, noun))
}

func formatDepartment(d *models.Department) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Department: %s (%s)\n", d.DepartmentName, d.Abbreviation)
	fmt.Fprintf(&b, "Chair: %s\n", d.ChairName)
	fmt.Fprintf(&b, "Office: %s %d", d.Building, d.Office)
	if d.Description != "" {
		fmt.Fprintf(&b, "\nDescription: %s", d.Description)
	}
	if len(d.CourseEmbedded) > 0 {
		names := make([]string, 0, len(d.CourseEmbedded))
		for _, c := range d.CourseEmbedded {
			names = append(names, fmt.Sprintf("%d %s", c.CourseNumber, c.CourseName))
		}
		fmt.Fprintf(&b, "\nCourses: %s", strings.Join(names, "; "))
	}
	if len(d.MajorEmbedded) > 0 {
		names := make([]string, 0, len(d.MajorEmbedded))
		for _, m := range d.MajorEmbedded {
			names = append(names, m.MajorName)
		}
		fmt.Fprintf(&b, "\nMajors: %s", strings.Join(names, "; "))
	}
	return b.String()
}

func formatCourse(c *models.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Course: %s %d %s\n", c.Abbreviation, c.CourseNumber, c.CourseName)
	fmt.Fprintf(&b, "Units: %d\n", c.Units)
	fmt.Fprintf(&b, "Department: %s", c.DepartmentEmbedded.DepartmentName)
	if c.Description != "" {
		fmt.Fprintf(&b, "\nDescription: %s", c.Description)
	}
	return b.String()
}

func formatSection(s *models.Section) string {
	return fmt.Sprintf("Section %d, %s %d\n%s %d, %s at %s\nInstructor: %s",
		s.SectionNumber, s.Semester, s.SectionYear,
		s.Building, s.Room, s.Schedule, helpers.FormatClock(s.StartTime),
		s.Instructor)
}

func formatMajor(m *models.Major) string {
	return fmt.Sprintf("Major: %s\nDepartment: %s (%s)\nDescription: %s",
		m.MajorName, m.DepartmentEmbedded.DepartmentName, m.DepartmentEmbedded.Abbreviation, m.Description)
}

func formatStudent(s *models.Student) string {
	return fmt.Sprintf("Student: %s, %s\nE-mail: %s\nMajors: %d, enrollments: %d",
		s.LastName, s.FirstName, s.EMail, len(s.StudentMajors), len(s.Enrollments))
}

func formatStudentMajor(sm models.StudentMajor) string {
	return fmt.Sprintf("Major: %s\nDeclared: %s", sm.MajorName, helpers.FormatDate(sm.DeclarationDate))
}

func formatEnrollment(e models.Enrollment) string {
	var outcome string
	switch o := e.Outcome.(type) {
	case *models.PassFail:
		outcome = fmt.Sprintf("Pass/fail, applied %s", helpers.FormatDate(o.ApplicationDate))
	case *models.LetterGrade:
		outcome = fmt.Sprintf("Letter grade, minimum satisfactory %s", o.MinSatisfactory)
	}
	return fmt.Sprintf("Course: %s %d, section %d\nTerm: %s %d\nGrading: %s",
		e.Abbreviation, e.CourseNumber, e.SectionNumber, e.Semester, e.SectionYear, outcome)
}

type courseSections struct {
	course   models.CourseEmbedded
	sections []*models.Section
}

// groupByCourse groups sections by course, in order of first appearance
func groupByCourse(sections []*models.Section) []courseSections {
	var groups []courseSections
	index := map[string]int{}
	for _, s := range sections {
		key := s.CourseEmbedded.Course.Hex()
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, courseSections{course: s.CourseEmbedded})
		}
		groups[i].sections = append(groups[i].sections, s)
	}
	return groups
}
