package console

import (
	"context"
	"fmt"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
)

func (c *Console) addDepartment(ctx context.Context) error {
	var (
		req dto.CreateDepartmentRequest
		err error
	)
	if req.DepartmentName, err = c.readText("Enter department name (50 characters max): "); err != nil {
		return err
	}
	if req.Abbreviation, err = c.readText("Enter abbreviation (6 characters max): "); err != nil {
		return err
	}
	if req.ChairName, err = c.readText("Enter chair name (80 characters max): "); err != nil {
		return err
	}
	if req.Building, err = c.readEnum("building", models.EnumBuilding); err != nil {
		return err
	}
	if req.Office, err = c.readInt("Enter office: "); err != nil {
		return err
	}
	if req.Description, err = c.readText("Enter description (80 characters max, optional): "); err != nil {
		return err
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.svc.DepartmentService.CreateDepartment(ctx, &req)
		return err
	})
	if err != nil {
		return err
	}
	c.success("Department added successfully!")
	return nil
}

func (c *Console) addCourse(ctx context.Context) error {
	var (
		req dto.CreateCourseRequest
		err error
	)
	if req.Abbreviation, err = c.readText("Enter the department abbreviation: "); err != nil {
		return err
	}
	if req.CourseName, err = c.readText("Enter course name (50 characters max): "); err != nil {
		return err
	}
	if req.CourseNumber, err = c.readInt("Enter course number (100-699): "); err != nil {
		return err
	}
	if req.Description, err = c.readText("Enter description (500 characters max, optional): "); err != nil {
		return err
	}
	if req.Units, err = c.readInt("Enter the units (1-5): "); err != nil {
		return err
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.svc.CourseService.CreateCourse(ctx, &req)
		return err
	})
	if err != nil {
		return err
	}
	c.success("Course added successfully!")
	return nil
}

func (c *Console) addSection(ctx context.Context) error {
	var (
		req dto.CreateSectionRequest
		err error
	)
	if req.SectionKey, err = c.readSectionKey(); err != nil {
		return err
	}
	if req.Building, err = c.readEnum("building", models.EnumBuilding); err != nil {
		return err
	}
	if req.Room, err = c.readInt("Enter room number (1-999): "); err != nil {
		return err
	}
	if req.Schedule, err = c.readEnum("schedule", models.EnumSchedule); err != nil {
		return err
	}
	if req.StartTime, err = c.readText("Enter start time (HH:MM, between 08:00 and 19:30): "); err != nil {
		return err
	}
	if req.Instructor, err = c.readText("Enter instructor name: "); err != nil {
		return err
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.svc.SectionService.CreateSection(ctx, &req)
		return err
	})
	if err != nil {
		return err
	}
	c.success("Section added successfully!")
	return nil
}

func (c *Console) addMajor(ctx context.Context) error {
	var (
		req dto.CreateMajorRequest
		err error
	)
	if req.MajorName, err = c.readText("Enter major name: "); err != nil {
		return err
	}
	if req.Abbreviation, err = c.readText("Enter the department abbreviation: "); err != nil {
		return err
	}
	if req.Description, err = c.readText("Enter description (500 characters max): "); err != nil {
		return err
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.svc.MajorService.CreateMajor(ctx, &req)
		return err
	})
	if err != nil {
		return err
	}
	c.success("Major added successfully!")
	return nil
}

func (c *Console) addStudent(ctx context.Context) error {
	var (
		req dto.CreateStudentRequest
		err error
	)
	if req.LastName, err = c.readText("Enter student's last name: "); err != nil {
		return err
	}
	if req.FirstName, err = c.readText("Enter student's first name: "); err != nil {
		return err
	}
	if req.EMail, err = c.readText("Enter e-mail: "); err != nil {
		return err
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.svc.StudentService.CreateStudent(ctx, &req)
		return err
	})
	if err != nil {
		return err
	}
	c.success("Student added successfully!")
	return nil
}

func (c *Console) addStudentMajor(ctx context.Context) error {
	var (
		req dto.DeclareMajorRequest
		err error
	)
	if req.StudentName, err = c.readStudentName(); err != nil {
		return err
	}
	if req.MajorName, err = c.readText("Enter major name: "); err != nil {
		return err
	}
	if req.DeclarationDate, err = c.readDate("Enter declaration date (MM-DD-YYYY): "); err != nil {
		return err
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.svc.StudentService.DeclareMajor(ctx, &req)
		return err
	})
	if err != nil {
		return err
	}
	c.success("Student added to major successfully!")
	return nil
}

func (c *Console) addEnrollment(ctx context.Context) error {
	var (
		req dto.EnrollRequest
		err error
	)
	if req.StudentName, err = c.readStudentName(); err != nil {
		return err
	}
	if req.SectionKey, err = c.readSectionKey(); err != nil {
		return err
	}

	choice, err := c.readChoice("Enter pass/fail (P) or letter grade (L): ", "P", "L")
	if err != nil {
		return err
	}
	if choice == "P" {
		req.Mode = models.OutcomePassFail
		if req.ApplicationDate, err = c.readDate("Enter application date (MM-DD-YYYY): "); err != nil {
			return err
		}
	} else {
		req.Mode = models.OutcomeLetterGrade
		if req.MinSatisfactory, err = c.readEnum("minimum satisfactory grade", models.EnumMinSatisfactory); err != nil {
			return err
		}
	}

	err = c.call(ctx, func(ctx context.Context) error {
		_, err := c.svc.StudentService.Enroll(ctx, &req)
		return err
	})
	if err != nil {
		return err
	}
	c.success("Student has been enrolled successfully!")
	return nil
}

func (c *Console) listDepartments(ctx context.Context) error {
	var departments []*models.Department
	err := c.call(ctx, func(ctx context.Context) (err error) {
		departments, err = c.svc.DepartmentService.GetAllDepartments(ctx)
		return err
	})
	if err != nil {
		return err
	}
	for _, d := range departments {
		c.block(formatDepartment(d))
	}
	c.count(len(departments), "department")
	return nil
}

func (c *Console) listCourses(ctx context.Context) error {
	var courses []*models.Course
	err := c.call(ctx, func(ctx context.Context) (err error) {
		courses, err = c.svc.CourseService.GetAllCourses(ctx)
		return err
	})
	if err != nil {
		return err
	}
	for _, course := range courses {
		c.block(formatCourse(course))
	}
	c.count(len(courses), "course")
	return nil
}

func (c *Console) listSections(ctx context.Context) error {
	var sections []*models.Section
	err := c.call(ctx, func(ctx context.Context) (err error) {
		sections, err = c.svc.SectionService.GetAllSections(ctx)
		return err
	})
	if err != nil {
		return err
	}
	for _, group := range groupByCourse(sections) {
		c.println(c.styles.header.Render(fmt.Sprintf("Course %d %s", group.course.CourseNumber, group.course.CourseName)))
		for _, s := range group.sections {
			c.block(formatSection(s))
		}
	}
	c.count(len(sections), "section")
	return nil
}

func (c *Console) listMajors(ctx context.Context) error {
	var majors []*models.Major
	err := c.call(ctx, func(ctx context.Context) (err error) {
		majors, err = c.svc.MajorService.GetAllMajors(ctx)
		return err
	})
	if err != nil {
		return err
	}
	for _, m := range majors {
		c.block(formatMajor(m))
	}
	c.count(len(majors), "major")
	return nil
}

func (c *Console) listStudents(ctx context.Context) error {
	var students []*models.Student
	err := c.call(ctx, func(ctx context.Context) (err error) {
		students, err = c.svc.StudentService.GetAllStudents(ctx)
		return err
	})
	if err != nil {
		return err
	}
	for _, s := range students {
		c.block(formatStudent(s))
	}
	c.count(len(students), "student")
	return nil
}

func (c *Console) listStudentMajors(ctx context.Context) error {
	name, err := c.readStudentName()
	if err != nil {
		return err
	}

	var majors []models.StudentMajor
	err = c.call(ctx, func(ctx context.Context) (err error) {
		majors, err = c.svc.StudentService.GetStudentMajors(ctx, name)
		return err
	})
	if err != nil {
		return err
	}
	for _, sm := range majors {
		c.block(formatStudentMajor(sm))
	}
	c.count(len(majors), "major declaration")
	return nil
}

func (c *Console) listEnrollments(ctx context.Context) error {
	name, err := c.readStudentName()
	if err != nil {
		return err
	}

	var enrollments []models.Enrollment
	err = c.call(ctx, func(ctx context.Context) (err error) {
		enrollments, err = c.svc.StudentService.GetEnrollments(ctx, name)
		return err
	})
	if err != nil {
		return err
	}
	for _, e := range enrollments {
		c.block(formatEnrollment(e))
	}
	c.count(len(enrollments), "enrollment")
	return nil
}

func (c *Console) deleteDepartment(ctx context.Context) error {
	abbreviation, err := c.readText("Enter the abbreviation of the department to delete: ")
	if err != nil {
		return err
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		return c.svc.DepartmentService.DeleteDepartment(ctx, abbreviation)
	}); err != nil {
		return err
	}
	c.success("Department deleted successfully.")
	return nil
}

func (c *Console) deleteCourse(ctx context.Context) error {
	key, err := c.readCourseKey()
	if err != nil {
		return err
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		return c.svc.CourseService.DeleteCourse(ctx, key)
	}); err != nil {
		return err
	}
	c.success("Course deleted successfully.")
	return nil
}

func (c *Console) deleteSection(ctx context.Context) error {
	key, err := c.readSectionKey()
	if err != nil {
		return err
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		return c.svc.SectionService.DeleteSection(ctx, key)
	}); err != nil {
		return err
	}
	c.success("Section deleted successfully.")
	return nil
}

func (c *Console) deleteMajor(ctx context.Context) error {
	name, err := c.readText("Enter the name of the major to delete: ")
	if err != nil {
		return err
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		return c.svc.MajorService.DeleteMajor(ctx, name)
	}); err != nil {
		return err
	}
	c.success("Major deleted successfully.")
	return nil
}

func (c *Console) deleteStudent(ctx context.Context) error {
	name, err := c.readStudentName()
	if err != nil {
		return err
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		return c.svc.StudentService.DeleteStudent(ctx, name)
	}); err != nil {
		return err
	}
	c.success("Student deleted successfully.")
	return nil
}

func (c *Console) deleteStudentMajor(ctx context.Context) error {
	var (
		req dto.RemoveMajorRequest
		err error
	)
	if req.StudentName, err = c.readStudentName(); err != nil {
		return err
	}
	if req.MajorName, err = c.readText("Enter the major name to remove from the student: "); err != nil {
		return err
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		return c.svc.StudentService.RemoveMajor(ctx, &req)
	}); err != nil {
		return err
	}
	c.success("Major removed from the student successfully.")
	return nil
}

func (c *Console) deleteEnrollment(ctx context.Context) error {
	var (
		req dto.UnenrollRequest
		err error
	)
	if req.StudentName, err = c.readStudentName(); err != nil {
		return err
	}
	if req.SectionKey, err = c.readSectionKey(); err != nil {
		return err
	}
	if err := c.call(ctx, func(ctx context.Context) error {
		return c.svc.StudentService.Unenroll(ctx, &req)
	}); err != nil {
		return err
	}
	c.success("Enrollment removed from the student successfully.")
	return nil
}

func (c *Console) readStudentName() (dto.StudentName, error) {
	var (
		name dto.StudentName
		err  error
	)
	if name.LastName, err = c.readText("Enter student's last name: "); err != nil {
		return name, err
	}
	name.FirstName, err = c.readText("Enter student's first name: ")
	return name, err
}

func (c *Console) readCourseKey() (dto.CourseKey, error) {
	var (
		key dto.CourseKey
		err error
	)
	if key.Abbreviation, err = c.readText("Enter the department abbreviation: "); err != nil {
		return key, err
	}
	key.CourseNumber, err = c.readInt("Enter the course number: ")
	return key, err
}

func (c *Console) readSectionKey() (dto.SectionKey, error) {
	var (
		key dto.SectionKey
		err error
	)
	if key.CourseKey, err = c.readCourseKey(); err != nil {
		return key, err
	}
	if key.SectionNumber, err = c.readInt("Enter section number: "); err != nil {
		return key, err
	}
	if key.Semester, err = c.readEnum("semester", models.EnumSemester); err != nil {
		return key, err
	}
	key.SectionYear, err = c.readInt("Enter section year: ")
	return key, err
}
