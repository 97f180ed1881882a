package seed

import (
	"context"
	"errors"

	"github.com/yigit/registrar/internal/app/models"
	"github.com/yigit/registrar/internal/app/models/dto"
	"github.com/yigit/registrar/internal/app/services"
	"github.com/yigit/registrar/internal/pkg/apperrors"
	"github.com/yigit/registrar/internal/pkg/logger"
)

var departments = []dto.CreateDepartmentRequest{
	{DepartmentName: "Computer Engineering and Computer Science", Abbreviation: "CECS", ChairName: "Mehrdad Aliasgari", Building: string(models.BuildingECS), Office: 542, Description: "Break stuff"},
	{DepartmentName: "Mathematics and Statistics", Abbreviation: "MATH", ChairName: "Tangan Gao", Building: string(models.BuildingHSCI), Office: 102, Description: "Prove stuff"},
}

var courses = []dto.CreateCourseRequest{
	{Abbreviation: "CECS", CourseName: "Database Fundamentals", CourseNumber: 323, Description: "Relational and document stores", Units: 3},
	{Abbreviation: "CECS", CourseName: "Data Structures", CourseNumber: 274, Description: "Lists, trees and graphs", Units: 3},
	{Abbreviation: "MATH", CourseName: "Calculus I", CourseNumber: 122, Units: 4},
}

var majors = []dto.CreateMajorRequest{
	{Abbreviation: "CECS", MajorName: "Computer Science", Description: "Fun with blinking lights"},
	{Abbreviation: "MATH", MajorName: "Applied Mathematics", Description: "Numbers at work"},
}

var sections = []dto.CreateSectionRequest{
	{
		SectionKey: dto.SectionKey{CourseKey: dto.CourseKey{Abbreviation: "CECS", CourseNumber: 323}, SectionNumber: 1, Semester: string(models.SemesterFall), SectionYear: 2024},
		Building:   string(models.BuildingECS), Room: 416, Schedule: string(models.ScheduleMW), StartTime: "09:30", Instructor: "David Brown",
	},
	{
		SectionKey: dto.SectionKey{CourseKey: dto.CourseKey{Abbreviation: "CECS", CourseNumber: 274}, SectionNumber: 2, Semester: string(models.SemesterFall), SectionYear: 2024},
		Building:   string(models.BuildingVEC), Room: 330, Schedule: string(models.ScheduleTuTh), StartTime: "14:00", Instructor: "Neal Terrell",
	},
}

var students = []dto.CreateStudentRequest{
	{LastName: "Brown", FirstName: "David", EMail: "david.brown@gmail.com"},
	{LastName: "Hopper", FirstName: "Grace", EMail: "grace.hopper@gmail.com"},
}

var declarations = []dto.DeclareMajorRequest{
	{StudentName: dto.StudentName{LastName: "Brown", FirstName: "David"}, MajorName: "Computer Science", DeclarationDate: "08-21-2024"},
	{StudentName: dto.StudentName{LastName: "Hopper", FirstName: "Grace"}, MajorName: "Applied Mathematics", DeclarationDate: "01-15-2024"},
}

var enrollments = []dto.EnrollRequest{
	{
		StudentName: dto.StudentName{LastName: "Brown", FirstName: "David"},
		SectionKey:  sections[0].SectionKey,
		Mode:        models.OutcomeLetterGrade, MinSatisfactory: string(models.MinSatisfactoryC),
	},
	{
		StudentName: dto.StudentName{LastName: "Hopper", FirstName: "Grace"},
		SectionKey:  sections[1].SectionKey,
		Mode:        models.OutcomePassFail, ApplicationDate: "09-02-2024",
	},
}

// CreateDefaultData loads a small sample catalog through the services so every
// consistency rule applies to it. Records that already exist are skipped,
// which makes the seed safe to run on every start.
func CreateDefaultData(ctx context.Context, svc *services.Services) error {
	logger.Info().Msg("Checking/Creating default data...")
	var finalErr error // To collect potential errors without stopping the process

	for i := range departments {
		_, err := svc.DepartmentService.CreateDepartment(ctx, &departments[i])
		finalErr = errors.Join(finalErr, tolerate(err, "department", departments[i].Abbreviation))
	}
	for i := range courses {
		_, err := svc.CourseService.CreateCourse(ctx, &courses[i])
		finalErr = errors.Join(finalErr, tolerate(err, "course", courses[i].CourseName))
	}
	for i := range majors {
		_, err := svc.MajorService.CreateMajor(ctx, &majors[i])
		finalErr = errors.Join(finalErr, tolerate(err, "major", majors[i].MajorName))
	}
	for i := range sections {
		_, err := svc.SectionService.CreateSection(ctx, &sections[i])
		finalErr = errors.Join(finalErr, tolerate(err, "section", sections[i].Instructor))
	}
	for i := range students {
		_, err := svc.StudentService.CreateStudent(ctx, &students[i])
		finalErr = errors.Join(finalErr, tolerate(err, "student", students[i].LastName))
	}
	for i := range declarations {
		_, err := svc.StudentService.DeclareMajor(ctx, &declarations[i])
		finalErr = errors.Join(finalErr, tolerate(err, "student major", declarations[i].MajorName))
	}
	for i := range enrollments {
		_, err := svc.StudentService.Enroll(ctx, &enrollments[i])
		finalErr = errors.Join(finalErr, tolerate(err, "enrollment", enrollments[i].LastName))
	}

	if finalErr != nil {
		return finalErr
	}
	logger.Info().Msg("Default data is in place")
	return nil
}

// tolerate drops uniqueness violations, which mean the record was seeded before
func tolerate(err error, entity, key string) error {
	switch {
	case err == nil:
		logger.Debug().Str("entity", entity).Str("key", key).Msg("Default record created")
		return nil
	case errors.Is(err, apperrors.ErrUniquenessViolation):
		logger.Debug().Str("entity", entity).Str("key", key).Msg("Default record already exists")
		return nil
	default:
		logger.Error().Err(err).Str("entity", entity).Str("key", key).Msg("Error creating default record")
		return err
	}
}
