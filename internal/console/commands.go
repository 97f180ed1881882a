package console

// Command identifies one menu choice. The set is closed: every command is
// declared here and bound to exactly one handler.
type Command int

// Menu commands
const (
	CommandExit Command = iota

	CommandAddMenu
	CommandListMenu
	CommandDeleteMenu

	CommandAddDepartment
	CommandAddCourse
	CommandAddSection
	CommandAddMajor
	CommandAddStudent
	CommandAddStudentMajor
	CommandAddEnrollment

	CommandListDepartments
	CommandListCourses
	CommandListSections
	CommandListMajors
	CommandListStudents
	CommandListStudentMajors
	CommandListEnrollments

	CommandDeleteDepartment
	CommandDeleteCourse
	CommandDeleteSection
	CommandDeleteMajor
	CommandDeleteStudent
	CommandDeleteStudentMajor
	CommandDeleteEnrollment
)

// Option is one numbered line of a menu
type Option struct {
	Prompt  string
	Command Command
}

// Menu is a titled list of options ending with an exit sentinel
type Menu struct {
	Name    string
	Title   string
	Options []Option
}

// Menus of the registrar console
var (
	MainMenu = Menu{
		Name:  "main",
		Title: "Please select one of the following options:",
		Options: []Option{
			{"Add", CommandAddMenu},
			{"List", CommandListMenu},
			{"Delete", CommandDeleteMenu},
			{"Exit this application", CommandExit},
		},
	}

	AddMenu = Menu{
		Name:  "add",
		Title: "Please indicate what you want to add:",
		Options: []Option{
			{"Add Department", CommandAddDepartment},
			{"Add Course", CommandAddCourse},
			{"Add Section", CommandAddSection},
			{"Add Major", CommandAddMajor},
			{"Add Student", CommandAddStudent},
			{"Add Student to Major", CommandAddStudentMajor},
			{"Add Enrollment of Student to Section", CommandAddEnrollment},
			{"Exit", CommandExit},
		},
	}

	ListMenu = Menu{
		Name:  "list",
		Title: "Please indicate what you want to list:",
		Options: []Option{
			{"List all Departments", CommandListDepartments},
			{"List all Courses", CommandListCourses},
			{"List all Sections", CommandListSections},
			{"List all Majors", CommandListMajors},
			{"List all Students", CommandListStudents},
			{"List Majors of a Student", CommandListStudentMajors},
			{"List Enrollments of a Student", CommandListEnrollments},
			{"Exit", CommandExit},
		},
	}

	DeleteMenu = Menu{
		Name:  "delete",
		Title: "Please indicate what you want to delete:",
		Options: []Option{
			{"Delete Department", CommandDeleteDepartment},
			{"Delete Course", CommandDeleteCourse},
			{"Delete Section", CommandDeleteSection},
			{"Delete Major", CommandDeleteMajor},
			{"Delete Student", CommandDeleteStudent},
			{"Delete Major of a Student", CommandDeleteStudentMajor},
			{"Delete Enrollment of a Student", CommandDeleteEnrollment},
			{"Exit", CommandExit},
		},
	}
)
