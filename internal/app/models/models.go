package models

// Building is a campus building code
type Building string

// Building constants
const (
	BuildingANAC Building = "ANAC"
	BuildingCDC  Building = "CDC"
	BuildingDC   Building = "DC"
	BuildingECS  Building = "ECS"
	BuildingEN2  Building = "EN2"
	BuildingEN3  Building = "EN3"
	BuildingEN4  Building = "EN4"
	BuildingEN5  Building = "EN5"
	BuildingET   Building = "ET"
	BuildingHSCI Building = "HSCI"
	BuildingNUR  Building = "NUR"
	BuildingVEC  Building = "VEC"
)

// Schedule is the weekly meeting pattern of a section
type Schedule string

// Schedule constants
const (
	ScheduleMW   Schedule = "MW"
	ScheduleTuTh Schedule = "TuTh"
	ScheduleMWF  Schedule = "MWF"
	ScheduleF    Schedule = "F"
	ScheduleS    Schedule = "S"
)

// Semester represents a semester term
type Semester string

// Semester constants
const (
	SemesterFall      Semester = "Fall"
	SemesterSpring    Semester = "Spring"
	SemesterSummerI   Semester = "Summer I"
	SemesterSummerII  Semester = "Summer II"
	SemesterSummerIII Semester = "Summer III"
	SemesterWinter    Semester = "Winter"
)

// MinSatisfactory is the lowest letter grade accepted as passing
type MinSatisfactory string

// MinSatisfactory constants
const (
	MinSatisfactoryA MinSatisfactory = "A"
	MinSatisfactoryB MinSatisfactory = "B"
	MinSatisfactoryC MinSatisfactory = "C"
)

// Enum names used by validation tags, store schema rules and prompts
const (
	EnumBuilding        = "building"
	EnumSchedule        = "schedule"
	EnumSemester        = "semester"
	EnumMinSatisfactory = "min_satisfactory"
)

// EnumValues is the single table of allowed values for every enumerated field
var EnumValues = map[string][]string{
	EnumBuilding: {
		string(BuildingANAC), string(BuildingCDC), string(BuildingDC), string(BuildingECS),
		string(BuildingEN2), string(BuildingEN3), string(BuildingEN4), string(BuildingEN5),
		string(BuildingET), string(BuildingHSCI), string(BuildingNUR), string(BuildingVEC),
	},
	EnumSchedule: {
		string(ScheduleMW), string(ScheduleTuTh), string(ScheduleMWF), string(ScheduleF), string(ScheduleS),
	},
	EnumSemester: {
		string(SemesterFall), string(SemesterSpring), string(SemesterSummerI),
		string(SemesterSummerII), string(SemesterSummerIII), string(SemesterWinter),
	},
	EnumMinSatisfactory: {
		string(MinSatisfactoryA), string(MinSatisfactoryB), string(MinSatisfactoryC),
	},
}

// IsEnumValue reports whether value is allowed for the named enum
func IsEnumValue(enum, value string) bool {
	for _, v := range EnumValues[enum] {
		if v == value {
			return true
		}
	}
	return false
}
