// Package studyplan renders a career's plan of study as plain text lines.
package studyplan

import (
	"strings"

	"ingechat/internal/model"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UnformattedPlaceholder replaces semester data that has no known shape
const UnformattedPlaceholder = "Información no formateada."

// Render lists every semester on its own line, in plan order.
// It never fails: unknown shapes degrade to UnformattedPlaceholder.
func Render(plan model.StudyPlan) string {
	lines := make([]string, 0, len(plan))
	for _, sem := range plan {
		lines = append(lines, semesterLabel(sem.Label)+": "+semesterCourses(sem))
	}
	return strings.Join(lines, "\n")
}

func semesterCourses(sem model.Semester) string {
	switch sem.Kind {
	case model.SemesterList:
		names := make([]string, len(sem.Courses))
		for i, course := range sem.Courses {
			names[i] = course.DisplayName()
		}
		return strings.Join(names, ", ")
	case model.SemesterText:
		return sem.Text
	default:
		return UnformattedPlaceholder
	}
}

// semesterLabel turns "1" into "Semestre 1" and "semestres_intermedios"
// into "Semestres Intermedios".
func semesterLabel(label string) string {
	if !strings.Contains(label, "_") {
		return "Semestre " + label
	}
	return cases.Title(language.Spanish).String(strings.ReplaceAll(label, "_", " "))
}
