package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestStudyPlan_UnmarshalJSON_KeepsSourceOrder(t *testing.T) {
	data := `{
		"3": ["Física I"],
		"1": [{"asignatura": "Matemática I", "uc": 4}, {"codigo": "X1"}],
		"semestres_intermedios": "Ver portal",
		"2": 42
	}`

	var plan StudyPlan
	require.NoError(t, json.Unmarshal([]byte(data), &plan))
	require.Len(t, plan, 4)

	assert.Equal(t, "3", plan[0].Label)
	assert.Equal(t, SemesterList, plan[0].Kind)
	assert.Equal(t, []CourseEntry{NewPlainCourse("Física I")}, plan[0].Courses)

	assert.Equal(t, "1", plan[1].Label)
	require.Len(t, plan[1].Courses, 2)
	assert.Equal(t, NewStructuredCourse("Matemática I"), plan[1].Courses[0])
	assert.Equal(t, "N/A", plan[1].Courses[1].DisplayName())

	assert.Equal(t, SemesterText, plan[2].Kind)
	assert.Equal(t, "Ver portal", plan[2].Text)

	assert.Equal(t, SemesterUnrecognized, plan[3].Kind)
}

func TestStudyPlan_UnmarshalJSON_NonObjectIsEmpty(t *testing.T) {
	var record CareerRecord
	require.NoError(t, json.Unmarshal([]byte(`{"descripcion": "d", "plan_estudios": null}`), &record))
	assert.Empty(t, record.StudyPlan)

	require.NoError(t, json.Unmarshal([]byte(`{"plan_estudios": ["a", "b"]}`), &record))
	assert.Empty(t, record.StudyPlan)
}

func TestStudyPlan_UnmarshalJSON_DuplicateLabelReplacesInPlace(t *testing.T) {
	var plan StudyPlan
	require.NoError(t, json.Unmarshal([]byte(`{"1": ["A"], "2": ["B"], "1": ["C"]}`), &plan))

	require.Len(t, plan, 2)
	assert.Equal(t, "1", plan[0].Label)
	assert.Equal(t, "C", plan[0].Courses[0].Name)
}

func TestStudyPlan_UnmarshalYAML(t *testing.T) {
	data := `
descripcion: Ingeniería aplicada
plan_estudios:
  "2":
    - asignatura: Cálculo II
    - Dibujo
  "1":
    - asignatura: Cálculo I
  electivas: Consultar coordinación
  "4":
    - 12
`
	var record CareerRecord
	require.NoError(t, yaml.Unmarshal([]byte(data), &record))

	plan := record.StudyPlan
	require.Len(t, plan, 4)
	assert.Equal(t, "2", plan[0].Label)
	assert.Equal(t, []CourseEntry{NewStructuredCourse("Cálculo II"), NewPlainCourse("Dibujo")}, plan[0].Courses)
	assert.Equal(t, "1", plan[1].Label)
	assert.Equal(t, SemesterText, plan[2].Kind)
	assert.Equal(t, "Consultar coordinación", plan[2].Text)
	assert.Equal(t, CourseUnrecognized, plan[3].Courses[0].Kind)
}

func TestCareerRecord_DisplayName(t *testing.T) {
	r := CareerRecord{Key: "mecanica"}
	assert.Equal(t, "Ingeniería de Mecanica", r.DisplayName())

	r.Name = "Ingeniería Mecánica"
	assert.Equal(t, "Ingeniería Mecánica", r.DisplayName())
}

func TestStudyPlan_NullSubjectIsMissing(t *testing.T) {
	var fromJSON StudyPlan
	require.NoError(t, json.Unmarshal([]byte(`{"1": [{"asignatura": null}]}`), &fromJSON))
	require.Len(t, fromJSON, 1)
	require.Len(t, fromJSON[0].Courses, 1)
	assert.False(t, fromJSON[0].Courses[0].HasSubject)
	assert.Equal(t, "N/A", fromJSON[0].Courses[0].DisplayName())

	var record CareerRecord
	require.NoError(t, yaml.Unmarshal([]byte("plan_estudios:\n  \"1\":\n    - asignatura: ~\n"), &record))
	require.Len(t, record.StudyPlan, 1)
	require.Len(t, record.StudyPlan[0].Courses, 1)
	assert.Equal(t, "N/A", record.StudyPlan[0].Courses[0].DisplayName())
}
