package model

import (
	"bytes"
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// subjectField is the course record field carrying the subject name
const subjectField = "asignatura"

// CourseKind tags the shape a course entry was found in
type CourseKind int

const (
	CourseUnrecognized CourseKind = iota
	CourseStructured
	CoursePlain
)

// CourseEntry is one course of a semester.
// Structured entries may lack a subject name; plain entries are a bare name.
type CourseEntry struct {
	Kind       CourseKind
	Name       string
	HasSubject bool
}

// NewStructuredCourse returns a structured entry with a subject name
func NewStructuredCourse(subject string) CourseEntry {
	return CourseEntry{Kind: CourseStructured, Name: subject, HasSubject: true}
}

// NewPlainCourse returns a plain course-name entry
func NewPlainCourse(name string) CourseEntry {
	return CourseEntry{Kind: CoursePlain, Name: name}
}

// DisplayName reduces any entry shape to one displayable subject name.
func (c CourseEntry) DisplayName() string {
	switch c.Kind {
	case CoursePlain:
		return c.Name
	case CourseStructured:
		if c.HasSubject {
			return c.Name
		}
	}
	return "N/A"
}

// SemesterKind tags the shape of a semester's course data
type SemesterKind int

const (
	SemesterUnrecognized SemesterKind = iota
	SemesterList
	SemesterText
)

// Semester is one labelled entry of a study plan
type Semester struct {
	Label   string
	Kind    SemesterKind
	Courses []CourseEntry
	Text    string
}

// StudyPlan is the ordered list of semesters, in source order.
type StudyPlan []Semester

// set appends a semester or replaces the one with the same label in place.
func (p *StudyPlan) set(s Semester) {
	for i := range *p {
		if (*p)[i].Label == s.Label {
			(*p)[i] = s
			return
		}
	}
	*p = append(*p, s)
}

// UnmarshalJSON decodes a semester-label object keeping key order.
// Anything other than an object decodes as an empty plan.
func (p *StudyPlan) UnmarshalJSON(data []byte) error {
	*p = nil
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	if _, err := dec.Token(); err != nil {
		return err
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		p.set(parseJSONSemester(label, raw))
	}
	_, err := dec.Token()
	return err
}

func parseJSONSemester(label string, raw json.RawMessage) Semester {
	sem := Semester{Label: label}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return sem
	}

	switch raw[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return sem
		}
		sem.Kind = SemesterList
		sem.Courses = make([]CourseEntry, 0, len(items))
		for _, item := range items {
			sem.Courses = append(sem.Courses, parseJSONCourse(item))
		}
	case '"':
		if err := json.Unmarshal(raw, &sem.Text); err == nil {
			sem.Kind = SemesterText
		}
	}
	return sem
}

func parseJSONCourse(raw json.RawMessage) CourseEntry {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return CourseEntry{}
	}

	switch raw[0] {
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return CourseEntry{}
		}
		entry := CourseEntry{Kind: CourseStructured}
		if subject, ok := fields[subjectField]; ok {
			// null leaves name nil, same as a missing subject
			var name *string
			if err := json.Unmarshal(subject, &name); err == nil && name != nil {
				entry.Name = *name
				entry.HasSubject = true
			}
		}
		return entry
	case '"':
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			return NewPlainCourse(name)
		}
	}
	return CourseEntry{}
}

// UnmarshalYAML decodes a semester-label mapping keeping key order.
func (p *StudyPlan) UnmarshalYAML(value *yaml.Node) error {
	*p = nil
	if value.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		p.set(parseYAMLSemester(value.Content[i].Value, value.Content[i+1]))
	}
	return nil
}

func parseYAMLSemester(label string, node *yaml.Node) Semester {
	sem := Semester{Label: label}
	switch {
	case node.Kind == yaml.SequenceNode:
		sem.Kind = SemesterList
		sem.Courses = make([]CourseEntry, 0, len(node.Content))
		for _, item := range node.Content {
			sem.Courses = append(sem.Courses, parseYAMLCourse(item))
		}
	case isYAMLString(node):
		sem.Kind = SemesterText
		sem.Text = node.Value
	}
	return sem
}

func parseYAMLCourse(node *yaml.Node) CourseEntry {
	switch {
	case node.Kind == yaml.MappingNode:
		entry := CourseEntry{Kind: CourseStructured}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == subjectField && isYAMLString(node.Content[i+1]) {
				entry.Name = node.Content[i+1].Value
				entry.HasSubject = true
				break
			}
		}
		return entry
	case isYAMLString(node):
		return NewPlainCourse(node.Value)
	}
	return CourseEntry{}
}

func isYAMLString(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!str"
}
