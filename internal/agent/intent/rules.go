// Package intent declares the ordered keyword rules used to route a message
// to a local answer. Order is precedence: the first matching rule wins.
package intent

import "strings"

// Name identifies a sub-intent or institution topic
type Name string

// Career sub-intents
const (
	Plan        Name = "plan"
	Profile     Name = "profile"
	Outlets     Name = "outlets"
	Description Name = "description"
	Duration    Name = "duration"
	Summary     Name = "summary"
)

// Institution topics, named after the fact keys they read
const (
	Contact         Name = "contacto"
	Mission         Name = "mision"
	Vision          Name = "vision"
	InstitutionName Name = "nombre_institucion"
)

// Rule pairs a name with the marker phrases that trigger it.
// Markers are already normalized (lower-case, no accents).
type Rule struct {
	Name    Name
	Markers []string
}

// Matches reports whether any marker occurs in the normalized message
func (r Rule) Matches(normalized string) bool {
	for _, marker := range r.Markers {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}

// CareerKeywords are the career keys scanned for, in precedence order
var CareerKeywords = []string{"sistemas", "mecanica", "telecomunicaciones", "electrica"}

// CareerRules are the sub-intents looked for once a career matched
var CareerRules = []Rule{
	{Name: Plan, Markers: []string{"plan de estudio", "pensum"}},
	{Name: Profile, Markers: []string{"perfil", "egresado"}},
	{Name: Outlets, Markers: []string{"salidas profesionales", "campo laboral"}},
	{Name: Description, Markers: []string{"descripcion", "que es"}},
	{Name: Duration, Markers: []string{"duracion"}},
}

// FactRules map marker groups to institution fact topics
var FactRules = []Rule{
	{Name: Contact, Markers: []string{"contacto", "telefono", "ubicacion"}},
	{Name: Mission, Markers: []string{"mision"}},
	{Name: Vision, Markers: []string{"vision"}},
	{Name: InstitutionName, Markers: []string{"nombre de la institucion", "nombre de la universidad"}},
}

// Match returns the first rule matching the normalized message
func Match(rules []Rule, normalized string) (Rule, bool) {
	for _, rule := range rules {
		if rule.Matches(normalized) {
			return rule, true
		}
	}
	return Rule{}, false
}

// FirstKeyword returns the first career keyword found in the normalized message
func FirstKeyword(normalized string) (string, bool) {
	for _, keyword := range CareerKeywords {
		if strings.Contains(normalized, keyword) {
			return keyword, true
		}
	}
	return "", false
}
