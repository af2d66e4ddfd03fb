package model

import "ingechat/internal/textnorm"

// TrainingPair is a prompt/completion example answered verbatim
type TrainingPair struct {
	Prompt     string `json:"prompt" yaml:"prompt"`
	Completion string `json:"completion" yaml:"completion"`
}

// FaqEntry is one frequently asked question
type FaqEntry struct {
	Question string `json:"pregunta" yaml:"pregunta"`
	Answer   string `json:"respuesta" yaml:"respuesta"`
}

// CareerRecord holds everything known about one engineering career
type CareerRecord struct {
	Key                 string    `json:"-" yaml:"-"`
	Name                string    `json:"carrera,omitempty" yaml:"carrera,omitempty"`
	Description         string    `json:"descripcion" yaml:"descripcion"`
	Duration            string    `json:"duracion" yaml:"duracion"`
	GraduateProfile     string    `json:"perfil_egresado" yaml:"perfil_egresado"`
	ProfessionalOutlets []string  `json:"salidas_profesionales" yaml:"salidas_profesionales"`
	StudyPlan           StudyPlan `json:"plan_estudios" yaml:"plan_estudios"`
}

// DisplayName returns the human readable career name used in replies.
func (c *CareerRecord) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return "Ingeniería de " + textnorm.Capitalize(c.Key)
}

// Dataset is the already-parsed knowledge handed to the store
type Dataset struct {
	Training []TrainingPair
	FAQs     []FaqEntry
	Careers  []CareerRecord
	Facts    map[string]string
}
