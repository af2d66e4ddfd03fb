package agent

import (
	"sort"

	"ingechat/internal/agent/deps"
	"ingechat/internal/agent/sanitize"
	"ingechat/internal/agent/studyplan"

	"go.uber.org/zap"
	"google.golang.org/adk/tool"
	"google.golang.org/adk/tool/functiontool"
)

// ============================================
// Tool Input/Output Types
// ============================================

// list_careers tool (no input needed)
type careerSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration string `json:"duration,omitempty"`
}

type listCareersOutput struct {
	Careers []careerSummary `json:"careers"`
	Count   int             `json:"count"`
}

// get_career_details tool
type getCareerDetailsInput struct {
	Career string `json:"career" jsonschema:"Identificador de la carrera: sistemas, mecanica, telecomunicaciones o electrica"`
}

type getCareerDetailsOutput struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Description         string   `json:"description,omitempty"`
	Duration            string   `json:"duration,omitempty"`
	GraduateProfile     string   `json:"graduate_profile,omitempty"`
	ProfessionalOutlets []string `json:"professional_outlets,omitempty"`
	StudyPlan           string   `json:"study_plan,omitempty"`
	Error               string   `json:"error,omitempty"`
}

// get_institution_info tool (no input needed)
type getInstitutionInfoOutput struct {
	Facts map[string]string `json:"facts"`
}

// Empty input struct for tools with no parameters
type emptyInput struct{}

// ============================================
// KnowledgeTools - exposes local knowledge to the model
// ============================================

type KnowledgeTools struct {
	catalog deps.Catalog
	logger  *zap.Logger
}

func NewKnowledgeTools(catalog deps.Catalog, logger *zap.Logger) *KnowledgeTools {
	return &KnowledgeTools{catalog: catalog, logger: logger}
}

// ============================================
// Tool Handlers
// ============================================

func (t *KnowledgeTools) listCareers(_ tool.Context, _ emptyInput) (listCareersOutput, error) {
	careers := t.catalog.Careers()
	out := listCareersOutput{Careers: make([]careerSummary, 0, len(careers)), Count: len(careers)}
	for _, c := range careers {
		out.Careers = append(out.Careers, careerSummary{
			ID:       c.Key,
			Name:     sanitize.Text(c.DisplayName()),
			Duration: sanitize.Text(c.Duration),
		})
	}
	t.logger.Debug("Tool called", zap.String("tool", "list_careers"), zap.Int("results", out.Count))
	return out, nil
}

func (t *KnowledgeTools) getCareerDetails(_ tool.Context, input getCareerDetailsInput) (getCareerDetailsOutput, error) {
	t.logger.Debug("Tool called", zap.String("tool", "get_career_details"), zap.String("career", input.Career))
	record, ok := t.catalog.Career(input.Career)
	if !ok {
		return getCareerDetailsOutput{Error: "Carrera no encontrada"}, nil
	}

	out := getCareerDetailsOutput{
		ID:                  record.Key,
		Name:                sanitize.Text(record.DisplayName()),
		Description:         sanitize.Text(record.Description),
		Duration:            sanitize.Text(record.Duration),
		GraduateProfile:     sanitize.Text(record.GraduateProfile),
		ProfessionalOutlets: sanitize.Lines(record.ProfessionalOutlets),
	}
	if len(record.StudyPlan) > 0 {
		out.StudyPlan = sanitize.Text(studyplan.Render(record.StudyPlan))
	}
	return out, nil
}

func (t *KnowledgeTools) getInstitutionInfo(_ tool.Context, _ emptyInput) (getInstitutionInfoOutput, error) {
	facts := t.catalog.InstitutionFacts()
	topics := make([]string, 0, len(facts))
	for topic, fact := range facts {
		facts[topic] = sanitize.Text(fact)
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	t.logger.Debug("Tool called", zap.String("tool", "get_institution_info"), zap.Strings("topics", topics))
	return getInstitutionInfoOutput{Facts: facts}, nil
}

// ============================================
// BuildTools - creates ADK tools from handlers
// ============================================

func (t *KnowledgeTools) BuildTools() ([]tool.Tool, error) {
	listTool, err := functiontool.New(functiontool.Config{
		Name:        "list_careers",
		Description: "Lista las carreras de ingeniería disponibles",
	}, t.listCareers)
	if err != nil {
		return nil, err
	}

	detailsTool, err := functiontool.New(functiontool.Config{
		Name:        "get_career_details",
		Description: "Obtiene descripción, duración, perfil, salidas profesionales y plan de estudios de una carrera",
	}, t.getCareerDetails)
	if err != nil {
		return nil, err
	}

	institutionTool, err := functiontool.New(functiontool.Config{
		Name:        "get_institution_info",
		Description: "Obtiene misión, visión, contacto y nombre de la institución",
	}, t.getInstitutionInfo)
	if err != nil {
		return nil, err
	}

	return []tool.Tool{listTool, detailsTool, institutionTool}, nil
}
