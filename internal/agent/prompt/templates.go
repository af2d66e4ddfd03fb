package prompt

// DefaultPersona introduces the assistant. It can be replaced by configuration.
const DefaultPersona = `Eres IngeChat 360°, un asistente virtual especializado en proporcionar información precisa y detallada sobre las carreras de Ingeniería (Sistemas, Mecánica, Telecomunicaciones y Eléctrica) de la UNEFA Núcleo Miranda, Sede Los Teques.`

// DomainRestriction keeps the model on topic. It is always part of the framing.
const DomainRestriction = `Tu objetivo es asistir a estudiantes actuales y futuros con consultas académicas y profesionales relacionadas exclusivamente con estas carreras. Si la pregunta no está directamente relacionada con las carreras de ingeniería de la UNEFA, responde amablemente que tu función es específica y no puedes asistir con ese tema. Proporciona respuestas concisas pero informativas, y si es posible, sugiere dónde encontrar más detalles.`

// SystemInstruction frames every external call: persona plus domain restriction.
const SystemInstruction = DefaultPersona + " " + DomainRestriction

// ApologyMessage replaces any failed or empty external reply
const ApologyMessage = "Lo siento, tuve un problema al procesar tu solicitud. Por favor, inténtalo de nuevo más tarde."

// Career reply templates. %s is the career display name unless noted.
const (
	PlanTemplate           = "El plan de estudios de %s incluye:\n%s\nPara más detalles, consulta la sección de la carrera en el portal de la UNEFA."
	PlanUnavailable        = "Información del plan de estudios para %s no disponible."
	ProfileUnavailable     = "Perfil del egresado para %s no disponible."
	OutletsTemplate        = "Algunas salidas profesionales para %s incluyen: %s."
	OutletsUnavailable     = "Salidas profesionales para %s no disponibles."
	DescriptionUnavailable = "Descripción para %s no disponible."
	DurationTemplate       = "La duración de la carrera de %s es de %s."
	SummaryTemplate        = "%s: %s Duración: %s. Puedes preguntar sobre su perfil de egresado, plan de estudios o salidas profesionales."
	SummaryNoDescription   = "Descripción no disponible."
	NotAvailable           = "N/A"
)
