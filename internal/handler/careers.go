package handler

import (
	"net/http"

	"ingechat/internal/agent/studyplan"
	"ingechat/internal/model"

	"github.com/gin-gonic/gin"
)

type CareerSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Duration string `json:"duration,omitempty"`
}

type CareerDetail struct {
	CareerSummary
	Description         string   `json:"description,omitempty"`
	GraduateProfile     string   `json:"graduate_profile,omitempty"`
	ProfessionalOutlets []string `json:"professional_outlets"`
	StudyPlan           string   `json:"study_plan,omitempty"`
}

func toCareerSummary(c *model.CareerRecord) CareerSummary {
	return CareerSummary{ID: c.Key, Name: c.DisplayName(), Duration: c.Duration}
}

// HandleGetCareers lists every known career ordered by id
func (h *Handler) HandleGetCareers(c *gin.Context) {
	careers := h.catalog.Careers()
	responses := make([]CareerSummary, len(careers))
	for i := range careers {
		responses[i] = toCareerSummary(&careers[i])
	}
	c.JSON(http.StatusOK, responses)
}

// HandleGetCareer returns one career with its rendered study plan
func (h *Handler) HandleGetCareer(c *gin.Context) {
	career, ok := h.catalog.Career(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Career not found"})
		return
	}

	outlets := career.ProfessionalOutlets
	if outlets == nil {
		outlets = []string{}
	}
	detail := CareerDetail{
		CareerSummary:       toCareerSummary(career),
		Description:         career.Description,
		GraduateProfile:     career.GraduateProfile,
		ProfessionalOutlets: outlets,
	}
	if len(career.StudyPlan) > 0 {
		detail.StudyPlan = studyplan.Render(career.StudyPlan)
	}
	c.JSON(http.StatusOK, detail)
}
