package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	searchUC "github.com/khoahotran/profile-dashboard/internal/application/usecase/search"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type SearchHandler struct {
	searchUseCase *searchUC.SearchUseCase
	logger        logger.Logger
}

func NewSearchHandler(uc *searchUC.SearchUseCase, log logger.Logger) *SearchHandler {
	return &SearchHandler{
		searchUseCase: uc,
		logger:        log,
	}
}

func (h *SearchHandler) Search(c *gin.Context) {
	output, err := h.searchUseCase.ExecuteSearch(c.Request.Context(), searchUC.SearchInput{Query: c.Query("q")})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, ToMatchRecordDTOs(output.Results))
}

func (h *SearchHandler) TopSkills(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	withCounts, _ := strconv.ParseBool(c.DefaultQuery("with_counts", "false"))

	input := searchUC.TopSkillsInput{Limit: limit, WithCounts: withCounts}
	output, err := h.searchUseCase.ExecuteTopSkills(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	if withCounts {
		c.JSON(http.StatusOK, output.Counts)
		return
	}
	c.JSON(http.StatusOK, output.Skills)
}

func (h *SearchHandler) ProjectsBySkill(c *gin.Context) {
	output, err := h.searchUseCase.ExecuteProjectsBySkill(c.Request.Context(), searchUC.ProjectsBySkillInput{Skill: c.Query("skill")})
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]ProjectBySkillDTO, len(output.Projects))
	for i, p := range output.Projects {
		dtos[i] = ToProjectBySkillDTO(p)
	}
	c.JSON(http.StatusOK, dtos)
}
