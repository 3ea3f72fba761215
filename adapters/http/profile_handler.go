package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/profile-dashboard/internal/application/usecase/profile"
	"github.com/khoahotran/profile-dashboard/pkg/apperror"
	"github.com/khoahotran/profile-dashboard/pkg/logger"
)

type ProfileHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewProfileHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	input := profileUC.GetProfileInput{Email: c.Query("email")}
	output, err := h.profileUseCase.ExecuteGetProfile(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, ToProfileDTO(output.Profile))
}

func (h *ProfileHandler) UpsertProfile(c *gin.Context) {
	var req UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.NewInvalidInput("invalid JSON body for profile update", err))
		return
	}

	output, err := h.profileUseCase.ExecuteUpsertProfile(c.Request.Context(), req.ToInput())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile created/updated successfully",
		"id":      output.Profile.ID,
		"profile": ToProfileDTO(output.Profile),
	})
}

func (h *ProfileHandler) ListRevisions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	input := profileUC.ListRevisionsInput{
		Email: c.Query("email"),
		Limit: limit,
	}
	output, err := h.profileUseCase.ExecuteListRevisions(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	dtos := make([]RevisionDTO, len(output.Revisions))
	for i, r := range output.Revisions {
		dtos[i] = ToRevisionDTO(r)
	}
	c.JSON(http.StatusOK, dtos)
}
