package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/ogtodo/internal/apierrors"
	"github.com/julianstephens/ogtodo/internal/profile"
	"github.com/julianstephens/ogtodo/internal/server/dto"
	"github.com/julianstephens/ogtodo/internal/server/mapper"
	"github.com/julianstephens/ogtodo/internal/server/middleware"
)

type ProfileHandler struct {
	profile ProfileService
}

func NewProfileHandler(profile ProfileService) *ProfileHandler {
	return &ProfileHandler{profile: profile}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.profile.Get(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, "get profile", err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToUserItem(user))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	user, err := h.profile.Update(c.Request.Context(), middleware.GetUserID(c), profile.UpdateInput{
		Name:  req.Name,
		Email: req.Email,
		Image: req.Image,
	})
	if err != nil {
		abortWithError(c, "update profile", err)
		return
	}
	c.JSON(http.StatusOK, mapper.ToUserItem(user))
}

func (h *ProfileHandler) Stats(c *gin.Context) {
	stats, err := h.profile.Stats(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, "compute profile stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Export streams the caller's data as an attachment in the requested format.
func (h *ProfileHandler) Export(c *gin.Context) {
	format, err := profile.ParseFormat(c.Query("format"))
	if err != nil {
		abortWithError(c, "export profile", err)
		return
	}
	export, err := h.profile.Export(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		abortWithError(c, "export profile", err)
		return
	}
	data, err := profile.EncodeExport(export, format)
	if err != nil {
		abortWithError(c, "encode export", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="ogtodo-export.`+string(format)+`"`)
	c.Data(http.StatusOK, format.ContentType(), data)
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	if err := h.profile.DeleteAccount(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		abortWithError(c, "delete account", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, apierrors.MsgInvalidPayload)
		return
	}
	if err := h.profile.ChangePassword(c.Request.Context(), middleware.GetUserID(c), req.CurrentPassword, req.NewPassword); err != nil {
		abortWithError(c, "change password", err)
		return
	}
	c.Status(http.StatusNoContent)
}
