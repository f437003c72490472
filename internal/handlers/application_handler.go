package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/getmentor/mentor-application-api/internal/middleware"
	"github.com/getmentor/mentor-application-api/internal/models"
	"github.com/getmentor/mentor-application-api/internal/services"
	"github.com/getmentor/mentor-application-api/internal/wizard"
	"github.com/gin-gonic/gin"
)

// profileImageFormField is the multipart field carrying the picked file
const profileImageFormField = "image"

// ApplicationHandler handles the mentor application wizard endpoints
type ApplicationHandler struct {
	service services.ApplicationServiceInterface
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(service services.ApplicationServiceInterface) *ApplicationHandler {
	return &ApplicationHandler{service: service}
}

// GetOptions handles GET /api/v1/application/options
func (h *ApplicationHandler) GetOptions(c *gin.Context) {
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, h.service.Options())
}

// Start handles POST /api/v1/application
// Creates an empty draft and binds it to the browser with the session cookie
func (h *ApplicationHandler) Start(c *gin.Context) {
	state, token, err := h.service.Start(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to start application", err)
		return
	}

	middleware.SetSessionCookie(
		c,
		token,
		h.service.GetSessionTTL(),
		h.service.GetCookieDomain(),
		h.service.GetCookieSecure(),
	)

	c.JSON(http.StatusCreated, state)
}

// Get handles GET /api/v1/application
func (h *ApplicationHandler) Get(c *gin.Context) {
	draftID, ok := h.draftID(c)
	if !ok {
		return
	}

	state, err := h.service.Get(c.Request.Context(), draftID)
	if err != nil {
		respondServiceError(c, h.service, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// UpdateFields handles PATCH /api/v1/application/fields
func (h *ApplicationHandler) UpdateFields(c *gin.Context) {
	draftID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req models.UpdateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	state, err := h.service.UpdateFields(c.Request.Context(), draftID, req.Fields)
	if err != nil {
		respondServiceError(c, h.service, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ToggleTag handles POST /api/v1/application/tags
func (h *ApplicationHandler) ToggleTag(c *gin.Context) {
	draftID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req models.ToggleTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	resp, err := h.service.ToggleTag(c.Request.Context(), draftID, req.Field, req.Tag)
	if err != nil {
		respondServiceError(c, h.service, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Navigate handles PUT /api/v1/application/tab
func (h *ApplicationHandler) Navigate(c *gin.Context) {
	draftID, ok := h.draftID(c)
	if !ok {
		return
	}

	var req models.NavigateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondErrorWithDetails(c, http.StatusBadRequest, "Validation failed", ParseValidationErrors(err), err)
		return
	}

	state, err := h.service.Navigate(c.Request.Context(), draftID, req.Tab)
	if err != nil {
		respondServiceError(c, h.service, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

// ValidateSection handles GET /api/v1/application/sections/:tab/validate
func (h *ApplicationHandler) ValidateSection(c *gin.Context) {
	draftID, ok := h.draftID(c)
	if !ok {
		return
	}

	resp, err := h.service.ValidateSection(c.Request.Context(), draftID, c.Param("tab"))
	if err != nil {
		respondServiceError(c, h.service, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// UploadProfileImage handles POST /api/v1/application/profile-image
// Expects multipart/form-data with the picture in the "image" field
func (h *ApplicationHandler) UploadProfileImage(c *gin.Context) {
	draftID, ok := h.draftID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile(profileImageFormField)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Image file is required", err)
		return
	}

	resp, err := h.service.UploadProfileImage(c.Request.Context(), draftID, func() (io.ReadCloser, error) {
		return fileHeader.Open()
	})
	if err != nil {
		if errors.Is(err, wizard.ErrImageTooLarge) {
			respondError(c, http.StatusRequestEntityTooLarge, "Image is too large", err)
			return
		}
		respondServiceError(c, h.service, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Submit handles POST /api/v1/application/submit
func (h *ApplicationHandler) Submit(c *gin.Context) {
	draftID, ok := h.draftID(c)
	if !ok {
		return
	}

	resp, err := h.service.Submit(c.Request.Context(), draftID)
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrValidationFailed) && resp != nil:
			attachError(c, err)
			c.JSON(http.StatusUnprocessableEntity, resp)
		case resp != nil:
			attachError(c, err)
			c.JSON(http.StatusInternalServerError, resp)
		default:
			respondServiceError(c, h.service, err)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Discard handles DELETE /api/v1/application
// Removes the draft and clears the session cookie
func (h *ApplicationHandler) Discard(c *gin.Context) {
	draftID, ok := h.draftID(c)
	if !ok {
		return
	}

	if err := h.service.Discard(c.Request.Context(), draftID); err != nil {
		respondServiceError(c, h.service, err)
		return
	}

	middleware.ClearSessionCookie(c, h.service.GetCookieDomain(), h.service.GetCookieSecure())
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ApplicationHandler) draftID(c *gin.Context) (string, bool) {
	draftID, err := middleware.GetDraftID(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "No application in progress", err)
		return "", false
	}
	return draftID, true
}
