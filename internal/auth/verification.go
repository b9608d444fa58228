package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"JobDesk-backend/internal/utilities"
)

// VerifyEmailHandler consumes a verification token and marks the applicant as
// verified.
// @Summary Verify applicant email
// @Tags Auth
// @Produce json
// @Param token query string true "Verification token from the emailed link"
// @Success 200 {object} utilities.MessageResponse "Email verified"
// @Failure 400 {object} utilities.ErrorResponse "Invalid or expired token"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/verify [get]
func (h *LocalAuthHandler) VerifyEmailHandler(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Token is required",
		})
		return
	}

	applicant, err := h.Applicants.FindByVerificationToken(c.Request.Context(), nil, token)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid or expired token",
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	// Clearing the token is what marks the account verified.
	applicant.VerificationToken = nil
	if err := h.Applicants.Save(c.Request.Context(), nil, applicant); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: "Email verified successfully!",
	})
}

// ResendVerificationHandler issues a fresh verification token and re-sends
// the verification email.
// @Summary Resend verification email
// @Tags Auth
// @Accept json
// @Produce json
// @Param resend body object true "email"
// @Success 200 {object} utilities.MessageResponse "Verification email sent"
// @Failure 400 {object} utilities.ErrorResponse "Unknown email or already verified"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/verify/resend [post]
func (h *LocalAuthHandler) ResendVerificationHandler(c *gin.Context) {
	var info struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email must be provided",
		})
		return
	}

	applicant, err := h.Applicants.FindByEmail(c.Request.Context(), nil, info.Email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "User not found",
		})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	if applicant.Verified() {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Applicant has already been verified.",
		})
		return
	}

	token := uuid.NewString()
	applicant.VerificationToken = &token
	if err := h.Applicants.Save(c.Request.Context(), nil, applicant); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user: %s", err.Error()),
		})
		return
	}

	h.sendVerificationEmail(c, applicant.Email, token)

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: "Verification email sent",
	})
}
