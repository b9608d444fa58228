package auth

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"JobDesk-backend/internal/utilities"
)

// resetTokenTTL is how long a password reset link stays valid.
const resetTokenTTL = time.Hour

// ForgotPasswordHandler issues a password reset token and emails a reset link.
// The response does not reveal whether the email is registered.
// @Summary Request a password reset link
// @Tags Auth
// @Accept json
// @Produce json
// @Param forgot body object true "email"
// @Success 200 {object} utilities.MessageResponse "Reset email sent if account exists"
// @Failure 400 {object} utilities.ErrorResponse "Missing email"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/forgot-password [post]
func (h *LocalAuthHandler) ForgotPasswordHandler(c *gin.Context) {
	var info struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email must be provided",
		})
		return
	}

	genericOK := utilities.MessageResponse{
		Message: "If the account exists, a reset link has been sent",
	}

	applicant, err := h.Applicants.FindByEmail(c.Request.Context(), nil, info.Email)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusOK, genericOK)
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Database error: %s", err.Error()),
		})
		return
	}

	token := uuid.NewString()
	expires := time.Now().Add(resetTokenTTL)
	applicant.ResetPasswordToken = &token
	applicant.ResetPasswordExpires = &expires

	if err := h.Applicants.Save(c.Request.Context(), nil, applicant); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user: %s", err.Error()),
		})
		return
	}

	link := fmt.Sprintf("%s/reset-password/%s", frontendBaseURL(), token)
	body := fmt.Sprintf(`<p>Click the link below to reset your password. The link expires in one hour.</p>
	       <a href="%s">Reset Password</a>`, link)
	if err := h.Mail.Send(c.Request.Context(), applicant.Email, "Password Reset", body); err != nil {
		h.Log.Error("failed to send reset email",
			zap.String("to", applicant.Email),
			zap.Error(err))
	}

	c.JSON(http.StatusOK, genericOK)
}

// ResetPasswordHandler consumes a reset token and sets the new password.
// @Summary Reset password with a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param reset body object true "token and new password"
// @Success 200 {object} utilities.MessageResponse "Password updated"
// @Failure 400 {object} utilities.ErrorResponse "Invalid or expired token, weak password"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/reset-password [post]
func (h *LocalAuthHandler) ResetPasswordHandler(c *gin.Context) {
	var info struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Token and password must be provided",
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
		})
		return
	}

	applicant, err := h.Applicants.FindByResetToken(c.Request.Context(), nil, info.Token)
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

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed hash password: %s", err.Error()),
		})
		return
	}

	// Token is single use: cleared together with the password change.
	applicant.Password = hashedPassword
	applicant.ResetPasswordToken = nil
	applicant.ResetPasswordExpires = nil

	if err := h.Applicants.Save(c.Request.Context(), nil, applicant); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update user: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{
		Message: "Password updated successfully",
	})
}
