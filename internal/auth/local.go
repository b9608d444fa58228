package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/mail"
	"JobDesk-backend/internal/model"
	"JobDesk-backend/internal/repository"
	"JobDesk-backend/internal/utilities"
)

// LocalAuthHandler handles signup, login, email verification, and password
// reset endpoints.
type LocalAuthHandler struct {
	DB         *database.DBinstanceStruct
	Applicants *repository.ApplicantRepository
	Mail       mail.Sender
	Log        *zap.Logger
}

// NewLocalAuthHandler creates a new LocalAuthHandler with its collaborators.
func NewLocalAuthHandler(db *database.DBinstanceStruct, applicants *repository.ApplicantRepository, sender mail.Sender, log *zap.Logger) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:         db,
		Applicants: applicants,
		Mail:       sender,
		Log:        log,
	}
}

// SignupHandler registers a new applicant account and sends a verification email.
// @Summary Register applicant account
// @Description Email must be unique. A verification link is emailed to the applicant.
// @Tags Auth
// @Accept json
// @Produce json
// @Param signup body object true "name, email, password, optional age"
// @Success 201 {object} utilities.MessageResponse "Account created"
// @Failure 400 {object} utilities.ErrorResponse "Missing fields, weak password"
// @Failure 409 {object} utilities.ErrorResponse "Email already registered"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/signup [post]
func (h *LocalAuthHandler) SignupHandler(c *gin.Context) {
	var info struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
		Age      *int   `json:"age"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Name, email, and password must be provided",
		})
		return
	}

	if len(info.Password) < 8 {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Password should longer or equal to 8 characters",
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

	verificationToken := uuid.NewString()
	applicant := model.Applicant{
		Name:              info.Name,
		Email:             info.Email,
		Password:          hashedPassword,
		Age:               info.Age,
		VerificationToken: &verificationToken,
	}

	if err := h.Applicants.Create(c.Request.Context(), nil, &applicant); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			c.JSON(http.StatusConflict, utilities.ErrorResponse{
				Error: "User already exists",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to create user: %s", err.Error()),
		})
		return
	}

	h.sendVerificationEmail(c, applicant.Email, verificationToken)

	c.JSON(http.StatusCreated, utilities.MessageResponse{
		Message: "User created successfully. Please verify your email.",
	})
}

// LoginHandler authenticates an applicant and returns an access token.
// @Summary Login with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param login body object true "email and password"
// @Success 200 {object} map[string]interface{} "access_token and applicant"
// @Failure 400 {object} utilities.ErrorResponse "Unknown user or wrong password"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /auth/login [post]
func (h *LocalAuthHandler) LoginHandler(c *gin.Context) {
	var info struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&info); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Email or password is not provided",
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

	if !utilities.CheckPassword(applicant.Password, info.Password) {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Invalid password",
		})
		return
	}

	accessToken, err := generateToken(applicant.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to generate access token: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Login successful",
		"access_token": accessToken,
		"applicant":    applicant,
	})
}

func (h *LocalAuthHandler) sendVerificationEmail(c *gin.Context, to, token string) {
	link := fmt.Sprintf("%s/email-verified/%s", frontendBaseURL(), token)
	body := fmt.Sprintf(`<p>Please click the link below to verify your email for the job application:</p>
	       <a href="%s">Verify Email</a>`, link)

	// Mail failures never roll back the owning operation; the applicant can
	// request a resend.
	if err := h.Mail.Send(c.Request.Context(), to, "Job Application Email Verification", body); err != nil {
		h.Log.Error("failed to send verification email",
			zap.String("to", to),
			zap.Error(err))
	}
}

func frontendBaseURL() string {
	if base := os.Getenv("FRONTEND_BASE_URL"); base != "" {
		return base
	}
	return "http://localhost:3000"
}
