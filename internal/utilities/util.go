// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"JobDesk-backend/internal/model"
)

// ErrorResponse type for swagger docs
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse type for swagger docs
type MessageResponse struct {
	Message string `json:"message"`
}

// ExtractApplicant extracts the applicant model from Gin context.
// It does not abort the request; it returns an error when missing/invalid.
func ExtractApplicant(c *gin.Context) (model.Applicant, error) {
	u, _ := c.Get("applicant")
	if u == nil {
		return model.Applicant{}, errors.New("Applicant information not provided")
	}

	applicant, ok := u.(model.Applicant)
	if !ok {
		return model.Applicant{}, errors.New("Failed to assert type")
	}
	return applicant, nil
}

// HashPassword hashes a plain password with bcrypt default cost.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword compares a plain password against a bcrypt hash.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
