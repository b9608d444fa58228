package auth

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/mail"
	"JobDesk-backend/internal/repository"
	"JobDesk-backend/internal/utilities"
)

// GetAccessToken is a helper function to obtain an access token for an
// applicant by simulating a login API call.
// It returns the access token as a string and any error encountered during the process.
func GetAccessToken(
	t *testing.T,
	db *database.DBinstanceStruct,
	email string,
	password string,
) (string, error) {
	t.Helper()
	handler := NewLocalAuthHandler(db, repository.NewApplicantRepository(db), mail.NewRecorder(), zap.NewNop())
	rec, resp, err := utilities.SimulateAPICall(handler.LoginHandler, "/login", http.MethodPost, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	if rec.Code != http.StatusOK {
		return "", fmt.Errorf("login Failed: status %d, body: %s", rec.Code, rec.Body.String())
	}
	if resp["access_token"] == nil {
		return "", fmt.Errorf("login Failed: no access_token in response: %s", rec.Body.String())
	}
	return resp["access_token"].(string), nil
}

// TokenForUnknownApplicant issues a syntactically valid access token whose
// subject matches no stored applicant.
func TokenForUnknownApplicant() (string, error) {
	return generateToken(uuid.New())
}
