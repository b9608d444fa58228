// Package application provides HTTP handlers for job application operations.
package application

import (
	"JobDesk-backend/internal/model"
	"JobDesk-backend/internal/utilities"
	"JobDesk-backend/internal/workflow"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// attachmentFields are the multipart form fields carrying application
// attachments, one optional file per field.
var attachmentFields = []string{"photo", "certification", "signature"}

// ApplicationController handles job application related endpoints
type ApplicationController struct {
	Workflow *workflow.Workflow
	Log      *zap.Logger
}

// NewApplicationController creates a new instance of ApplicationController.
func NewApplicationController(wf *workflow.Workflow, log *zap.Logger) *ApplicationController {
	return &ApplicationController{
		Workflow: wf,
		Log:      log,
	}
}

// SubmitResponse is the payload returned after a successful submission.
type SubmitResponse struct {
	Message       string `json:"message"`
	ApplicationID string `json:"application_id"`
}

// SubmitHandler handles submission of a new application to a job posting.
// @Summary Apply to a job posting
// @Description Multipart request, "application" field holds the application JSON, photo/certification/signature fields hold optional attachments
// @Tags Application
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job posting"
// @Param application formData string true "Application information as JSON"
// @Param photo formData file false "Passport photo"
// @Param certification formData file false "Certification document"
// @Param signature formData file false "Signature image"
// @Success 201 {object} SubmitResponse "Successfully applied to job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Submitting on behalf of another applicant"
// @Failure 404 {object} utilities.ErrorResponse "Job posting or applicant not found"
// @Failure 409 {object} utilities.ErrorResponse "Already applied to this job posting"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /postings/{id}/apply [post]
func (ac *ApplicationController) SubmitHandler(c *gin.Context) {
	applicant, err := utilities.ExtractApplicant(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	postingID, ok := postingIDParam(c)
	if !ok {
		return
	}

	detail := model.ApplicationDetail{}
	if !bindApplicationField(c, &detail) {
		return
	}

	if detail.ApplicantID == uuid.Nil {
		detail.ApplicantID = applicant.ID
	}
	if detail.ApplicantID != applicant.ID {
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{
			Error: "Cannot submit an application on behalf of another applicant",
		})
		return
	}

	files, ok := ac.stageAttachments(c)
	if !ok {
		return
	}

	applicationID, err := ac.Workflow.Submit(c.Request.Context(), postingID, detail, files)
	if err != nil {
		ac.respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SubmitResponse{
		Message:       "Application submitted successfully",
		ApplicationID: applicationID,
	})
}

// EditHandler merges a partial update over the caller's application on the
// given posting. Attachment fields that carry a file replace the stored blob.
// @Summary Edit an existing application
// @Description Multipart request, "application" field holds the partial application JSON, file fields replace stored attachments
// @Tags Application
// @Accept mpfd
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job posting"
// @Param application formData string true "Changed application fields as JSON"
// @Param photo formData file false "Replacement passport photo"
// @Param certification formData file false "Replacement certification document"
// @Param signature formData file false "Replacement signature image"
// @Success 200 {object} utilities.MessageResponse "Successfully updated application"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header or request body"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 404 {object} utilities.ErrorResponse "Job posting or application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database or storage error"
// @Router /postings/{id}/application [put]
func (ac *ApplicationController) EditHandler(c *gin.Context) {
	applicant, err := utilities.ExtractApplicant(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	postingID, ok := postingIDParam(c)
	if !ok {
		return
	}

	patch := model.ApplicationPatch{}
	if !bindApplicationField(c, &patch) {
		return
	}

	files, ok := ac.stageAttachments(c)
	if !ok {
		return
	}

	if err := ac.Workflow.Edit(c.Request.Context(), postingID, applicant.ID, patch, files); err != nil {
		ac.respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Application updated successfully"})
}

// WithdrawHandler removes the caller's application from the posting.
// @Summary Withdraw an application
// @Tags Application
// @Produce json
// @Param Authorization header string true "Insert your access token" default(Bearer <your access token>)
// @Param id path integer true "ID of the job posting"
// @Param applicationId path string true "Application id, e.g. JOB1-0004"
// @Success 200 {object} utilities.MessageResponse "Successfully withdrew application"
// @Failure 400 {object} utilities.ErrorResponse "Invalid authorization header"
// @Failure 401 {object} utilities.ErrorResponse "Invalid token"
// @Failure 403 {object} utilities.ErrorResponse "Application belongs to another applicant"
// @Failure 404 {object} utilities.ErrorResponse "Job posting or application not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /postings/{id}/applications/{applicationId} [delete]
func (ac *ApplicationController) WithdrawHandler(c *gin.Context) {
	applicant, err := utilities.ExtractApplicant(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, utilities.ErrorResponse{Error: err.Error()})
		return
	}

	postingID, ok := postingIDParam(c)
	if !ok {
		return
	}
	applicationID := c.Param("applicationId")

	if err := ac.Workflow.Withdraw(c.Request.Context(), postingID, applicationID, applicant.ID); err != nil {
		ac.respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Application withdrawn successfully"})
}

func postingIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job posting id"})
		return 0, false
	}
	return uint(id), true
}

// bindApplicationField decodes the JSON carried in the "application" multipart
// field into dst.
func bindApplicationField(c *gin.Context, dst any) bool {
	raw := c.PostForm("application")
	if raw == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "Missing application field in multipart form",
		})
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid application field: %s", err.Error()),
		})
		return false
	}
	return true
}

// stageAttachments copies every attachment field present in the request onto
// temp files the workflow can upload from. The workflow removes the temp files
// on every outcome; on a staging failure the already staged ones are removed
// here.
func (ac *ApplicationController) stageAttachments(c *gin.Context) (workflow.StagedFiles, bool) {
	files := workflow.StagedFiles{}
	dst := map[string]**workflow.StagedFile{
		"photo":         &files.Photo,
		"certification": &files.Certification,
		"signature":     &files.Signature,
	}

	for _, field := range attachmentFields {
		header, err := c.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			files.Cleanup(ac.Log)
			c.JSON(http.StatusRequestEntityTooLarge, utilities.ErrorResponse{Error: err.Error()})
			return workflow.StagedFiles{}, false
		}
		if err != nil {
			files.Cleanup(ac.Log)
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to retrieve file: %s", err.Error()),
			})
			return workflow.StagedFiles{}, false
		}

		staged, err := ac.stageFile(c, field, header)
		if err != nil {
			files.Cleanup(ac.Log)
			c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
				Error: fmt.Sprintf("Failed to stage file: %s", err.Error()),
			})
			return workflow.StagedFiles{}, false
		}
		*dst[field] = staged
	}
	return files, true
}

func (ac *ApplicationController) stageFile(c *gin.Context, field string, header *multipart.FileHeader) (*workflow.StagedFile, error) {
	tmp, err := os.CreateTemp("", "application-"+field+"-*")
	if err != nil {
		return nil, err
	}
	path := tmp.Name()
	if err := tmp.Close(); err != nil {
		return nil, err
	}
	if err := c.SaveUploadedFile(header, path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			ac.Log.Warn("failed to remove staged upload", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}
	return &workflow.StagedFile{
		Path:         path,
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
	}, nil
}

// respondWorkflowError maps workflow sentinel errors onto HTTP statuses.
func (ac *ApplicationController) respondWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workflow.ErrValidation):
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, workflow.ErrConflict):
		c.JSON(http.StatusConflict, utilities.ErrorResponse{Error: err.Error()})
	case errors.Is(err, workflow.ErrNotOwner):
		c.JSON(http.StatusForbidden, utilities.ErrorResponse{Error: err.Error()})
	default:
		ac.Log.Error("application workflow failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to process application: %s", err.Error()),
		})
	}
}
