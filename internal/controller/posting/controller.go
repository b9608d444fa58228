// Package posting provides HTTP handlers for job posting related operations.
package posting

import (
	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/model"
	"JobDesk-backend/internal/repository"
	"JobDesk-backend/internal/utilities"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostingController handles job posting related endpoints
type PostingController struct {
	DB       *database.DBinstanceStruct
	Postings *repository.JobPostingRepository
}

// NewPostingController creates a new instance of PostingController
func NewPostingController(db *database.DBinstanceStruct) *PostingController {
	return &PostingController{
		DB:       db,
		Postings: repository.NewJobPostingRepository(db),
	}
}

// ListResponse is the paginated payload returned by ListPostings.
type ListResponse struct {
	JobPostings []model.JobPosting `json:"job_postings"`
	TotalPages  int64              `json:"total_pages"`
	CurrentPage int                `json:"current_page"`
	TotalPosts  int64              `json:"total_posts"`
}

// CreatePostingHandler handles the creation of a new job posting.
// @Summary Create job posting based on given json structure
// @Tags Posting
// @Accept json
// @Produce json
// @Param Posting body model.EditablePostingInfo true "Input posting information"
// @Success 201 {object} model.JobPosting "Successfully create job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid posting struct"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /postings [post]
func (pc *PostingController) CreatePostingHandler(c *gin.Context) {

	posting := model.JobPosting{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&posting.EditablePostingInfo); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Invalid request body: %s", err.Error()),
		})
		return
	}

	if posting.CompanyName == "" || posting.JobTitle == "" {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: "company_name and job_title are required",
		})
		return
	}

	if err := pc.Postings.Create(c.Request.Context(), nil, &posting); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to create job posting: ", err),
		})
		return
	}

	c.JSON(http.StatusCreated, posting)
}

// ListPostings fetches job postings that match query from the database and
// returns them as a paginated JSON response.
// @Summary Get job postings based on query
// @Description Every query are not required, but they have specific use defined in their description
// @Tags Posting
// @Produce json
// @Param page query integer false "Page number, starting from 1" default(1)
// @Param limit query integer false "Page size" default(10)
// @Param jobTitle query string false "Search from job title with substring matching and case insensitive"
// @Param experienceRequired query string false "Experience field, must exactly match to get result"
// @Param educationalBackground query string false "Search from educational background with substring matching and case insensitive"
// @Param location query string false "Search from location with substring matching and case insensitive"
// @Param salary query string false "Salary field, must exactly match to get result"
// @Param desc query boolean false "Sorting by posted date in descending if true, otherwise ascending"
// @Success 200 {object} ListResponse "Return matching job posting(s)"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /postings [get]
func (pc *PostingController) ListPostings(c *gin.Context) {

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	rawJobTitle := c.Query("jobTitle")
	rawExp := c.Query("experienceRequired")
	rawEducation := c.Query("educationalBackground")
	rawLocation := c.Query("location")
	rawSalary := c.Query("salary")
	rawDesc := c.Query("desc")

	result := pc.DB.Model(&model.JobPosting{})

	if rawJobTitle != "" {
		result = result.Where("job_title ILIKE ?", "%"+rawJobTitle+"%")
	}

	if rawExp != "" {
		result = result.Where("experience_required = ?", rawExp)
	}

	if rawEducation != "" {
		result = result.Where("educational_background ILIKE ?", "%"+rawEducation+"%")
	}

	if rawLocation != "" {
		result = result.Where("location ILIKE ?", "%"+rawLocation+"%")
	}

	if rawSalary != "" {
		result = result.Where("salary = ?", rawSalary)
	}

	var totalPosts int64
	if err := result.Count(&totalPosts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to count job postings: ", err.Error()),
		})
		return
	}

	postings := []model.JobPosting{}
	err = result.Order(clause.OrderByColumn{
		Column: clause.Column{Name: "posted_date"},
		Desc:   strings.ToLower(rawDesc) == "true",
	}).Offset((page - 1) * limit).Limit(limit).Find(&postings).Error

	if err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprint("Failed to fetch job postings: ", err.Error()),
		})
		return
	}

	totalPages := totalPosts / int64(limit)
	if totalPosts%int64(limit) != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, ListResponse{
		JobPostings: postings,
		TotalPages:  totalPages,
		CurrentPage: page,
		TotalPosts:  totalPosts,
	})
}

// GetPostingByID fetches a job posting by its ID from the database
// and returns it as a JSON response.
// @Summary Get job posting by ID
// @Description Retrieve a specific job posting using its unique ID
// @Tags Posting
// @Produce json
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} model.JobPosting "Return the job posting with the specified ID"
// @Failure 404 {object} utilities.ErrorResponse "Job posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /postings/{id} [get]
func (pc *PostingController) GetPostingByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job posting id"})
		return
	}

	posting, err := pc.Postings.FindByID(c.Request.Context(), nil, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, posting)
}

// EditPosting replaces the editable part of a job posting.
// @Summary Edit job posting based on given json structure
// @Description Replaces every editable field, applications attached to the posting are untouched
// @Tags Posting
// @Accept json
// @Produce json
// @Param id path integer true "ID of desired job posting"
// @Param Posting body model.EditablePostingInfo true "Input posting information"
// @Success 200 {object} model.JobPosting "Successfully update job posting"
// @Failure 400 {object} utilities.ErrorResponse "Invalid posting struct"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /postings/{id} [put]
func (pc *PostingController) EditPosting(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job posting id"})
		return
	}

	posting, err := pc.Postings.FindByID(c.Request.Context(), nil, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to retrieve job posting: %s", err.Error()),
		})
		return
	}

	updated := model.EditablePostingInfo{}
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&updated); err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to parse request body: %s", err.Error()),
		})
		return
	}

	posting.EditablePostingInfo = updated
	if err := pc.Postings.Save(c.Request.Context(), nil, posting); err != nil {
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to update job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, posting)
}

// DeletePosting removes a job posting and the applications embedded in it.
// @Summary Delete given job posting ID
// @Tags Posting
// @Produce json
// @Param id path integer true "ID of desired job posting"
// @Success 200 {object} utilities.MessageResponse "Successfully delete job posting"
// @Failure 404 {object} utilities.ErrorResponse "Posting not found"
// @Failure 500 {object} utilities.ErrorResponse "Database error"
// @Router /postings/{id} [delete]
func (pc *PostingController) DeletePosting(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, utilities.ErrorResponse{Error: "Invalid job posting id"})
		return
	}

	if err := pc.Postings.Delete(c.Request.Context(), nil, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, utilities.ErrorResponse{Error: "Job posting not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, utilities.ErrorResponse{
			Error: fmt.Sprintf("Failed to delete job posting: %s", err.Error()),
		})
		return
	}

	c.JSON(http.StatusOK, utilities.MessageResponse{Message: "Job posting deleted"})
}
