// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"JobDesk-backend/internal/auth"
	"JobDesk-backend/internal/controller/application"
	"JobDesk-backend/internal/controller/posting"
	"JobDesk-backend/internal/middleware"
	"JobDesk-backend/internal/repository"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "JobDesk-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *Server) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOrginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrgins := strings.Split(allowOrginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB, repository.NewApplicantRepository(s.DB), s.Mail, s.Log)
	postingCtrl := posting.NewPostingController(s.DB)
	applicationCtrl := application.NewApplicationController(s.Workflow, s.Log)

	r.Use(middleware.SafeHeader())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrgins, // Add your frontend URL
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true, // Enable cookies/auth
	}))

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.Use(middleware.EnvRateLimitMiddleware())
			authRoute.POST("signup", lAuth.SignupHandler)
			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.GET("verify-email", lAuth.VerifyEmailHandler)
			authRoute.POST("resend-verification", lAuth.ResendVerificationHandler)
			authRoute.POST("forgot-password", lAuth.ForgotPasswordHandler)
			authRoute.POST("reset-password", lAuth.ResetPasswordHandler)
		}

		// Posting endpoints are open, mirroring a public job board listing.
		postingRoute := v1.Group("/postings")
		{
			postingRoute.GET("", postingCtrl.ListPostings)
			postingRoute.GET("/:id", postingCtrl.GetPostingByID)
			postingRoute.POST("", postingCtrl.CreatePostingHandler)
			postingRoute.PUT("/:id", postingCtrl.EditPosting)
			postingRoute.DELETE("/:id", postingCtrl.DeletePosting)
		}

		// Application endpoints require a logged-in applicant.
		needAuth := v1.Group("/postings")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))
			needAuth.POST("/:id/apply", middleware.SizeLimit(10<<20), applicationCtrl.SubmitHandler)
			needAuth.PUT("/:id/application", middleware.SizeLimit(10<<20), applicationCtrl.EditHandler)
			needAuth.DELETE("/:id/applications/:applicationId", applicationCtrl.WithdrawHandler)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// HelloWorldHandler handle request by return message "Hello World"
func (s *Server) HelloWorldHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Hello World"

	c.JSON(http.StatusOK, resp)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
