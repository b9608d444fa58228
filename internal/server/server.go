package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"

	"go.uber.org/zap"

	"JobDesk-backend/internal/database"
	"JobDesk-backend/internal/mail"
	"JobDesk-backend/internal/repository"
	"JobDesk-backend/internal/storage"
	"JobDesk-backend/internal/workflow"
)

// Server holds the wired collaborators the route handlers depend on.
type Server struct {
	port int

	DB       *database.DBinstanceStruct
	Log      *zap.Logger
	Blobs    storage.BlobStore
	Mail     mail.Sender
	Workflow *workflow.Workflow
}

// NewServer construct new Server instance
func NewServer() *http.Server {
	port, _ := strconv.Atoi(os.Getenv("PORT"))

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger failed to initialize: %s", err)
	}

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialize: %s", err)
	}

	blobs := newBlobStore(logger)
	sender := newMailSender(logger)

	postings := repository.NewJobPostingRepository(db)
	applicants := repository.NewApplicantRepository(db)

	s := &Server{
		port:     port,
		DB:       db,
		Log:      logger,
		Blobs:    blobs,
		Mail:     sender,
		Workflow: workflow.New(db, postings, applicants, blobs, logger),
	}

	// Declare Server config
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return server
}

// newBlobStore picks S3 when a bucket is configured and an in-process store
// otherwise, so local development needs no cloud credentials.
func newBlobStore(logger *zap.Logger) storage.BlobStore {
	bucket := os.Getenv("AWS_S3_BUCKET")
	if bucket == "" {
		logger.Warn("AWS_S3_BUCKET not set, using in-memory blob store")
		return storage.NewMemory()
	}

	region := os.Getenv("AWS_REGION")
	store, err := storage.NewS3Store(context.Background(), bucket, region, logger)
	if err != nil {
		log.Fatalf("S3 store failed to initialize: %s", err)
	}
	return store
}

// newMailSender picks SES when a sender address is configured and a recording
// no-op otherwise.
func newMailSender(logger *zap.Logger) mail.Sender {
	from := os.Getenv("MAIL_SENDER")
	if from == "" {
		logger.Warn("MAIL_SENDER not set, outgoing mail will be dropped")
		return mail.NewRecorder()
	}

	region := os.Getenv("AWS_REGION")
	sender, err := mail.NewSESSender(context.Background(), region, from, logger)
	if err != nil {
		log.Fatalf("SES sender failed to initialize: %s", err)
	}
	return sender
}
