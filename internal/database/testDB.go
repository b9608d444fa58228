package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "JobDesk-backend/internal/model"
	"JobDesk-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported seed fixtures for tests
var (
	TestApplicant1 m.Applicant
	TestApplicant2 m.Applicant

	// Plain password shared by all seeded applicants
	TestSeedPassword = "SeedPass123!"

	TestPosting1 m.JobPosting
	TestPosting2 m.JobPosting
	TestPosting3 m.JobPosting
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample applicants and job postings if the DB is empty.
func seedTestData(db *DBinstanceStruct) error {
	var applicantCount int64
	if err := db.Model(&m.Applicant{}).Count(&applicantCount).Error; err != nil {
		return err
	}
	if applicantCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	age1, age2 := 24, 27
	applicants := []m.Applicant{
		{
			Name:     "Alice Nguyen",
			Email:    "alice@example.com",
			Password: hashedPwd,
			Age:      &age1,
		},
		{
			Name:     "Bob Somsak",
			Email:    "bob@example.com",
			Password: hashedPwd,
			Age:      &age2,
		},
	}
	if err := db.Create(&applicants).Error; err != nil {
		return err
	}
	TestApplicant1 = applicants[0]
	TestApplicant2 = applicants[1]

	postings := []m.JobPosting{
		{
			EditablePostingInfo: m.EditablePostingInfo{
				CompanyName:           "TechNova",
				JobTitle:              "Backend Engineer",
				SkillsRequired:        pq.StringArray{"go", "postgresql", "docker"},
				ExperienceRequired:    "2-4 years",
				EducationalBackground: "Bachelor's in Computer Science",
				Location:              "Bangkok (Hybrid)",
				Salary:                "50k - 80k",
				JobDescription:        "Work on Go microservices and database layers.",
			},
		},
		{
			EditablePostingInfo: m.EditablePostingInfo{
				CompanyName:           "TechNova",
				JobTitle:              "Frontend Developer",
				SkillsRequired:        pq.StringArray{"react", "typescript"},
				ExperienceRequired:    "Entry level",
				EducationalBackground: "Bachelor's",
				Location:              "Remote",
				Salary:                "Negotiable",
				JobDescription:        "Assist building a component library in React.",
			},
		},
		{
			EditablePostingInfo: m.EditablePostingInfo{
				CompanyName:           "DataForge",
				JobTitle:              "Data Analyst",
				SkillsRequired:        pq.StringArray{"sql", "statistics"},
				ExperienceRequired:    "1-2 years",
				EducationalBackground: "Bachelor's in Statistics",
				Location:              "Chiang Mai (On-site)",
				Salary:                "40k - 55k",
				JobDescription:        "Support data cleansing and dashboard creation.",
			},
		},
	}
	if err := db.Create(&postings).Error; err != nil {
		return err
	}
	TestPosting1 = postings[0]
	TestPosting2 = postings[1]
	TestPosting3 = postings[2]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	if err := db.First(&TestApplicant1, "email = ?", "alice@example.com").Error; err != nil {
		return err
	}
	if err := db.First(&TestApplicant2, "email = ?", "bob@example.com").Error; err != nil {
		return err
	}

	var postings []m.JobPosting
	if err := db.Order("id ASC").Limit(3).Find(&postings).Error; err != nil {
		return err
	}
	if len(postings) > 0 {
		TestPosting1 = postings[0]
	}
	if len(postings) > 1 {
		TestPosting2 = postings[1]
	}
	if len(postings) > 2 {
		TestPosting3 = postings[2]
	}

	return nil
}
