package database

import (
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// APIKey represents the api_keys table
type APIKey struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Key        string     `gorm:"unique;not null" json:"key"`
	Name       string     `gorm:"not null" json:"name"`
	KeyPreview string     `json:"key_preview"`
	RateLimit  int        `gorm:"default:10000" json:"rate_limit"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsed   *time.Time `json:"last_used"`
}

// APIUsage represents the api_usage table
type APIUsage struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	KeyID         uint   `gorm:"uniqueIndex:idx_key_date;not null" json:"key_id"`
	Date          string `gorm:"uniqueIndex:idx_key_date;not null" json:"date"`
	RequestCount  int    `gorm:"default:0" json:"request_count"`
	TotalPatients int    `gorm:"default:0" json:"total_patients"`
	TotalStaff    int    `gorm:"default:0" json:"total_staff"`
}

// MasterUser represents the master_users table
type MasterUser struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"unique;not null" json:"username"`
	PasswordHash string    `gorm:"not null" json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// ScheduleRecord is one append-only row of schedule history, keyed by the
// generated request id. Rows are never updated in place.
type ScheduleRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RequestID    string    `gorm:"unique;not null" json:"request_id"`
	PatientsJSON string    `gorm:"type:text" json:"patients_json"`
	StaffJSON    string    `gorm:"type:text" json:"staff_json"`
	ResultJSON   string    `gorm:"type:text" json:"result_json"`
	CreatedAt    time.Time `json:"created_at"`
}

// PatientRecord represents the patients table populated by the patient
// intake endpoint.
type PatientRecord struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	PatientID         string    `gorm:"unique;not null" json:"patient_id"`
	Name              string    `gorm:"not null" json:"name"`
	Symptoms          string    `json:"symptoms"`
	Severity          string    `json:"severity"`
	ArrivalTime       time.Time `json:"arrival_time"`
	TreatmentDuration int       `json:"treatment_duration"`
	CreatedAt         time.Time `json:"created_at"`
}

// InitDB initializes the database connection and migrates the schema
func InitDB() *gorm.DB {
	var db *gorm.DB
	var err error

	dsn := os.Getenv("DATABASE_URL")
	if dsn != "" {
		db, err = gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	} else {
		dbPath := os.Getenv("DATA_PATH")
		if dbPath == "" {
			dbPath = "triage.db"
		}
		db, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{})
	}

	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Auto Migration
	db.AutoMigrate(&APIKey{}, &APIUsage{}, &MasterUser{}, &ScheduleRecord{}, &PatientRecord{})

	return db
}
