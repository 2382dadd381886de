package database

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/arnavshah/triage-api-go/pkg/scheduler"
	"gorm.io/gorm"
)

// HistoryStore persists schedule history through gorm. It implements
// scheduler.History.
type HistoryStore struct {
	DB *gorm.DB
}

// NewHistoryStore wraps a gorm handle as a schedule history store.
func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{DB: db}
}

// SaveSchedule appends one history record. Records are write-once; a
// duplicate request id is a caller bug and surfaces as a unique violation.
func (h *HistoryStore) SaveSchedule(ctx context.Context, rec *scheduler.HistoryRecord) error {
	patients, err := json.Marshal(rec.Patients)
	if err != nil {
		return fmt.Errorf("marshal patients: %w", err)
	}
	staff, err := json.Marshal(rec.Staff)
	if err != nil {
		return fmt.Errorf("marshal staff: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	row := ScheduleRecord{
		RequestID:    rec.RequestID,
		PatientsJSON: string(patients),
		StaffJSON:    string(staff),
		ResultJSON:   string(result),
		CreatedAt:    rec.CreatedAt,
	}
	return h.DB.WithContext(ctx).Create(&row).Error
}

// GetSchedule loads one history record by request id.
func (h *HistoryStore) GetSchedule(ctx context.Context, requestID string) (*ScheduleRecord, error) {
	var row ScheduleRecord
	if err := h.DB.WithContext(ctx).Where("request_id = ?", requestID).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}
