package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/limaJavier/classscheduler/pkg/model"
)

// Dataset is a saved course catalog. Courses keeps the raw courses exactly as submitted.
type Dataset struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Program     string         `gorm:"not null" json:"program"`
	Term        string         `gorm:"not null" json:"term"`
	Courses     datatypes.JSON `gorm:"not null" json:"courses"`
	CourseCount int            `gorm:"not null;default:0" json:"course_count"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (dataset *Dataset) BeforeCreate(tx *gorm.DB) error {
	if dataset.ID == "" {
		dataset.ID = uuid.NewString()
	}
	return nil
}

// NewDataset checks that the raw catalog describes a usable catalog before turning it into a dataset
func NewDataset(rawCatalog model.RawCatalog) (*Dataset, error) {
	dataset := &Dataset{}
	if err := dataset.Replace(rawCatalog); err != nil {
		return nil, err
	}
	return dataset, nil
}

// Replace overwrites the dataset contents with the raw catalog
func (dataset *Dataset) Replace(rawCatalog model.RawCatalog) error {
	if strings.TrimSpace(rawCatalog.Program) == "" {
		return &model.MalformedInputError{Path: "program", Reason: "is required"}
	}
	if strings.TrimSpace(rawCatalog.Term) == "" {
		return &model.MalformedInputError{Path: "term", Reason: "is required"}
	}
	if _, err := model.ProcessRawCatalog(rawCatalog); err != nil {
		return err
	}

	courses, err := json.Marshal(rawCatalog.Courses)
	if err != nil {
		return fmt.Errorf("cannot encode courses: %w", err)
	}

	dataset.Program = strings.TrimSpace(rawCatalog.Program)
	dataset.Term = strings.TrimSpace(rawCatalog.Term)
	dataset.Name = fmt.Sprintf("%s - %s", dataset.Program, dataset.Term)
	dataset.Courses = datatypes.JSON(courses)
	dataset.CourseCount = len(rawCatalog.Courses)
	return nil
}

func (dataset *Dataset) RawCatalog() (model.RawCatalog, error) {
	rawCatalog := model.RawCatalog{Program: dataset.Program, Term: dataset.Term}
	if err := json.Unmarshal(dataset.Courses, &rawCatalog.Courses); err != nil {
		return model.RawCatalog{}, fmt.Errorf("cannot decode courses of dataset %v: %w", dataset.ID, err)
	}
	return rawCatalog, nil
}

// Catalog rebuilds the validated catalog the dataset was saved from
func (dataset *Dataset) Catalog() (model.Catalog, error) {
	rawCatalog, err := dataset.RawCatalog()
	if err != nil {
		return model.Catalog{}, err
	}
	return model.ProcessRawCatalog(rawCatalog)
}
