package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ErrDatasetNotFound = errors.New("dataset not found")

type DatasetRepository interface {
	Create(ctx context.Context, dataset *Dataset) error
	GetByID(ctx context.Context, id string) (*Dataset, error)
	List(ctx context.Context) ([]Dataset, error)
	Update(ctx context.Context, dataset *Dataset) error
	Delete(ctx context.Context, id string) error
}

// Open connects to the sqlite database at dsn and migrates the dataset table
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open dataset store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("cannot get database instance: %w", err)
	}
	// sqlite serializes writers, and an in-memory database lives in a single connection
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Dataset{}); err != nil {
		return nil, fmt.Errorf("cannot migrate dataset store: %w", err)
	}
	return db, nil
}

type datasetRepo struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewDatasetRepo(db *gorm.DB, logger *zap.Logger) DatasetRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &datasetRepo{db: db, logger: logger}
}

func (r *datasetRepo) Create(ctx context.Context, dataset *Dataset) error {
	if err := r.db.WithContext(ctx).Create(dataset).Error; err != nil {
		return err
	}
	r.logger.Info("dataset saved", zap.String("id", dataset.ID), zap.String("name", dataset.Name), zap.Int("courses", dataset.CourseCount))
	return nil
}

func (r *datasetRepo) GetByID(ctx context.Context, id string) (*Dataset, error) {
	var dataset Dataset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dataset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &dataset, nil
}

// List returns the live datasets, most recently updated first
func (r *datasetRepo) List(ctx context.Context) ([]Dataset, error) {
	var datasets []Dataset
	err := r.db.WithContext(ctx).Order("updated_at DESC, id ASC").Find(&datasets).Error
	return datasets, err
}

func (r *datasetRepo) Update(ctx context.Context, dataset *Dataset) error {
	result := r.db.WithContext(ctx).
		Model(&Dataset{}).
		Where("id = ?", dataset.ID).
		Updates(map[string]any{
			"name":         dataset.Name,
			"program":      dataset.Program,
			"term":         dataset.Term,
			"courses":      dataset.Courses,
			"course_count": dataset.CourseCount,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDatasetNotFound
	}
	r.logger.Info("dataset updated", zap.String("id", dataset.ID), zap.Int("courses", dataset.CourseCount))
	return nil
}

// Delete hides the dataset from every later read
func (r *datasetRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Dataset{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrDatasetNotFound
	}
	r.logger.Info("dataset deleted", zap.String("id", id))
	return nil
}
