package postgres

import (
	"context"

	"github.com/SAP-F-2025/academic-service/internal/models"
	"github.com/SAP-F-2025/academic-service/internal/repositories"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	user   repositories.UserRepository
	course repositories.CourseRepository
}

func NewRepository(db *gorm.DB) repositories.Repository {
	return &Repository{
		db:     db,
		user:   NewUserPostgreSQL(db),
		course: NewCoursePostgreSQL(db),
	}
}

func (r *Repository) User() repositories.UserRepository {
	return r.user
}

func (r *Repository) Course() repositories.CourseRepository {
	return r.course
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate creates or updates the users and courses tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Course{})
}
