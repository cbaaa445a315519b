package postgres

import (
	"context"
	"errors"

	courseDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/course"
	"github.com/frahmantamala/online-school/internal/course"
	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) course.RepositoryAPI {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) List(ctx context.Context, categoryID *int64) ([]*courseDatamodel.Course, error) {
	q := r.db.WithContext(ctx).Order("id ASC")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	var courses []*courseDatamodel.Course
	err := q.Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*courseDatamodel.Course, error) {
	var c courseDatamodel.Course
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CourseRepository) Create(ctx context.Context, c *courseDatamodel.Course, authorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&courseDatamodel.CourseAuthor{CourseID: c.ID, AccountID: authorID}).Error
	})
}

func (r *CourseRepository) Update(ctx context.Context, c *courseDatamodel.Course) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&courseDatamodel.Material{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&courseDatamodel.CourseAuthor{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&courseDatamodel.Course{}).Error
	})
}

func (r *CourseRepository) ListMaterials(ctx context.Context, courseID int64) ([]*courseDatamodel.Material, error) {
	var materials []*courseDatamodel.Material
	err := r.db.WithContext(ctx).Where("course_id = ?", courseID).Order("id ASC").Find(&materials).Error
	return materials, err
}

func (r *CourseRepository) CreateMaterial(ctx context.Context, m *courseDatamodel.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CourseRepository) DeleteMaterial(ctx context.Context, courseID, materialID int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND course_id = ?", materialID, courseID).
		Delete(&courseDatamodel.Material{})
	return res.RowsAffected > 0, res.Error
}
