package course

import (
	"time"

	courseDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/course"
)

type Course struct {
	ID          int64
	Title       string
	Description string
	CategoryID  *int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Course) ToResponse() CourseResponse {
	return CourseResponse{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CategoryID:  c.CategoryID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToDataModel(c *Course) *courseDatamodel.Course {
	return &courseDatamodel.Course{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		CategoryID:  c.CategoryID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func FromDataModel(dm *courseDatamodel.Course) *Course {
	return &Course{
		ID:          dm.ID,
		Title:       dm.Title,
		Description: dm.Description,
		CategoryID:  dm.CategoryID,
		CreatedAt:   dm.CreatedAt,
		UpdatedAt:   dm.UpdatedAt,
	}
}

type Material struct {
	ID        int64
	CourseID  int64
	Title     string
	Content   string
	CreatedAt time.Time
}

func (m *Material) ToResponse() MaterialResponse {
	return MaterialResponse{
		ID:        m.ID,
		CourseID:  m.CourseID,
		Title:     m.Title,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func MaterialFromDataModel(dm *courseDatamodel.Material) *Material {
	return &Material{
		ID:        dm.ID,
		CourseID:  dm.CourseID,
		Title:     dm.Title,
		Content:   dm.Content,
		CreatedAt: dm.CreatedAt,
	}
}
