package course

import (
	"strings"
	"time"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/core/common/validation"
)

type CourseDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  *int64 `json:"category_id,omitempty"`
}

func (d *CourseDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
}

func (d CourseDTO) Validate() *internal.AppError {
	if appErr := validation.ValidateTitle(d.Title); appErr != nil {
		return appErr
	}
	v := validation.NewValidator()
	v.Field("description", d.Description).MaxLength(2000)
	if d.CategoryID != nil {
		v.Field("category_id", *d.CategoryID).MinInt(1, internal.ErrCodeInvalidID)
	}
	return v.Validate()
}

type MaterialDTO struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (d *MaterialDTO) Normalize() {
	d.Title = strings.TrimSpace(d.Title)
}

func (d MaterialDTO) Validate() *internal.AppError {
	if appErr := validation.ValidateTitle(d.Title); appErr != nil {
		return appErr
	}
	v := validation.NewValidator()
	v.Field("content", d.Content).Required()
	return v.Validate()
}

type CourseResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CategoryID  *int64    `json:"category_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CoursesResponse struct {
	Courses []CourseResponse `json:"courses"`
}

type MaterialResponse struct {
	ID        int64     `json:"id"`
	CourseID  int64     `json:"course_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type MaterialsResponse struct {
	Materials []MaterialResponse `json:"materials"`
}
