package category

import (
	"strings"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/core/common/validation"
)

type CategoryResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

type CategoryDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (d *CategoryDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Description = strings.TrimSpace(d.Description)
}

func (d CategoryDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(100)
	v.Field("description", d.Description).MaxLength(1000)
	return v.Validate()
}
