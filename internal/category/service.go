package category

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/online-school/internal"
	categoryDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/category"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*categoryDatamodel.Category, error)
	GetByID(ctx context.Context, id int64) (*categoryDatamodel.Category, error)
	GetByName(ctx context.Context, name string) (*categoryDatamodel.Category, error)
	Create(ctx context.Context, category *categoryDatamodel.Category) error
	Update(ctx context.Context, category *categoryDatamodel.Category) error
	Delete(ctx context.Context, id int64) error
}

var (
	ErrCategoryNotFound = internal.NewNotFoundError("category not found", internal.ErrCodeCategoryNotFound)
	ErrCategoryExists   = internal.NewConflictError("category with this name already exists", internal.ErrCodeCategoryExists)
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetAllCategories(ctx context.Context) ([]CategoryResponse, error) {
	dataCategories, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get categories from repository", "error", err)
		return nil, err
	}

	responses := make([]CategoryResponse, 0, len(dataCategories))
	for _, dataCategory := range dataCategories {
		domainCategory := FromDataModel(dataCategory)
		if domainCategory.IsActive {
			responses = append(responses, domainCategory.ToResponse())
		}
	}

	s.logger.Debug("retrieved categories", "count", len(responses))
	return responses, nil
}

// GetActiveByID returns the category only while it is active.
func (s *Service) GetActiveByID(ctx context.Context, id int64) (*Category, error) {
	dataCategory, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dataCategory == nil || !dataCategory.IsActive {
		return nil, ErrCategoryNotFound
	}
	return FromDataModel(dataCategory), nil
}

func (s *Service) Create(ctx context.Context, dto CategoryDTO) (*Category, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByName(ctx, dto.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrCategoryExists
	}

	cat := NewCategory(dto.Name, dto.Description)
	dm := ToDataModel(cat)
	if err := s.repo.Create(ctx, dm); err != nil {
		s.logger.Error("failed to create category", "name", dto.Name, "error", err)
		return nil, err
	}

	s.logger.Info("category created", "id", dm.ID, "name", dm.Name)
	return FromDataModel(dm), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto CategoryDTO) (*Category, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dm == nil || !dm.IsActive {
		return nil, ErrCategoryNotFound
	}

	if dm.Name != dto.Name {
		clash, err := s.repo.GetByName(ctx, dto.Name)
		if err != nil {
			return nil, err
		}
		if clash != nil && clash.ID != id {
			return nil, ErrCategoryExists
		}
	}

	dm.Name = dto.Name
	dm.Description = dto.Description
	if err := s.repo.Update(ctx, dm); err != nil {
		s.logger.Error("failed to update category", "id", id, "error", err)
		return nil, err
	}

	return FromDataModel(dm), nil
}

// Delete deactivates the category; courses keep their reference.
func (s *Service) Delete(ctx context.Context, id int64) error {
	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if dm == nil || !dm.IsActive {
		return ErrCategoryNotFound
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete category", "id", id, "error", err)
		return err
	}

	s.logger.Info("category deactivated", "id", id)
	return nil
}
