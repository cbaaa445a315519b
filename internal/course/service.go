package course

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/auth"
	"github.com/frahmantamala/online-school/internal/category"
	courseDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/course"
)

type RepositoryAPI interface {
	List(ctx context.Context, categoryID *int64) ([]*courseDatamodel.Course, error)
	GetByID(ctx context.Context, id int64) (*courseDatamodel.Course, error)
	// Create stores the course and records authorID as its first author.
	Create(ctx context.Context, c *courseDatamodel.Course, authorID int64) error
	Update(ctx context.Context, c *courseDatamodel.Course) error
	// Delete removes the course with its materials and authorships.
	Delete(ctx context.Context, id int64) error

	ListMaterials(ctx context.Context, courseID int64) ([]*courseDatamodel.Material, error)
	CreateMaterial(ctx context.Context, m *courseDatamodel.Material) error
	DeleteMaterial(ctx context.Context, courseID, materialID int64) (bool, error)
}

type AuthorshipChecker interface {
	IsAuthor(ctx context.Context, courseID, accountID int64) (bool, error)
}

// PermissionChecker reports whether a principal holds a permission without
// turning a deny into an error.
type PermissionChecker interface {
	Allowed(ctx context.Context, p auth.Principal, permission string) (bool, error)
}

type CategoryLookup interface {
	GetActiveByID(ctx context.Context, id int64) (*category.Category, error)
}

var (
	ErrCourseNotFound   = internal.NewNotFoundError("course not found", internal.ErrCodeCourseNotFound)
	ErrMaterialNotFound = internal.NewNotFoundError("material not found", internal.ErrCodeMaterialNotFound)
)

type Service struct {
	repo        RepositoryAPI
	authors     AuthorshipChecker
	permissions PermissionChecker
	categories  CategoryLookup
	logger      *slog.Logger
}

func NewService(repo RepositoryAPI, authors AuthorshipChecker, permissions PermissionChecker, categories CategoryLookup, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		authors:     authors,
		permissions: permissions,
		categories:  categories,
		logger:      logger,
	}
}

func (s *Service) List(ctx context.Context, categoryID *int64) ([]*Course, error) {
	dms, err := s.repo.List(ctx, categoryID)
	if err != nil {
		s.logger.Error("failed to list courses", "error", err)
		return nil, err
	}
	courses := make([]*Course, 0, len(dms))
	for _, dm := range dms {
		courses = append(courses, FromDataModel(dm))
	}
	return courses, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Course, error) {
	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, ErrCourseNotFound
	}
	return FromDataModel(dm), nil
}

// Create stores a new course; the creating account becomes its author.
func (s *Service) Create(ctx context.Context, dto CourseDTO, actor auth.Principal) (*Course, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.checkCategory(ctx, dto.CategoryID); err != nil {
		return nil, err
	}

	dm := &courseDatamodel.Course{
		Title:       dto.Title,
		Description: dto.Description,
		CategoryID:  dto.CategoryID,
	}
	if err := s.repo.Create(ctx, dm, actor.AccountID); err != nil {
		s.logger.Error("failed to create course", "title", dto.Title, "error", err)
		return nil, err
	}

	s.logger.Info("course created", "course_id", dm.ID, "author_id", actor.AccountID)
	return FromDataModel(dm), nil
}

func (s *Service) Update(ctx context.Context, id int64, dto CourseDTO, actor auth.Principal) (*Course, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	dm, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dm == nil {
		return nil, ErrCourseNotFound
	}
	if err := s.ensureCanModify(ctx, id, actor); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, dto.CategoryID); err != nil {
		return nil, err
	}

	dm.Title = dto.Title
	dm.Description = dto.Description
	dm.CategoryID = dto.CategoryID
	if err := s.repo.Update(ctx, dm); err != nil {
		s.logger.Error("failed to update course", "course_id", id, "error", err)
		return nil, err
	}
	return FromDataModel(dm), nil
}

func (s *Service) Delete(ctx context.Context, id int64, actor auth.Principal) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.ensureCanModify(ctx, id, actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete course", "course_id", id, "error", err)
		return err
	}

	s.logger.Info("course deleted", "course_id", id, "deleted_by", actor.AccountID)
	return nil
}

func (s *Service) ListMaterials(ctx context.Context, courseID int64) ([]*Material, error) {
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	dms, err := s.repo.ListMaterials(ctx, courseID)
	if err != nil {
		return nil, err
	}
	materials := make([]*Material, 0, len(dms))
	for _, dm := range dms {
		materials = append(materials, MaterialFromDataModel(dm))
	}
	return materials, nil
}

func (s *Service) AddMaterial(ctx context.Context, courseID int64, dto MaterialDTO, actor auth.Principal) (*Material, error) {
	dto.Normalize()
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	if _, err := s.Get(ctx, courseID); err != nil {
		return nil, err
	}
	if err := s.ensureCanModify(ctx, courseID, actor); err != nil {
		return nil, err
	}

	dm := &courseDatamodel.Material{
		CourseID: courseID,
		Title:    dto.Title,
		Content:  dto.Content,
	}
	if err := s.repo.CreateMaterial(ctx, dm); err != nil {
		s.logger.Error("failed to create material", "course_id", courseID, "error", err)
		return nil, err
	}
	return MaterialFromDataModel(dm), nil
}

func (s *Service) DeleteMaterial(ctx context.Context, courseID, materialID int64, actor auth.Principal) error {
	if _, err := s.Get(ctx, courseID); err != nil {
		return err
	}
	if err := s.ensureCanModify(ctx, courseID, actor); err != nil {
		return err
	}

	removed, err := s.repo.DeleteMaterial(ctx, courseID, materialID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMaterialNotFound
	}
	return nil
}

// ensureCanModify passes authors of the course and holders of ManageAnyCourse.
func (s *Service) ensureCanModify(ctx context.Context, courseID int64, actor auth.Principal) error {
	isAuthor, err := s.authors.IsAuthor(ctx, courseID, actor.AccountID)
	if err != nil {
		return fmt.Errorf("check course authorship: %w", err)
	}
	if isAuthor {
		return nil
	}

	override, err := s.permissions.Allowed(ctx, actor, auth.PermManageAnyCourse)
	if err != nil {
		return fmt.Errorf("check %s: %w", auth.PermManageAnyCourse, err)
	}
	if override {
		return nil
	}

	s.logger.WarnContext(ctx, "course modification denied", "course_id", courseID, "account_id", actor.AccountID)
	return internal.ErrNotCourseAuthor
}

func (s *Service) checkCategory(ctx context.Context, categoryID *int64) error {
	if categoryID == nil || s.categories == nil {
		return nil
	}
	_, err := s.categories.GetActiveByID(ctx, *categoryID)
	if errors.Is(err, category.ErrCategoryNotFound) {
		return internal.NewValidationFieldError("category_id", "category does not exist", internal.ErrCodeCategoryNotFound)
	}
	return err
}
