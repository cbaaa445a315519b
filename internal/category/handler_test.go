package category_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/frahmantamala/online-school/internal/category"
	categoryPostgres "github.com/frahmantamala/online-school/internal/category/postgres"
	categoryDatamodel "github.com/frahmantamala/online-school/internal/core/datamodel/category"
	"github.com/frahmantamala/online-school/internal/core/datamodel/dbtest"
	"github.com/frahmantamala/online-school/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		repo    category.RepositoryAPI
		handler *category.Handler
		router  *chi.Mux
	)

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())

		repo = categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, slogger)
		handler = category.NewHandler(&transport.BaseHandler{Logger: slogger}, service)

		ctx := context.Background()
		for _, cat := range []*category.Category{
			{Name: "programming", Description: "Software courses", IsActive: true},
			{Name: "languages", Description: "Foreign languages", IsActive: true},
		} {
			Expect(repo.Create(ctx, category.ToDataModel(cat))).To(Succeed())
		}

		archived := &categoryDatamodel.Category{Name: "archived", Description: "Old courses", IsActive: true}
		Expect(repo.Create(ctx, archived)).To(Succeed())
		Expect(repo.Delete(ctx, archived.ID)).To(Succeed())

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)
	})

	It("should list only active categories", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/categories", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())

		names := make([]string, len(response.Categories))
		for i, cat := range response.Categories {
			names[i] = cat.Name
		}
		Expect(names).To(ConsistOf("programming", "languages"))
	})

	It("should create a category and answer 201", func() {
		body, _ := json.Marshal(map[string]string{"name": "design", "description": "UI"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body)))

		Expect(w.Code).To(Equal(http.StatusCreated))
		var created category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.ID).NotTo(BeZero())
		Expect(created.Name).To(Equal("design"))
	})

	It("should answer 409 for a duplicate name", func() {
		body, _ := json.Marshal(map[string]string{"name": "programming"})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/categories", bytes.NewReader(body)))

		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("CATEGORY_EXISTS"))
	})

	It("should answer 400 for a malformed id", func() {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/categories/abc", nil))

		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 404 when deleting an inactive category", func() {
		archived, err := repo.GetByName(context.Background(), "archived")
		Expect(err).NotTo(HaveOccurred())

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/categories/"+strconv.FormatInt(archived.ID, 10), nil))

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
