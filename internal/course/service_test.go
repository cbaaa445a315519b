package course_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/frahmantamala/online-school/internal"
	"github.com/frahmantamala/online-school/internal/auth"
	authPostgres "github.com/frahmantamala/online-school/internal/auth/postgres"
	"github.com/frahmantamala/online-school/internal/category"
	categoryPostgres "github.com/frahmantamala/online-school/internal/category/postgres"
	"github.com/frahmantamala/online-school/internal/core/datamodel/dbtest"
	"github.com/frahmantamala/online-school/internal/course"
	coursePostgres "github.com/frahmantamala/online-school/internal/course/postgres"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Course Service", func() {
	var (
		ctx        context.Context
		service    *course.Service
		categories *category.Service
		author     auth.Principal
		otherTutor auth.Principal
		admin      auth.Principal
	)

	BeforeEach(func() {
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err := dbtest.Open()
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())

		grants := authPostgres.NewGrantRepository(db)
		Expect(grants.ApplyPolicy(ctx, auth.DefaultPolicy())).To(Succeed())

		teacherRole, err := grants.FindRoleByName(ctx, auth.RoleTeacher)
		Expect(err).NotTo(HaveOccurred())
		adminRole, err := grants.FindRoleByName(ctx, auth.RoleAdmin)
		Expect(err).NotTo(HaveOccurred())

		author = auth.Principal{AccountID: 10, RoleID: teacherRole.ID}
		otherTutor = auth.Principal{AccountID: 11, RoleID: teacherRole.ID}
		admin = auth.Principal{AccountID: 1, RoleID: adminRole.ID}

		categories = category.NewService(categoryPostgres.NewCategoryRepository(db), slogger)
		service = course.NewService(
			coursePostgres.NewCourseRepository(db),
			coursePostgres.NewAuthorshipRepository(sqlx.NewDb(sqlDB, "sqlite3")),
			auth.NewAuthorizer(grants, slogger),
			categories,
			slogger,
		)
	})

	create := func() *course.Course {
		c, err := service.Create(ctx, course.CourseDTO{Title: "Go basics", Description: "Intro"}, author)
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	It("should let the creating teacher edit the course", func() {
		c := create()

		updated, err := service.Update(ctx, c.ID, course.CourseDTO{Title: "Go fundamentals"}, author)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated.Title).To(Equal("Go fundamentals"))
	})

	It("should forbid a teacher who is not an author", func() {
		c := create()

		_, err := service.Update(ctx, c.ID, course.CourseDTO{Title: "Hijacked"}, otherTutor)
		Expect(err).To(MatchError(internal.ErrNotCourseAuthor))

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(403))
	})

	It("should let ManageAnyCourse holders delete any course", func() {
		c := create()

		Expect(service.Delete(ctx, c.ID, admin)).To(Succeed())
		_, err := service.Get(ctx, c.ID)
		Expect(err).To(MatchError(course.ErrCourseNotFound))
	})

	It("should filter by category", func() {
		cat, err := categories.Create(ctx, category.CategoryDTO{Name: "programming"})
		Expect(err).NotTo(HaveOccurred())

		_, err = service.Create(ctx, course.CourseDTO{Title: "Go", CategoryID: &cat.ID}, author)
		Expect(err).NotTo(HaveOccurred())
		create()

		filtered, err := service.List(ctx, &cat.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(filtered).To(HaveLen(1))
		Expect(filtered[0].Title).To(Equal("Go"))

		all, err := service.List(ctx, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})

	It("should reject an unknown category", func() {
		missing := int64(999)
		_, err := service.Create(ctx, course.CourseDTO{Title: "Go", CategoryID: &missing}, author)

		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.StatusCode).To(Equal(400))
	})

	Describe("materials", func() {
		It("should add, list and delete materials as the author", func() {
			c := create()

			m, err := service.AddMaterial(ctx, c.ID, course.MaterialDTO{Title: "Lesson 1", Content: "variables"}, author)
			Expect(err).NotTo(HaveOccurred())

			list, err := service.ListMaterials(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))

			Expect(service.DeleteMaterial(ctx, c.ID, m.ID, author)).To(Succeed())
			Expect(service.DeleteMaterial(ctx, c.ID, m.ID, author)).To(MatchError(course.ErrMaterialNotFound))
		})

		It("should forbid adding material to someone else's course", func() {
			c := create()

			_, err := service.AddMaterial(ctx, c.ID, course.MaterialDTO{Title: "Lesson", Content: "x"}, otherTutor)
			Expect(err).To(MatchError(internal.ErrNotCourseAuthor))
		})

		It("should answer not found for materials of a missing course", func() {
			_, err := service.ListMaterials(ctx, 4242)
			Expect(err).To(MatchError(course.ErrCourseNotFound))
		})
	})
})
