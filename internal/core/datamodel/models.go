package datamodel

import (
	"github.com/frahmantamala/online-school/internal/core/datamodel/account"
	"github.com/frahmantamala/online-school/internal/core/datamodel/ban"
	"github.com/frahmantamala/online-school/internal/core/datamodel/category"
	"github.com/frahmantamala/online-school/internal/core/datamodel/course"
	"github.com/frahmantamala/online-school/internal/core/datamodel/session"
)

// All lists every persisted model, in dependency order.
func All() []interface{} {
	return []interface{}{
		&account.Role{},
		&account.Permission{},
		&account.RolePermission{},
		&account.Account{},
		&session.Session{},
		&ban.Ban{},
		&category.Category{},
		&course.Course{},
		&course.CourseAuthor{},
		&course.Material{},
	}
}
