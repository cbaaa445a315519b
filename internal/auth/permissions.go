package auth

import (
	"fmt"
	"sort"
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

const (
	PermViewMaterials   = "ViewMaterials"
	PermCreateCourse    = "CreateCourse"
	PermUpdateCourse    = "UpdateCourse"
	PermDeleteCourse    = "DeleteCourse"
	PermManageAnyCourse = "ManageAnyCourse"
	PermCreateMaterial  = "CreateMaterial"
	PermDeleteMaterial  = "DeleteMaterial"
	PermCreateCategory  = "CreateCategory"
	PermUpdateCategory  = "UpdateCategory"
	PermDeleteCategory  = "DeleteCategory"
	PermListUsers       = "ListUsers"
	PermDeleteUser      = "DeleteUser"
	PermBanUser         = "BanUser"
	PermUnbanUser       = "UnbanUser"
)

type PermissionSpec struct {
	Name        string
	Description string
}

// Policy is the authoritative role and grant table. It is built once and
// handed to the seeder; nothing reads it at request time.
type Policy struct {
	Roles       []string
	Permissions []PermissionSpec
	Grants      map[string][]string
}

func DefaultPolicy() Policy {
	teacher := []string{
		PermViewMaterials,
		PermCreateCourse, PermUpdateCourse, PermDeleteCourse,
		PermCreateMaterial, PermDeleteMaterial,
	}
	admin := append([]string{
		PermManageAnyCourse,
		PermCreateCategory, PermUpdateCategory, PermDeleteCategory,
		PermListUsers, PermDeleteUser, PermBanUser, PermUnbanUser,
	}, teacher...)

	return Policy{
		Roles: []string{RoleStudent, RoleTeacher, RoleAdmin},
		Permissions: []PermissionSpec{
			{PermViewMaterials, "Read course materials"},
			{PermCreateCourse, "Create courses"},
			{PermUpdateCourse, "Edit own courses"},
			{PermDeleteCourse, "Delete own courses"},
			{PermManageAnyCourse, "Edit or delete any course"},
			{PermCreateMaterial, "Add materials to own courses"},
			{PermDeleteMaterial, "Remove materials from own courses"},
			{PermCreateCategory, "Create categories"},
			{PermUpdateCategory, "Edit categories"},
			{PermDeleteCategory, "Deactivate categories"},
			{PermListUsers, "List accounts"},
			{PermDeleteUser, "Delete accounts"},
			{PermBanUser, "Ban accounts"},
			{PermUnbanUser, "Lift bans"},
		},
		Grants: map[string][]string{
			RoleStudent: {PermViewMaterials},
			RoleTeacher: teacher,
			RoleAdmin:   admin,
		},
	}
}

// Validate checks that every grant references a declared role and permission.
func (p Policy) Validate() error {
	roles := make(map[string]bool, len(p.Roles))
	for _, r := range p.Roles {
		roles[r] = true
	}
	perms := make(map[string]bool, len(p.Permissions))
	for _, perm := range p.Permissions {
		if perms[perm.Name] {
			return fmt.Errorf("permission %q declared twice", perm.Name)
		}
		perms[perm.Name] = true
	}

	grantRoles := make([]string, 0, len(p.Grants))
	for role := range p.Grants {
		grantRoles = append(grantRoles, role)
	}
	sort.Strings(grantRoles)

	for _, role := range grantRoles {
		if !roles[role] {
			return fmt.Errorf("grant for undeclared role %q", role)
		}
		for _, name := range p.Grants[role] {
			if !perms[name] {
				return fmt.Errorf("role %q granted undeclared permission %q", role, name)
			}
		}
	}
	return nil
}

// GrantCount is the number of distinct role-permission pairs.
func (p Policy) GrantCount() int {
	n := 0
	for _, names := range p.Grants {
		seen := make(map[string]bool, len(names))
		for _, name := range names {
			if !seen[name] {
				seen[name] = true
				n++
			}
		}
	}
	return n
}
