package service

import (
	"testing"

	"go-erp-admin/internal/authz"
	"go-erp-admin/internal/model"
	"go-erp-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func capList(names ...string) *[]string { return &names }

func TestAdminGrantsCapability(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	staff := e.user(t, "sam", false, model.CapView)
	assert.False(t, authz.HasCapability(staff, model.CapManageProducts))

	updated, err := e.users.EditPermissions(staff.ID, &EditPermissionsRequest{
		Capabilities: capList("view", "manage_products"),
	}, admin)
	require.NoError(t, err)
	assert.True(t, authz.HasCapability(updated, model.CapManageProducts))
	assert.True(t, authz.HasCapability(updated, model.CapView))
	assert.False(t, authz.HasCapability(updated, model.CapManageFinances))
}

func TestEditPermissionsRules(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	lead := e.user(t, "lee", false, model.CapManageUsers, model.CapView, model.CapManageSupplies)
	staff := e.user(t, "sam", false, model.CapView)

	_, err := e.users.EditPermissions(lead.ID, &EditPermissionsRequest{Capabilities: capList("view")}, staff)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = e.users.EditPermissions(admin.ID, &EditPermissionsRequest{Capabilities: capList("view")}, lead)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = e.users.EditPermissions(staff.ID, &EditPermissionsRequest{Capabilities: capList("view"), IsAdmin: boolPtr(true)}, lead)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = e.users.EditPermissions(staff.ID, &EditPermissionsRequest{Capabilities: capList("view", "manage_finances")}, lead)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = e.users.EditPermissions(staff.ID, &EditPermissionsRequest{Capabilities: capList("teleport")}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.users.EditPermissions(uuid.New(), &EditPermissionsRequest{}, admin)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := e.users.EditPermissions(staff.ID, &EditPermissionsRequest{Capabilities: capList("view", "manage_supplies")}, lead)
	require.NoError(t, err)
	assert.True(t, authz.HasCapability(updated, model.CapManageSupplies))
}

func TestEditPermissionsDeactivates(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	staff := e.user(t, "sam", false, model.CapView)

	updated, err := e.users.EditPermissions(staff.ID, &EditPermissionsRequest{Capabilities: capList("view"), IsActive: boolPtr(false)}, admin)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestFlagOnlyEditKeepsCapabilities(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	staff := e.user(t, "sam", false, model.CapView, model.CapManageProducts)

	updated, err := e.users.EditPermissions(staff.ID, &EditPermissionsRequest{IsActive: boolPtr(false)}, admin)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, authz.HasCapability(updated, model.CapView))
	assert.True(t, authz.HasCapability(updated, model.CapManageProducts))

	updated, err = e.users.EditPermissions(staff.ID, &EditPermissionsRequest{IsAdmin: boolPtr(true), IsActive: boolPtr(true)}, admin)
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)
	assert.True(t, updated.IsActive)
	assert.True(t, updated.HasPrivilege(string(model.CapManageProducts)))

	updated, err = e.users.EditPermissions(staff.ID, &EditPermissionsRequest{Capabilities: capList(), IsAdmin: boolPtr(false)}, admin)
	require.NoError(t, err)
	assert.False(t, authz.HasCapability(updated, model.CapView))
	assert.Empty(t, updated.Privileges)
}

func TestFlagOnlyEditByNonAdminNeedsNoCapabilities(t *testing.T) {
	e := newEnv(t)
	lead := e.user(t, "lee", false, model.CapManageUsers, model.CapView)
	staff := e.user(t, "sam", false, model.CapView, model.CapManageFinances)

	updated, err := e.users.EditPermissions(staff.ID, &EditPermissionsRequest{IsActive: boolPtr(false)}, lead)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.True(t, updated.HasPrivilege(string(model.CapManageFinances)))
}

func TestCreateUserFromRoleTemplate(t *testing.T) {
	e := newEnv(t)
	admin := e.user(t, "boss", true)
	role, err := repository.NewRoleRepo(e.db).FindByCode(model.RoleWarehouse)
	require.NoError(t, err)

	clerk, err := e.users.CreateUser(&CreateUserRequest{Username: "wendy", Password: "secret-pass", RoleID: role.ID}, admin)
	require.NoError(t, err)
	assert.True(t, authz.HasCapability(clerk, model.CapManageWarehouses))
	assert.False(t, authz.HasCapability(clerk, model.CapManageFinances))

	_, err = e.users.CreateUser(&CreateUserRequest{Username: "wendy", Password: "secret-pass"}, admin)
	assert.ErrorIs(t, err, ErrValidation)

	lead := e.user(t, "lee", false, model.CapManageUsers, model.CapView)
	_, err = e.users.CreateUser(&CreateUserRequest{Username: "root2", Password: "secret-pass", IsAdmin: true}, lead)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)

	_, err = e.users.CreateUser(&CreateUserRequest{Username: "clerk2", Password: "secret-pass", RoleID: role.ID}, lead)
	assert.ErrorIs(t, err, authz.ErrPermissionDenied)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	e := newEnv(t)
	first, err := e.users.EnsureAdmin("admin", "admin-pass")
	require.NoError(t, err)
	second, err := e.users.EnsureAdmin("admin", "other-pass")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsAdmin)
}
