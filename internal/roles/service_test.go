package roles

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/bookstore-backend/internal/permissions"
	"github.com/angelmondragon/bookstore-backend/pkg/db/models"
	"github.com/angelmondragon/bookstore-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bookstore-backend/pkg/errors"
	"github.com/angelmondragon/bookstore-backend/pkg/pagination"
	"github.com/angelmondragon/bookstore-backend/pkg/types"
)

func setupRolesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Role{}, &models.UserRole{}))
	return db
}

func newRolesService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db := setupRolesTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc, db
}

func TestCreateAndGetRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRolesService(t)

	created, err := svc.Create(ctx, CreateInput{
		Name: "  catalog-editor ",
		Permission: types.PermissionMap{
			enums.ResourceBook: {enums.ActionUpdate: true, enums.ActionFeatured: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "catalog-editor", created.Name)
	assert.True(t, created.Active)

	id, err := uuid.Parse(created.ID)
	require.NoError(t, err)
	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Permission[enums.ResourceBook][enums.ActionFeatured])

	_, err = svc.Get(ctx, uuid.New())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestCreateRejectsDuplicateNames(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRolesService(t)

	_, err := svc.Create(ctx, CreateInput{Name: "admin"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateInput{Name: "admin"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict), "got %v", err)
}

func TestCreateValidatesPermissionCatalog(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRolesService(t)

	_, err := svc.Create(ctx, CreateInput{
		Name: "broken",
		Permission: types.PermissionMap{
			enums.ResourceSetting:    {enums.ActionDelete: true},
			enums.Resource("planet"): {enums.ActionCreate: true},
		},
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []string{"planet", "setting.delete"}, details["invalid"])

	_, err = svc.Create(ctx, CreateInput{Name: "  "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateRole(t *testing.T) {
	ctx := context.Background()
	svc, _ := newRolesService(t)

	created, err := svc.Create(ctx, CreateInput{Name: "support", Permission: types.PermissionMap{
		enums.ResourceOrder: {enums.ActionViewOne: true},
	}})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	inactive := false
	name := "support-lead"
	updated, err := svc.Update(ctx, id, UpdateInput{
		Name:   &name,
		Active: &inactive,
		Permission: types.PermissionMap{
			enums.ResourceOrder: {enums.ActionViewOne: true, enums.ActionUpdate: true},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "support-lead", updated.Name)
	assert.False(t, updated.Active)

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, got.Permission[enums.ResourceOrder][enums.ActionUpdate])

	_, err = svc.Update(ctx, id, UpdateInput{Permission: types.PermissionMap{enums.ResourcePayment: {enums.ActionDelete: true}}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAssignmentsFeedPermissionEvaluation(t *testing.T) {
	ctx := context.Background()
	svc, db := newRolesService(t)

	user := models.User{Email: "staff@example.com"}
	require.NoError(t, db.Create(&user).Error)

	role, err := svc.Create(ctx, CreateInput{Name: "order-admin", Permission: types.PermissionMap{
		enums.ResourceOrder: {enums.ActionViewMany: true, enums.ActionDelete: true},
	}})
	require.NoError(t, err)
	roleID := uuid.MustParse(role.ID)

	require.NoError(t, svc.AssignToUser(ctx, user.ID, roleID))
	require.NoError(t, svc.AssignToUser(ctx, user.ID, roleID))

	hydrated, err := permissions.NewRepository(db).UserWithRoles(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, hydrated.Roles, 1)
	assert.True(t, permissions.CanAll(hydrated, enums.ResourceOrder, enums.ActionViewMany, enums.ActionDelete))

	err = svc.AssignToUser(ctx, uuid.New(), roleID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	require.NoError(t, svc.UnassignFromUser(ctx, user.ID, roleID))
	err = svc.UnassignFromUser(ctx, user.ID, roleID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteRoleRemovesAssignments(t *testing.T) {
	ctx := context.Background()
	svc, db := newRolesService(t)

	user := models.User{Email: "temp@example.com"}
	require.NoError(t, db.Create(&user).Error)
	role, err := svc.Create(ctx, CreateInput{Name: "temporary"})
	require.NoError(t, err)
	roleID := uuid.MustParse(role.ID)
	require.NoError(t, svc.AssignToUser(ctx, user.ID, roleID))

	require.NoError(t, svc.Delete(ctx, roleID))

	var links int64
	require.NoError(t, db.Model(&models.UserRole{}).Where("role_id = ?", roleID).Count(&links).Error)
	assert.Zero(t, links)

	err = svc.Delete(ctx, roleID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	page, err := svc.List(ctx, pagination.Params{})
	require.NoError(t, err)
	assert.Empty(t, page.Roles)
}

func TestListRolesPaginates(t *testing.T) {
	ctx := context.Background()
	svc, db := newRolesService(t)
	repo := NewRepository(db)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, name := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, repo.Create(ctx, &models.Role{
			Name:       name,
			Active:     true,
			Permission: types.PermissionMap{},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			UpdatedAt:  base,
		}))
	}

	first, err := svc.List(ctx, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Roles, 2)
	assert.Equal(t, "newest", first.Roles[0].Name)
	assert.Equal(t, "middle", first.Roles[1].Name)
	require.NotEmpty(t, first.NextCursor)

	second, err := svc.List(ctx, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Roles, 1)
	assert.Equal(t, "oldest", second.Roles[0].Name)
	assert.Empty(t, second.NextCursor)

	_, err = svc.List(ctx, pagination.Params{Cursor: "not-a-cursor"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
