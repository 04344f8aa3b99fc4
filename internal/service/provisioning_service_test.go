package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentortrack-api/internal/dto"
	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

func (m *memoryAccounts) byID(id string) *models.User {
	for _, u := range m.users {
		if u.ID == id {
			return u
		}
	}
	return nil
}

func (m *memoryAccounts) UpdateRole(ctx context.Context, exec sqlx.ExtContext, id string, role models.UserRole) error {
	u := m.byID(id)
	if u == nil {
		return sql.ErrNoRows
	}
	u.Role = role
	return nil
}

func (m *memoryAccounts) SetPasswordHash(ctx context.Context, exec sqlx.ExtContext, id, passwordHash string) error {
	u := m.byID(id)
	if u == nil {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	return nil
}

func newProvisioningFixture(t *testing.T) (*ProvisioningService, *memoryAccounts, func()) {
	t.Helper()
	tx, mock := newTxProviderMock(t)
	accounts := newMemoryAccounts()
	svc := NewProvisioningService(tx, accounts, memoryParents{accounts}, nil, nil)
	svc.hashCost = bcrypt.MinCost
	mock.ExpectBegin()
	mock.ExpectCommit()
	return svc, accounts, func() { assert.NoError(t, mock.ExpectationsWereMet()) }
}

func TestEnsureAdminCreatesAccount(t *testing.T) {
	svc, accounts, verify := newProvisioningFixture(t)

	result, err := svc.EnsureAdmin(context.Background(), dto.ProvisionAdminRequest{Email: " Root@Example.com ", Password: "changeme"})
	require.NoError(t, err)
	assert.True(t, result.UserCreated)
	assert.False(t, result.RoleChanged)

	user := accounts.users["root@example.com"]
	require.NotNil(t, user)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("changeme")))
	verify()
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	svc, accounts, verify := newProvisioningFixture(t)
	accounts.users["rao@example.com"] = &models.User{ID: "user-rao", Email: "rao@example.com", Role: models.RoleMentor, PasswordHash: "old"}

	result, err := svc.EnsureAdmin(context.Background(), dto.ProvisionAdminRequest{Email: "rao@example.com", Password: "changeme"})
	require.NoError(t, err)
	assert.False(t, result.UserCreated)
	assert.True(t, result.RoleChanged)
	assert.Equal(t, "user-rao", result.UserID)

	user := accounts.users["rao@example.com"]
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("changeme")))
	verify()
}

func TestEnsureAdminRejectsInvalidPayload(t *testing.T) {
	tx, _ := newTxProviderMock(t)
	svc := NewProvisioningService(tx, newMemoryAccounts(), nil, nil, nil)
	_, err := svc.EnsureAdmin(context.Background(), dto.ProvisionAdminRequest{Email: "not-an-email", Password: "changeme"})
	assertCode(t, err, appErrors.ErrValidation)
}

func TestEnsureParentRepairsAccount(t *testing.T) {
	svc, accounts, verify := newProvisioningFixture(t)
	accounts.users["hari@example.com"] = &models.User{ID: "user-hari", Email: "hari@example.com", Role: models.RoleStudent}

	result, err := svc.EnsureParent(context.Background(), dto.EnsureParentRequest{Email: "hari@example.com", Password: "parent123"})
	require.NoError(t, err)
	assert.True(t, result.RoleChanged)
	assert.True(t, result.ProfileCreated)
	require.Len(t, accounts.parents, 1)
	assert.Equal(t, "hari", accounts.parents[0].Name)
	assert.Equal(t, result.ProfileID, accounts.parents[0].ID)

	user := accounts.users["hari@example.com"]
	assert.Equal(t, models.RoleParent, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("parent123")))
	verify()
}

func TestEnsureParentKeepsExistingProfile(t *testing.T) {
	svc, accounts, verify := newProvisioningFixture(t)
	accounts.users["pat@example.com"] = &models.User{ID: "user-pat", Email: "pat@example.com", Role: models.RoleParent, PasswordHash: "kept"}
	accounts.parents = []*models.Parent{{ID: "parent-pat", UserID: "user-pat", Name: "Pat"}}

	result, err := svc.EnsureParent(context.Background(), dto.EnsureParentRequest{Email: "pat@example.com", Name: "Someone Else"})
	require.NoError(t, err)
	assert.False(t, result.RoleChanged)
	assert.False(t, result.ProfileCreated)
	assert.Equal(t, "parent-pat", result.ProfileID)
	assert.Equal(t, "kept", accounts.users["pat@example.com"].PasswordHash)
	verify()
}

func TestEnsureParentUnknownUser(t *testing.T) {
	tx, mock := newTxProviderMock(t)
	accounts := newMemoryAccounts()
	svc := NewProvisioningService(tx, accounts, memoryParents{accounts}, nil, nil)
	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := svc.EnsureParent(context.Background(), dto.EnsureParentRequest{Email: "ghost@example.com"})
	assertCode(t, err, appErrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
