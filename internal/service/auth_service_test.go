package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/mentortrack-api/internal/models"
	appErrors "github.com/noah-isme/mentortrack-api/pkg/errors"
)

type mockAuthRepo struct {
	user              *models.User
	findByEmailErr    error
	profileID         string
	profileName       string
	profileErr        error
	updatePasswordErr error
}

func (m *mockAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.findByEmailErr != nil {
		return nil, m.findByEmailErr
	}
	return m.user, nil
}

func (m *mockAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if m.user == nil || m.user.ID != id {
		return nil, sql.ErrNoRows
	}
	return m.user, nil
}

func (m *mockAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	if m.updatePasswordErr != nil {
		return m.updatePasswordErr
	}
	m.user.PasswordHash = passwordHash
	return nil
}

func (m *mockAuthRepo) FindProfile(ctx context.Context, role models.UserRole, userID string) (string, string, error) {
	return m.profileID, m.profileName, m.profileErr
}

type mockAuditWriter struct {
	logs []*models.AuditLog
}

func (m *mockAuditWriter) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func newAuthFixture(t *testing.T, role models.UserRole) (*AuthService, *mockAuthRepo, *mockAuditWriter) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockAuthRepo{
		user:        &models.User{ID: "user-1", Email: "mentor@example.com", PasswordHash: string(hash), Role: role},
		profileID:   "mentor-1",
		profileName: "Dr. Rao",
	}
	audit := &mockAuditWriter{}
	svc := NewAuthService(repo, audit, validator.New(), zap.NewNop(), AuthConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "mentortrack-test"})
	return svc, repo, audit
}

func TestAuthServiceLoginIssuesProfileClaims(t *testing.T) {
	svc, _, audit := newAuthFixture(t, models.RoleMentor)

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "mentor@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "mentor-1", resp.User.ProfileID)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMentor, claims.Role)
	assert.Equal(t, "mentor-1", claims.ProfileID)
	assert.Equal(t, "Dr. Rao", claims.Name)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, models.AuditActionLogin, audit.logs[0].Action)
}

func TestAuthServiceLoginRejectsBadPassword(t *testing.T) {
	svc, _, _ := newAuthFixture(t, models.RoleMentor)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "mentor@example.com", Password: "wrong-one"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrInvalidCredentials))
}

func TestAuthServiceLoginUnknownEmail(t *testing.T) {
	svc, repo, _ := newAuthFixture(t, models.RoleMentor)
	repo.findByEmailErr = sql.ErrNoRows

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceLoginMissingProfile(t *testing.T) {
	svc, repo, _ := newAuthFixture(t, models.RoleStudent)
	repo.profileErr = sql.ErrNoRows

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "mentor@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthServiceValidateTokenRejectsForeignSecret(t *testing.T) {
	svc, _, _ := newAuthFixture(t, models.RoleAdmin)

	claims := &models.JWTClaims{UserID: "user-1", Role: models.RoleAdmin, RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    "mentortrack-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(forged)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Status, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTokenExpired(t *testing.T) {
	svc, _, _ := newAuthFixture(t, models.RoleMentor)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Login(context.Background(), models.LoginRequest{Email: "mentor@example.com", Password: "secret123"})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.Token)
	require.Error(t, err)
}

func TestAuthServiceChangePassword(t *testing.T) {
	svc, repo, _ := newAuthFixture(t, models.RoleMentor)

	err := svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{OldPassword: "nope", NewPassword: "brandnew1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.ChangePassword(context.Background(), "user-1", models.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "brandnew1"}))
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.user.PasswordHash), []byte("brandnew1")))
}

func TestAuthServiceMe(t *testing.T) {
	svc, _, _ := newAuthFixture(t, models.RoleParent)

	info, err := svc.Me(&models.JWTClaims{UserID: "u9", Email: "p@example.com", Role: models.RoleParent, ProfileID: "parent-9", Name: "Pat"})
	require.NoError(t, err)
	assert.Equal(t, "parent-9", info.ProfileID)

	_, err = svc.Me(nil)
	assert.Error(t, err)
}
