package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deliciousroute/deliciousroute-backend/internal/app/model"
	"github.com/deliciousroute/deliciousroute-backend/internal/app/repository"
	"github.com/deliciousroute/deliciousroute-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRevoker struct {
	tokens map[string]time.Duration
	err    error
}

func (f *fakeRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.tokens[token] = ttl
	return nil
}

func setupAuthServiceTest(t *testing.T, revoker TokenRevoker) AuthService {
	testDB := setupServiceDB(t)
	return NewAuthService(
		testDB,
		repository.NewUserRepository(testDB),
		repository.NewVendorRepository(testDB),
		revoker,
		"test-jwt-secret",
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestAuthService_RegisterCustomer(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   RegisterInput
		wantErr error
	}{
		{
			name:    "Valid registration",
			input:   RegisterInput{Email: "test@example.com", Password: "password123", Name: "Test User"},
			wantErr: nil,
		},
		{
			name:    "Duplicate email, different case",
			input:   RegisterInput{Email: "TEST@example.com", Password: "password456", Name: "Another"},
			wantErr: ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.RegisterCustomer(ctx, tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, user)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, model.RoleCustomer, user.Role)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
			require.NotNil(t, tokens)

			claims, err := util.ValidateToken(tokens.AccessToken, "test-jwt-secret")
			require.NoError(t, err)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, "customer", claims.Role)
		})
	}
}

func TestAuthService_RegisterVendor(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	ctx := context.Background()

	user, vendor, tokens, err := authService.RegisterVendor(ctx, VendorSignupInput{
		RegisterInput: RegisterInput{Email: "chef@example.com", Password: "password123", Name: "Chef"},
		VendorName:    "  Chef's Truck ",
		Cuisine:       "Fusion, Tacos",
	})
	require.NoError(t, err)
	require.NotNil(t, tokens)
	assert.Equal(t, model.RoleVendor, user.Role)
	assert.Equal(t, "Chef's Truck", vendor.Name)
	assert.Equal(t, user.ID, vendor.OwnerUserID)
	assert.True(t, vendor.IsActive)

	me, err := authService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, me.Vendor)
	assert.Equal(t, vendor.ID, me.Vendor.ID)
}

func TestAuthService_RegisterVendorRequiresName(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)

	_, _, _, err := authService.RegisterVendor(context.Background(), VendorSignupInput{
		RegisterInput: RegisterInput{Email: "chef@example.com", Password: "password123"},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	ctx := context.Background()

	_, _, err := authService.RegisterCustomer(ctx, RegisterInput{Email: "login@example.com", Password: "password123", Name: "L"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"Valid login", "login@example.com", "password123", nil},
		{"Wrong password", "login@example.com", "nope", ErrInvalidCredentials},
		{"Unknown user", "ghost@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(ctx, tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, user.Email)
			assert.NotEmpty(t, tokens.AccessToken)
		})
	}
}

func TestAuthService_GetUserByIDNotFound(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)

	_, err := authService.GetUserByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	revoker := &fakeRevoker{tokens: map[string]time.Duration{}}
	authService := setupAuthServiceTest(t, revoker)
	ctx := context.Background()

	require.NoError(t, authService.Logout(ctx, "live-token", time.Now().Add(10*time.Minute)))
	assert.Contains(t, revoker.tokens, "live-token")

	require.NoError(t, authService.Logout(ctx, "expired-token", time.Now().Add(-time.Minute)))
	assert.NotContains(t, revoker.tokens, "expired-token")

	revoker.err = errors.New("redis down")
	err := authService.Logout(ctx, "another", time.Now().Add(time.Minute))
	assert.ErrorIs(t, err, ErrStorage)
}

func TestAuthService_LogoutWithoutRevoker(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	assert.NoError(t, authService.Logout(context.Background(), "token", time.Now().Add(time.Minute)))
}
