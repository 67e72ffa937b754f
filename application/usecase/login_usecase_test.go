package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
)

func TestLoginUseCase_Login(t *testing.T) {
	ctx := context.Background()
	activeUser := entity.NewUserWithDefaults("user-1", "Jane Wanjiru", "jane@fleet.co.ke", "hashed", entity.RoleDirector)
	inactiveUser := entity.NewUser("user-2", "Old Driver", "old@fleet.co.ke", "hashed", entity.RoleDriver, entity.UserStatusInactive)

	tests := []struct {
		name    string
		req     inbound.LoginRequest
		setup   func(*MockUserRepository, *MockPasswordService, *MockTokenService)
		wantErr error
	}{
		{
			name: "success",
			req:  inbound.LoginRequest{Email: " Jane@Fleet.co.ke ", Password: "password123"},
			setup: func(repo *MockUserRepository, pw *MockPasswordService, tok *MockTokenService) {
				repo.On("FindByEmail", ctx, "jane@fleet.co.ke").Return(activeUser, nil)
				pw.On("ComparePassword", "hashed", "password123").Return(nil)
				tok.On("GenerateAccessToken", outbound.TokenClaims{
					UserID: "user-1", Email: "jane@fleet.co.ke", Role: entity.RoleDirector, Name: "Jane Wanjiru",
				}).Return("signed-token", nil)
			},
		},
		{
			name: "unknown email",
			req:  inbound.LoginRequest{Email: "nobody@fleet.co.ke", Password: "password123"},
			setup: func(repo *MockUserRepository, pw *MockPasswordService, tok *MockTokenService) {
				repo.On("FindByEmail", ctx, "nobody@fleet.co.ke").Return(nil, outbound.ErrUserNotFound)
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			req:  inbound.LoginRequest{Email: "jane@fleet.co.ke", Password: "wrongpass1"},
			setup: func(repo *MockUserRepository, pw *MockPasswordService, tok *MockTokenService) {
				repo.On("FindByEmail", ctx, "jane@fleet.co.ke").Return(activeUser, nil)
				pw.On("ComparePassword", "hashed", "wrongpass1").Return(errors.New("mismatch"))
			},
			wantErr: ErrInvalidCredentials,
		},
		{
			name: "inactive account",
			req:  inbound.LoginRequest{Email: "old@fleet.co.ke", Password: "password123"},
			setup: func(repo *MockUserRepository, pw *MockPasswordService, tok *MockTokenService) {
				repo.On("FindByEmail", ctx, "old@fleet.co.ke").Return(inactiveUser, nil)
				pw.On("ComparePassword", "hashed", "password123").Return(nil)
			},
			wantErr: ErrAccountInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			pw := new(MockPasswordService)
			tok := new(MockTokenService)
			tt.setup(repo, pw, tok)

			uc := NewLoginUseCase(repo, tok, pw, 15*time.Minute)
			resp, err := uc.Login(ctx, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				tok.AssertNotCalled(t, "GenerateAccessToken", mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "signed-token", resp.AccessToken)
			assert.Equal(t, "Bearer", resp.TokenType)
			assert.Equal(t, 900, resp.ExpiresIn)
			assert.Equal(t, entity.RoleDirector, resp.User.Role)
			repo.AssertExpectations(t)
			pw.AssertExpectations(t)
			tok.AssertExpectations(t)
		})
	}
}

func TestLoginUseCase_Login_StoreOutageIsNotACredentialError(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("FindByEmail", ctx, "jane@fleet.co.ke").Return(nil, errors.New("connection refused"))

	_, err := NewLoginUseCase(repo, new(MockTokenService), new(MockPasswordService), time.Minute).
		Login(ctx, inbound.LoginRequest{Email: "jane@fleet.co.ke", Password: "password123"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginUseCase_Me(t *testing.T) {
	ctx := context.Background()
	repo := new(MockUserRepository)
	repo.On("FindByID", ctx, "user-1").Return(entity.NewUserWithDefaults("user-1", "Jane", "jane@fleet.co.ke", "x", entity.RoleAdmin), nil)
	repo.On("FindByID", ctx, "missing").Return(nil, outbound.ErrUserNotFound)

	uc := NewLoginUseCase(repo, new(MockTokenService), new(MockPasswordService), time.Minute)

	me, err := uc.Me(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Jane", me.Name)
	assert.Equal(t, entity.RoleAdmin, me.Role)

	_, err = uc.Me(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
