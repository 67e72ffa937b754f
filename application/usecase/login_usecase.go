package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/domain/valueobject"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrAccountInactive    = errors.New("account is inactive")
)

// LoginUseCase issues staff access tokens. Only stateless access tokens
// exist; a session ends when its token expires.
type LoginUseCase struct {
	users     outbound.UserRepository
	tokens    outbound.TokenService
	passwords outbound.PasswordService
	tokenTTL  time.Duration
}

func NewLoginUseCase(
	users outbound.UserRepository,
	tokens outbound.TokenService,
	passwords outbound.PasswordService,
	tokenTTL time.Duration,
) *LoginUseCase {
	return &LoginUseCase{users: users, tokens: tokens, passwords: passwords, tokenTTL: tokenTTL}
}

// Login answers ErrInvalidCredentials for both an unknown email and a wrong
// password. Store failures surface as internal errors.
func (uc *LoginUseCase) Login(ctx context.Context, req inbound.LoginRequest) (*inbound.LoginResponse, error) {
	creds, err := valueobject.NewCredentials(req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	staff, err := uc.users.FindByEmail(ctx, creds.Email())
	switch {
	case errors.Is(err, outbound.ErrUserNotFound), err == nil && staff == nil:
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("load account for login: %w", err)
	}

	if uc.passwords.ComparePassword(staff.Password, creds.Password()) != nil {
		return nil, ErrInvalidCredentials
	}
	if !staff.IsActive() {
		return nil, ErrAccountInactive
	}

	token, err := uc.tokens.GenerateAccessToken(outbound.TokenClaims{
		UserID: staff.ID,
		Email:  staff.Email,
		Role:   staff.Role,
		Name:   staff.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &inbound.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(uc.tokenTTL.Seconds()),
		User:        *profileOf(staff),
	}, nil
}

func (uc *LoginUseCase) Me(ctx context.Context, userID string) (*inbound.MeResponse, error) {
	staff, err := uc.users.FindByID(ctx, userID)
	if errors.Is(err, outbound.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", userID, err)
	}
	return profileOf(staff), nil
}

func profileOf(u *entity.User) *inbound.MeResponse {
	return &inbound.MeResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
