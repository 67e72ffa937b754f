// Package user_management administers staff accounts: admins, directors,
// drivers and vehicle owners.
package user_management

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fleetcrm/fleetcrm/application/port/inbound"
	"github.com/fleetcrm/fleetcrm/application/port/outbound"
	"github.com/fleetcrm/fleetcrm/domain/entity"
	"github.com/fleetcrm/fleetcrm/domain/valueobject"
)

type staffDirectory struct {
	users     outbound.UserRepository
	passwords outbound.PasswordService
}

func NewUserManagementUseCase(
	users outbound.UserRepository,
	passwords outbound.PasswordService,
) inbound.UserManagementUseCase {
	return &staffDirectory{users: users, passwords: passwords}
}

func (d *staffDirectory) CreateUser(ctx context.Context, req inbound.CreateUserRequest) (*inbound.GetUserDetailResponse, error) {
	req.Email = valueobject.NormalizeEmail(req.Email)
	if req.Status == "" {
		req.Status = entity.UserStatusActive
	}
	if err := validateNewStaff(req); err != nil {
		return nil, err
	}

	taken, err := d.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check staff email: %w", err)
	}
	if taken {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := d.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash staff password: %w", err)
	}

	id := req.ID
	if id == "" {
		id = uuid.New().String()
	}
	staff := entity.NewUser(id, strings.TrimSpace(req.Name), req.Email, hash, req.Role, req.Status)

	switch err := d.users.Create(ctx, staff); {
	case errors.Is(err, outbound.ErrUserAlreadyExists):
		return nil, ErrEmailAlreadyExists
	case err != nil:
		return nil, fmt.Errorf("store staff account: %w", err)
	}
	return staffDetail(staff), nil
}

func (d *staffDirectory) UpdateUser(ctx context.Context, userID string, req inbound.UpdateUserRequest) error {
	if err := validateStaffPatch(req); err != nil {
		return err
	}
	staff, err := d.lookup(ctx, userID)
	if err != nil {
		return err
	}

	losesAdmin := staff.Role == entity.RoleAdmin && staff.IsActive() &&
		((req.Role != "" && req.Role != entity.RoleAdmin) || req.Status == entity.UserStatusInactive)
	if losesAdmin {
		if err := d.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	if req.Name != "" {
		staff.UpdateName(strings.TrimSpace(req.Name))
	}
	if req.Role != "" {
		staff.UpdateRole(req.Role)
	}
	if req.Status != "" {
		staff.UpdateStatus(req.Status)
	}

	if err := d.users.Update(ctx, staff); err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("save staff account: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes the account so audit entries keep a resolvable actor.
func (d *staffDirectory) DeleteUser(ctx context.Context, userID string) error {
	staff, err := d.lookup(ctx, userID)
	if err != nil {
		return err
	}
	if staff.Role == entity.RoleAdmin && staff.IsActive() {
		if err := d.ensureAnotherAdmin(ctx); err != nil {
			return err
		}
	}

	if err := d.users.SoftDelete(ctx, staff.ID); err != nil {
		if errors.Is(err, outbound.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("remove staff account: %w", err)
	}
	return nil
}

func (d *staffDirectory) GetUserDetail(ctx context.Context, userID string) (*inbound.GetUserDetailResponse, error) {
	staff, err := d.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return staffDetail(staff), nil
}

func (d *staffDirectory) ListUsers(ctx context.Context, req inbound.ListUsersRequest) (*inbound.ListUsersResponse, error) {
	page, limit, offset := inbound.NormalizePage(req.Page, req.Limit)

	staff, total, err := d.users.FindAll(ctx, offset, limit, outbound.UserFilters{
		Name:   req.Filter.Name,
		Role:   req.Filter.Role,
		Status: req.Filter.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("list staff accounts: %w", err)
	}

	resp := &inbound.ListUsersResponse{
		Users:      make([]inbound.UserListItem, 0, len(staff)),
		Pagination: inbound.PaginationInfo{Page: page, Limit: limit, Total: total},
	}
	for _, s := range staff {
		resp.Users = append(resp.Users, inbound.UserListItem{
			ID: s.ID, Name: s.Name, Email: s.Email, Role: s.Role, Status: s.Status,
		})
	}
	return resp, nil
}

func (d *staffDirectory) lookup(ctx context.Context, userID string) (*entity.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrEmptyUserID
	}
	staff, err := d.users.FindByID(ctx, userID)
	if errors.Is(err, outbound.ErrUserNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load staff account %s: %w", userID, err)
	}
	return staff, nil
}

func (d *staffDirectory) ensureAnotherAdmin(ctx context.Context) error {
	_, active, err := d.users.FindAll(ctx, 0, 1, outbound.UserFilters{
		Role:   entity.RoleAdmin,
		Status: entity.UserStatusActive,
	})
	if err != nil {
		return fmt.Errorf("count active admins: %w", err)
	}
	if active <= 1 {
		return ErrLastAdmin
	}
	return nil
}

func staffDetail(u *entity.User) *inbound.GetUserDetailResponse {
	return &inbound.GetUserDetailResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
	}
}
