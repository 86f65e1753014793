package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"maktub/internal/model"
	"maktub/internal/store/repository"
	"maktub/pkg/rbac"
)

// WhitelistService wraps whitelist management behind the admin gate.
type WhitelistService struct {
	whitelist WhitelistStore
	logger    *zap.Logger
}

func NewWhitelistService(whitelist WhitelistStore, logger *zap.Logger) *WhitelistService {
	return &WhitelistService{whitelist: whitelist, logger: logger}
}

// RoleFor resolves the role the whitelist grants an email. Unknown or
// inactive emails get no role.
func (s *WhitelistService) RoleFor(ctx context.Context, email string) string {
	entry, err := s.whitelist.FindByEmail(ctx, email)
	if err != nil || entry == nil || !strings.EqualFold(entry.Status, model.UserStatusActive) {
		return ""
	}
	return entry.Role
}

func (s *WhitelistService) requireAdmin(actorRole string) error {
	if err := rbac.CheckPermission(actorRole, rbac.PermissionManageWhitelist); err != nil {
		return notAuthorized("هذه العملية مقصورة على المسؤولين")
	}
	return nil
}

// List returns all whitelist entries.
func (s *WhitelistService) List(ctx context.Context, actorRole string) ([]model.WhitelistEntry, error) {
	if err := s.requireAdmin(actorRole); err != nil {
		return nil, err
	}
	return s.whitelist.ListEntries(ctx)
}

// Add inserts or refreshes a whitelist entry.
func (s *WhitelistService) Add(ctx context.Context, actorRole, email, role, addedBy string) error {
	if err := s.requireAdmin(actorRole); err != nil {
		return err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return errors.New("البريد الإلكتروني غير صالح")
	}
	if role == "" {
		role = model.RoleUser
	}

	entry := &model.WhitelistEntry{
		Email:   email,
		Role:    role,
		Status:  model.UserStatusActive,
		AddedBy: addedBy,
	}
	if err := s.whitelist.AddEntry(ctx, entry); err != nil {
		return err
	}

	s.logger.Info("whitelist entry added",
		zap.String("email", email),
		zap.String("role", role),
		zap.String("added_by", addedBy))
	return nil
}

// Remove deletes a whitelist entry. Removing a missing email is an error
// so admins notice typos.
func (s *WhitelistService) Remove(ctx context.Context, actorRole, email string) error {
	if err := s.requireAdmin(actorRole); err != nil {
		return err
	}

	removed, err := s.whitelist.RemoveEntry(ctx, email)
	if err != nil {
		return err
	}
	if !removed {
		return errors.New("البريد الإلكتروني غير موجود في القائمة")
	}

	s.logger.Info("whitelist entry removed", zap.String("email", email))
	return nil
}

// UpdateStatus flips an entry between active and inactive.
func (s *WhitelistService) UpdateStatus(ctx context.Context, actorRole, email, status string) error {
	if err := s.requireAdmin(actorRole); err != nil {
		return err
	}

	if status != model.UserStatusActive && status != model.UserStatusInactive {
		return errors.New("حالة غير صالحة")
	}

	if err := s.whitelist.UpdateStatus(ctx, email, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errors.New("البريد الإلكتروني غير موجود في القائمة")
		}
		return err
	}

	s.logger.Info("whitelist entry status updated",
		zap.String("email", email),
		zap.String("status", status))
	return nil
}
