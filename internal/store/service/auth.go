package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"maktub/internal/model"
	"maktub/internal/util"
	"maktub/pkg/config"
)

// UserStore is the persistence surface the auth service needs.
type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	UpdateGoogleProfile(ctx context.Context, userID, fullName, imageURL string) error
}

// WhitelistStore is the persistence surface for whitelist checks and
// management.
type WhitelistStore interface {
	ListEntries(ctx context.Context) ([]model.WhitelistEntry, error)
	FindByEmail(ctx context.Context, email string) (*model.WhitelistEntry, error)
	AddEntry(ctx context.Context, e *model.WhitelistEntry) error
	RemoveEntry(ctx context.Context, email string) (bool, error)
	UpdateStatus(ctx context.Context, email, status string) error
}

type AuthService struct {
	users     UserStore
	whitelist WhitelistStore
	cfg       config.AuthConfig
	jwtSecret string
	logger    *zap.Logger
}

func NewAuthService(users UserStore, whitelist WhitelistStore, cfg config.AuthConfig, jwtSecret string, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		whitelist: whitelist,
		cfg:       cfg,
		jwtSecret: jwtSecret,
		logger:    logger,
	}
}

// checkWhitelist gates an email on the whitelist. A lookup failure only
// admits the email when the fail-open flag is set; the default is to
// refuse.
func (s *AuthService) checkWhitelist(ctx context.Context, email string) (*model.WhitelistEntry, error) {
	entry, err := s.whitelist.FindByEmail(ctx, email)
	if err != nil {
		if s.cfg.WhitelistFailOpen {
			s.logger.Warn("whitelist lookup failed, admitting by fail-open policy",
				zap.String("email", email),
				zap.Error(err))
			return &model.WhitelistEntry{Email: email, Role: model.RoleUser, Status: model.UserStatusActive}, nil
		}
		s.logger.Error("whitelist lookup failed", zap.String("email", email), zap.Error(err))
		return nil, notWhitelisted("تعذر التحقق من قائمة المستخدمين المصرح لهم")
	}
	if entry == nil || !strings.EqualFold(entry.Status, model.UserStatusActive) {
		return nil, notWhitelisted("هذا البريد الإلكتروني غير مصرح له باستخدام النظام")
	}
	return entry, nil
}

// checkDomain enforces the allowed-domains gate when one is configured.
func (s *AuthService) checkDomain(email string) error {
	if len(s.cfg.AllowedDomains) == 0 {
		return nil
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return domainNotAllowed("البريد الإلكتروني غير صالح")
	}
	domain := email[at+1:]
	for _, allowed := range s.cfg.AllowedDomains {
		if strings.EqualFold(domain, allowed) {
			return nil
		}
	}
	return domainNotAllowed("نطاق البريد الإلكتروني غير مسموح به")
}

// Signup creates a new whitelisted user and returns the user and a JWT.
func (s *AuthService) Signup(ctx context.Context, fullName, email, password, username string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.checkDomain(email); err != nil {
		return nil, "", err
	}

	entry, err := s.checkWhitelist(ctx, email)
	if err != nil {
		return nil, "", err
	}

	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", errors.New("البريد الإلكتروني مسجل بالفعل")
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	role := entry.Role
	if role == "" {
		role = model.RoleUser
	}

	u := &model.User{
		ID:           uuid.NewString(),
		FullName:     fullName,
		Email:        email,
		PasswordHash: hash,
		Username:     username,
		Role:         role,
		Status:       model.UserStatusActive,
	}

	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// Login checks credentials and the whitelist, stamps last-login and
// returns the user and a JWT.
func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if u == nil || !util.CheckPassword(password, u.PasswordHash) {
		return nil, "", notAuthorized("البريد الإلكتروني أو كلمة المرور غير صحيحة")
	}

	if _, err := s.checkWhitelist(ctx, email); err != nil {
		return nil, "", err
	}

	if err := s.users.UpdateLastLogin(ctx, u.ID); err != nil {
		s.logger.Warn("failed to stamp last login", zap.String("user_id", u.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

// CheckGoogleAuth admits a Google sign-in. A whitelisted email with no
// account yet gets one created on first sign-in.
func (s *AuthService) CheckGoogleAuth(ctx context.Context, email, fullName, imageURL string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if err := s.checkDomain(email); err != nil {
		return nil, "", err
	}

	entry, err := s.checkWhitelist(ctx, email)
	if err != nil {
		return nil, "", err
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if u == nil {
		role := entry.Role
		if role == "" {
			role = model.RoleUser
		}
		u = &model.User{
			ID:       uuid.NewString(),
			FullName: fullName,
			Email:    email,
			ImageURL: imageURL,
			Role:     role,
			Status:   model.UserStatusActive,
		}
		if err := s.users.CreateUser(ctx, u); err != nil {
			return nil, "", err
		}
	} else if err := s.users.UpdateGoogleProfile(ctx, u.ID, fullName, imageURL); err != nil {
		s.logger.Warn("failed to refresh google profile", zap.String("user_id", u.ID), zap.Error(err))
	}

	token, err := util.GenerateJWT(u.Email, u.Role, s.jwtSecret)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}
