package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"go-role-auth/internal/model"
	"go-role-auth/internal/repository"
	"go-role-auth/pkg/apierror"
)

const (
	msgRegistered      = "Hesabınız başarıyla oluşturuldu."
	msgLoggedIn        = "Giriş başarılı"
	msgUnknownEmail    = "Bu e-posta ile kayıt bulunamadı."
	msgWrongPassword   = "Şifre hatalı!"
	msgRegisterFailed  = "registration failed"
	msgInvalidRegister = "invalid registration request"
	msgInvalidLogin    = "invalid login request"
)

type AuthService struct {
	store    IdentityStore
	tokens   *TokenIssuer
	logger   *slog.Logger
	observer AuthObserver
}

func NewAuthService(store IdentityStore, tokens *TokenIssuer, logger *slog.Logger, observer AuthObserver) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	if observer == nil {
		observer = nopObserver{}
	}

	return &AuthService{
		store:    store,
		tokens:   tokens,
		logger:   logger,
		observer: observer,
	}
}

// Register creates the account and assigns its roles. Role assignment is
// best-effort: a role that cannot be assigned is logged and skipped, and the
// account is kept.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)

	var problems []string
	if !validEmail(email) {
		problems = append(problems, "email must be a valid e-mail address")
	}
	if req.Password == "" {
		problems = append(problems, "password is required")
	}
	if len(problems) > 0 {
		s.observer.ObserveAuth("register", "invalid")
		return model.AuthResponse{}, apierror.Validation(msgInvalidRegister, problems...)
	}

	user, err := s.store.CreateUser(ctx, model.User{Email: email, FullName: req.FullName}, req.Password)
	if err != nil {
		s.observer.ObserveAuth("register", "rejected")
		return model.AuthResponse{}, registerError(email, err)
	}

	roles := req.Roles
	if len(roles) == 0 {
		roles = []string{model.DefaultRole}
	}
	for _, role := range roles {
		if err := s.store.AddUserToRole(ctx, user.ID, role); err != nil {
			s.logger.Warn("role assignment skipped during registration",
				"user_id", user.ID,
				"role", role,
				"error", err,
			)
		}
	}

	s.observer.ObserveAuth("register", "success")
	s.logger.Info("user registered", "user_id", user.ID)

	return model.AuthResponse{IsSuccess: true, Message: msgRegistered}, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		s.observer.ObserveAuth("login", "invalid")
		return model.AuthResponse{}, apierror.Validation(msgInvalidLogin, "email and password are required")
	}

	user, err := s.store.FindUserByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		s.observer.ObserveAuth("login", "unknown_email")
		return model.AuthResponse{}, apierror.Unauthorized(msgUnknownEmail)
	}
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.store.CheckPassword(ctx, user, req.Password)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("check password: %w", err)
	}
	if !ok {
		s.observer.ObserveAuth("login", "wrong_password")
		return model.AuthResponse{}, apierror.Unauthorized(msgWrongPassword)
	}

	roles, err := s.store.GetRolesForUser(ctx, user.ID)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("get roles: %w", err)
	}

	token, err := s.tokens.Issue(user, roles)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}

	s.observer.ObserveAuth("login", "success")

	return model.AuthResponse{Token: token, IsSuccess: true, Message: msgLoggedIn}, nil
}

// Me answers from the token alone.
func (s *AuthService) Me(claims *model.AuthClaims) (model.MeResponse, error) {
	if claims == nil || claims.UserID == "" {
		return model.MeResponse{}, apierror.Unauthorized(model.ErrUnauthorized.Error())
	}

	roles := claims.Roles
	if roles == nil {
		roles = []string{}
	}

	return model.MeResponse{
		ID:       claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Roles:    roles,
	}, nil
}

func registerError(email string, err error) error {
	if errors.Is(err, model.ErrDuplicateEmail) {
		return apierror.Conflict(fmt.Sprintf("Email '%s' is already taken.", email))
	}

	var policyErr *repository.PolicyError
	if errors.As(err, &policyErr) {
		return apierror.Store(msgRegisterFailed, policyErr.Descriptions...)
	}

	return fmt.Errorf("create user: %w", err)
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email
}
