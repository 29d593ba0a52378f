package userapp

import (
	"context"
	"errors"
	"strings"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"

	"welbex/internal/core/auth"
	"welbex/internal/core/errs"
	userEntity "welbex/internal/core/user"
	userPort "welbex/internal/ports/user"
)

var errInvalidCredentials = errs.Unauthenticated("invalid email or password")

// UserService سرویس مدیریت کاربران
type UserService struct {
	UserRepository userPort.UserRepository
	Hasher         *auth.PasswordHasher
	Tokens         *auth.TokenService
	logger         *zap.Logger
}

func NewUserService(repo userPort.UserRepository, hasher *auth.PasswordHasher, tokens *auth.TokenService, logger *zap.Logger) *UserService {
	return &UserService{
		UserRepository: repo,
		Hasher:         hasher,
		Tokens:         tokens,
		logger:         logger,
	}
}

// RegisterUser ثبت‌نام کاربر جدید با ایمیل و رمز عبور
func (s *UserService) RegisterUser(ctx context.Context, email, password string) (*userPort.UserDTO, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errs.Validation("email and password are required")
	}
	return s.create(ctx, &userEntity.User{Email: email}, password)
}

// CreateUser creates a user with a full profile; every field is required.
func (s *UserService) CreateUser(ctx context.Context, name, email, password, gender string) (*userPort.UserDTO, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	gender = strings.TrimSpace(gender)
	if name == "" || email == "" || password == "" || gender == "" {
		return nil, errs.Validation("name, email, password and gender are required")
	}
	return s.create(ctx, &userEntity.User{Name: &name, Email: email, Gender: &gender}, password)
}

func (s *UserService) create(ctx context.Context, u *userEntity.User, password string) (*userPort.UserDTO, error) {
	existing, err := s.UserRepository.FindByEmail(ctx, u.Email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, errs.Conflict("a user with this email already exists")
	}

	hashed, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	u.ID = uuid.Must(uuid.NewV4())
	u.PasswordHash = hashed

	created, err := s.UserRepository.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	s.logger.Info("User registered", zap.String("userID", created.ID.String()))
	return userPort.ToUserDTO(created), nil
}

// LoginUser ورود کاربر و صدور توکن JWT
func (s *UserService) LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, errs.Validation("email and password are required")
	}

	u, err := s.UserRepository.FindByEmail(ctx, email)
	if errors.Is(err, errs.ErrNotFound) {
		s.Hasher.VerifyMissing(password)
		return nil, errInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !s.Hasher.Verify(password, u.PasswordHash) {
		return nil, errInvalidCredentials
	}

	token, expiresAt, err := s.Tokens.Issue(auth.Identity{UserID: u.ID.String(), Email: u.Email})
	if err != nil {
		return nil, err
	}
	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      userPort.ToUserDTO(u),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}
