package userapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"chronicle/internal/config"
	"chronicle/internal/core/apperr"
	userEntity "chronicle/internal/core/user"
	userPort "chronicle/internal/ports/user"

	"github.com/dgrijalva/jwt-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is how long an issued JWT stays valid.
const TokenTTL = 24 * time.Hour

// Issuer is stamped into every token.
const Issuer = "chronicle"

var ErrInvalidCredentials = errors.New("invalid credentials")

// UserService registers users and issues their tokens.
type UserService struct {
	UserRepository userPort.UserRepository
	jwtKey         []byte
	admins         map[string]struct{}
}

func NewUserService(repo userPort.UserRepository, jwtKey []byte, adminUsernames []string) *UserService {
	admins := make(map[string]struct{}, len(adminUsernames))
	for _, name := range adminUsernames {
		admins[name] = struct{}{}
	}
	return &UserService{
		UserRepository: repo,
		jwtKey:         jwtKey,
		admins:         admins,
	}
}

// LoginUser checks the password and returns a signed token.
func (s *UserService) LoginUser(ctx context.Context, username string, password string) (*userPort.LoginResponse, error) {
	user, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			config.Logger.Info("Login for unknown user", zap.String("username", username))
			return nil, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, ErrInvalidCredentials)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		config.Logger.Info("Invalid password", zap.String("username", username))
		return nil, fmt.Errorf("%w: %w", apperr.ErrUnauthorized, ErrInvalidCredentials)
	}

	expiresAt := time.Now().Add(TokenTTL)
	token, err := s.generateJWT(user, expiresAt)
	if err != nil {
		config.Logger.Error("Error generating JWT", zap.Error(err))
		return nil, fmt.Errorf("could not generate token: %w", err)
	}

	return &userPort.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
	}, nil
}

func (s *UserService) generateJWT(user *userEntity.User, expiresAt time.Time) (string, error) {
	claims := &jwt.StandardClaims{
		Subject:   user.ID.String(),
		Issuer:    Issuer,
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: expiresAt.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtKey)
}

// RegisterUser creates an account. Usernames listed as admins become staff.
func (s *UserService) RegisterUser(ctx context.Context, name, family, username, password string) (*userPort.UserDTO, error) {
	username = strings.TrimSpace(username)

	v := apperr.NewValidationError()
	if username == "" {
		v.Add("username", "is required")
	} else if len(username) > 150 {
		v.Add("username", "must be at most 150 characters")
	}
	if password == "" {
		v.Add("password", "is required")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if existing, err := s.UserRepository.FindByUsername(ctx, username); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: username %s already taken", apperr.ErrConflict, username)
	} else if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	_, staff := s.admins[username]
	u, err := s.UserRepository.Create(ctx, &userEntity.User{
		Name:     name,
		Family:   family,
		Username: username,
		Password: string(hashedPassword),
		IsStaff:  staff,
	})
	if err != nil {
		return nil, err
	}

	config.Logger.Info("✅ User registered", zap.String("username", u.Username), zap.Bool("staff", u.IsStaff))
	return userPort.ToDTO(u), nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return userPort.ToDTO(u), nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*userPort.UserDTO, error) {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return userPort.ToDTO(u), nil
}

// DeleteUser removes the account together with its posts, comments and follow edges.
func (s *UserService) DeleteUser(ctx context.Context, username string) error {
	u, err := s.UserRepository.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := s.UserRepository.Delete(ctx, u.ID.String()); err != nil {
		return err
	}
	config.Logger.Info("🗑 User deleted", zap.String("username", username))
	return nil
}
