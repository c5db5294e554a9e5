package auth

import (
	"errors"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/ticket9ja/ticket9ja-backend/config"
)

type Service interface {
	Login(input LoginInput) (*TokenResponse, error)
	GetUserByID(userID uint) (*User, error)
	SeedDefaultAdmin() error
}

type service struct {
	repo   Repository
	secret string
	ttl    time.Duration
}

func NewService(r Repository, cfg *config.Config) Service {
	return &service{
		repo:   r,
		secret: cfg.JWTSecret,
		ttl:    time.Duration(cfg.JWTTTLHours) * time.Hour,
	}
}

// =============================
// Login
// =============================

func (s *service) Login(in LoginInput) (*TokenResponse, error) {
	user, err := s.repo.FindByUsername(in.Username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

func (s *service) generateAccessToken(user *User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"sub":     user.Username,
		"exp":     time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

// =============================
// Get User By ID
// =============================

func (s *service) GetUserByID(userID uint) (*User, error) {
	return s.repo.FindByID(userID)
}

// =============================
// Default admin bootstrap
// =============================

// SeedDefaultAdmin creates the initial admin account when the users
// table is empty, so a fresh deployment is immediately usable. The
// password must be changed after first login.
func (s *service) SeedDefaultAdmin() error {
	count, err := s.repo.CountUsers()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &User{
		Username:       "admin",
		Email:          "admin@ticket9ja.com",
		HashedPassword: string(hash),
		FullName:       "Administrator",
		IsActive:       true,
	}
	if err := s.repo.Create(admin); err != nil {
		return err
	}

	log.Println("✅ Default admin user created (username: admin)")
	return nil
}
