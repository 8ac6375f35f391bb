package service

import (
	"errors"

	"go-shop-ms/internal/apperr"
	"go-shop-ms/internal/model"
	"go-shop-ms/internal/repository"
	"go-shop-ms/pkg/jwt"
	"go-shop-ms/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both unknown email and wrong password so the
// two cannot be told apart.
var ErrInvalidCredentials = apperr.Auth("invalid credentials")

type AuthService interface {
	Register(req *RegisterRequest) (*model.PublicUser, error)
	Login(req *LoginRequest) (*LoginResponse, error)
	Profile(userID uuid.UUID) (*model.UserResponse, error)
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
	log      *zap.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokens *jwt.Manager, log *zap.Logger) AuthService {
	return &authService{
		userRepo: userRepo,
		tokens:   tokens,
		log:      log,
	}
}

func (s *authService) Register(req *RegisterRequest) (*model.PublicUser, error) {
	if msg := validator.Message(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	existing, err := s.userRepo.FindByEmail(req.Email)
	if err == nil && existing != nil {
		return nil, apperr.Conflict("email already in use")
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Server("find user by email", err)
	}

	user := &model.User{Email: req.Email, Name: req.Name}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Server("hash password", err)
	}

	if err := s.userRepo.Create(user); err != nil {
		// Lost a race with a concurrent registration for the same email.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("email already in use")
		}
		return nil, apperr.Server("create user", err)
	}

	s.log.Info("user_registered", zap.String("user_id", user.ID.String()))
	public := user.ToPublic()
	return &public, nil
}

func (s *authService) Login(req *LoginRequest) (*LoginResponse, error) {
	if msg := validator.Message(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	user, err := s.userRepo.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperr.Server("find user by email", err)
	}

	if !user.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Server("generate token", err)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToPublic(),
	}, nil
}

func (s *authService) Profile(userID uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Server("find user by id", err)
	}
	resp := user.ToResponse()
	return &resp, nil
}
