package service

import (
	"context"
	"errors"
	"time"

	"skill_tracker_backend/internal/config"
	"skill_tracker_backend/internal/model"
	"skill_tracker_backend/internal/repository"
	"skill_tracker_backend/internal/util"
	"skill_tracker_backend/internal/validation"
	"skill_tracker_backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const msgInvalidLogin = "Invalid username or password."

type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      *model.User `json:"user"`
}

type AuthService struct {
	UserRepo  *repository.UserRepository
	Cfg       *config.Config
	Blacklist TokenBlacklist
}

// NewAuthService blacklist 为 nil 时注销只是客户端丢弃 token
func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config, blacklist TokenBlacklist) *AuthService {
	return &AuthService{
		UserRepo:  userRepo,
		Cfg:       cfg,
		Blacklist: blacklist,
	}
}

// Login 用户名或密码错误、账号停用都返回同一个非字段错误
func (s *AuthService) Login(ctx context.Context, form validation.LoginForm) (*LoginResult, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	repo := s.UserRepo.WithContext(ctx)
	user, err := repo.FindByUsername(form.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validation.NewNonFieldError(msgInvalidLogin)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)); err != nil {
		return nil, validation.NewNonFieldError(msgInvalidLogin)
	}
	if !user.IsActive {
		return nil, validation.NewNonFieldError(msgInvalidLogin)
	}

	now := time.Now()
	if err := repo.UpdateLastLogin(user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, claims, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// Logout 把 token 的 jti 加入黑名单直到过期
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.Blacklist == nil {
		logger.Log.Debug("Token blacklist disabled, logout is client side only")
		return nil
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.Blacklist.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

// CurrentUser 返回 token 对应的账号，账号已删除时返回 ErrNotFound
func (s *AuthService) CurrentUser(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.UserRepo.WithContext(ctx).FindByIDWithGroups(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrNotFound
	}
	return user, err
}
