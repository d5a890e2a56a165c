package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/oops"
	"github.com/user/movieshelf/internal/auth"
	"github.com/user/movieshelf/internal/model"
	"github.com/user/movieshelf/internal/repository"
)

// IdentityStore 用户持久化，需在存储层保证邮箱唯一
// 未找到时返回 nil, nil；唯一约束冲突返回 repository.ErrDuplicate
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	Insert(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) (bool, error)
}

// IdentityService 注册、登录与修改密码
type IdentityService struct {
	store  IdentityStore
	tokens *auth.TokenIssuer
	logger *slog.Logger
}

// NewIdentityService 创建身份服务
func NewIdentityService(store IdentityStore, tokens *auth.TokenIssuer, logger *slog.Logger) *IdentityService {
	return &IdentityService{
		store:  store,
		tokens: tokens,
		logger: logger.With("component", "identity"),
	}
}

// Register 注册新用户。邮箱原样比较，不做大小写或空白处理
func (s *IdentityService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	existing, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, oops.In("identity").Wrapf(err, "find user by email")
	}
	if existing != nil {
		return nil, ErrEmailInUse
	}

	salt, err := auth.GenerateSalt()
	if err != nil {
		return nil, err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: auth.DeriveHash(password, salt),
		Salt:         salt,
	}
	if err := s.store.Insert(ctx, user); err != nil {
		// 并发注册时由唯一约束兜底
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailInUse
		}
		return nil, oops.In("identity").Wrapf(err, "insert user")
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate 校验邮箱和密码并签发令牌
// 邮箱不存在与密码错误返回同一个错误，避免枚举账号
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (string, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", oops.In("identity").Wrapf(err, "find user by email")
	}
	if user == nil || !auth.VerifyPassword(password, user.PasswordHash, user.Salt) {
		return "", ErrInvalidCredentials
	}

	return s.tokens.Issue(user)
}

// GetByID 获取用户
func (s *IdentityService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, oops.In("identity").Wrapf(err, "find user by id")
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdatePassword 修改密码，沿用原有的盐
func (s *IdentityService) UpdatePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !auth.VerifyPassword(oldPassword, user.PasswordHash, user.Salt) {
		return ErrIncorrectPassword
	}

	user.PasswordHash = auth.DeriveHash(newPassword, user.Salt)
	updated, err := s.store.Update(ctx, user)
	if err != nil {
		return oops.In("identity").Wrapf(err, "update user")
	}
	if !updated {
		return ErrUserNotFound
	}

	s.logger.InfoContext(ctx, "password updated", "user_id", user.ID)
	return nil
}
