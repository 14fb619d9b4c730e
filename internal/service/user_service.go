package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"lobby-server/internal/model"
	"lobby-server/internal/repository"
	"lobby-server/pkg/jwt"
	"lobby-server/pkg/password"

	"gorm.io/gorm"
)

type UserService struct {
	repo       *repository.UserRepository
	jwtService *jwt.JWTService
}

func NewUserService(repo *repository.UserRepository, jwtService *jwt.JWTService) *UserService {
	return &UserService{repo: repo, jwtService: jwtService}
}

// Register 注册，积分从0开始
func (s *UserService) Register(ctx context.Context, username, plainPassword string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || utf8.RuneCountInString(username) > model.UsernameMaxLength {
		return nil, ErrInvalidUsername
	}
	if plainPassword == "" {
		return nil, ErrEmptyPassword
	}

	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("looking up username: %w", err)
	}

	// 密码哈希
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Login 登录，成功后签发包含 id/username/rating 的 token
func (s *UserService) Login(ctx context.Context, username, plainPassword string) (*model.User, string, error) {
	username = strings.TrimSpace(username)

	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 用户不存在时同样做一次哈希比对，耗时与密码错误一致
			password.VerifyDummy(plainPassword)
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}
	if !password.Verify(plainPassword, u.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(u.ID, u.Username, u.Rating)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	return u, token, nil
}

// ListUsers 列出全部用户
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// GetUser 根据ID获取用户
func (s *UserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound)
	}
	return u, nil
}

// FindByUsername 根据用户名精确查找
func (s *UserService) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, lookupErr(err, ErrUserNotFound)
	}
	return u, nil
}

// lookupErr 将记录不存在转换为业务错误，其余错误原样包装
func lookupErr(err, notFound error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("querying store: %w", err)
}
