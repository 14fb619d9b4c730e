package repository

import (
	"context"

	"lobby-server/internal/model"

	"gorm.io/gorm"
)

// UserRepository 用户数据仓储
type UserRepository struct {
	orm *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{orm: db}
}

// WithTx 返回绑定到事务的仓储
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{orm: tx}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.orm.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var u model.User
	if err := r.orm.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername 精确匹配用户名（区分大小写）
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.orm.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIDs 批量查询用户，结果顺序不保证
func (r *UserRepository) GetByIDs(ctx context.Context, ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.orm.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// List 按ID顺序列出全部用户
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.orm.WithContext(ctx).Order("id ASC").Find(&users).Error
	return users, err
}

// UpdateRating 覆盖写入积分
func (r *UserRepository) UpdateRating(ctx context.Context, id uint, rating int) error {
	return r.orm.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("rating", rating).Error
}
