package service

import (
	"context"
	"fmt"

	"lobby-server/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingService 积分服务
type RatingService struct {
	db       *gorm.DB
	userRepo *repository.UserRepository
}

// NewRatingService 创建RatingService实例
func NewRatingService(db *gorm.DB, userRepo *repository.UserRepository) *RatingService {
	return &RatingService{db: db, userRepo: userRepo}
}

// ApplyDelta 为用户积分加上 delta（可为负），结果最低为 0，返回新积分
func (s *RatingService) ApplyDelta(ctx context.Context, username string, delta int) (int, error) {
	var rating int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 行锁，sqlite 会忽略
		users := s.userRepo.WithTx(tx.Clauses(clause.Locking{Strength: "UPDATE"}))
		u, err := users.GetByUsername(ctx, username)
		if err != nil {
			return lookupErr(err, ErrUserNotFound)
		}

		rating = u.Rating + delta
		if rating < 0 {
			rating = 0
		}
		if err := s.userRepo.WithTx(tx).UpdateRating(ctx, u.ID, rating); err != nil {
			return fmt.Errorf("updating rating: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return rating, nil
}
