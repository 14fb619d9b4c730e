package repository

import (
	"context"

	"lobby-server/internal/model"

	"gorm.io/gorm"
)

// FriendRequestRepository 好友申请数据仓储
type FriendRequestRepository struct {
	db *gorm.DB
}

// NewFriendRequestRepository 创建FriendRequestRepository实例
func NewFriendRequestRepository(db *gorm.DB) *FriendRequestRepository {
	return &FriendRequestRepository{db: db}
}

// Create 创建好友申请
func (r *FriendRequestRepository) Create(ctx context.Context, request *model.FriendRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// GetByID 根据ID获取好友申请
func (r *FriendRequestRepository) GetByID(ctx context.Context, id uint) (*model.FriendRequest, error) {
	var request model.FriendRequest
	if err := r.db.WithContext(ctx).First(&request, id).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

// ExistsPending 同方向是否已有待处理的申请
func (r *FriendRequestRepository) ExistsPending(ctx context.Context, senderID, receiverID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("sender_id = ? AND receiver_id = ? AND status = ?", senderID, receiverID, model.FriendRequestPending).
		Count(&count).Error
	return count > 0, err
}

// ListIncoming 获取发给用户的指定状态申请（按ID升序，即插入顺序）
func (r *FriendRequestRepository) ListIncoming(ctx context.Context, receiverID uint, status model.FriendRequestStatus) ([]model.FriendRequest, error) {
	var requests []model.FriendRequest
	err := r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, status).
		Order("id ASC").
		Find(&requests).Error
	return requests, err
}

// ListByParticipant 获取用户作为发送方或接收方的指定状态申请（双向）
func (r *FriendRequestRepository) ListByParticipant(ctx context.Context, userID uint, status model.FriendRequestStatus) ([]model.FriendRequest, error) {
	var requests []model.FriendRequest
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? OR receiver_id = ?) AND status = ?", userID, userID, status).
		Order("id ASC").
		Find(&requests).Error
	return requests, err
}

// UpdateStatus 覆盖写入申请状态
func (r *FriendRequestRepository) UpdateStatus(ctx context.Context, id uint, status model.FriendRequestStatus) error {
	return r.db.WithContext(ctx).Model(&model.FriendRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}
