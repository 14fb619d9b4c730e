package repository

import (
	"context"

	"lobby-server/internal/model"

	"gorm.io/gorm"
)

// InviteRepository 对局邀请数据仓储
type InviteRepository struct {
	db *gorm.DB
}

// NewInviteRepository 创建InviteRepository实例
func NewInviteRepository(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// WithTx 返回绑定到事务的仓储
func (r *InviteRepository) WithTx(tx *gorm.DB) *InviteRepository {
	return &InviteRepository{db: tx}
}

// Create 创建邀请（写入后 invite.ID 即房间号）
func (r *InviteRepository) Create(ctx context.Context, invite *model.Invite) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

// GetByID 根据ID获取邀请
func (r *InviteRepository) GetByID(ctx context.Context, id uint) (*model.Invite, error) {
	var invite model.Invite
	if err := r.db.WithContext(ctx).First(&invite, id).Error; err != nil {
		return nil, err
	}
	return &invite, nil
}

// UpdateLinks 保存两条邀请链接
func (r *InviteRepository) UpdateLinks(ctx context.Context, id uint, inviterLink, inviteeLink string) error {
	return r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"inviter_link": inviterLink,
			"invitee_link": inviteeLink,
		}).Error
}

// CompareAndSetStatus 仅当邀请当前状态为 from 时改为 to，返回是否更新成功
func (r *InviteRepository) CompareAndSetStatus(ctx context.Context, id uint, from, to model.InviteStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// ListByInvitee 获取发给用户的指定状态邀请（按ID升序）
func (r *InviteRepository) ListByInvitee(ctx context.Context, invitee string, status model.InviteStatus) ([]model.Invite, error) {
	var invites []model.Invite
	err := r.db.WithContext(ctx).
		Where("invitee = ? AND status = ?", invitee, status).
		Order("id ASC").
		Find(&invites).Error
	return invites, err
}

// CountByInvitee 统计发给用户的指定状态邀请数量
func (r *InviteRepository) CountByInvitee(ctx context.Context, invitee string, status model.InviteStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Invite{}).
		Where("invitee = ? AND status = ?", invitee, status).
		Count(&count).Error
	return count, err
}

// InviteeCount 被邀请方及其邀请数量
type InviteeCount struct {
	Invitee string
	Count   int64
}

// CountGroupedByInvitee 按被邀请方分组统计指定状态的邀请
func (r *InviteRepository) CountGroupedByInvitee(ctx context.Context, status model.InviteStatus) ([]InviteeCount, error) {
	var rows []InviteeCount
	err := r.db.WithContext(ctx).Model(&model.Invite{}).
		Select("invitee, COUNT(*) AS count").
		Where("status = ?", status).
		Group("invitee").
		Order("invitee ASC").
		Scan(&rows).Error
	return rows, err
}
