package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lobby-server/internal/model"
	"lobby-server/internal/repository"
	"lobby-server/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// UnreadCounter 未读邀请计数缓存（Redis实现见 pkg/redis）
type UnreadCounter interface {
	// GetUnreadInvites 计数不存在时返回 -1
	GetUnreadInvites(ctx context.Context, username string) (int64, error)
	SetUnreadInvites(ctx context.Context, username string, count int64) error
	IncrUnreadInvites(ctx context.Context, username string) error
	DecrUnreadInvites(ctx context.Context, username string) error
	// ReplaceUnreadInvites 用给定计数整体替换全部计数
	ReplaceUnreadInvites(ctx context.Context, counts map[string]int64) error
}

// Pusher 向在线用户推送消息（WebSocket实现见 pkg/websocket）
type Pusher interface {
	SendToUser(username string, msg []byte) bool
}

// 推送事件类型
const (
	EventInvite         = "invite"
	EventInviteRejected = "invite_rejected"
)

// CreateInviteInput 创建邀请参数
type CreateInviteInput struct {
	Inviter       string
	Invitee       string
	Turn          string // goat 表示邀请方执羊
	InviterRating int
	InviteeRating int
}

// StatusCheck 邀请状态轮询结果，仅在被拒绝时携带邀请
type StatusCheck struct {
	Status model.InviteStatus
	Invite *model.Invite
}

// InviteService 对局邀请服务
type InviteService struct {
	db         *gorm.DB
	inviteRepo *repository.InviteRepository
	userRepo   *repository.UserRepository
	linkBase   string

	counter UnreadCounter
	pusher  Pusher
}

// InviteOption 可选依赖
type InviteOption func(*InviteService)

// WithUnreadCounter 启用未读计数缓存
func WithUnreadCounter(c UnreadCounter) InviteOption {
	return func(s *InviteService) { s.counter = c }
}

// WithPusher 启用实时推送
func WithPusher(p Pusher) InviteOption {
	return func(s *InviteService) { s.pusher = p }
}

// NewInviteService 创建InviteService实例
func NewInviteService(db *gorm.DB, inviteRepo *repository.InviteRepository, userRepo *repository.UserRepository, linkBase string, opts ...InviteOption) *InviteService {
	if linkBase == "" {
		linkBase = DefaultLinkBaseURL
	}
	s := &InviteService{
		db:         db,
		inviteRepo: inviteRepo,
		userRepo:   userRepo,
		linkBase:   linkBase,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateInvite 创建邀请并生成双方链接
// 先写入邀请得到房间号，再生成链接并回写，整个过程在同一事务内
func (s *InviteService) CreateInvite(ctx context.Context, in CreateInviteInput) (*model.Invite, error) {
	invite := &model.Invite{
		Inviter: in.Inviter,
		Invitee: in.Invitee,
		Status:  model.InviteSent,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		for _, name := range []string{in.Inviter, in.Invitee} {
			if _, err := users.GetByUsername(ctx, name); err != nil {
				return lookupErr(err, ErrUserNotFound)
			}
		}

		invites := s.inviteRepo.WithTx(tx)
		if err := invites.Create(ctx, invite); err != nil {
			return fmt.Errorf("creating invite: %w", err)
		}

		inviterRole, inviteeRole := AssignRoles(in.Turn)
		invite.InviterLink = BuildInviteLink(s.linkBase, invite.ID, inviterRole, in.Invitee, in.InviteeRating)
		invite.InviteeLink = BuildInviteLink(s.linkBase, invite.ID, inviteeRole, in.Inviter, in.InviterRating)
		if err := invites.UpdateLinks(ctx, invite.ID, invite.InviterLink, invite.InviteeLink); err != nil {
			return fmt.Errorf("saving invite links: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.incrUnread(ctx, invite.Invitee)
	s.push(invite.Invitee, EventInvite, invite)
	return invite, nil
}

// ListForInvitee 获取用户待回应（SENT）的邀请
func (s *InviteService) ListForInvitee(ctx context.Context, username string) ([]model.Invite, error) {
	invites, err := s.inviteRepo.ListByInvitee(ctx, username, model.InviteSent)
	if err != nil {
		return nil, fmt.Errorf("listing invites: %w", err)
	}
	return invites, nil
}

// GetInvite 根据ID获取邀请
func (s *InviteService) GetInvite(ctx context.Context, inviteID uint) (*model.Invite, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return nil, lookupErr(err, ErrInviteNotFound)
	}
	return invite, nil
}

// setStatusAttempts 并发修改时重读状态的最大次数
const setStatusAttempts = 5

// SetStatus 覆盖写入邀请状态，用于忽略通知或拒绝邀请
// 以读到的旧状态为条件更新，只有真正完成状态转换的请求才调整计数与推送
func (s *InviteService) SetStatus(ctx context.Context, inviteID uint, rawStatus string) (*model.Invite, error) {
	status, err := model.ParseInviteStatus(rawStatus)
	if err != nil {
		return nil, ErrInvalidStatus
	}

	for attempt := 0; attempt < setStatusAttempts; attempt++ {
		invite, err := s.GetInvite(ctx, inviteID)
		if err != nil {
			return nil, err
		}
		previous := invite.Status
		if previous == status {
			return invite, nil
		}

		ok, err := s.inviteRepo.CompareAndSetStatus(ctx, invite.ID, previous, status)
		if err != nil {
			return nil, fmt.Errorf("updating invite status: %w", err)
		}
		if !ok {
			// 被其他请求抢先修改，重读后再试
			continue
		}
		invite.Status = status

		switch {
		case previous == model.InviteSent:
			s.decrUnread(ctx, invite.Invitee)
		case status == model.InviteSent:
			s.incrUnread(ctx, invite.Invitee)
		}
		if status == model.InviteRejected {
			s.push(invite.Inviter, EventInviteRejected, invite)
		}
		return invite, nil
	}
	return nil, ErrStatusContended
}

// CheckStatus 轮询邀请是否被拒绝
// 仅当邀请存在、被邀请方为 username 且状态为 REJECTED 时返回 REJECTED，其余情况一律返回 SENT
func (s *InviteService) CheckStatus(ctx context.Context, inviteID uint, username string) (*StatusCheck, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &StatusCheck{Status: model.InviteSent}, nil
		}
		return nil, fmt.Errorf("loading invite: %w", err)
	}
	if invite.Invitee == username && invite.Status == model.InviteRejected {
		return &StatusCheck{Status: model.InviteRejected, Invite: invite}, nil
	}
	return &StatusCheck{Status: model.InviteSent}, nil
}

// UnreadCount 获取待回应邀请数量（优先从Redis获取）
func (s *InviteService) UnreadCount(ctx context.Context, username string) (int64, error) {
	if s.counter != nil {
		count, err := s.counter.GetUnreadInvites(ctx, username)
		if err == nil && count >= 0 {
			return count, nil
		}
		if err != nil {
			logger.Warn("读取未读邀请计数失败", zap.String("username", username), zap.Error(err))
		}
	}

	// Redis未命中，从数据库获取并同步到Redis
	count, err := s.inviteRepo.CountByInvitee(ctx, username, model.InviteSent)
	if err != nil {
		return 0, fmt.Errorf("counting invites: %w", err)
	}
	if s.counter != nil {
		if err := s.counter.SetUnreadInvites(ctx, username, count); err != nil {
			logger.Warn("同步未读邀请计数失败", zap.String("username", username), zap.Error(err))
		}
	}
	return count, nil
}

// ResyncUnreadCounts 用数据库结果校准全部未读计数，返回涉及的用户数
func (s *InviteService) ResyncUnreadCounts(ctx context.Context) (int, error) {
	if s.counter == nil {
		return 0, nil
	}
	rows, err := s.inviteRepo.CountGroupedByInvitee(ctx, model.InviteSent)
	if err != nil {
		return 0, fmt.Errorf("counting invites: %w", err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Invitee] = row.Count
	}
	if err := s.counter.ReplaceUnreadInvites(ctx, counts); err != nil {
		return 0, fmt.Errorf("replacing unread counters: %w", err)
	}
	return len(counts), nil
}

func (s *InviteService) incrUnread(ctx context.Context, username string) {
	if s.counter == nil {
		return
	}
	if err := s.counter.IncrUnreadInvites(ctx, username); err != nil {
		logger.Warn("增加未读邀请计数失败", zap.String("username", username), zap.Error(err))
	}
}

func (s *InviteService) decrUnread(ctx context.Context, username string) {
	if s.counter == nil {
		return
	}
	if err := s.counter.DecrUnreadInvites(ctx, username); err != nil {
		logger.Warn("减少未读邀请计数失败", zap.String("username", username), zap.Error(err))
	}
}

// inviteEvent WebSocket推送的邀请事件
type inviteEvent struct {
	Type   string        `json:"type"`
	Invite *model.Invite `json:"invite"`
}

func (s *InviteService) push(username, eventType string, invite *model.Invite) {
	if s.pusher == nil {
		return
	}
	data, err := json.Marshal(inviteEvent{Type: eventType, Invite: invite})
	if err != nil {
		logger.Error("序列化邀请事件失败", zap.Error(err))
		return
	}
	if !s.pusher.SendToUser(username, data) {
		logger.Debug("用户不在线，跳过推送", zap.String("username", username), zap.String("type", eventType))
	}
}
