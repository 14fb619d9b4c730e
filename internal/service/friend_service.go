package service

import (
	"context"
	"errors"
	"fmt"

	"lobby-server/internal/model"
	"lobby-server/internal/repository"

	"gorm.io/gorm"
)

// FriendService 好友关系服务
type FriendService struct {
	requestRepo *repository.FriendRequestRepository
	userRepo    *repository.UserRepository
}

// NewFriendService 创建FriendService实例
func NewFriendService(requestRepo *repository.FriendRequestRepository, userRepo *repository.UserRepository) *FriendService {
	return &FriendService{
		requestRepo: requestRepo,
		userRepo:    userRepo,
	}
}

// PendingRequest 待处理申请及其发送者
type PendingRequest struct {
	Sender    *model.User
	RequestID uint
}

// SendRequest 发送好友申请
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uint) (*model.FriendRequest, error) {
	// 不能添加自己为好友
	if senderID == receiverID {
		return nil, ErrCannotFriendSelf
	}

	// 双方都必须存在
	for _, id := range []uint{senderID, receiverID} {
		if _, err := s.userRepo.GetByID(ctx, id); err != nil {
			return nil, lookupErr(err, ErrUserNotFound)
		}
	}

	// 同方向已有待处理申请
	exists, err := s.requestRepo.ExistsPending(ctx, senderID, receiverID)
	if err != nil {
		return nil, fmt.Errorf("checking pending request: %w", err)
	}
	if exists {
		return nil, ErrFriendRequestExists
	}

	request := &model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     model.FriendRequestPending,
	}
	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("creating friend request: %w", err)
	}
	return request, nil
}

// ListPendingIncoming 获取发给用户的待处理申请（按申请顺序）
func (s *FriendService) ListPendingIncoming(ctx context.Context, userID uint) ([]PendingRequest, error) {
	requests, err := s.requestRepo.ListIncoming(ctx, userID, model.FriendRequestPending)
	if err != nil {
		return nil, fmt.Errorf("listing incoming requests: %w", err)
	}

	senderIDs := make([]uint, 0, len(requests))
	for _, r := range requests {
		senderIDs = append(senderIDs, r.SenderID)
	}
	senders, err := s.usersByID(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	pending := make([]PendingRequest, 0, len(requests))
	for _, r := range requests {
		sender, ok := senders[r.SenderID]
		if !ok {
			// 发送者已不存在的申请直接跳过
			continue
		}
		pending = append(pending, PendingRequest{Sender: sender, RequestID: r.ID})
	}
	return pending, nil
}

// GetRequest 根据ID获取好友申请
func (s *FriendService) GetRequest(ctx context.Context, requestID uint) (*model.FriendRequest, error) {
	request, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, lookupErr(err, ErrFriendRequestNotFound)
	}
	return request, nil
}

// Respond 处理好友申请，decision 只能是 ACCEPTED 或 REJECTED
// 重复处理会覆盖之前的结果
func (s *FriendService) Respond(ctx context.Context, requestID uint, decision string) (*model.FriendRequest, error) {
	status, err := model.ParseFriendRequestStatus(decision)
	if err != nil || status == model.FriendRequestPending {
		return nil, ErrInvalidStatus
	}

	request, err := s.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requestRepo.UpdateStatus(ctx, request.ID, status); err != nil {
		return nil, fmt.Errorf("updating friend request: %w", err)
	}
	request.Status = status
	return request, nil
}

// ListFriends 获取好友列表
// 顺序与已接受申请的扫描顺序一致，重复的已接受申请会产生重复项
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]model.User, error) {
	accepted, err := s.requestRepo.ListByParticipant(ctx, userID, model.FriendRequestAccepted)
	if err != nil {
		return nil, fmt.Errorf("listing accepted requests: %w", err)
	}

	friendIDs := make([]uint, 0, len(accepted))
	for i := range accepted {
		friendIDs = append(friendIDs, accepted[i].OtherParty(userID))
	}
	users, err := s.usersByID(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	friends := make([]model.User, 0, len(friendIDs))
	for _, id := range friendIDs {
		if u, ok := users[id]; ok {
			friends = append(friends, *u)
		}
	}
	return friends, nil
}

// SearchByUsername 按用户名精确搜索
func (s *FriendService) SearchByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("searching user: %w", err)
	}
	return u, nil
}

// usersByID 批量查询并按ID建立索引
func (s *FriendService) usersByID(ctx context.Context, ids []uint) (map[uint]*model.User, error) {
	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading users: %w", err)
	}
	byID := make(map[uint]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}
	return byID, nil
}
