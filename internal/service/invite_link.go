package service

import (
	"net/url"
	"strconv"
	"strings"
)

// 对局双方角色
const (
	RoleGoat  = "goat"
	RoleTiger = "tiger"
)

// DefaultLinkBaseURL 前端在线对战页面
const DefaultLinkBaseURL = "http://localhost:3000/online"

// AssignRoles 返回邀请方与被邀请方的角色
// turn 为 goat 时邀请方执羊，其余情况邀请方执虎
func AssignRoles(turn string) (inviterRole, inviteeRole string) {
	if turn == RoleGoat {
		return RoleGoat, RoleTiger
	}
	return RoleTiger, RoleGoat
}

// BuildInviteLink 生成一方的对局链接：房间号、自己的角色、对手用户名与对手积分
// 参数顺序固定为 room, you, user, rating
func BuildInviteLink(base string, room uint, role, counterpart string, counterpartRating int) string {
	if base == "" {
		base = DefaultLinkBaseURL
	}
	var b strings.Builder
	b.WriteString(base)
	b.WriteString("?room=")
	b.WriteString(strconv.FormatUint(uint64(room), 10))
	b.WriteString("&you=")
	b.WriteString(role)
	b.WriteString("&user=")
	b.WriteString(url.QueryEscape(counterpart))
	b.WriteString("&rating=")
	b.WriteString(strconv.Itoa(counterpartRating))
	return b.String()
}
