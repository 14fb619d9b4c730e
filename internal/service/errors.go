package service

import "errors"

// 错误分类，传输层据此映射HTTP状态码
var (
	ErrNotFound     = errors.New("not found")     // 404
	ErrConflict     = errors.New("conflict")      // 409
	ErrInvalidInput = errors.New("invalid input") // 400
)

var (
	ErrUserNotFound          = newError(ErrNotFound, "user not found")
	ErrFriendRequestNotFound = newError(ErrNotFound, "friend request not found")
	ErrInviteNotFound        = newError(ErrNotFound, "invite not found")

	ErrUserAlreadyExists   = newError(ErrConflict, "username already exists")
	ErrFriendRequestExists = newError(ErrConflict, "a pending friend request already exists")
	ErrStatusContended     = newError(ErrConflict, "invite status is being changed concurrently")

	ErrInvalidStatus    = newError(ErrInvalidInput, "unrecognized status")
	ErrInvalidUsername  = newError(ErrInvalidInput, "username must be 1-20 characters")
	ErrEmptyPassword    = newError(ErrInvalidInput, "password is required")
	ErrCannotFriendSelf = newError(ErrInvalidInput, "cannot send friend request to yourself")

	// ErrInvalidCredentials 用户不存在与密码错误共用，不区分原因
	ErrInvalidCredentials = errors.New("invalid username or password") // 401
)

// categorized 带分类的业务错误，Error() 只返回自身描述
type categorized struct {
	msg  string
	kind error
}

func newError(kind error, msg string) error {
	return &categorized{msg: msg, kind: kind}
}

func (e *categorized) Error() string { return e.msg }

func (e *categorized) Unwrap() error { return e.kind }
