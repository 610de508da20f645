package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrQuotaExceeded    = errors.New("今日 AI 生成次数已用完")
)
