package service

import (
	"errors"
	"fmt"
)

// 业务错误类型，handler 通过 errors.Is 判断后决定如何展示
var (
	ErrValidation      = errors.New("invalid input")
	ErrAuth            = errors.New("invalid username or password")
	ErrConflict        = errors.New("username already taken")
	ErrNotFound        = errors.New("not found")
	ErrExternalService = errors.New("nutrition service unavailable")
	ErrLookupTimeout   = errors.New("nutrition service timed out")
)

// ErrPasswordTooLong 密码超过 bcrypt 上限，同时也是 ErrValidation
var ErrPasswordTooLong = fmt.Errorf("%w: password must be at most 72 bytes", ErrValidation)
