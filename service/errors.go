package service

import (
	"errors"

	"github.com/cydxin/social-sdk/response"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// 稳定错误类别。业务错误一律 fmt.Errorf("%w: ...", ErrXxx) 包装，
// handler 层用 CodeFor 映射成业务状态码。
var (
	ErrUnauthenticated = errors.New("unauthenticated") // 需要登录
	ErrPermission      = errors.New("permission")      // 非本人/非管理员
	ErrNotFound        = errors.New("not found")       // 不存在或对请求者不可见
	ErrInvalid         = errors.New("invalid argument")
	ErrConflict        = errors.New("conflict")  // 状态机不允许的迁移
	ErrForbidden       = errors.New("forbidden") // 拉黑/关闭私信/对自己操作
)

// isDuplicateKey 唯一索引冲突。并发重复写以此收敛（插边、点赞），
// 不依赖调用方是否开了 TranslateError。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// CodeFor 错误类别 → 业务状态码。未识别的错误视为内部错误。
func CodeFor(err error) int {
	switch {
	case err == nil:
		return response.CodeSuccess
	case errors.Is(err, ErrUnauthenticated):
		return response.CodeTokenInvalid
	case errors.Is(err, ErrPermission):
		return response.CodePermissionDeny
	case errors.Is(err, ErrNotFound):
		return response.CodeNotFound
	case errors.Is(err, ErrInvalid):
		return response.CodeParamError
	case errors.Is(err, ErrConflict):
		return response.CodeConflict
	case errors.Is(err, ErrForbidden):
		return response.CodeForbidden
	default:
		return response.CodeInternalError
	}
}
