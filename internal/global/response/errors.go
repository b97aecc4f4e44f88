package response

const CodeSuccess int32 = 200

var (
	ErrInvalidRequest      = newError(400, "请求参数错误")
	ErrTokenInvalid        = newError(401, "登录状态无效")
	ErrInvalidPassword     = newError(402, "账号或密码错误")
	ErrUnauthorized        = newError(403, "权限不足")
	ErrNotFound            = newError(404, "资源不存在")
	ErrForbidden           = newError(406, "无权操作该资源")
	ErrAlreadyExists       = newError(409, "资源已存在")
	ErrConflict            = newError(410, "资源状态冲突")
	ErrInsufficientBalance = newError(422, "可用余额不足")

	ErrServerInternal = newError(500, "服务器内部错误")
	ErrDatabase       = newError(501, "数据库错误")
	ErrUpstream       = newError(502, "外部服务错误")
	ErrStorage        = newError(503, "文件存储错误")
)
