package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 楼号与设备相关错误码 (102xxx).
const (
	// ErrIntercomNotFound - 404: 门禁设备不存在.
	ErrIntercomNotFound int = iota + 102000
	// ErrBuildingNotFound - 404: 楼号不存在.
	ErrBuildingNotFound
	// ErrIntercomOffline - 400: 门禁设备离线.
	ErrIntercomOffline
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 凭证相关错误码 (106xxx).
const (
	// ErrSecretLength - 400: 密码长度必须在4到20个字符之间.
	ErrSecretLength int = iota + 106000
	// ErrProofRejected - 401: 旧PIN或主PIN校验失败.
	ErrProofRejected
	// ErrCrossBuildingAccess - 403: 无权操作其他楼号的资源.
	ErrCrossBuildingAccess
	// ErrAccessCodeNotFound - 404: 门禁码不存在.
	ErrAccessCodeNotFound
	// ErrTemporaryPinInvalid - 400: 临时PIN参数无效.
	ErrTemporaryPinInvalid
	// ErrFacePayloadInvalid - 400: 人脸校验参数缺失.
	ErrFacePayloadInvalid
	// ErrMasterPinNotSet - 404: 当前范围未设置主PIN.
	ErrMasterPinNotSet
)
