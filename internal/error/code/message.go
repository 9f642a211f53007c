package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高，请稍后再试",

	// 楼号与设备相关错误码
	ErrIntercomNotFound: "门禁设备不存在",
	ErrBuildingNotFound: "楼号不存在",
	ErrIntercomOffline:  "门禁设备当前离线",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 凭证相关错误码
	ErrSecretLength:        "密码长度必须在4到20个字符之间",
	ErrProofRejected:       "凭证校验失败",
	ErrCrossBuildingAccess: "无权操作其他楼号的资源",
	ErrAccessCodeNotFound:  "门禁码不存在",
	ErrTemporaryPinInvalid: "临时PIN参数无效",
	ErrFacePayloadInvalid:  "人脸校验参数缺失",
	ErrMasterPinNotSet:     "当前范围未设置主PIN",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// 楼号与设备相关错误码
	ErrIntercomNotFound: StatusNotFound,
	ErrBuildingNotFound: StatusNotFound,
	ErrIntercomOffline:  StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 凭证相关错误码
	ErrSecretLength:        StatusBadRequest,
	ErrProofRejected:       StatusUnauthorized,
	ErrCrossBuildingAccess: StatusForbidden,
	ErrAccessCodeNotFound:  StatusNotFound,
	ErrTemporaryPinInvalid: StatusBadRequest,
	ErrFacePayloadInvalid:  StatusBadRequest,
	ErrMasterPinNotSet:     StatusNotFound,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
