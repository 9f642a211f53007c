package services

import "errors"

// 服务层哨兵错误，控制器据此映射到错误码
var (
	// ErrSecretLength 密码长度超出允许范围
	ErrSecretLength = errors.New("密码长度必须在4到20个字符之间")
	// ErrProofRejected 旧PIN与主PIN均校验失败
	ErrProofRejected = errors.New("凭证校验失败")
	// ErrIntercomNotFound 目标门禁设备不存在
	ErrIntercomNotFound = errors.New("门禁设备不存在")
	// ErrMasterPinNotSet 当前范围未设置主PIN
	ErrMasterPinNotSet = errors.New("当前范围未设置主PIN")
	// ErrTemporaryPinInvalid 临时PIN的有效期或次数参数无效
	ErrTemporaryPinInvalid = errors.New("临时PIN参数无效")
	// ErrFacePayloadInvalid 人脸校验载荷缺少图像或设备信息
	ErrFacePayloadInvalid = errors.New("人脸校验参数缺失")
	// ErrFaceComparatorUnavailable 未配置人脸比对器
	ErrFaceComparatorUnavailable = errors.New("人脸比对服务不可用")
)
