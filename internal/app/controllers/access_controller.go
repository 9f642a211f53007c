package controllers

import (
	"errors"
	"strconv"
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/domain/services"
	"iaccess-http-service/internal/domain/services/container"
	"iaccess-http-service/internal/error/code"
	"iaccess-http-service/internal/error/response"
	"iaccess-http-service/internal/infrastructure/config"
	"iaccess-http-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// InterfaceAccessController 定义门禁校验控制器接口
type InterfaceAccessController interface {
	Verify()
	GetAccessLogs()
	GetTemporaryPinUsages()
}

// AccessController 处理门禁校验与审计查询请求
type AccessController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAccessController 创建一个新的门禁校验控制器
func NewAccessController(ctx *gin.Context, container *container.ServiceContainer) *AccessController {
	return &AccessController{
		Ctx:       ctx,
		Container: container,
	}
}

// VerifyRequest 表示门禁校验请求，pin与face二选一
type VerifyRequest struct {
	Pin        string                `json:"pin,omitempty" example:"1234"`
	Face       *services.FacePayload `json:"face,omitempty"`
	DeviceInfo string                `json:"device_info,omitempty" example:"gate-cam-01"`
}

// HandleAccessFunc 返回一个处理门禁校验请求的Gin处理函数
func HandleAccessFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAccessController(ctx, container)

		switch method {
		case "verify":
			controller.Verify()
		case "getAccessLogs":
			controller.GetAccessLogs()
		case "getTemporaryPinUsages":
			controller.GetTemporaryPinUsages()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// 1. Verify 校验门禁凭证
// @Summary 校验门禁凭证
// @Description 对目标设备校验PIN或人脸，pin与face必须且只能提供一个；拒绝同样返回200，granted为false
// @Tags Access
// @Accept json
// @Produce json
// @Param id path int true "门禁设备ID"
// @Param request body VerifyRequest true "校验请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /intercoms/{id}/access/verify [post]
func (c *AccessController) Verify() {
	intercomID, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "无效的设备ID")
		return
	}

	var req VerifyRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求格式: "+err.Error())
		return
	}

	// pin与face二选一，两者都有或都没有都算请求格式错误
	if (req.Pin == "") == (req.Face == nil) {
		response.ParamError(c.Ctx, "pin与face必须且只能提供一个")
		return
	}

	verificationService := c.Container.GetService("verification").(services.InterfaceVerificationService)
	clientIP := c.Ctx.ClientIP()

	var result *services.VerifyResult
	if req.Pin != "" {
		result, err = verificationService.VerifyPin(uint(intercomID), req.Pin, clientIP, req.DeviceInfo)
	} else {
		result, err = verificationService.VerifyFace(uint(intercomID), req.Face, clientIP, req.DeviceInfo)
	}

	if err != nil {
		switch {
		case errors.Is(err, services.ErrIntercomNotFound):
			response.NotFound(c.Ctx, err.Error())
		case errors.Is(err, services.ErrFacePayloadInvalid):
			response.FailWithMessage(c.Ctx, code.ErrFacePayloadInvalid, err.Error(), nil)
		case errors.Is(err, services.ErrFaceComparatorUnavailable):
			response.FailWithMessage(c.Ctx, code.ErrUnknown, err.Error(), nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "校验失败: "+err.Error(), nil)
		}
		return
	}

	// 放行后异步下发开门指令，下发结果不影响响应
	if result.Granted {
		go c.notifyUnlock(uint(intercomID), result.CredentialType)
	}

	response.Success(c.Ctx, result)
}

// notifyUnlock 向设备下发开门指令
func (c *AccessController) notifyUnlock(intercomID uint, credType models.CredentialType) {
	cfg := c.Container.GetService("config").(*config.Config)
	if !cfg.MQTTEnabled {
		return
	}

	credentialService := c.Container.GetService("credential").(services.InterfaceCredentialService)
	intercom, err := credentialService.GetIntercomByID(intercomID)
	if err != nil {
		logger.Error("下发开门指令前查询设备失败: %v", err)
		return
	}

	notifyService := c.Container.GetService("device_notify").(services.InterfaceDeviceNotifyService)
	if err := notifyService.PublishUnlock(intercom, credType); err != nil {
		logger.Error("下发开门指令失败: %v", err)
	}
}

// 2. GetAccessLogs 查询门禁访问日志
// @Summary 查询门禁访问日志
// @Description 分页查询目标设备的访问日志，支持按用户、结果、凭证类型与时间区间过滤
// @Tags Access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门禁设备ID"
// @Param user_id query int false "用户ID"
// @Param success query bool false "是否放行"
// @Param credential_type query string false "凭证类型"
// @Param from query string false "起始时间(RFC3339)"
// @Param to query string false "截止时间(RFC3339)"
// @Param page query int false "页码，默认为1"
// @Param page_size query int false "每页条数，默认为10"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /intercoms/{id}/access/logs [get]
func (c *AccessController) GetAccessLogs() {
	intercomID, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "无效的设备ID")
		return
	}

	filter := &services.AccessLogFilter{}
	id := uint(intercomID)
	filter.IntercomID = &id

	if v := c.Ctx.Query("user_id"); v != "" {
		userID, err := strconv.Atoi(v)
		if err != nil {
			response.ParamError(c.Ctx, "无效的用户ID")
			return
		}
		uid := uint(userID)
		filter.UserID = &uid
	}
	if v := c.Ctx.Query("success"); v != "" {
		success, err := strconv.ParseBool(v)
		if err != nil {
			response.ParamError(c.Ctx, "无效的success参数")
			return
		}
		filter.IsSuccess = &success
	}
	if v := c.Ctx.Query("credential_type"); v != "" {
		credType := models.CredentialType(v)
		filter.CredentialType = &credType
	}
	if filter.From, err = parseTimeQuery(c.Ctx, "from"); err != nil {
		response.ParamError(c.Ctx, "无效的起始时间")
		return
	}
	if filter.To, err = parseTimeQuery(c.Ctx, "to"); err != nil {
		response.ParamError(c.Ctx, "无效的截止时间")
		return
	}

	page, pageSize := parsePagination(c.Ctx)

	accessLogService := c.Container.GetService("access_log").(services.InterfaceAccessLogService)
	logs, total, err := accessLogService.GetAccessLogs(filter, page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询访问日志失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        logs,
	})
}

// 3. GetTemporaryPinUsages 查询临时PIN使用记录
// @Summary 查询临时PIN使用记录
// @Description 分页查询临时PIN的使用明细，支持按PIN与时间区间过滤
// @Tags Access
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门禁设备ID"
// @Param pin_id query int false "临时PIN的ID"
// @Param from query string false "起始时间(RFC3339)"
// @Param to query string false "截止时间(RFC3339)"
// @Param page query int false "页码，默认为1"
// @Param page_size query int false "每页条数，默认为10"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /intercoms/{id}/access/temporary-usages [get]
func (c *AccessController) GetTemporaryPinUsages() {
	if _, err := strconv.Atoi(c.Ctx.Param("id")); err != nil {
		response.ParamError(c.Ctx, "无效的设备ID")
		return
	}

	filter := &services.TemporaryPinUsageFilter{}
	var err error

	if v := c.Ctx.Query("pin_id"); v != "" {
		pinID, err := strconv.Atoi(v)
		if err != nil {
			response.ParamError(c.Ctx, "无效的PIN ID")
			return
		}
		pid := uint(pinID)
		filter.TemporaryPinID = &pid
	}
	if filter.From, err = parseTimeQuery(c.Ctx, "from"); err != nil {
		response.ParamError(c.Ctx, "无效的起始时间")
		return
	}
	if filter.To, err = parseTimeQuery(c.Ctx, "to"); err != nil {
		response.ParamError(c.Ctx, "无效的截止时间")
		return
	}

	page, pageSize := parsePagination(c.Ctx)

	accessLogService := c.Container.GetService("access_log").(services.InterfaceAccessLogService)
	usages, total, err := accessLogService.GetTemporaryPinUsages(filter, page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询使用记录失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        usages,
	})
}

// parsePagination 解析分页参数
func parsePagination(ctx *gin.Context) (int, int) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

// parseTimeQuery 解析RFC3339格式的时间查询参数
func parseTimeQuery(ctx *gin.Context, name string) (*time.Time, error) {
	v := ctx.Query(name)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
