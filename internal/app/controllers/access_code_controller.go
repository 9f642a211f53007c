package controllers

import (
	"strconv"
	"strings"
	"time"

	"iaccess-http-service/internal/domain/models"
	"iaccess-http-service/internal/domain/services"
	"iaccess-http-service/internal/domain/services/container"
	"iaccess-http-service/internal/error/code"
	"iaccess-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfaceAccessCodeController 定义门禁码控制器接口
type InterfaceAccessCodeController interface {
	CreateAccessCode()
	UpdateAccessCode()
	DeactivateAccessCode()
	GetAccessCodes()
}

// AccessCodeController 处理门禁码相关的请求
type AccessCodeController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAccessCodeController 创建一个新的门禁码控制器
func NewAccessCodeController(ctx *gin.Context, container *container.ServiceContainer) *AccessCodeController {
	return &AccessCodeController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateAccessCodeRequest 表示创建门禁码请求
type CreateAccessCodeRequest struct {
	BuildingID  uint       `json:"building_id" binding:"required" example:"5"`
	IntercomID  *uint      `json:"intercom_id,omitempty" example:"10"`
	TenantID    *uint      `json:"tenant_id,omitempty" example:"3"`
	CodeType    string     `json:"code_type" example:"pin"` // qr, pin
	Code        string     `json:"code,omitempty" example:"ABCD"`
	Label       string     `json:"label,omitempty" example:"快递柜"`
	IsSingleUse bool       `json:"is_single_use" example:"true"`
	ValidFrom   *time.Time `json:"valid_from,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	RevealOnce  bool       `json:"reveal_once,omitempty"`
}

// UpdateAccessCodeRequest 表示更新门禁码请求，缺省字段保持原值
type UpdateAccessCodeRequest struct {
	Code        *string    `json:"code,omitempty"`
	Label       *string    `json:"label,omitempty"`
	IsSingleUse *bool      `json:"is_single_use,omitempty"`
	ValidFrom   *time.Time `json:"valid_from,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// HandleAccessCodeFunc 返回一个处理门禁码请求的Gin处理函数
func HandleAccessCodeFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAccessCodeController(ctx, container)

		switch method {
		case "createAccessCode":
			controller.CreateAccessCode()
		case "updateAccessCode":
			controller.UpdateAccessCode()
		case "deactivateAccessCode":
			controller.DeactivateAccessCode()
		case "getAccessCodes":
			controller.GetAccessCodes()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// callerIdentity 从上下文中取出认证中间件写入的调用者身份
func callerIdentity(ctx *gin.Context) (services.Identity, bool) {
	value, exists := ctx.Get("identity")
	if !exists {
		return services.Identity{}, false
	}
	identity, ok := value.(*services.Identity)
	if !ok {
		return services.Identity{}, false
	}
	return *identity, true
}

// failByMessage 按服务层返回的消息映射到错误码
func failByMessage(ctx *gin.Context, message string) {
	switch {
	case strings.Contains(message, "不存在"):
		response.NotFound(ctx, message)
	case strings.Contains(message, "无权") || strings.Contains(message, "只能创建"):
		response.FailWithMessage(ctx, code.ErrCrossBuildingAccess, message, nil)
	case strings.Contains(message, "密码长度"):
		response.FailWithMessage(ctx, code.ErrSecretLength, message, nil)
	default:
		response.ParamError(ctx, message)
	}
}

// 1. CreateAccessCode 创建门禁码
// @Summary 创建门禁码
// @Description 创建QR或PIN门禁码；码值缺省时QR码自动生成；reveal_once为true时响应中回显一次明文
// @Tags AccessCode
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateAccessCodeRequest true "创建门禁码请求"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /access-codes [post]
func (c *AccessCodeController) CreateAccessCode() {
	identity, ok := callerIdentity(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx, "未认证的请求")
		return
	}

	var req CreateAccessCodeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求格式: "+err.Error())
		return
	}

	codeType := models.AccessCodeType(req.CodeType)
	if req.CodeType == "" {
		codeType = models.AccessCodeTypePIN
	}

	accessCodeService := c.Container.GetService("access_code").(services.InterfaceAccessCodeService)
	result, err := accessCodeService.CreateAccessCode(identity, &services.CreateAccessCodeDTO{
		BuildingID:  req.BuildingID,
		IntercomID:  req.IntercomID,
		TenantID:    req.TenantID,
		CodeType:    codeType,
		Code:        req.Code,
		Label:       req.Label,
		IsSingleUse: req.IsSingleUse,
		ValidFrom:   req.ValidFrom,
		ExpiresAt:   req.ExpiresAt,
		RevealOnce:  req.RevealOnce,
	})
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建门禁码失败: "+err.Error(), nil)
		return
	}
	if !result.Success {
		failByMessage(c.Ctx, result.Message)
		return
	}

	response.Created(c.Ctx, result.Data)
}

// 2. UpdateAccessCode 更新门禁码
// @Summary 更新门禁码
// @Description 更新门禁码的码值、标签、单次使用标记或有效期窗口，缺省字段保持原值
// @Tags AccessCode
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门禁码ID"
// @Param request body UpdateAccessCodeRequest true "更新门禁码请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /access-codes/{id} [patch]
func (c *AccessCodeController) UpdateAccessCode() {
	identity, ok := callerIdentity(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx, "未认证的请求")
		return
	}

	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "无效的门禁码ID")
		return
	}

	var req UpdateAccessCodeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求格式: "+err.Error())
		return
	}

	accessCodeService := c.Container.GetService("access_code").(services.InterfaceAccessCodeService)
	result, err := accessCodeService.UpdateAccessCode(identity, uint(id), &services.UpdateAccessCodeDTO{
		Code:        req.Code,
		Label:       req.Label,
		IsSingleUse: req.IsSingleUse,
		ValidFrom:   req.ValidFrom,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新门禁码失败: "+err.Error(), nil)
		return
	}
	if !result.Success {
		failByMessage(c.Ctx, result.Message)
		return
	}

	response.Success(c.Ctx, result.Data)
}

// 3. DeactivateAccessCode 停用门禁码
// @Summary 停用门禁码
// @Description 停用门禁码，重复停用返回同样的成功结果
// @Tags AccessCode
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门禁码ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /access-codes/{id}/deactivate [patch]
func (c *AccessCodeController) DeactivateAccessCode() {
	identity, ok := callerIdentity(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx, "未认证的请求")
		return
	}

	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "无效的门禁码ID")
		return
	}

	accessCodeService := c.Container.GetService("access_code").(services.InterfaceAccessCodeService)
	result, err := accessCodeService.DeactivateAccessCode(identity, uint(id))
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "停用门禁码失败: "+err.Error(), nil)
		return
	}
	if !result.Success {
		failByMessage(c.Ctx, result.Message)
		return
	}

	response.Success(c.Ctx, result.Data)
}

// 4. GetAccessCodes 获取门禁码列表
// @Summary 获取门禁码列表
// @Description 分页查询门禁码，支持按楼号与设备过滤；租户只能看到自己的门禁码
// @Tags AccessCode
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param building_id query int false "楼号ID"
// @Param intercom_id query int false "门禁设备ID"
// @Param page query int false "页码，默认为1"
// @Param page_size query int false "每页条数，默认为10"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /access-codes [get]
func (c *AccessCodeController) GetAccessCodes() {
	identity, ok := callerIdentity(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx, "未认证的请求")
		return
	}

	var buildingID, intercomID *uint
	if v := c.Ctx.Query("building_id"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.ParamError(c.Ctx, "无效的楼号ID")
			return
		}
		id := uint(parsed)
		buildingID = &id
	}
	if v := c.Ctx.Query("intercom_id"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			response.ParamError(c.Ctx, "无效的设备ID")
			return
		}
		id := uint(parsed)
		intercomID = &id
	}

	page, pageSize := parsePagination(c.Ctx)

	accessCodeService := c.Container.GetService("access_code").(services.InterfaceAccessCodeService)
	codes, total, err := accessCodeService.GetAccessCodes(identity, buildingID, intercomID, page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "查询门禁码列表失败: "+err.Error(), nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":       total,
		"page":        page,
		"page_size":   pageSize,
		"total_pages": (total + int64(pageSize) - 1) / int64(pageSize),
		"data":        codes,
	})
}
