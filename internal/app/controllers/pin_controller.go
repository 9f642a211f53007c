package controllers

import (
	"errors"
	"strconv"
	"time"

	"iaccess-http-service/internal/domain/services"
	"iaccess-http-service/internal/domain/services/container"
	"iaccess-http-service/internal/error/code"
	"iaccess-http-service/internal/error/response"

	"github.com/gin-gonic/gin"
)

// InterfacePinController 定义PIN签发控制器接口
type InterfacePinController interface {
	SetMasterPin()
	SetUserPin()
	SetMyPin()
	CreateTemporaryPin()
}

// PinController 处理PIN签发与变更请求
type PinController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewPinController 创建一个新的PIN签发控制器
func NewPinController(ctx *gin.Context, container *container.ServiceContainer) *PinController {
	return &PinController{
		Ctx:       ctx,
		Container: container,
	}
}

// SetMasterPinRequest 表示设置主PIN请求
type SetMasterPinRequest struct {
	Pin          string `json:"pin" binding:"required" example:"1234"`
	BuildingWide bool   `json:"building_wide,omitempty"` // true时作用于整栋楼，否则只作用于目标设备
}

// SetUserPinRequest 表示设置用户PIN请求
type SetUserPinRequest struct {
	Pin   string `json:"pin" binding:"required" example:"5678"`
	Proof string `json:"proof" binding:"required" example:"1234"` // 旧PIN或当前范围的主PIN
}

// CreateTemporaryPinRequest 表示创建临时PIN请求
type CreateTemporaryPinRequest struct {
	Pin          string    `json:"pin" binding:"required" example:"9026"`
	ExpiresAt    time.Time `json:"expires_at" binding:"required"`
	MaxUses      int       `json:"max_uses" binding:"required" example:"3"`
	BuildingWide bool      `json:"building_wide,omitempty"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid token"`
	Data    interface{} `json:"data"`
}

// HandlePinFunc 返回一个处理PIN签发请求的Gin处理函数
func HandlePinFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewPinController(ctx, container)

		switch method {
		case "setMasterPin":
			controller.SetMasterPin()
		case "setUserPin":
			controller.SetUserPin()
		case "setMyPin":
			controller.SetMyPin()
		case "createTemporaryPin":
			controller.CreateTemporaryPin()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// intercomScope 解析目标设备并返回其楼号与设备范围
func (c *PinController) intercomScope(buildingWide bool) (uint, *uint, bool) {
	id, err := strconv.Atoi(c.Ctx.Param("id"))
	if err != nil {
		response.ParamError(c.Ctx, "无效的设备ID")
		return 0, nil, false
	}

	credentialService := c.Container.GetService("credential").(services.InterfaceCredentialService)
	intercom, err := credentialService.GetIntercomByID(uint(id))
	if err != nil {
		response.NotFound(c.Ctx, "门禁设备不存在")
		return 0, nil, false
	}

	if buildingWide {
		return intercom.BuildingID, nil, true
	}
	intercomID := intercom.ID
	return intercom.BuildingID, &intercomID, true
}

// failCredentialError 将签发服务的错误映射到响应
func failCredentialError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSecretLength):
		response.FailWithMessage(ctx, code.ErrSecretLength, err.Error(), nil)
	case errors.Is(err, services.ErrProofRejected):
		response.FailWithMessage(ctx, code.ErrProofRejected, err.Error(), nil)
	case errors.Is(err, services.ErrMasterPinNotSet):
		response.FailWithMessage(ctx, code.ErrMasterPinNotSet, err.Error(), nil)
	case errors.Is(err, services.ErrTemporaryPinInvalid):
		response.FailWithMessage(ctx, code.ErrTemporaryPinInvalid, err.Error(), nil)
	case errors.Is(err, services.ErrIntercomNotFound):
		response.NotFound(ctx, err.Error())
	default:
		response.FailWithMessage(ctx, code.ErrDatabase, "操作失败: "+err.Error(), nil)
	}
}

// 1. SetMasterPin 设置主PIN
// @Summary 设置主PIN
// @Description 为目标设备或整栋楼设置主PIN，旧主PIN被新记录取代
// @Tags Pin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门禁设备ID"
// @Param request body SetMasterPinRequest true "设置主PIN请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /intercoms/{id}/pin/master [post]
func (c *PinController) SetMasterPin() {
	identity, ok := callerIdentity(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx, "未认证的请求")
		return
	}

	var req SetMasterPinRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求格式: "+err.Error())
		return
	}

	buildingID, intercomID, ok := c.intercomScope(req.BuildingWide)
	if !ok {
		return
	}

	credentialService := c.Container.GetService("credential").(services.InterfaceCredentialService)
	pin, err := credentialService.SetMasterPin(buildingID, intercomID, req.Pin, &identity.UserID)
	if err != nil {
		failCredentialError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":          pin.ID,
		"building_id": pin.BuildingID,
		"intercom_id": pin.IntercomID,
		"created_at":  pin.CreatedAt,
	})
}

// 2. SetUserPin 设置指定用户的PIN
// @Summary 设置用户PIN
// @Description 为指定用户设置个人PIN，需提供旧PIN或当前范围的主PIN作为凭证
// @Tags Pin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门禁设备ID"
// @Param userId path int true "用户ID"
// @Param request body SetUserPinRequest true "设置用户PIN请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /intercoms/{id}/pin/user/{userId} [post]
func (c *PinController) SetUserPin() {
	userID, err := strconv.Atoi(c.Ctx.Param("userId"))
	if err != nil {
		response.ParamError(c.Ctx, "无效的用户ID")
		return
	}
	c.setUserPinFor(uint(userID))
}

// 3. SetMyPin 设置当前用户自己的PIN
// @Summary 设置本人PIN
// @Description 当前登录用户为自己设置个人PIN，需提供旧PIN或当前范围的主PIN作为凭证
// @Tags Pin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门禁设备ID"
// @Param request body SetUserPinRequest true "设置用户PIN请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /intercoms/{id}/pin/me [post]
func (c *PinController) SetMyPin() {
	identity, ok := callerIdentity(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx, "未认证的请求")
		return
	}
	c.setUserPinFor(identity.UserID)
}

// setUserPinFor 为目标用户设置个人PIN
func (c *PinController) setUserPinFor(userID uint) {
	var req SetUserPinRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求格式: "+err.Error())
		return
	}

	buildingID, intercomID, ok := c.intercomScope(false)
	if !ok {
		return
	}

	credentialService := c.Container.GetService("credential").(services.InterfaceCredentialService)
	pin, err := credentialService.SetUserPin(userID, buildingID, intercomID, req.Pin, req.Proof)
	if err != nil {
		failCredentialError(c.Ctx, err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"id":          pin.ID,
		"user_id":     pin.UserID,
		"building_id": pin.BuildingID,
		"intercom_id": pin.IntercomID,
		"created_at":  pin.CreatedAt,
	})
}

// 4. CreateTemporaryPin 创建临时PIN
// @Summary 创建临时PIN
// @Description 创建带失效时间与最大使用次数的临时PIN
// @Tags Pin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "门禁设备ID"
// @Param request body CreateTemporaryPinRequest true "创建临时PIN请求"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /intercoms/{id}/pin/temporary [post]
func (c *PinController) CreateTemporaryPin() {
	identity, ok := callerIdentity(c.Ctx)
	if !ok {
		response.Unauthorized(c.Ctx, "未认证的请求")
		return
	}

	var req CreateTemporaryPinRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.ParamError(c.Ctx, "无效的请求格式: "+err.Error())
		return
	}

	buildingID, intercomID, ok := c.intercomScope(req.BuildingWide)
	if !ok {
		return
	}

	credentialService := c.Container.GetService("credential").(services.InterfaceCredentialService)
	pin, err := credentialService.CreateTemporaryPin(buildingID, intercomID, req.Pin, req.ExpiresAt, req.MaxUses, &identity.UserID)
	if err != nil {
		failCredentialError(c.Ctx, err)
		return
	}

	response.Created(c.Ctx, gin.H{
		"id":          pin.ID,
		"building_id": pin.BuildingID,
		"intercom_id": pin.IntercomID,
		"expires_at":  pin.ExpiresAt,
		"max_uses":    pin.MaxUses,
		"uses_so_far": pin.UsesSoFar,
		"created_at":  pin.CreatedAt,
	})
}
