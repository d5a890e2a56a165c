package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/user/movieshelf/internal/auth"
	"github.com/user/movieshelf/internal/middleware"
	"github.com/user/movieshelf/internal/utils"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,notblank,max=100"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updatePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=128"`
}

type tokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"`
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, validationMessage(err))
		return
	}

	user, err := h.Identity.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Created(c, user)
}

// Login 登录，成功后返回 Bearer 令牌
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, validationMessage(err))
		return
	}

	token, err := h.Identity.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, tokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(auth.TokenTTL.Seconds()),
	})
}

// Me 当前用户信息
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Identity.GetByID(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, user)
}

// UpdatePassword 修改密码，需提供当前密码
func (h *Handler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, validationMessage(err))
		return
	}

	err := h.Identity.UpdatePassword(c.Request.Context(), middleware.GetUserID(c), req.OldPassword, req.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	utils.Success(c, nil)
}
