package api

import (
	"errors"
	"log"
	"net/http"

	"grocery/config"
	"grocery/middleware"
	"grocery/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 登录、注册、退出
type AuthHandler struct {
	cfg      *config.Config
	accounts AccountService
	sessions *middleware.SessionManager
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config, accounts AccountService, sessions *middleware.SessionManager) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		accounts: accounts,
		sessions: sessions,
	}
}

// CredentialsForm 登录/注册表单
type CredentialsForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// ChangePasswordForm 修改密码表单
type ChangePasswordForm struct {
	OldPassword string `form:"old_password" binding:"required"`
	NewPassword string `form:"new_password" binding:"required"`
}

// LoginPage 登录页
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login 校验用户名密码，成功后写入会话并回到首页
func (h *AuthHandler) Login(c *gin.Context) {
	var form CredentialsForm
	_ = c.ShouldBind(&form)

	user, err := h.accounts.Authenticate(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		msg := "Invalid username or password."
		if !errors.Is(err, service.ErrAuth) {
			log.Printf("登录失败: %v", err)
			msg = h.cfg.SafeErrorMessage(err, "Something went wrong, please try again.")
		}
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": msg, "Username": form.Username})
		return
	}

	if err := h.sessions.Login(c, user.Username); err != nil {
		log.Printf("签发会话失败: %v", err)
		c.HTML(http.StatusOK, "login.html", gin.H{"Error": "Could not start a session, please try again."})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// RegisterPage 注册页
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{})
}

// Register 创建账号并直接登录
func (h *AuthHandler) Register(c *gin.Context) {
	var form CredentialsForm
	_ = c.ShouldBind(&form)

	user, err := h.accounts.Register(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, service.ErrPasswordTooLong):
			msg = "Password must be at most 72 characters."
		case errors.Is(err, service.ErrValidation):
			msg = "Please enter a username and a password."
		case errors.Is(err, service.ErrConflict):
			msg = "That username is already taken."
		default:
			log.Printf("注册失败: %v", err)
			msg = h.cfg.SafeErrorMessage(err, "Something went wrong, please try again.")
		}
		c.HTML(http.StatusOK, "register.html", gin.H{"Error": msg, "Username": form.Username})
		return
	}

	if err := h.sessions.Login(c, user.Username); err != nil {
		log.Printf("签发会话失败: %v", err)
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Logout 清除会话
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Logout(c)
	c.Redirect(http.StatusFound, "/login")
}

// AccountPage 账户页（修改密码）
func (h *AuthHandler) AccountPage(c *gin.Context) {
	c.HTML(http.StatusOK, "account.html", gin.H{"Username": middleware.GetCurrentUsername(c)})
}

// ChangePassword 修改密码
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	username := middleware.GetCurrentUsername(c)
	data := gin.H{"Username": username}

	var form ChangePasswordForm
	if err := c.ShouldBind(&form); err != nil {
		data["Error"] = "Please fill in both password fields."
		c.HTML(http.StatusOK, "account.html", data)
		return
	}

	err := h.accounts.ChangePassword(c.Request.Context(), username, form.OldPassword, form.NewPassword)
	switch {
	case err == nil:
		data["Message"] = "Password updated."
	case errors.Is(err, service.ErrAuth):
		data["Error"] = "Current password is incorrect."
	case errors.Is(err, service.ErrPasswordTooLong):
		data["Error"] = "Password must be at most 72 characters."
	case errors.Is(err, service.ErrValidation):
		data["Error"] = "Please choose a new password."
	default:
		log.Printf("修改密码失败: %v", err)
		data["Error"] = h.cfg.SafeErrorMessage(err, "Could not update password.")
	}
	c.HTML(http.StatusOK, "account.html", data)
}
