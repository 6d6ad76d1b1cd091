package user

import (
	"blogicum/internal/errors"
	"blogicum/internal/middleware"
	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/internal/util"
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RegisterForm 注册表单数据
type RegisterForm struct {
	Username string `form:"username" binding:"required,max=150"`
	Email    string `form:"email" binding:"required,email"`
	Password string `form:"password" binding:"required"`
}

// LoginForm 登录表单数据，next 为登录后要回到的站内地址
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Next     string `form:"next"`
}

// PasswordResetForm 请求密码重置的表单数据
type PasswordResetForm struct {
	Email string `form:"email" binding:"required,email"`
}

// PasswordResetConfirmForm 设置新密码的表单数据
type PasswordResetConfirmForm struct {
	Token       string `form:"token" binding:"required"`
	NewPassword string `form:"new_password" binding:"required"`
}

// render 渲染页面模板，统一注入当前登录用户供导航栏使用
func render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.UserFromContext(c)
	c.HTML(status, name, data)
}

// safeNext 校验 next 参数，只允许站内路径，防止开放重定向
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

// AuthHandler 处理与认证相关的HTTP请求
type AuthHandler struct {
	userService service.UserServiceInterface
}

// NewAuthHandler 创建一个新的 AuthHandler 实例
func NewAuthHandler(userService service.UserServiceInterface) *AuthHandler {
	return &AuthHandler{userService}
}

// RegisterPage 处理注册页面的请求
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	render(c, http.StatusOK, "registration.html", gin.H{
		"Title": "注册",
		"Form":  RegisterForm{},
	})
}

// Register 处理用户注册请求
func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Warn("注册失败，无效的表单数据", zap.Error(err))
		render(c, http.StatusOK, "registration.html", gin.H{
			"Title":  "注册",
			"Form":   form,
			"Errors": util.FieldErrors(err),
		})
		return
	}

	if !isPasswordStrong(form.Password) {
		render(c, http.StatusOK, "registration.html", gin.H{
			"Title":  "注册",
			"Form":   form,
			"Errors": map[string]string{"Password": "密码至少8位，且需包含大小写字母、数字和特殊字符"},
		})
		return
	}

	user := &model.User{
		Username:     form.Username,
		Email:        form.Email,
		PasswordHash: form.Password,
	}

	if err := h.userService.Register(user); err != nil {
		if errors.Is(err, errors.ErrUserExists) {
			util.Logger.Warn("注册失败，用户名或邮箱已存在", zap.String("username", form.Username))
			render(c, http.StatusOK, "registration.html", gin.H{
				"Title":  "注册",
				"Form":   form,
				"Errors": map[string]string{"__all__": "用户名或邮箱已被注册"},
			})
			return
		}
		util.Logger.Error("注册失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "注册失败", err))
		return
	}

	util.Logger.Info("注册成功", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	c.Redirect(http.StatusSeeOther, "/auth/login/")
}

// LoginPage 处理登录页面的请求
func (h *AuthHandler) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{
		"Title": "登录",
		"Form":  LoginForm{},
		"Next":  c.Query("next"),
	})
}

// Login 处理用户登录请求，成功后把会话令牌写入 Cookie
func (h *AuthHandler) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "login.html", gin.H{
			"Title":  "登录",
			"Form":   form,
			"Next":   form.Next,
			"Errors": util.FieldErrors(err),
		})
		return
	}

	user, err := h.userService.Login(form.Username, form.Password)
	if err != nil {
		render(c, http.StatusOK, "login.html", gin.H{
			"Title":  "登录",
			"Form":   form,
			"Next":   form.Next,
			"Errors": map[string]string{"__all__": "用户名或密码错误"},
		})
		return
	}

	token, err := util.GenerateToken(user.ID)
	if err != nil {
		util.Logger.Error("生成会话令牌失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "生成令牌失败", err))
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, 24*60*60, "/", "", false, true)

	util.Logger.Info("登录成功", zap.Int("user_id", user.ID))
	c.Redirect(http.StatusSeeOther, safeNext(form.Next))
}

// Logout 处理用户登出：清除 Cookie 并把令牌加入黑名单
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.SessionCookie)
	h.userService.Logout(token)

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

// PasswordResetPage 处理密码重置请求页面的请求
func (h *AuthHandler) PasswordResetPage(c *gin.Context) {
	render(c, http.StatusOK, "password_reset.html", gin.H{
		"Title": "重置密码",
		"Form":  PasswordResetForm{},
	})
}

// RequestPasswordReset 处理密码重置请求。
// 不论邮箱是否注册都显示同样的结果，避免被用来探测注册邮箱。
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var form PasswordResetForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "password_reset.html", gin.H{
			"Title":  "重置密码",
			"Form":   form,
			"Errors": util.FieldErrors(err),
		})
		return
	}

	if err := h.userService.RequestPasswordReset(form.Email); err != nil {
		util.Logger.Error("请求密码重置失败", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "请求密码重置失败", err))
		return
	}

	render(c, http.StatusOK, "password_reset.html", gin.H{
		"Title": "重置密码",
		"Form":  PasswordResetForm{},
		"Sent":  true,
	})
}

// PasswordResetConfirmPage 处理设置新密码页面的请求，令牌来自邮件链接
func (h *AuthHandler) PasswordResetConfirmPage(c *gin.Context) {
	render(c, http.StatusOK, "password_reset_confirm.html", gin.H{
		"Title": "设置新密码",
		"Form":  PasswordResetConfirmForm{Token: c.Query("token")},
	})
}

// PasswordResetConfirm 处理设置新密码的请求
func (h *AuthHandler) PasswordResetConfirm(c *gin.Context) {
	var form PasswordResetConfirmForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusOK, "password_reset_confirm.html", gin.H{
			"Title":  "设置新密码",
			"Form":   form,
			"Errors": util.FieldErrors(err),
		})
		return
	}

	if !isPasswordStrong(form.NewPassword) {
		render(c, http.StatusOK, "password_reset_confirm.html", gin.H{
			"Title":  "设置新密码",
			"Form":   form,
			"Errors": map[string]string{"NewPassword": "密码至少8位，且需包含大小写字母、数字和特殊字符"},
		})
		return
	}

	if err := h.userService.ResetPassword(form.Token, form.NewPassword); err != nil {
		util.Logger.Warn("重置密码失败", zap.Error(err))
		render(c, http.StatusOK, "password_reset_confirm.html", gin.H{
			"Title":  "设置新密码",
			"Form":   form,
			"Errors": map[string]string{"__all__": "重置链接无效或已过期"},
		})
		return
	}

	util.Logger.Info("密码重置完成")
	c.Redirect(http.StatusSeeOther, "/auth/login/")
}

func isPasswordStrong(password string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	if len(password) < 8 {
		return false
	}
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
