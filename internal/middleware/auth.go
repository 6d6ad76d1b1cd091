package middleware

import (
	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/internal/util"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionCookie 会话令牌所在的 Cookie 名
const SessionCookie = "blogicum_session"

// currentUserKey 当前登录用户在 gin 上下文中的键
const currentUserKey = "current_user"

// CurrentUser 解析会话 Cookie 并把登录用户放进请求上下文。
// 未登录、令牌无效或已注销时不拦截请求，只是不设置用户。
func CurrentUser(userService service.UserServiceInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		if userService.IsTokenBlacklisted(token) {
			c.Next()
			return
		}

		userID, err := util.ValidateToken(token)
		if err != nil {
			zap.L().Debug("会话令牌无效", zap.Error(err))
			c.Next()
			return
		}

		user, err := userService.GetUserByID(userID)
		if err != nil {
			zap.L().Warn("会话令牌对应的用户不存在", zap.Int("user_id", userID))
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// UserFromContext 取出当前登录用户，未登录时返回 nil
func UserFromContext(c *gin.Context) *model.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}

// LoginRequired 要求已登录，未登录时跳转到登录页
func LoginRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if UserFromContext(c) == nil {
			RedirectToLogin(c)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RedirectToLogin 跳转到登录页，带上 next 参数以便登录后回到原地址
func RedirectToLogin(c *gin.Context) {
	next := url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusSeeOther, "/auth/login/?next="+next)
}
