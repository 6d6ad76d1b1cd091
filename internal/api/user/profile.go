package user

import (
	"blogicum/internal/errors"
	"blogicum/internal/middleware"
	"blogicum/internal/model"
	"blogicum/internal/service"
	"blogicum/internal/util"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileEditForm 资料编辑表单数据
type ProfileEditForm struct {
	Username  string `form:"username" binding:"required,max=150"`
	FirstName string `form:"first_name" binding:"max=150"`
	LastName  string `form:"last_name" binding:"max=150"`
	Email     string `form:"email" binding:"required,email"`
}

// ProfileHandler 处理用户资料相关的HTTP请求
type ProfileHandler struct {
	userService service.UserServiceInterface
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例
func NewProfileHandler(userService service.UserServiceInterface) *ProfileHandler {
	return &ProfileHandler{userService}
}

// ProfileEditPage 处理资料编辑页面的请求，表单预填当前资料
func (h *ProfileHandler) ProfileEditPage(c *gin.Context) {
	user := middleware.UserFromContext(c)

	render(c, http.StatusOK, "user.html", gin.H{
		"Title": "编辑资料",
		"Form": ProfileEditForm{
			Username:  user.Username,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		},
	})
}

// ProfileEdit 处理资料编辑请求，成功后跳转到本人主页。
// 用户名在这里可以改，跳转目标用的是改完之后的用户名。
func (h *ProfileHandler) ProfileEdit(c *gin.Context) {
	user := middleware.UserFromContext(c)

	var form ProfileEditForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Warn("资料编辑表单校验失败", zap.Error(err), zap.Int("user_id", user.ID))
		render(c, http.StatusOK, "user.html", gin.H{
			"Title":  "编辑资料",
			"Form":   form,
			"Errors": util.FieldErrors(err),
		})
		return
	}

	updated := &model.User{
		ID:        user.ID,
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
	}

	if err := h.userService.UpdateProfile(updated); err != nil {
		if errors.Is(err, errors.ErrUserExists) {
			render(c, http.StatusOK, "user.html", gin.H{
				"Title":  "编辑资料",
				"Form":   form,
				"Errors": map[string]string{"__all__": "用户名或邮箱已被其他账号使用"},
			})
			return
		}
		util.Logger.Error("更新用户资料失败", zap.Error(err), zap.Int("user_id", user.ID))
		errors.HandleError(c, errors.Wrap(errors.ErrInternal, "更新用户资料失败", err))
		return
	}

	util.Logger.Info("用户资料更新成功", zap.Int("user_id", user.ID))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/profile/%s/", form.Username))
}
