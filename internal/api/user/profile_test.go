package user

import (
	"blogicum/internal/errors"
	"blogicum/internal/model"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// loggedInMock 准备一个带合法会话的请求环境，返回路由可用的 Cookie
func loggedInMock(t *testing.T, mockService *MockUserService, u *model.User) *http.Cookie {
	t.Helper()
	cookie := sessionCookie(t, u.ID)
	mockService.On("IsTokenBlacklisted", cookie.Value).Return(false)
	mockService.On("GetUserByID", u.ID).Return(u, nil)
	return cookie
}

func TestProfileEditRequiresLogin(t *testing.T) {
	mockService := new(MockUserService)
	r := newAuthRouter(mockService)

	w := performGet(r, "/profile/edit/", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/auth/login/?next="+url.QueryEscape("/profile/edit/"), w.Header().Get("Location"))
}

func TestProfileEditPagePrefillsForm(t *testing.T) {
	mockService := new(MockUserService)
	cookie := loggedInMock(t, mockService, &model.User{
		ID:        42,
		Username:  "alice",
		FirstName: "爱",
		LastName:  "丽丝",
		Email:     "alice@example.com",
	})
	r := newAuthRouter(mockService)

	w := performGet(r, "/profile/edit/", cookie)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "alice")
	assert.Contains(t, body, "alice@example.com")
	assert.Contains(t, body, "爱")
}

func TestProfileEdit(t *testing.T) {
	t.Run("修改资料后跳转到新用户名的主页", func(t *testing.T) {
		mockService := new(MockUserService)
		cookie := loggedInMock(t, mockService, &model.User{ID: 42, Username: "alice", Email: "alice@example.com"})
		mockService.On("UpdateProfile", mock.MatchedBy(func(u *model.User) bool {
			return u.ID == 42 && u.Username == "newname" && u.Email == "new@example.com"
		})).Return(nil)
		r := newAuthRouter(mockService)

		w := performPost(r, "/profile/edit/", url.Values{
			"username": {"newname"},
			"email":    {"new@example.com"},
		}, cookie)

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/profile/newname/", w.Header().Get("Location"))
		mockService.AssertExpectations(t)
	})

	t.Run("用户名或邮箱被占用", func(t *testing.T) {
		mockService := new(MockUserService)
		cookie := loggedInMock(t, mockService, &model.User{ID: 42, Username: "alice", Email: "alice@example.com"})
		mockService.On("UpdateProfile", mock.AnythingOfType("*model.User")).
			Return(errors.New(errors.ErrUserExists, "username already exists"))
		r := newAuthRouter(mockService)

		w := performPost(r, "/profile/edit/", url.Values{
			"username": {"taken"},
			"email":    {"alice@example.com"},
		}, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "用户名或邮箱已被其他账号使用")
	})

	t.Run("表单不合法时不更新", func(t *testing.T) {
		mockService := new(MockUserService)
		cookie := loggedInMock(t, mockService, &model.User{ID: 42, Username: "alice", Email: "alice@example.com"})
		r := newAuthRouter(mockService)

		w := performPost(r, "/profile/edit/", url.Values{
			"username": {"alice"},
			"email":    {"不是邮箱"},
		}, cookie)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "邮箱格式不正确")
		mockService.AssertNotCalled(t, "UpdateProfile", mock.Anything)
	})
}
