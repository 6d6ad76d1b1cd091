package service

import (
	"blogicum/internal/errors"
	"blogicum/internal/model"
	"blogicum/internal/util"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	util.InitLogger("error")
	os.Exit(m.Run())
}

// MockUserRepository 是 UserRepository 接口的模拟实现
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) Update(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func newTestUserService(repo *MockUserRepository) *UserService {
	return NewUserService(repo, NewEmailService())
}

// TestRegister 测试用户注册功能
func TestRegister(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	user := &model.User{
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "Passw0rd!",
	}

	// 测试成功注册，明文密码被替换为哈希
	mockRepo.On("FindByUsername", "testuser").Return(nil, nil)
	mockRepo.On("FindByEmail", "test@example.com").Return(nil, nil)
	mockRepo.On("Create", mock.AnythingOfType("*model.User")).Return(nil)

	err := service.Register(user)
	assert.NoError(t, err)
	assert.NotEqual(t, "Passw0rd!", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Passw0rd!")))
	mockRepo.AssertExpectations(t)

	// 测试用户名已存在
	mockRepo.On("FindByUsername", "existinguser").Return(&model.User{}, nil)
	err = service.Register(&model.User{Username: "existinguser", Email: "new@example.com", PasswordHash: "Passw0rd!"})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))

	// 测试邮箱已存在
	mockRepo.On("FindByUsername", "newuser").Return(nil, nil)
	mockRepo.On("FindByEmail", "used@example.com").Return(&model.User{}, nil)
	err = service.Register(&model.User{Username: "newuser", Email: "used@example.com", PasswordHash: "Passw0rd!"})
	assert.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUserExists))
}

// TestLogin 测试用户名加密码登录
func TestLogin(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	stored := &model.User{ID: 1, Username: "zhangsan", PasswordHash: string(hash)}
	mockRepo.On("FindByUsername", "zhangsan").Return(stored, nil)

	// 测试成功登录
	user, err := service.Login("zhangsan", "Passw0rd!")
	assert.NoError(t, err)
	assert.Equal(t, 1, user.ID)

	// 测试密码错误
	_, err = service.Login("zhangsan", "wrong")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))

	// 测试用户不存在，错误与密码错误不可区分
	mockRepo.On("FindByUsername", "nobody").Return(nil, nil)
	_, err = service.Login("nobody", "Passw0rd!")
	assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
}

// TestUpdateProfile 测试更新用户资料功能
func TestUpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	existing := &model.User{ID: 1, Username: "old", Email: "old@example.com"}
	mockRepo.On("FindByID", 1).Return(existing, nil)
	mockRepo.On("FindByUsername", "renamed").Return(nil, nil)
	mockRepo.On("FindByEmail", "new@example.com").Return(nil, nil)
	mockRepo.On("Update", mock.AnythingOfType("*model.User")).Return(nil)

	err := service.UpdateProfile(&model.User{ID: 1, Username: "renamed", FirstName: "新名", Email: "new@example.com"})
	assert.NoError(t, err)
	assert.Equal(t, "renamed", existing.Username)
	assert.Equal(t, "新名", existing.FirstName)
	assert.Equal(t, "new@example.com", existing.Email)
	mockRepo.AssertExpectations(t)

	// 测试用户不存在
	mockRepo.On("FindByID", 999).Return(nil, nil)
	err = service.UpdateProfile(&model.User{ID: 999, Username: "x", Email: "x@example.com"})
	assert.True(t, errors.Is(err, errors.ErrUserNotFound))
}

// TestUpdateProfileUsernameTaken 改名撞上已有用户时拒绝更新
func TestUpdateProfileUsernameTaken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	mockRepo.On("FindByID", 1).Return(&model.User{ID: 1, Username: "old", Email: "old@example.com"}, nil)
	mockRepo.On("FindByUsername", "taken").Return(&model.User{ID: 2, Username: "taken"}, nil)

	err := service.UpdateProfile(&model.User{ID: 1, Username: "taken", Email: "old@example.com"})
	assert.True(t, errors.Is(err, errors.ErrUserExists))
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

// TestLogoutAndBlacklist 注销后令牌进入黑名单
func TestLogoutAndBlacklist(t *testing.T) {
	service := newTestUserService(new(MockUserRepository))

	assert.False(t, service.IsTokenBlacklisted("token-a"))
	service.Logout("token-a")
	assert.True(t, service.IsTokenBlacklisted("token-a"))
	assert.False(t, service.IsTokenBlacklisted("token-b"))

	// 空令牌不入黑名单
	service.Logout("")
	assert.False(t, service.IsTokenBlacklisted(""))
}

// TestResetPassword 用重置令牌设置新密码
func TestResetPassword(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	stored := &model.User{ID: 1, Username: "zhangsan", Email: "zhangsan@example.com", PasswordHash: "old-hash"}
	mockRepo.On("FindByEmail", "zhangsan@example.com").Return(stored, nil)
	mockRepo.On("Update", mock.AnythingOfType("*model.User")).Return(nil)

	token, err := service.emailService.GeneratePasswordResetToken("zhangsan@example.com")
	assert.NoError(t, err)

	err = service.ResetPassword(token, "NewPassw0rd!")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("NewPassw0rd!")))

	// 测试伪造令牌
	err = service.ResetPassword("not-a-token", "NewPassw0rd!")
	assert.True(t, errors.Is(err, errors.ErrInvalidToken))
}

// TestRequestPasswordReset 重置请求对外表现一致，不暴露邮箱注册状态
func TestRequestPasswordReset(t *testing.T) {
	mockRepo := new(MockUserRepository)
	service := newTestUserService(mockRepo)

	mockRepo.On("FindByEmail", "nobody@example.com").Return(nil, nil)
	assert.NoError(t, service.RequestPasswordReset("nobody@example.com"))

	// SMTP 未配置时发送失败同样只记录日志
	mockRepo.On("FindByEmail", "zhangsan@example.com").Return(&model.User{ID: 1, Email: "zhangsan@example.com"}, nil)
	assert.NoError(t, service.RequestPasswordReset("zhangsan@example.com"))
}
