package service

import (
	"blogicum/internal/errors"
	"blogicum/internal/model"
	"blogicum/internal/repository/interfaces"
	"blogicum/internal/util"
	"sync"
	"time"

	"go.uber.org/zap"

	"golang.org/x/crypto/bcrypt"
)

// UserService 处理与用户相关的业务逻辑
type UserService struct {
	userRepo       interfaces.UserRepository
	emailService   *EmailService
	tokenBlacklist map[string]time.Time
	blacklistMutex sync.Mutex
}

// NewUserService 创建一个新的 UserService 实例
func NewUserService(userRepo interfaces.UserRepository, emailService *EmailService) *UserService {
	return &UserService{
		userRepo:       userRepo,
		emailService:   emailService,
		tokenBlacklist: make(map[string]time.Time),
	}
}

// IsUsernameTaken 检查用户名是否已被使用
func (s *UserService) IsUsernameTaken(username string) (bool, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// IsEmailTaken 检查邮箱是否已被使用
func (s *UserService) IsEmailTaken(email string) (bool, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return false, err
	}
	return user != nil, nil
}

// Register 注册新用户，PasswordHash 字段传入明文密码，注册后替换为哈希
func (s *UserService) Register(user *model.User) error {
	taken, err := s.IsUsernameTaken(user.Username)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrUserExists, "username already exists")
	}

	taken, err = s.IsEmailTaken(user.Email)
	if err != nil {
		return err
	}
	if taken {
		return errors.New(errors.ErrUserExists, "email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Create(user); err != nil {
		return err
	}

	util.Logger.Info("用户注册成功", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

// Login 用户名加密码登录
func (s *UserService) Login(username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		util.Logger.Warn("登录失败，用户不存在", zap.String("username", username))
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		util.Logger.Warn("登录失败，密码不正确", zap.String("username", username))
		return nil, errors.New(errors.ErrInvalidCredentials, "invalid username or password")
	}

	util.Logger.Info("用户登录成功", zap.Int("user_id", user.ID))
	return user, nil
}

// GetUserByID 通过ID获取用户信息
func (s *UserService) GetUserByID(id int) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to find user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// GetUserByUsername 通过用户名获取用户信息，个人主页用
func (s *UserService) GetUserByUsername(username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to find user", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrUserNotFound, "user not found")
	}
	return user, nil
}

// UpdateProfile 更新用户资料，只覆盖允许修改的字段
func (s *UserService) UpdateProfile(user *model.User) error {
	existing, err := s.userRepo.FindByID(user.ID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to find user", err)
	}
	if existing == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	if user.Username != existing.Username {
		taken, err := s.IsUsernameTaken(user.Username)
		if err != nil {
			return err
		}
		if taken {
			return errors.New(errors.ErrUserExists, "username already exists")
		}
	}
	if user.Email != existing.Email {
		taken, err := s.IsEmailTaken(user.Email)
		if err != nil {
			return err
		}
		if taken {
			return errors.New(errors.ErrUserExists, "email already exists")
		}
	}

	existing.Username = user.Username
	existing.FirstName = user.FirstName
	existing.LastName = user.LastName
	existing.Email = user.Email

	if err := s.userRepo.Update(existing); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update user", err)
	}
	util.Logger.Info("用户资料更新成功", zap.Int("user_id", existing.ID))
	return nil
}

// RequestPasswordReset 请求密码重置。
// 邮箱未注册或发送失败时只记录日志，对外表现一致，避免探测注册邮箱。
func (s *UserService) RequestPasswordReset(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to find user", err)
	}
	if user == nil {
		util.Logger.Info("密码重置请求的邮箱未注册", zap.String("email", email))
		return nil
	}

	if err := s.emailService.SendPasswordResetEmail(email); err != nil {
		util.Logger.Error("发送密码重置邮件失败", zap.Error(err), zap.String("email", email))
	}
	return nil
}

// ResetPassword 用邮件中的令牌设置新密码
func (s *UserService) ResetPassword(token, newPassword string) error {
	email, err := s.emailService.VerifyPasswordResetToken(token)
	if err != nil {
		return errors.Wrap(errors.ErrInvalidToken, "invalid reset token", err)
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to find user", err)
	}
	if user == nil {
		return errors.New(errors.ErrUserNotFound, "user not found")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update password", err)
	}

	util.Logger.Info("密码重置成功", zap.Int("user_id", user.ID))
	return nil
}

// Logout 把当前会话令牌加入黑名单，保留时长与令牌有效期一致
func (s *UserService) Logout(token string) {
	if token == "" {
		return
	}
	s.blacklistMutex.Lock()
	s.tokenBlacklist[token] = time.Now().Add(24 * time.Hour)
	s.blacklistMutex.Unlock()
	util.Logger.Info("用户注销，令牌已加入黑名单")
}

// IsTokenBlacklisted 判断令牌是否在黑名单中，过期条目顺带清理
func (s *UserService) IsTokenBlacklisted(token string) bool {
	s.blacklistMutex.Lock()
	defer s.blacklistMutex.Unlock()
	expiry, exists := s.tokenBlacklist[token]
	if !exists {
		return false
	}
	if time.Now().After(expiry) {
		delete(s.tokenBlacklist, token)
		return false
	}
	return true
}

type UserServiceInterface interface {
	Register(user *model.User) error
	Login(username, password string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	GetUserByUsername(username string) (*model.User, error)
	UpdateProfile(user *model.User) error
	RequestPasswordReset(email string) error
	ResetPassword(token, newPassword string) error
	Logout(token string)
	IsTokenBlacklisted(token string) bool
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)
