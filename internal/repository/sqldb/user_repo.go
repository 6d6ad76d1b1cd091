package sqldb

import (
	"blogicum/internal/model"
	"blogicum/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// userRepository 实现了 UserRepository 接口
type userRepository struct {
	db *sql.DB
}

// NewUserRepository 创建一个新的 userRepository 实例
func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db}
}

const userColumns = `id, username, first_name, last_name, email, password_hash, created_at, updated_at`

// Create 创建一个新用户
func (r *userRepository) Create(user *model.User) error {
	now := time.Now()
	query := `INSERT INTO users (username, first_name, last_name, email, password_hash, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, user.Username, user.FirstName, user.LastName, user.Email, user.PasswordHash, now, now)
	if err != nil {
		util.Logger.Error("创建用户失败", zap.Error(err), zap.String("username", user.Username))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新用户ID失败", zap.Error(err))
		return err
	}
	user.ID = int(id)
	user.CreatedAt = now
	user.UpdatedAt = now
	util.Logger.Info("用户创建成功", zap.Int("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

// FindByID 通过ID查找用户，未找到时返回 nil
func (r *userRepository) FindByID(id int) (*model.User, error) {
	return r.findBy(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// FindByUsername 通过用户名查找用户，未找到时返回 nil
func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	return r.findBy(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
}

// FindByEmail 通过邮箱查找用户，未找到时返回 nil
func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	return r.findBy(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *userRepository) findBy(query string, arg any) (*model.User, error) {
	var user model.User
	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &user.FirstName, &user.LastName, &user.Email,
		&user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查找用户失败", zap.Error(err))
		return nil, err
	}
	return &user, nil
}

// Update 更新用户资料和密码哈希
func (r *userRepository) Update(user *model.User) error {
	user.UpdatedAt = time.Now()
	_, err := r.db.Exec(`
		UPDATE users
		SET username = ?, first_name = ?, last_name = ?, email = ?, password_hash = ?, updated_at = ?
		WHERE id = ?`,
		user.Username, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.UpdatedAt, user.ID)
	if err != nil {
		util.Logger.Error("更新用户失败", zap.Error(err), zap.Int("user_id", user.ID))
	}
	return err
}
