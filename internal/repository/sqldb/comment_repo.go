package sqldb

import (
	"blogicum/internal/model"
	"blogicum/internal/util"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// commentRepository 实现了 CommentRepository 接口
type commentRepository struct {
	db *sql.DB
}

// NewCommentRepository 创建一个新的 commentRepository 实例
func NewCommentRepository(db *sql.DB) *commentRepository {
	return &commentRepository{db}
}

const commentColumns = `
	cm.id, cm.post_id, cm.author_id, cm.text, cm.created_at,
	u.id, u.username, u.first_name, u.last_name, u.email`

func scanComment(row rowScanner) (*model.Comment, error) {
	var comment model.Comment
	var author model.User
	err := row.Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID, &comment.Text, &comment.CreatedAt,
		&author.ID, &author.Username, &author.FirstName, &author.LastName, &author.Email,
	)
	if err != nil {
		return nil, err
	}
	comment.Author = &author
	return &comment, nil
}

// Create 创建评论
func (r *commentRepository) Create(comment *model.Comment) error {
	comment.CreatedAt = time.Now()
	query := `INSERT INTO comments (post_id, author_id, text, created_at) VALUES (?, ?, ?, ?)`
	result, err := r.db.Exec(query, comment.PostID, comment.AuthorID, comment.Text, comment.CreatedAt)
	if err != nil {
		util.Logger.Error("创建评论失败", zap.Error(err), zap.Int("post_id", comment.PostID))
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		util.Logger.Error("获取新评论ID失败", zap.Error(err))
		return err
	}
	comment.ID = int(id)
	util.Logger.Info("评论创建成功", zap.Int("comment_id", comment.ID), zap.Int("post_id", comment.PostID))
	return nil
}

// FindByID 通过ID查找评论，未找到时返回 nil
func (r *commentRepository) FindByID(id int) (*model.Comment, error) {
	query := `SELECT ` + commentColumns + `
	FROM comments cm
	JOIN users u ON cm.author_id = u.id
	WHERE cm.id = ?`
	comment, err := scanComment(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查询评论失败", zap.Error(err), zap.Int("comment_id", id))
		return nil, err
	}
	return comment, nil
}

// Update 更新评论内容
func (r *commentRepository) Update(comment *model.Comment) error {
	_, err := r.db.Exec(`UPDATE comments SET text = ? WHERE id = ?`, comment.Text, comment.ID)
	if err != nil {
		util.Logger.Error("更新评论失败", zap.Error(err), zap.Int("comment_id", comment.ID))
		return err
	}
	util.Logger.Info("评论更新成功", zap.Int("comment_id", comment.ID))
	return nil
}

// Delete 删除评论
func (r *commentRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", id))
		return err
	}
	util.Logger.Info("评论删除成功", zap.Int("comment_id", id))
	return nil
}

// ListByPost 按创建时间顺序返回文章的全部评论
func (r *commentRepository) ListByPost(postID int) ([]*model.Comment, error) {
	query := `SELECT ` + commentColumns + `
	FROM comments cm
	JOIN users u ON cm.author_id = u.id
	WHERE cm.post_id = ?
	ORDER BY cm.created_at ASC, cm.id ASC`
	rows, err := r.db.Query(query, postID)
	if err != nil {
		util.Logger.Error("查询评论列表失败", zap.Error(err), zap.Int("post_id", postID))
		return nil, err
	}
	defer rows.Close()

	var comments []*model.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
