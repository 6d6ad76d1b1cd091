package interfaces

import "blogicum/internal/model"

// CommentRepository 接口定义了评论仓库应该实现的方法
type CommentRepository interface {
	Create(comment *model.Comment) error
	FindByID(id int) (*model.Comment, error)
	Update(comment *model.Comment) error
	Delete(id int) error
	ListByPost(postID int) ([]*model.Comment, error)
}
