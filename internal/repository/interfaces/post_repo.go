package interfaces

import (
	"blogicum/internal/model"
	"blogicum/internal/policy"
)

// PostRepository 接口定义了文章仓库应该实现的方法
// List 返回当前页的文章和满足条件的总条数
type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id int) (*model.Post, error)
	Update(post *model.Post) error
	Delete(id int) error
	List(query policy.PostListQuery) ([]*model.Post, int, error)
}
