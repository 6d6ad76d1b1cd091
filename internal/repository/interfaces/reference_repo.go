package interfaces

import "blogicum/internal/model"

// CategoryRepository 接口定义了分类仓库应该实现的方法
type CategoryRepository interface {
	FindByID(id int) (*model.Category, error)
	FindBySlug(slug string) (*model.Category, error)
	FindPublished() ([]*model.Category, error)
}

// LocationRepository 接口定义了地点仓库应该实现的方法
type LocationRepository interface {
	FindByID(id int) (*model.Location, error)
	FindPublished() ([]*model.Location, error)
}
