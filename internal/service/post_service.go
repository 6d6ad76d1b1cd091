package service

import (
	"blogicum/internal/errors"
	"blogicum/internal/model"
	"blogicum/internal/policy"
	"blogicum/internal/repository/interfaces"
	"blogicum/internal/util"
	"time"

	"go.uber.org/zap"
)

// PostService 处理文章相关的业务逻辑
type PostService struct {
	postRepo     interfaces.PostRepository
	categoryRepo interfaces.CategoryRepository
	locationRepo interfaces.LocationRepository
}

// NewPostService 创建一个新的 PostService 实例
func NewPostService(postRepo interfaces.PostRepository, categoryRepo interfaces.CategoryRepository, locationRepo interfaces.LocationRepository) *PostService {
	return &PostService{postRepo, categoryRepo, locationRepo}
}

// ListIndex 首页：全部可见文章的分页列表
func (s *PostService) ListIndex(now time.Time, page int) (*model.PostPage, error) {
	return s.list(policy.IndexQuery(now, page))
}

// ListCategory 分类页：分类必须存在且已发布，否则按不存在处理
func (s *PostService) ListCategory(slug string, now time.Time, page int) (*model.Category, *model.PostPage, error) {
	category, err := s.categoryRepo.FindBySlug(slug)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrDatabase, "failed to find category", err)
	}
	if category == nil || !category.IsPublished {
		return nil, nil, errors.New(errors.ErrCategoryNotFound, "category not found")
	}

	postPage, err := s.list(policy.CategoryQuery(category.ID, now, page))
	if err != nil {
		return nil, nil, err
	}
	return category, postPage, nil
}

// ListProfile 个人主页：该作者的全部文章，不做可见性过滤
func (s *PostService) ListProfile(authorID, page int) (*model.PostPage, error) {
	return s.list(policy.ProfileQuery(authorID, page))
}

func (s *PostService) list(q policy.PostListQuery) (*model.PostPage, error) {
	posts, total, err := s.postRepo.List(q)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list posts", err)
	}

	numPages := policy.NumPages(total, q.PageSize)
	if !policy.PageInRange(q.Page, total, q.PageSize) {
		return nil, errors.New(errors.ErrResourceNotFound, "page out of range")
	}

	return &model.PostPage{
		Posts:    posts,
		Total:    total,
		Page:     q.Page,
		NumPages: numPages,
	}, nil
}

// GetPost 不带可见性判断的详情查询
func (s *PostService) GetPost(id int) (*model.Post, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to find post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}
	return post, nil
}

// GetPostForRequester 详情查询：作者本人不受可见性限制，
// 其他访问者只能看到满足可见性条件的文章。
func (s *PostService) GetPostForRequester(requester *model.User, id int, now time.Time) (*model.Post, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(requester, post, now) {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}
	return post, nil
}

// GetPostOwned 编辑和删除入口的查询：文章必须存在且归请求者所有
func (s *PostService) GetPostOwned(requester *model.User, id int) (*model.Post, error) {
	post, err := s.GetPost(id)
	if err != nil {
		return nil, err
	}
	if !policy.CanModify(requester, post.AuthorID) {
		return nil, errors.New(errors.ErrNotOwner, "post belongs to another user")
	}
	return post, nil
}

// CreatePost 创建文章，作者取请求者本人，表单无法指定
func (s *PostService) CreatePost(requester *model.User, post *model.Post) error {
	post.AuthorID = requester.ID
	if err := s.validateReferences(post); err != nil {
		return err
	}
	if err := s.postRepo.Create(post); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to create post", err)
	}
	return nil
}

// UpdatePost 更新文章，再次校验归属，作者字段不随表单变化
func (s *PostService) UpdatePost(requester *model.User, post *model.Post) error {
	existing, err := s.GetPostOwned(requester, post.ID)
	if err != nil {
		return err
	}
	post.AuthorID = existing.AuthorID
	if err := s.validateReferences(post); err != nil {
		return err
	}
	if err := s.postRepo.Update(post); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update post", err)
	}
	return nil
}

// DeletePost 删除文章，连带评论一起删除
func (s *PostService) DeletePost(requester *model.User, id int) error {
	if _, err := s.GetPostOwned(requester, id); err != nil {
		return err
	}
	if err := s.postRepo.Delete(id); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete post", err)
	}
	return nil
}

// validateReferences 校验表单提交的分类和地点确实存在
func (s *PostService) validateReferences(post *model.Post) error {
	category, err := s.categoryRepo.FindByID(post.CategoryID)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to find category", err)
	}
	if category == nil {
		return errors.New(errors.ErrValidation, "category does not exist")
	}

	if post.LocationID != nil {
		location, err := s.locationRepo.FindByID(*post.LocationID)
		if err != nil {
			return errors.Wrap(errors.ErrDatabase, "failed to find location", err)
		}
		if location == nil {
			return errors.New(errors.ErrValidation, "location does not exist")
		}
	}
	return nil
}

// Categories 表单下拉框用的已发布分类
func (s *PostService) Categories() ([]*model.Category, error) {
	categories, err := s.categoryRepo.FindPublished()
	if err != nil {
		util.Logger.Error("查询分类列表失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list categories", err)
	}
	return categories, nil
}

// Locations 表单下拉框用的已发布地点
func (s *PostService) Locations() ([]*model.Location, error) {
	locations, err := s.locationRepo.FindPublished()
	if err != nil {
		util.Logger.Error("查询地点列表失败", zap.Error(err))
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list locations", err)
	}
	return locations, nil
}
