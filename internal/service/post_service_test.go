package service

import (
	"blogicum/internal/errors"
	"blogicum/internal/model"
	"blogicum/internal/policy"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository 是 PostRepository 接口的模拟实现
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(id int) (*model.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) Update(post *model.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(id int) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) List(q policy.PostListQuery) ([]*model.Post, int, error) {
	args := m.Called(q)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Post), args.Int(1), args.Error(2)
}

// MockCategoryRepository 是 CategoryRepository 接口的模拟实现
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(id int) (*model.Category, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(slug string) (*model.Category, error) {
	args := m.Called(slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindPublished() ([]*model.Category, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Category), args.Error(1)
}

// MockLocationRepository 是 LocationRepository 接口的模拟实现
type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByID(id int) (*model.Location, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Location), args.Error(1)
}

func (m *MockLocationRepository) FindPublished() ([]*model.Location, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Location), args.Error(1)
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestPostService() (*PostService, *MockPostRepository, *MockCategoryRepository, *MockLocationRepository) {
	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	mockLocations := new(MockLocationRepository)
	return NewPostService(mockPosts, mockCategories, mockLocations), mockPosts, mockCategories, mockLocations
}

// TestGetPostForRequester 作者本人绕过可见性限制，其他人拿到 404
func TestGetPostForRequester(t *testing.T) {
	service, mockPosts, _, _ := newTestPostService()

	hidden := &model.Post{
		ID:          7,
		AuthorID:    1,
		IsPublished: false,
		PubDate:     testNow.Add(-time.Hour),
		Category:    &model.Category{ID: 3, IsPublished: true},
	}
	mockPosts.On("FindByID", 7).Return(hidden, nil)

	// 作者本人可见
	post, err := service.GetPostForRequester(&model.User{ID: 1}, 7, testNow)
	assert.NoError(t, err)
	assert.Equal(t, 7, post.ID)

	// 匿名访问者 404
	_, err = service.GetPostForRequester(nil, 7, testNow)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))

	// 其他用户 404
	_, err = service.GetPostForRequester(&model.User{ID: 2}, 7, testNow)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))

	// 不存在的文章对作者也是 404
	mockPosts.On("FindByID", 8).Return(nil, nil)
	_, err = service.GetPostForRequester(&model.User{ID: 1}, 8, testNow)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestGetPostOwned 编辑入口的归属检查
func TestGetPostOwned(t *testing.T) {
	service, mockPosts, _, _ := newTestPostService()

	post := &model.Post{ID: 7, AuthorID: 1}
	mockPosts.On("FindByID", 7).Return(post, nil)
	mockPosts.On("FindByID", 8).Return(nil, nil)

	owned, err := service.GetPostOwned(&model.User{ID: 1}, 7)
	assert.NoError(t, err)
	assert.Equal(t, 7, owned.ID)

	_, err = service.GetPostOwned(&model.User{ID: 2}, 7)
	assert.True(t, errors.Is(err, errors.ErrNotOwner))

	// 匿名请求者同样按非所有者处理
	_, err = service.GetPostOwned(nil, 7)
	assert.True(t, errors.Is(err, errors.ErrNotOwner))

	// 不存在优先于归属判断
	_, err = service.GetPostOwned(&model.User{ID: 2}, 8)
	assert.True(t, errors.Is(err, errors.ErrPostNotFound))
}

// TestCreatePostForcesAuthor 创建时作者强制取请求者，表单无法伪造
func TestCreatePostForcesAuthor(t *testing.T) {
	service, mockPosts, mockCategories, _ := newTestPostService()

	mockCategories.On("FindByID", 3).Return(&model.Category{ID: 3, IsPublished: true}, nil)
	mockPosts.On("Create", mock.AnythingOfType("*model.Post")).Return(nil)

	post := &model.Post{Title: "标题", Text: "正文", CategoryID: 3, AuthorID: 99}
	err := service.CreatePost(&model.User{ID: 42}, post)
	assert.NoError(t, err)
	assert.Equal(t, 42, post.AuthorID)
	mockPosts.AssertExpectations(t)
}

// TestCreatePostBadReferences 分类或地点不存在时拒绝创建
func TestCreatePostBadReferences(t *testing.T) {
	service, mockPosts, mockCategories, mockLocations := newTestPostService()

	mockCategories.On("FindByID", 9).Return(nil, nil)
	err := service.CreatePost(&model.User{ID: 1}, &model.Post{CategoryID: 9})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	locationID := 5
	mockCategories.On("FindByID", 3).Return(&model.Category{ID: 3}, nil)
	mockLocations.On("FindByID", 5).Return(nil, nil)
	err = service.CreatePost(&model.User{ID: 1}, &model.Post{CategoryID: 3, LocationID: &locationID})
	assert.True(t, errors.Is(err, errors.ErrValidation))

	mockPosts.AssertNotCalled(t, "Create", mock.Anything)
}

// TestUpdatePostKeepsAuthor 更新时作者字段不随表单变化
func TestUpdatePostKeepsAuthor(t *testing.T) {
	service, mockPosts, mockCategories, _ := newTestPostService()

	existing := &model.Post{ID: 7, AuthorID: 1, CategoryID: 3}
	mockPosts.On("FindByID", 7).Return(existing, nil)
	mockCategories.On("FindByID", 3).Return(&model.Category{ID: 3}, nil)
	mockPosts.On("Update", mock.AnythingOfType("*model.Post")).Return(nil)

	form := &model.Post{ID: 7, Title: "新标题", CategoryID: 3, AuthorID: 99}
	err := service.UpdatePost(&model.User{ID: 1}, form)
	assert.NoError(t, err)
	assert.Equal(t, 1, form.AuthorID)
}

// TestUpdatePostNotOwner 非所有者的更新被拒绝
func TestUpdatePostNotOwner(t *testing.T) {
	service, mockPosts, _, _ := newTestPostService()

	mockPosts.On("FindByID", 7).Return(&model.Post{ID: 7, AuthorID: 1}, nil)

	err := service.UpdatePost(&model.User{ID: 2}, &model.Post{ID: 7, Title: "篡改"})
	assert.True(t, errors.Is(err, errors.ErrNotOwner))
	mockPosts.AssertNotCalled(t, "Update", mock.Anything)
}

// TestDeletePostNotOwner 非所有者的删除被拒绝
func TestDeletePostNotOwner(t *testing.T) {
	service, mockPosts, _, _ := newTestPostService()

	mockPosts.On("FindByID", 7).Return(&model.Post{ID: 7, AuthorID: 1}, nil)

	err := service.DeletePost(&model.User{ID: 2}, 7)
	assert.True(t, errors.Is(err, errors.ErrNotOwner))
	mockPosts.AssertNotCalled(t, "Delete", mock.Anything)

	mockPosts.On("Delete", 7).Return(nil)
	assert.NoError(t, service.DeletePost(&model.User{ID: 1}, 7))
}

// TestListCategory 分类缺失或未发布都按不存在处理
func TestListCategory(t *testing.T) {
	service, mockPosts, mockCategories, _ := newTestPostService()

	mockCategories.On("FindBySlug", "nope").Return(nil, nil)
	_, _, err := service.ListCategory("nope", testNow, 1)
	assert.True(t, errors.Is(err, errors.ErrCategoryNotFound))

	mockCategories.On("FindBySlug", "draft").Return(&model.Category{ID: 2, Slug: "draft", IsPublished: false}, nil)
	_, _, err = service.ListCategory("draft", testNow, 1)
	assert.True(t, errors.Is(err, errors.ErrCategoryNotFound))

	tech := &model.Category{ID: 3, Slug: "tech", IsPublished: true}
	mockCategories.On("FindBySlug", "tech").Return(tech, nil)
	mockPosts.On("List", mock.AnythingOfType("policy.PostListQuery")).
		Return([]*model.Post{{ID: 1, CategoryID: 3}}, 1, nil)

	category, page, err := service.ListCategory("tech", testNow, 1)
	assert.NoError(t, err)
	assert.Equal(t, "tech", category.Slug)
	assert.Equal(t, 1, page.Total)
	assert.Len(t, page.Posts, 1)
}

// TestListPageOutOfRange 页码超出范围按不存在处理，空结果仍有第一页
func TestListPageOutOfRange(t *testing.T) {
	service, mockPosts, _, _ := newTestPostService()

	mockPosts.On("List", policy.IndexQuery(testNow, 4)).Return([]*model.Post{}, 25, nil)
	_, err := service.ListIndex(testNow, 4)
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))

	mockPosts.On("List", policy.IndexQuery(testNow, 3)).Return([]*model.Post{{ID: 1}}, 25, nil)
	page, err := service.ListIndex(testNow, 3)
	assert.NoError(t, err)
	assert.Equal(t, 3, page.NumPages)

	// 没有任何文章时第一页照常存在
	mockPosts.On("List", policy.IndexQuery(testNow, 1)).Return([]*model.Post{}, 0, nil)
	page, err = service.ListIndex(testNow, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, page.NumPages)
	assert.Len(t, page.Posts, 0)

	mockPosts.On("List", policy.IndexQuery(testNow, 2)).Return([]*model.Post{}, 0, nil)
	_, err = service.ListIndex(testNow, 2)
	assert.True(t, errors.Is(err, errors.ErrResourceNotFound))
}
