package blog

import (
	"blogicum/internal/errors"
	"blogicum/internal/middleware"
	"blogicum/internal/policy"
	"blogicum/internal/service"
	"blogicum/internal/storage"
	"blogicum/internal/util"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BlogHandler 处理博客页面相关的HTTP请求
type BlogHandler struct {
	postService    *service.PostService
	commentService *service.CommentService
	userService    service.UserServiceInterface
	storage        storage.Storage
}

// NewBlogHandler 创建一个新的 BlogHandler 实例
func NewBlogHandler(postService *service.PostService, commentService *service.CommentService, userService service.UserServiceInterface, storage storage.Storage) *BlogHandler {
	return &BlogHandler{postService, commentService, userService, storage}
}

// render 渲染页面模板，统一注入当前登录用户供导航栏使用
func (h *BlogHandler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["CurrentUser"] = middleware.UserFromContext(c)
	c.HTML(status, name, data)
}

// parsePage 解析 ?page= 参数，非数字或超出范围的页码按 404 处理
func parsePage(c *gin.Context) (int, bool) {
	page, ok := policy.ParsePage(c.Query("page"))
	if !ok {
		errors.HandleError(c, errors.New(errors.ErrResourceNotFound, "页码不存在"))
		return 0, false
	}
	return page, true
}

// Index 处理主页请求：全部可见文章的分页列表
func (h *BlogHandler) Index(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	postPage, err := h.postService.ListIndex(time.Now(), page)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "index.html", gin.H{
		"Title": "最新文章",
		"Page":  postPage,
	})
}

// CategoryPosts 处理分类页请求：指定分类下的可见文章列表
func (h *BlogHandler) CategoryPosts(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	slug := c.Param("slug")
	category, postPage, err := h.postService.ListCategory(slug, time.Now(), page)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "category.html", gin.H{
		"Title":    category.Title,
		"Category": category,
		"Page":     postPage,
	})
}

// Profile 处理个人主页请求：作者资料和其全部文章，不做可见性过滤
func (h *BlogHandler) Profile(c *gin.Context) {
	page, ok := parsePage(c)
	if !ok {
		return
	}

	username := c.Param("username")
	profile, err := h.userService.GetUserByUsername(username)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	postPage, err := h.postService.ListProfile(profile.ID, page)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "profile.html", gin.H{
		"Title":   profile.Username + " 的主页",
		"Profile": profile,
		"Page":    postPage,
	})
}

// PostDetail 处理文章详情页请求。作者本人不受可见性限制，
// 其他访问者查看未发布、定时发布或分类未发布的文章时按 404 处理。
func (h *BlogHandler) PostDetail(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		util.Logger.Warn("无效的文章ID", zap.String("post_id", c.Param("post_id")))
		errors.HandleError(c, errors.Wrap(errors.ErrPostNotFound, "无效的文章ID", err))
		return
	}

	requester := middleware.UserFromContext(c)
	post, err := h.postService.GetPostForRequester(requester, postID, time.Now())
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	comments, err := h.commentService.ListByPost(postID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "detail.html", gin.H{
		"Title":    post.Title,
		"Post":     post,
		"Comments": comments,
		"Form":     CommentForm{},
	})
}
