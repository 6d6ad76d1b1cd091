package blog

import (
	"blogicum/internal/errors"
	"blogicum/internal/middleware"
	"blogicum/internal/util"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// renderPostForm 渲染文章表单页，填充分类和地点下拉框
func (h *BlogHandler) renderPostForm(c *gin.Context, title string, form PostForm, fieldErrors map[string]string) {
	categories, err := h.postService.Categories()
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	locations, err := h.postService.Locations()
	if err != nil {
		errors.HandleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "create.html", gin.H{
		"Title":      title,
		"Form":       form,
		"Errors":     fieldErrors,
		"Categories": categories,
		"Locations":  locations,
	})
}

// savePostImage 保存可选的封面图。没有上传时返回空串，
// 类型不符或保存失败时返回表单提示文案。
func (h *BlogHandler) savePostImage(c *gin.Context) (string, string) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", ""
	}

	contentType := file.Header.Get("Content-Type")
	if !util.IsAllowedImageType(contentType) {
		util.Logger.Warn("不支持的图片类型", zap.String("content_type", contentType))
		return "", "仅支持 JPEG、PNG 和 GIF 图片"
	}

	filename := util.GenerateUniqueFilename(file.Filename)
	imageURL, err := h.storage.UploadFile(file, fmt.Sprintf("posts/%s", filename))
	if err != nil {
		util.Logger.Error("保存文章图片失败", zap.Error(err))
		return "", "图片保存失败，请重试"
	}
	return imageURL, ""
}

// CreatePostPage 处理创建文章页面的请求
func (h *BlogHandler) CreatePostPage(c *gin.Context) {
	h.renderPostForm(c, "创建文章", PostForm{IsPublished: true}, nil)
}

// CreatePost 处理创建文章的请求，作者取当前登录用户
func (h *BlogHandler) CreatePost(c *gin.Context) {
	user := middleware.UserFromContext(c)

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Warn("创建文章表单校验失败", zap.Error(err))
		h.renderPostForm(c, "创建文章", form, util.FieldErrors(err))
		return
	}

	imageURL, problem := h.savePostImage(c)
	if problem != "" {
		h.renderPostForm(c, "创建文章", form, map[string]string{"Image": problem})
		return
	}

	post, err := form.toPost()
	if err != nil {
		h.renderPostForm(c, "创建文章", form, map[string]string{"PubDate": "时间格式不正确"})
		return
	}
	post.ImageURL = imageURL

	if err := h.postService.CreatePost(user, post); err != nil {
		if errors.Is(err, errors.ErrValidation) {
			h.renderPostForm(c, "创建文章", form, map[string]string{"__all__": "所选分类或地点不存在"})
			return
		}
		util.Logger.Error("创建文章失败", zap.Error(err), zap.Int("author_id", user.ID))
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("文章创建成功", zap.Int("post_id", post.ID), zap.Int("author_id", user.ID))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/profile/%s/", user.Username))
}

// EditPostPage 处理编辑文章页面的请求。
// 文章不存在按 404 处理，非作者软重定向回详情页。
func (h *BlogHandler) EditPostPage(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrPostNotFound, "无效的文章ID", err))
		return
	}

	user := middleware.UserFromContext(c)
	post, err := h.postService.GetPostOwned(user, postID)
	if err != nil {
		if errors.Is(err, errors.ErrNotOwner) {
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", postID))
			return
		}
		errors.HandleError(c, err)
		return
	}

	h.renderPostForm(c, "编辑文章", formFromPost(post), nil)
}

// EditPost 处理编辑文章的请求，作者字段不随表单变化
func (h *BlogHandler) EditPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrPostNotFound, "无效的文章ID", err))
		return
	}

	user := middleware.UserFromContext(c)
	existing, err := h.postService.GetPostOwned(user, postID)
	if err != nil {
		if errors.Is(err, errors.ErrNotOwner) {
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", postID))
			return
		}
		errors.HandleError(c, err)
		return
	}

	var form PostForm
	if err := c.ShouldBind(&form); err != nil {
		util.Logger.Warn("编辑文章表单校验失败", zap.Error(err), zap.Int("post_id", postID))
		h.renderPostForm(c, "编辑文章", form, util.FieldErrors(err))
		return
	}

	imageURL, problem := h.savePostImage(c)
	if problem != "" {
		h.renderPostForm(c, "编辑文章", form, map[string]string{"Image": problem})
		return
	}

	post, err := form.toPost()
	if err != nil {
		h.renderPostForm(c, "编辑文章", form, map[string]string{"PubDate": "时间格式不正确"})
		return
	}
	post.ID = postID
	post.ImageURL = existing.ImageURL
	if imageURL != "" {
		post.ImageURL = imageURL
	}

	if err := h.postService.UpdatePost(user, post); err != nil {
		if errors.Is(err, errors.ErrValidation) {
			h.renderPostForm(c, "编辑文章", form, map[string]string{"__all__": "所选分类或地点不存在"})
			return
		}
		util.Logger.Error("更新文章失败", zap.Error(err), zap.Int("post_id", postID))
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("文章更新成功", zap.Int("post_id", postID), zap.Int("author_id", user.ID))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", postID))
}

// DeletePostPage 处理删除文章确认页面的请求
func (h *BlogHandler) DeletePostPage(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrPostNotFound, "无效的文章ID", err))
		return
	}

	user := middleware.UserFromContext(c)
	post, err := h.postService.GetPostOwned(user, postID)
	if err != nil {
		if errors.Is(err, errors.ErrNotOwner) {
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", postID))
			return
		}
		errors.HandleError(c, err)
		return
	}

	h.render(c, http.StatusOK, "create.html", gin.H{
		"Title":         "删除文章",
		"Form":          formFromPost(post),
		"ConfirmDelete": true,
	})
}

// DeletePost 处理删除文章的请求，评论一并删除
func (h *BlogHandler) DeletePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrPostNotFound, "无效的文章ID", err))
		return
	}

	user := middleware.UserFromContext(c)
	if err := h.postService.DeletePost(user, postID); err != nil {
		if errors.Is(err, errors.ErrNotOwner) {
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", postID))
			return
		}
		util.Logger.Error("删除文章失败", zap.Error(err), zap.Int("post_id", postID))
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("文章删除成功", zap.Int("post_id", postID), zap.Int("author_id", user.ID))
	c.Redirect(http.StatusSeeOther, "/")
}
