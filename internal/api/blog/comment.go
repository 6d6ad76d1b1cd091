package blog

import (
	"blogicum/internal/errors"
	"blogicum/internal/middleware"
	"blogicum/internal/model"
	"blogicum/internal/util"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AddComment 处理添加评论的请求。
// 先检查文章是否存在（404），再检查登录状态（跳转登录页），
// 顺序不能调换，匿名访问不存在的文章时应当得到 404。
func (h *BlogHandler) AddComment(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("post_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrPostNotFound, "无效的文章ID", err))
		return
	}

	if _, err := h.postService.GetPost(postID); err != nil {
		errors.HandleError(c, err)
		return
	}

	user := middleware.UserFromContext(c)
	if user == nil {
		middleware.RedirectToLogin(c)
		return
	}

	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "comment.html", gin.H{
			"Title":  "添加评论",
			"Form":   form,
			"Errors": util.FieldErrors(err),
		})
		return
	}

	comment, err := h.commentService.AddComment(user, postID, form.Text)
	if err != nil {
		util.Logger.Error("添加评论失败", zap.Error(err), zap.Int("post_id", postID))
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("评论创建成功", zap.Int("comment_id", comment.ID), zap.Int("post_id", postID))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", postID))
}

// getCommentOwned 评论编辑和删除入口的公共守卫：
// 路径参数非法或评论不存在按 404 处理，非作者软重定向。
// 线上版本的重定向目标用的是评论ID而不是文章ID，这里保持一致。
func (h *BlogHandler) getCommentOwned(c *gin.Context) (*model.Comment, bool) {
	if _, err := strconv.Atoi(c.Param("post_id")); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrPostNotFound, "无效的文章ID", err))
		return nil, false
	}

	commentID, err := strconv.Atoi(c.Param("comment_id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrCommentNotFound, "无效的评论ID", err))
		return nil, false
	}

	user := middleware.UserFromContext(c)
	comment, err := h.commentService.GetCommentOwned(user, commentID)
	if err != nil {
		if errors.Is(err, errors.ErrNotOwner) {
			c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", commentID))
			return nil, false
		}
		errors.HandleError(c, err)
		return nil, false
	}
	return comment, true
}

// EditCommentPage 处理编辑评论页面的请求
func (h *BlogHandler) EditCommentPage(c *gin.Context) {
	comment, ok := h.getCommentOwned(c)
	if !ok {
		return
	}

	h.render(c, http.StatusOK, "comment.html", gin.H{
		"Title":   "编辑评论",
		"Form":    CommentForm{Text: comment.Text},
		"Comment": comment,
	})
}

// EditComment 处理编辑评论的请求
func (h *BlogHandler) EditComment(c *gin.Context) {
	comment, ok := h.getCommentOwned(c)
	if !ok {
		return
	}

	var form CommentForm
	if err := c.ShouldBind(&form); err != nil {
		h.render(c, http.StatusOK, "comment.html", gin.H{
			"Title":   "编辑评论",
			"Form":    form,
			"Comment": comment,
			"Errors":  util.FieldErrors(err),
		})
		return
	}

	user := middleware.UserFromContext(c)
	comment.Text = form.Text
	if err := h.commentService.UpdateComment(user, comment); err != nil {
		util.Logger.Error("更新评论失败", zap.Error(err), zap.Int("comment_id", comment.ID))
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("评论更新成功", zap.Int("comment_id", comment.ID))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", comment.ID))
}

// DeleteCommentPage 处理删除评论确认页面的请求
func (h *BlogHandler) DeleteCommentPage(c *gin.Context) {
	comment, ok := h.getCommentOwned(c)
	if !ok {
		return
	}

	h.render(c, http.StatusOK, "comment.html", gin.H{
		"Title":         "删除评论",
		"Comment":       comment,
		"ConfirmDelete": true,
	})
}

// DeleteComment 处理删除评论的请求
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	comment, ok := h.getCommentOwned(c)
	if !ok {
		return
	}

	user := middleware.UserFromContext(c)
	if err := h.commentService.DeleteComment(user, comment.ID); err != nil {
		util.Logger.Error("删除评论失败", zap.Error(err), zap.Int("comment_id", comment.ID))
		errors.HandleError(c, err)
		return
	}

	util.Logger.Info("评论删除成功", zap.Int("comment_id", comment.ID))
	c.Redirect(http.StatusSeeOther, fmt.Sprintf("/posts/%d/", comment.ID))
}
