package service

import (
	"blogicum/internal/errors"
	"blogicum/internal/model"
	"blogicum/internal/policy"
	"blogicum/internal/repository/interfaces"
)

// CommentService 处理评论相关的业务逻辑
type CommentService struct {
	commentRepo interfaces.CommentRepository
	postRepo    interfaces.PostRepository
}

// NewCommentService 创建一个新的 CommentService 实例
func NewCommentService(commentRepo interfaces.CommentRepository, postRepo interfaces.PostRepository) *CommentService {
	return &CommentService{commentRepo, postRepo}
}

// ListByPost 返回文章的全部评论，按时间顺序
func (s *CommentService) ListByPost(postID int) ([]*model.Comment, error) {
	comments, err := s.commentRepo.ListByPost(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to list comments", err)
	}
	return comments, nil
}

// AddComment 给文章添加评论，作者取请求者本人
func (s *CommentService) AddComment(requester *model.User, postID int, text string) (*model.Comment, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to find post", err)
	}
	if post == nil {
		return nil, errors.New(errors.ErrPostNotFound, "post not found")
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: requester.ID,
		Text:     text,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to create comment", err)
	}
	return comment, nil
}

// GetCommentOwned 编辑和删除入口的查询：评论必须存在且归请求者所有
func (s *CommentService) GetCommentOwned(requester *model.User, commentID int) (*model.Comment, error) {
	comment, err := s.commentRepo.FindByID(commentID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "failed to find comment", err)
	}
	if comment == nil {
		return nil, errors.New(errors.ErrCommentNotFound, "comment not found")
	}
	if !policy.CanModify(requester, comment.AuthorID) {
		return nil, errors.New(errors.ErrNotOwner, "comment belongs to another user")
	}
	return comment, nil
}

// UpdateComment 更新评论内容，再次校验归属
func (s *CommentService) UpdateComment(requester *model.User, comment *model.Comment) error {
	if _, err := s.GetCommentOwned(requester, comment.ID); err != nil {
		return err
	}
	if err := s.commentRepo.Update(comment); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to update comment", err)
	}
	return nil
}

// DeleteComment 删除评论，再次校验归属
func (s *CommentService) DeleteComment(requester *model.User, commentID int) error {
	if _, err := s.GetCommentOwned(requester, commentID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(commentID); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to delete comment", err)
	}
	return nil
}
