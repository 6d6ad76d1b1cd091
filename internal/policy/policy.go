// Package policy 集中了文章可见性与资源归属的全部判定规则。
// 所有处理器和服务都通过这里的函数做判断，避免规则散落各处。
package policy

import (
	"time"

	"blogicum/internal/model"
)

// Visible 判断一篇文章对普通访问者是否可见：
// 文章已发布、发布时间不晚于 now、且所属分类已发布。
func Visible(post *model.Post, now time.Time) bool {
	if post == nil {
		return false
	}
	if !post.IsPublished || post.PubDate.After(now) {
		return false
	}
	return post.Category != nil && post.Category.IsPublished
}

// CanView 判断请求者能否查看指定文章。
// 作者查看自己的文章时绕过可见性判定，未发布或定时发布的文章也可见。
func CanView(requester *model.User, post *model.Post, now time.Time) bool {
	if post == nil {
		return false
	}
	if requester != nil && requester.ID == post.AuthorID {
		return true
	}
	return Visible(post, now)
}

// CanModify 归属检查：只有资源的作者本人才能编辑或删除。
// 检查失败时调用方应当软重定向到资源详情页，而不是返回 403。
func CanModify(requester *model.User, authorID int) bool {
	return requester != nil && requester.ID == authorID
}
