package policy

import (
	"strconv"
	"time"
)

// PageSize 每页文章数，与列表页的固定分页一致
const PageSize = 10

// PostListQuery 是静态定义的文章列表查询：
// 条件、排序和分页在构造时一次确定，由仓库层渲染为 SQL。
type PostListQuery struct {
	VisibleOnly bool      // 是否应用可见性条件
	Now         time.Time // 可见性条件中发布时间的截止值
	AuthorID    int       // 大于 0 时按作者过滤
	CategoryID  int       // 大于 0 时按分类过滤
	Page        int
	PageSize    int
}

// IndexQuery 主页列表：全部可见文章
func IndexQuery(now time.Time, page int) PostListQuery {
	return PostListQuery{
		VisibleOnly: true,
		Now:         now,
		Page:        page,
		PageSize:    PageSize,
	}
}

// CategoryQuery 分类列表：指定分类下的可见文章。
// 分类本身是否存在、是否已发布由调用方先行检查。
func CategoryQuery(categoryID int, now time.Time, page int) PostListQuery {
	return PostListQuery{
		VisibleOnly: true,
		Now:         now,
		CategoryID:  categoryID,
		Page:        page,
		PageSize:    PageSize,
	}
}

// ProfileQuery 个人主页列表：该作者的全部文章。
// 注意：个人主页对任何访问者都不应用可见性条件，未发布和
// 定时发布的文章同样列出，与线上行为保持一致。
func ProfileQuery(authorID int, page int) PostListQuery {
	return PostListQuery{
		AuthorID: authorID,
		Page:     page,
		PageSize: PageSize,
	}
}

// Offset 返回当前页在结果集中的偏移量
func (q PostListQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// ParsePage 解析 ?page= 参数。缺省为第 1 页；
// 非数字或小于 1 的值视为页码不存在。
func ParsePage(raw string) (int, bool) {
	if raw == "" {
		return 1, true
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, false
	}
	return page, true
}

// NumPages 计算总页数。没有结果时也存在一个空页。
func NumPages(total, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// PageInRange 判断页码是否落在结果范围内，超出范围按不存在处理
func PageInRange(page, total, pageSize int) bool {
	return page >= 1 && page <= NumPages(total, pageSize)
}
