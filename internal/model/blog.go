package model

import "time"

// Category 文章分类，属于共享参照数据，不归属任何用户
type Category struct {
	ID          int       `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// Location 可选的地点标签
type Location struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	IsPublished bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
}

// Post 文章，作者在创建后不可变更
type Post struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	PubDate     time.Time `json:"pub_date"`
	IsPublished bool      `json:"is_published"`
	AuthorID    int       `json:"author_id"`
	CategoryID  int       `json:"category_id"`
	LocationID  *int      `json:"location_id,omitempty"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`

	Author       *User     `json:"author,omitempty"`
	Category     *Category `json:"category,omitempty"`
	Location     *Location `json:"location,omitempty"`
	CommentCount int       `json:"comment_count"`
}

// Comment 评论，作者在创建后不可变更
type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	AuthorID  int       `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`

	Author *User `json:"author,omitempty"`
}

// PostPage 一页文章列表及分页信息
type PostPage struct {
	Posts    []*Post `json:"posts"`
	Total    int     `json:"total"`
	Page     int     `json:"page"`
	NumPages int     `json:"num_pages"`
}

// HasPrev 是否存在上一页
func (p *PostPage) HasPrev() bool {
	return p.Page > 1
}

// HasNext 是否存在下一页
func (p *PostPage) HasNext() bool {
	return p.Page < p.NumPages
}

// PrevPage 上一页页码
func (p *PostPage) PrevPage() int {
	return p.Page - 1
}

// NextPage 下一页页码
func (p *PostPage) NextPage() int {
	return p.Page + 1
}
