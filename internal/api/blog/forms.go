package blog

import (
	"blogicum/internal/model"
	"blogicum/internal/util"
)

// PostForm 创建和编辑文章的表单数据
type PostForm struct {
	Title       string `form:"title" binding:"required,max=256"`
	Text        string `form:"text" binding:"required"`
	PubDate     string `form:"pub_date" binding:"required,datetime_local"`
	CategoryID  int    `form:"category" binding:"required"`
	LocationID  int    `form:"location"`
	IsPublished bool   `form:"is_published"`
}

// CommentForm 添加和编辑评论的表单数据
type CommentForm struct {
	Text string `form:"text" binding:"required"`
}

// toPost 把表单数据装配成文章模型。封面图在处理器里单独处理。
func (f PostForm) toPost() (*model.Post, error) {
	pubDate, err := util.ParseDateTimeLocal(f.PubDate)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:       f.Title,
		Text:        f.Text,
		PubDate:     pubDate,
		IsPublished: f.IsPublished,
		CategoryID:  f.CategoryID,
	}
	if f.LocationID > 0 {
		locationID := f.LocationID
		post.LocationID = &locationID
	}
	return post, nil
}

// formFromPost 编辑页回显用，把已有文章装回表单
func formFromPost(post *model.Post) PostForm {
	form := PostForm{
		Title:       post.Title,
		Text:        post.Text,
		PubDate:     post.PubDate.Format(util.DateTimeLocalLayout),
		CategoryID:  post.CategoryID,
		IsPublished: post.IsPublished,
	}
	if post.LocationID != nil {
		form.LocationID = *post.LocationID
	}
	return form
}
