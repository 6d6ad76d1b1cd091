package sqldb

import (
	"blogicum/internal/common"
	"blogicum/internal/model"
	"blogicum/internal/policy"
	"blogicum/internal/util"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"
)

// postRepository 实现了 PostRepository 接口
type postRepository struct {
	db *sql.DB
}

// NewPostRepository 创建一个新的 postRepository 实例
func NewPostRepository(db *sql.DB) *postRepository {
	return &postRepository{db}
}

// 文章查询统一带出作者、分类、地点和评论数
const postColumns = `
	p.id, p.title, p.text, p.pub_date, p.is_published, p.author_id, p.category_id, p.location_id, p.image_url, p.created_at,
	u.id, u.username, u.first_name, u.last_name, u.email,
	c.id, c.slug, c.title, c.description, c.is_published, c.created_at,
	l.id, l.name, l.is_published,
	(SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id) AS comment_count`

const postJoins = `
	FROM posts p
	JOIN users u ON p.author_id = u.id
	JOIN categories c ON p.category_id = c.id
	LEFT JOIN locations l ON p.location_id = l.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*model.Post, error) {
	var post model.Post
	var author model.User
	var category model.Category
	var locationID sql.NullInt64
	var locID sql.NullInt64
	var locName sql.NullString
	var locPublished sql.NullBool

	err := row.Scan(
		&post.ID, &post.Title, &post.Text, &post.PubDate, &post.IsPublished,
		&post.AuthorID, &post.CategoryID, &locationID, &post.ImageURL, &post.CreatedAt,
		&author.ID, &author.Username, &author.FirstName, &author.LastName, &author.Email,
		&category.ID, &category.Slug, &category.Title, &category.Description, &category.IsPublished, &category.CreatedAt,
		&locID, &locName, &locPublished,
		&post.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	if locationID.Valid {
		id := int(locationID.Int64)
		post.LocationID = &id
	}
	post.Author = &author
	post.Category = &category
	if locID.Valid {
		post.Location = &model.Location{
			ID:          int(locID.Int64),
			Name:        locName.String,
			IsPublished: locPublished.Bool,
		}
	}
	return &post, nil
}

// Create 创建文章，写入失败时对临时性错误做有限重试
func (r *postRepository) Create(post *model.Post) error {
	post.CreatedAt = time.Now()
	var locationID any
	if post.LocationID != nil {
		locationID = *post.LocationID
	}

	err := common.WithRetry(func() error {
		query := `INSERT INTO posts (title, text, pub_date, is_published, author_id, category_id, location_id, image_url, created_at)
                  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		result, err := r.db.Exec(query,
			post.Title, post.Text, post.PubDate, post.IsPublished,
			post.AuthorID, post.CategoryID, locationID, post.ImageURL, post.CreatedAt)
		if err != nil {
			return err
		}
		id, err := result.LastInsertId()
		if err != nil {
			return err
		}
		post.ID = int(id)
		return nil
	}, 3)
	if err != nil {
		util.Logger.Error("创建文章失败", zap.Error(err), zap.Int("author_id", post.AuthorID))
		return err
	}
	util.Logger.Info("文章创建成功", zap.Int("post_id", post.ID), zap.Int("author_id", post.AuthorID))
	return nil
}

// FindByID 查询文章详情，未找到时返回 nil
func (r *postRepository) FindByID(id int) (*model.Post, error) {
	query := `SELECT ` + postColumns + postJoins + ` WHERE p.id = ?`
	post, err := scanPost(r.db.QueryRow(query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查询文章失败", zap.Error(err), zap.Int("post_id", id))
		return nil, err
	}
	return post, nil
}

// Update 更新文章内容，作者字段不允许变更
func (r *postRepository) Update(post *model.Post) error {
	var locationID any
	if post.LocationID != nil {
		locationID = *post.LocationID
	}
	_, err := r.db.Exec(`
		UPDATE posts
		SET title = ?, text = ?, pub_date = ?, is_published = ?, category_id = ?, location_id = ?, image_url = ?
		WHERE id = ?`,
		post.Title, post.Text, post.PubDate, post.IsPublished,
		post.CategoryID, locationID, post.ImageURL, post.ID)
	if err != nil {
		util.Logger.Error("更新文章失败", zap.Error(err), zap.Int("post_id", post.ID))
		return err
	}
	util.Logger.Info("文章更新成功", zap.Int("post_id", post.ID))
	return nil
}

// Delete 删除文章及其全部评论
func (r *postRepository) Delete(id int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE post_id = ?`, id); err != nil {
		util.Logger.Error("删除文章评论失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}
	if _, err := tx.Exec(`DELETE FROM posts WHERE id = ?`, id); err != nil {
		util.Logger.Error("删除文章失败", zap.Error(err), zap.Int("post_id", id))
		return err
	}

	if err := tx.Commit(); err != nil {
		util.Logger.Error("提交事务失败", zap.Error(err))
		return err
	}
	util.Logger.Info("文章删除成功", zap.Int("post_id", id))
	return nil
}

// List 按查询条件返回当前页的文章和总条数
func (r *postRepository) List(q policy.PostListQuery) ([]*model.Post, int, error) {
	where, args := buildPostFilter(q)

	var total int
	countQuery := `SELECT COUNT(*) FROM posts p JOIN categories c ON p.category_id = c.id` + where
	if err := r.db.QueryRow(countQuery, args...).Scan(&total); err != nil {
		util.Logger.Error("统计文章数量失败", zap.Error(err))
		return nil, 0, err
	}

	listQuery := `SELECT ` + postColumns + postJoins + where + `
	ORDER BY p.pub_date DESC
	LIMIT ? OFFSET ?`
	rows, err := r.db.Query(listQuery, append(args, q.PageSize, q.Offset())...)
	if err != nil {
		util.Logger.Error("查询文章列表失败", zap.Error(err))
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*model.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// buildPostFilter 把类型化查询条件渲染成 WHERE 子句
func buildPostFilter(q policy.PostListQuery) (string, []any) {
	var conds []string
	var args []any

	if q.VisibleOnly {
		conds = append(conds, "p.is_published = TRUE", "p.pub_date <= ?", "c.is_published = TRUE")
		args = append(args, q.Now)
	}
	if q.AuthorID != 0 {
		conds = append(conds, "p.author_id = ?")
		args = append(args, q.AuthorID)
	}
	if q.CategoryID != 0 {
		conds = append(conds, "p.category_id = ?")
		args = append(args, q.CategoryID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
