package sqldb

import (
	"blogicum/internal/model"
	"blogicum/internal/util"
	"database/sql"

	"go.uber.org/zap"
)

// 分类和地点属于预置参考数据，仓库只提供读取

// categoryRepository 实现了 CategoryRepository 接口
type categoryRepository struct {
	db *sql.DB
}

// NewCategoryRepository 创建一个新的 categoryRepository 实例
func NewCategoryRepository(db *sql.DB) *categoryRepository {
	return &categoryRepository{db}
}

const categoryColumns = `id, slug, title, description, is_published, created_at`

// FindByID 通过ID查找分类，未找到时返回 nil
func (r *categoryRepository) FindByID(id int) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id).
		Scan(&c.ID, &c.Slug, &c.Title, &c.Description, &c.IsPublished, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查询分类失败", zap.Error(err), zap.Int("category_id", id))
		return nil, err
	}
	return &c, nil
}

// FindBySlug 通过 slug 查找分类，未找到时返回 nil
func (r *categoryRepository) FindBySlug(slug string) (*model.Category, error) {
	var c model.Category
	err := r.db.QueryRow(`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug).
		Scan(&c.ID, &c.Slug, &c.Title, &c.Description, &c.IsPublished, &c.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查询分类失败", zap.Error(err), zap.String("slug", slug))
		return nil, err
	}
	return &c, nil
}

// FindPublished 返回全部已发布分类
func (r *categoryRepository) FindPublished() ([]*model.Category, error) {
	rows, err := r.db.Query(`SELECT ` + categoryColumns + ` FROM categories WHERE is_published = TRUE ORDER BY title ASC`)
	if err != nil {
		util.Logger.Error("查询分类列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Slug, &c.Title, &c.Description, &c.IsPublished, &c.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// locationRepository 实现了 LocationRepository 接口
type locationRepository struct {
	db *sql.DB
}

// NewLocationRepository 创建一个新的 locationRepository 实例
func NewLocationRepository(db *sql.DB) *locationRepository {
	return &locationRepository{db}
}

// FindByID 通过ID查找地点，未找到时返回 nil
func (r *locationRepository) FindByID(id int) (*model.Location, error) {
	var l model.Location
	err := r.db.QueryRow(`SELECT id, name, is_published, created_at FROM locations WHERE id = ?`, id).
		Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		util.Logger.Error("查询地点失败", zap.Error(err), zap.Int("location_id", id))
		return nil, err
	}
	return &l, nil
}

// FindPublished 返回全部已发布地点
func (r *locationRepository) FindPublished() ([]*model.Location, error) {
	rows, err := r.db.Query(`SELECT id, name, is_published, created_at FROM locations WHERE is_published = TRUE ORDER BY name ASC`)
	if err != nil {
		util.Logger.Error("查询地点列表失败", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var locations []*model.Location
	for rows.Next() {
		var l model.Location
		if err := rows.Scan(&l.ID, &l.Name, &l.IsPublished, &l.CreatedAt); err != nil {
			return nil, err
		}
		locations = append(locations, &l)
	}
	return locations, rows.Err()
}
