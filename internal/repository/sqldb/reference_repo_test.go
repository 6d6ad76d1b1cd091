package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCategoryFindBySlug 按 slug 查分类，发布状态由上层判断
func TestCategoryFindBySlug(t *testing.T) {
	db := openTestDB(t)
	createTestCategory(t, db, "tech", true)
	createTestCategory(t, db, "draft", false)

	repo := NewCategoryRepository(db)

	found, err := repo.FindBySlug("tech")
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.True(t, found.IsPublished)
	}

	hidden, err := repo.FindBySlug("draft")
	assert.NoError(t, err)
	if assert.NotNil(t, hidden) {
		assert.False(t, hidden.IsPublished)
	}

	missing, err := repo.FindBySlug("nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

// TestCategoryFindPublished 只返回已发布分类，按标题排序
func TestCategoryFindPublished(t *testing.T) {
	db := openTestDB(t)
	createTestCategory(t, db, "b-life", true)
	createTestCategory(t, db, "a-tech", true)
	createTestCategory(t, db, "draft", false)

	categories, err := NewCategoryRepository(db).FindPublished()
	assert.NoError(t, err)
	if assert.Len(t, categories, 2) {
		assert.Equal(t, "a-tech", categories[0].Slug)
		assert.Equal(t, "b-life", categories[1].Slug)
	}
}

// TestLocationFind 地点查询
func TestLocationFind(t *testing.T) {
	db := openTestDB(t)
	visible := createTestLocation(t, db, "上海", true)
	createTestLocation(t, db, "内部地点", false)

	repo := NewLocationRepository(db)

	found, err := repo.FindByID(visible.ID)
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.Equal(t, "上海", found.Name)
	}

	missing, err := repo.FindByID(999)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	published, err := repo.FindPublished()
	assert.NoError(t, err)
	if assert.Len(t, published, 1) {
		assert.Equal(t, "上海", published[0].Name)
	}
}

// TestMigrateAndSeedIdempotent 建表和预置数据可重复执行
func TestMigrateAndSeedIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Migrate(db, "sqlite"))

	assert.NoError(t, Seed(db, "sqlite"))
	assert.NoError(t, Seed(db, "sqlite"))

	var categories, locations int
	assert.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM categories`).Scan(&categories))
	assert.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM locations`).Scan(&locations))
	assert.Equal(t, len(seedCategories), categories)
	assert.Equal(t, len(seedLocations), locations)
}
