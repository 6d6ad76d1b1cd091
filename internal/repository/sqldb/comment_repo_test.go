package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCommentCreateAndList 评论创建后按时间顺序列出，带作者信息
func TestCommentCreateAndList(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author")
	reader := createTestUser(t, db, "reader")
	cat := createTestCategory(t, db, "tech", true)
	post := createTestPost(t, db, author.ID, cat.ID, baseTime, true)

	first := createTestComment(t, db, post.ID, reader.ID, "沙发")
	second := createTestComment(t, db, post.ID, author.ID, "谢谢支持")

	comments, err := NewCommentRepository(db).ListByPost(post.ID)
	assert.NoError(t, err)
	if assert.Len(t, comments, 2) {
		assert.Equal(t, first.ID, comments[0].ID)
		assert.Equal(t, "沙发", comments[0].Text)
		assert.Equal(t, "reader", comments[0].Author.Username)
		assert.Equal(t, second.ID, comments[1].ID)
		assert.Equal(t, "author", comments[1].Author.Username)
	}
}

// TestCommentFindUpdateDelete 评论的查改删
func TestCommentFindUpdateDelete(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author")
	cat := createTestCategory(t, db, "tech", true)
	post := createTestPost(t, db, author.ID, cat.ID, baseTime, true)
	comment := createTestComment(t, db, post.ID, author.ID, "原始内容")

	repo := NewCommentRepository(db)

	found, err := repo.FindByID(comment.ID)
	assert.NoError(t, err)
	if assert.NotNil(t, found) {
		assert.Equal(t, "原始内容", found.Text)
		assert.Equal(t, post.ID, found.PostID)
	}

	found.Text = "修改后的内容"
	assert.NoError(t, repo.Update(found))
	found, err = repo.FindByID(comment.ID)
	assert.NoError(t, err)
	assert.Equal(t, "修改后的内容", found.Text)

	assert.NoError(t, repo.Delete(comment.ID))
	found, err = repo.FindByID(comment.ID)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

// TestCommentFindMissing 不存在的评论返回 nil
func TestCommentFindMissing(t *testing.T) {
	db := openTestDB(t)

	found, err := NewCommentRepository(db).FindByID(12345)
	assert.NoError(t, err)
	assert.Nil(t, found)
}

// TestCommentListEmpty 没有评论的文章返回空列表
func TestCommentListEmpty(t *testing.T) {
	db := openTestDB(t)
	author := createTestUser(t, db, "author")
	cat := createTestCategory(t, db, "tech", true)
	post := createTestPost(t, db, author.ID, cat.ID, baseTime, true)

	comments, err := NewCommentRepository(db).ListByPost(post.ID)
	assert.NoError(t, err)
	assert.Len(t, comments, 0)
}
