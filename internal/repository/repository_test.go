package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.EssayReview{}, &model.QARecord{}, &model.UploadRecord{}))
	return db
}

func TestEssayReviewRepository(t *testing.T) {
	repo := NewEssayReviewRepository(newTestDB(t))

	review := &model.EssayReview{
		SessionID:   "s1",
		Original:    "原文",
		TargetScore: 90,
		MaxRounds:   3,
		FinalTotal:  85,
		Outcome:     model.OutcomeExhausted,
		Rounds: []model.Round{
			{Round: 1, Essay: "原文", Feedback: "切题程度（10分）：8", Scores: model.ScoreSheet{"切题程度": 8}, Total: 8, ScoresExtracted: true},
			{Round: 2, Essay: "改写", Feedback: "无分数"},
		},
	}
	require.NoError(t, repo.Create(review))
	require.NotZero(t, review.ID)

	got, err := repo.FindByID(review.ID)
	require.NoError(t, err)
	assert.Len(t, got.Rounds, 2)
	assert.Equal(t, 8, got.Rounds[0].Scores["切题程度"])
	assert.Equal(t, "改写", got.Rounds[1].Essay)

	list, err := repo.FindBySession("s1", 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.FindByID(9999)
	assert.ErrorIs(t, err, util.ErrReviewNotFound)
}

func TestQARepository(t *testing.T) {
	repo := NewQARepository(newTestDB(t))

	require.NoError(t, repo.Create(&model.QARecord{SessionID: "a", Question: "q1", Answer: "a1"}))
	require.NoError(t, repo.Create(&model.QARecord{SessionID: "a", Question: "q2", Answer: "a2"}))
	require.NoError(t, repo.Create(&model.QARecord{SessionID: "b", Question: "q3", Answer: "a3"}))

	records, err := repo.FindBySession("a", 10)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, repo.DeleteBySession("a"))
	records, err = repo.FindBySession("a", 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUploadRecordRepository(t *testing.T) {
	repo := NewUploadRecordRepository(newTestDB(t))

	require.NoError(t, repo.CreateBatch([]model.UploadRecord{
		{Category: "学习笔记", Key: "学习笔记/1_a.pdf", Status: model.UploadPending},
		{Category: "错题集", Key: "错题集/1_b.png", Status: model.UploadPending},
	}))
	require.NoError(t, repo.CreateBatch(nil))

	pending, err := repo.FindByStatus(model.UploadPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	n, err := repo.CountByCategory("错题集")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	require.NoError(t, repo.UpdateStatus(pending[0].ID, model.UploadApproved))
	pending, err = repo.FindByStatus(model.UploadPending)
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	assert.ErrorIs(t, repo.UpdateStatus(9999, model.UploadApproved), util.ErrObjectNotFound)
}

func TestMemoryKVStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	v, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), v)

	now = now.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(NewMemoryKVStore())

	sess, err := repo.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.ID)
	assert.Empty(t, sess.Messages)
	assert.Equal(t, -1, sess.EditingIndex)

	sess.Messages = append(sess.Messages, model.ChatMessage{Role: "user", Content: "你好"})
	require.NoError(t, repo.Save(ctx, sess))

	loaded, err := repo.Load(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "你好", loaded.Messages[0].Content)

	require.NoError(t, repo.Delete(ctx, "abc"))
	loaded, err = repo.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Empty(t, loaded.Messages)
}
