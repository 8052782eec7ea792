package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"civilpass_backend/internal/model"
	"civilpass_backend/internal/prompt"
	"civilpass_backend/internal/repository"
	"civilpass_backend/internal/util"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockQARecorder struct {
	records []*model.QARecord
}

func (m *mockQARecorder) Create(record *model.QARecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockQARecorder) FindBySession(sessionID string, limit int) ([]model.QARecord, error) {
	out := []model.QARecord{}
	for _, r := range m.records {
		if r.SessionID == sessionID && len(out) < limit {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (m *mockQARecorder) DeleteBySession(sessionID string) error {
	kept := m.records[:0]
	for _, r := range m.records {
		if r.SessionID != sessionID {
			kept = append(kept, r)
		}
	}
	m.records = kept
	return nil
}

func newTestChatService(completer *MockCompleter, rec *MockRecognizer) (*ChatService, *mockQARecorder, *MockStorageProvider) {
	recorder := &mockQARecorder{}
	provider := NewMockStorageProvider()
	svc := NewChatService(
		completer,
		NewKnowledgeGraphBuilder(rec),
		prompt.MustLoad(),
		repository.NewSessionRepository(repository.NewMemoryKVStore()),
		recorder,
		NewStorageServiceWithProvider(provider, nil),
	)
	return svc, recorder, provider
}

func TestChatAskSplitsAnswerAndGraph(t *testing.T) {
	completer := &MockCompleter{Response: "宪法是国家的根本法。\n```json\n" +
		`{"knowledge_graph":{"nodes":[{"id":1,"label":"宪法"},{"id":2,"label":"根本法"}],"edges":[{"from":1,"to":2,"relation":"属于"}]}}` +
		"\n```"}
	svc, recorder, _ := newTestChatService(completer, &MockRecognizer{})

	resp, err := svc.Ask(context.Background(), "s1", AskRequest{Question: "什么是宪法？"})
	require.NoError(t, err)

	assert.Equal(t, "宪法是国家的根本法。", resp.Answer)
	assert.Len(t, resp.Nodes, 2)
	assert.Len(t, resp.Edges, 1)
	require.Len(t, recorder.records, 1)
	assert.Equal(t, 2, recorder.records[0].NodeCount)

	sess, err := svc.Session(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, sess.Messages, 2)
	assert.Equal(t, "user", sess.Messages[0].Role)
	assert.Equal(t, "assistant", sess.Messages[1].Role)
}

func TestChatAskCarriesHistoryAndGraphicAppendix(t *testing.T) {
	completer := &MockCompleter{Response: "回答"}
	svc, _, _ := newTestChatService(completer, &MockRecognizer{})
	ctx := context.Background()

	_, err := svc.Ask(ctx, "s1", AskRequest{Question: "第一问"})
	require.NoError(t, err)
	_, err = svc.Ask(ctx, "s1", AskRequest{Question: "这组图形的规律是什么？"})
	require.NoError(t, err)

	require.Len(t, completer.Calls, 2)
	assert.NotContains(t, completer.Calls[0][0].Content, "图形推理类")
	second := completer.Calls[1]
	assert.Contains(t, second[0].Content, "图形推理类")
	require.Len(t, second, 4)
	assert.Equal(t, "第一问", second[1].Content)
	assert.Equal(t, "回答", second[2].Content)
}

func TestChatAskImageOnly(t *testing.T) {
	completer := &MockCompleter{Response: "图片中是一道数量关系题。"}
	svc, _, _ := newTestChatService(completer, &MockRecognizer{})

	resp, err := svc.Ask(context.Background(), "s1", AskRequest{ImageURL: "https://x/y.png"})
	require.NoError(t, err)

	assert.Equal(t, "（仅上传图片）", resp.Messages[0].Content)
	last := completer.Calls[0][len(completer.Calls[0])-1]
	require.Len(t, last.MultiContent, 1)
	assert.Equal(t, openai.ChatMessagePartTypeImageURL, last.MultiContent[0].Type)
}

func TestChatAskRejectsEmpty(t *testing.T) {
	svc, _, _ := newTestChatService(&MockCompleter{}, &MockRecognizer{})

	_, err := svc.Ask(context.Background(), "s1", AskRequest{Question: "  "})
	assert.ErrorIs(t, err, util.ErrEmptyContent)
}

func TestChatAskEditTruncatesHistory(t *testing.T) {
	completer := &MockCompleter{ResponseQueue: []string{"答1", "答2", "答3"}}
	svc, _, _ := newTestChatService(completer, &MockRecognizer{})
	ctx := context.Background()

	_, _ = svc.Ask(ctx, "s1", AskRequest{Question: "问1"})
	_, _ = svc.Ask(ctx, "s1", AskRequest{Question: "问2"})

	idx := 2
	resp, err := svc.Ask(ctx, "s1", AskRequest{Question: "问2（修改）", EditIndex: &idx})
	require.NoError(t, err)

	require.Len(t, resp.Messages, 4)
	assert.Equal(t, "问2（修改）", resp.Messages[2].Content)
	assert.Equal(t, "答3", resp.Messages[3].Content)
}

func TestChatAskFailureBecomesMarker(t *testing.T) {
	svc, _, _ := newTestChatService(&MockCompleter{Err: errors.New("401 Unauthorized")}, &MockRecognizer{})

	resp, err := svc.Ask(context.Background(), "s1", AskRequest{Question: "问题"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Answer, util.MarkerAIParseFailed))
	assert.Empty(t, resp.Nodes)
}

func TestChatResetSession(t *testing.T) {
	svc, _, _ := newTestChatService(&MockCompleter{Response: "答"}, &MockRecognizer{})
	ctx := context.Background()

	_, _ = svc.Ask(ctx, "s1", AskRequest{Question: "问"})
	_, _ = svc.Ask(ctx, "s2", AskRequest{Question: "另一个会话"})

	history, err := svc.History(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "问", history[0].Question)

	require.NoError(t, svc.ResetSession(ctx, "s1"))

	sess, err := svc.Session(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, sess.Messages)

	history, err = svc.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = svc.History(ctx, "s2")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestChatUploadImage(t *testing.T) {
	svc, _, provider := newTestChatService(&MockCompleter{}, &MockRecognizer{})

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1600, 800))))

	url, err := svc.UploadImage(context.Background(), "题目 1.png", &buf)
	require.NoError(t, err)
	assert.Contains(t, url, "civilpass/images/")

	keys := provider.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasSuffix(keys[0], "_题目_1.png"))

	img, _, err := image.Decode(bytes.NewReader(provider.Objects[keys[0]]))
	require.NoError(t, err)
	assert.Equal(t, 1200, img.Bounds().Dx())

	_, err = svc.UploadImage(context.Background(), "a.gif", &buf)
	assert.ErrorIs(t, err, util.ErrInvalidFileType)

	_, err = svc.UploadImage(context.Background(), "fake.png", strings.NewReader("not an image at all"))
	assert.ErrorIs(t, err, util.ErrInvalidFileType)
	assert.Len(t, provider.Keys(), 1)
}

func TestChatAskStreamForwardsDeltas(t *testing.T) {
	completer := &MockCompleter{Response: "资料分析要先看时间与单位。"}
	svc, _, _ := newTestChatService(completer, &MockRecognizer{})

	var deltas []string
	resp, err := svc.AskStream(context.Background(), "s2", AskRequest{Question: "资料分析怎么做？"}, func(d string) {
		deltas = append(deltas, d)
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"资料分析要先看时间与单位。"}, deltas)
	assert.Equal(t, "资料分析要先看时间与单位。", resp.Answer)

	sess, err := svc.Session(context.Background(), "s2")
	require.NoError(t, err)
	assert.Len(t, sess.Messages, 2)
}
