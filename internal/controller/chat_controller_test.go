package controller

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"civilpass_backend/internal/middleware"
	"civilpass_backend/internal/model"
	"civilpass_backend/internal/prompt"
	"civilpass_backend/internal/repository"
	"civilpass_backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chunkedCompleter struct {
	chunks []string
}

func (c chunkedCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	return strings.Join(c.chunks, ""), nil
}

func (c chunkedCompleter) CompleteStream(ctx context.Context, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error) {
	for _, chunk := range c.chunks {
		onDelta(chunk)
	}
	return strings.Join(c.chunks, ""), nil
}

type noEntities struct{}

func (noEntities) Recognize(ctx context.Context, text string) ([]model.Entity, error) {
	return nil, nil
}

func TestChatController_Stream(t *testing.T) {
	gin.SetMode(gin.TestMode)
	chat := service.NewChatService(
		chunkedCompleter{chunks: []string{"言语理解", "重在抓主旨。"}},
		service.NewKnowledgeGraphBuilder(noEntities{}),
		prompt.MustLoad(),
		repository.NewSessionRepository(repository.NewMemoryKVStore()),
		nil,
		nil,
	)
	ctrl := NewChatController(chat)

	r := gin.New()
	r.Use(middleware.SessionMiddleware())
	r.GET("/api/chat/ws", ctrl.Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws?session=ws-session-01"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(service.AskRequest{Question: "言语理解怎么做？"}))

	var frames []map[string]interface{}
	for {
		var msg map[string]interface{}
		require.NoError(t, conn.ReadJSON(&msg))
		frames = append(frames, msg)
		if msg["type"] == "answer" {
			break
		}
	}

	require.Len(t, frames, 3)
	assert.Equal(t, "delta", frames[0]["type"])
	assert.Equal(t, "言语理解", frames[0]["data"])
	answer := frames[2]["data"].(map[string]interface{})
	assert.Equal(t, "言语理解重在抓主旨。", answer["answer"])
	assert.Equal(t, "ws-session-01", answer["sessionId"])

	require.NoError(t, conn.WriteJSON(service.AskRequest{}))
	var errFrame map[string]interface{}
	require.NoError(t, conn.ReadJSON(&errFrame))
	assert.Equal(t, "error", errFrame["type"])
}

type slowCompleter struct {
	delay time.Duration
}

func (s slowCompleter) Complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	return s.CompleteStream(ctx, messages, func(string) {})
}

func (s slowCompleter) CompleteStream(ctx context.Context, messages []openai.ChatCompletionMessage, onDelta func(string)) (string, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	onDelta("思考完毕。")
	return "思考完毕。", nil
}

func TestChatController_StreamSurvivesSlowAnswer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	origWait, origPeriod := pongWait, pingPeriod
	pongWait, pingPeriod = 300*time.Millisecond, 100*time.Millisecond
	t.Cleanup(func() { pongWait, pingPeriod = origWait, origPeriod })

	chat := service.NewChatService(
		slowCompleter{delay: 800 * time.Millisecond},
		service.NewKnowledgeGraphBuilder(noEntities{}),
		prompt.MustLoad(),
		repository.NewSessionRepository(repository.NewMemoryKVStore()),
		nil,
		nil,
	)
	ctrl := NewChatController(chat)

	r := gin.New()
	r.Use(middleware.SessionMiddleware())
	r.GET("/api/chat/ws", ctrl.Stream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/chat/ws?session=ws-session-02"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	readAnswer := func() map[string]interface{} {
		for {
			var msg map[string]interface{}
			require.NoError(t, conn.ReadJSON(&msg))
			if msg["type"] == "answer" {
				return msg["data"].(map[string]interface{})
			}
			require.Equal(t, "delta", msg["type"])
		}
	}

	for _, q := range []string{"第一个问题", "第二个问题"} {
		require.NoError(t, conn.WriteJSON(service.AskRequest{Question: q}))
		assert.Equal(t, "思考完毕。", readAnswer()["answer"])
	}
}
