package controller

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"civilpass_backend/internal/middleware"
	"civilpass_backend/internal/service"
	"civilpass_backend/internal/util"
	"civilpass_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 * 1024
)

var (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSMessage 问答流推送帧：delta 为回答片段，answer 为完整结果
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// ChatController 智能问答
type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// Ask godoc
// @Summary 智能问答
// @Description 结合会话历史提问，可附带题目图片；回答附带知识图谱节点与边
// @Tags 智能问答
// @Accept json
// @Produce json
// @Param X-Session-ID header string false "会话ID"
// @Param request body service.AskRequest true "问题内容"
// @Success 200 {object} util.Response{data=service.AskResponse}
// @Failure 400 {object} util.Response
// @Router /chat/ask [post]
func (ctrl *ChatController) Ask(c *gin.Context) {
	var req service.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	resp, err := ctrl.ChatService.Ask(c.Request.Context(), middleware.SessionID(c), req)
	if err != nil {
		if errors.Is(err, util.ErrEmptyContent) {
			util.BadRequest(c, "请输入问题或上传图片")
			return
		}
		respondError(c, err)
		return
	}
	util.Success(c, resp)
}

// Stream godoc
// @Summary 流式问答（WebSocket）
// @Description 每条客户端消息为一个 AskRequest；服务端依次推送 delta 片段与最终 answer
// @Tags 智能问答
// @Param X-Session-ID header string false "会话ID"
// @Success 101 {string} string "Switching Protocols"
// @Router /chat/ws [get]
func (ctrl *ChatController) Stream(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	// 同一连接只允许一个写者，心跳与回答推送共用锁
	var writeMu sync.Mutex
	send := func(msg WSMessage) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		return conn.WriteJSON(msg)
	}

	// 读取独立于回答生成，生成期间仍能处理 pong 并续期读超时
	requests := make(chan service.AskRequest)
	go ctrl.readPump(ctx, cancel, conn, sessionID, requests)

	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				writeMu.Lock()
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := conn.WriteMessage(websocket.PingMessage, nil)
				writeMu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for req := range requests {
		resp, err := ctrl.ChatService.AskStream(ctx, sessionID, req, func(delta string) {
			send(WSMessage{Type: "delta", Data: delta})
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			msg := err.Error()
			if errors.Is(err, util.ErrEmptyContent) {
				msg = "请输入问题或上传图片"
			}
			if err := send(WSMessage{Type: "error", Data: msg}); err != nil {
				return
			}
			continue
		}
		if err := send(WSMessage{Type: "answer", Data: resp}); err != nil {
			return
		}
	}
}

// readPump 逐条读取客户端请求；连接断开或超时后关闭 requests 并取消进行中的回答
func (ctrl *ChatController) readPump(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sessionID string, requests chan<- service.AskRequest) {
	defer close(requests)
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		var req service.AskRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Log.Warn("WebSocket unexpected close", zap.String("session", sessionID), zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		select {
		case requests <- req:
		case <-ctx.Done():
			return
		}
	}
}

// UploadImage godoc
// @Summary 上传题目图片
// @Description 仅支持 jpg/jpeg/png，宽度超过 1200 时等比缩放
// @Tags 智能问答
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "图片"
// @Success 200 {object} util.Response
// @Router /chat/images [post]
func (ctrl *ChatController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		util.BadRequest(c, "请选择图片")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	defer src.Close()

	url, err := ctrl.ChatService.UploadImage(c.Request.Context(), file.Filename, src)
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, gin.H{"url": url})
}

// GetSession godoc
// @Summary 当前会话
// @Tags 智能问答
// @Produce json
// @Param X-Session-ID header string false "会话ID"
// @Success 200 {object} util.Response{data=model.ChatSession}
// @Router /chat/session [get]
func (ctrl *ChatController) GetSession(c *gin.Context) {
	sess, err := ctrl.ChatService.Session(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, sess)
}

// History godoc
// @Summary 问答历史
// @Tags 智能问答
// @Produce json
// @Param X-Session-ID header string false "会话ID"
// @Success 200 {object} util.Response{data=[]model.QARecord}
// @Router /chat/history [get]
func (ctrl *ChatController) History(c *gin.Context) {
	records, err := ctrl.ChatService.History(c.Request.Context(), middleware.SessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, records)
}

// ResetSession godoc
// @Summary 清空会话
// @Tags 智能问答
// @Produce json
// @Param X-Session-ID header string false "会话ID"
// @Success 200 {object} util.Response
// @Router /chat/session [delete]
func (ctrl *ChatController) ResetSession(c *gin.Context) {
	if err := ctrl.ChatService.ResetSession(c.Request.Context(), middleware.SessionID(c)); err != nil {
		respondError(c, err)
		return
	}
	util.Success(c, nil)
}
