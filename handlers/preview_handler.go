package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"vectormag-cms/helper"
	"vectormag-cms/models"
	"vectormag-cms/services"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 512 * 1024
)

type PreviewHandler struct {
	articleService services.ArticleService
	Helper         *helper.HTTPHelper
	upgrader       websocket.Upgrader
	log            zerolog.Logger
}

func NewPreviewHandler(articleService services.ArticleService, h *helper.HTTPHelper, allowedOrigins []string) *PreviewHandler {
	return &PreviewHandler{
		articleService: articleService,
		Helper:         h,
		upgrader:       websocket.Upgrader{CheckOrigin: originChecker(allowedOrigins)},
		log:            h.Logger.With().Str("component", "live_preview").Logger(),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set[origin]
	}
}

// Preview renders a document from the request body without storing it.
func (h *PreviewHandler) Preview(c *gin.Context) {
	var req models.PreviewRequest
	if !h.Helper.BindAndValidate(c, &req) {
		return
	}

	resp, err := h.articleService.Preview(req.Content)
	if err != nil {
		h.Helper.SendServiceError(c, err)
		return
	}

	h.Helper.SendSuccess(c, "Success", resp)
}

// Live upgrades to a WebSocket. Every text message is a document; every
// reply is its rendered preview or an error.
func (h *PreviewHandler) Live(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &previewClient{
		render: h.articleService.Preview,
		conn:   conn,
		send:   make(chan []byte, 16),
		log:    h.log,
	}
	go client.WritePump()
	go client.ReadPump()
}

type previewReply struct {
	Preview *models.PreviewResponse `json:"preview,omitempty"`
	Error   string                  `json:"error,omitempty"`
}

type previewClient struct {
	render func([]byte) (*models.PreviewResponse, error)
	conn   *websocket.Conn
	send   chan []byte
	log    zerolog.Logger
}

// ReadPump renders each incoming document and queues the reply.
func (p *previewClient) ReadPump() {
	defer func() {
		close(p.send)
		p.conn.Close()
	}()

	p.conn.SetReadLimit(maxMsgSize)
	p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		p.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.log.Warn().Err(err).Msg("live preview read error")
			}
			return
		}

		var reply previewReply
		if resp, err := p.render(data); err != nil {
			reply.Error = err.Error()
		} else {
			reply.Preview = resp
		}

		encoded, err := json.Marshal(reply)
		if err != nil {
			p.log.Error().Err(err).Msg("encode preview reply")
			continue
		}

		select {
		case p.send <- encoded:
		default:
			// slow reader; the next document supersedes this one
		}
	}
}

// WritePump writes queued replies and keeps the connection alive.
func (p *previewClient) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		p.conn.Close()
	}()

	for {
		select {
		case data, ok := <-p.send:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				p.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := p.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			p.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := p.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
