package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"mcpguide/mcpguide/config"
	"mcpguide/mcpguide/controllers"
	httputils "mcpguide/mcpguide/utils/http"
	"mcpguide/mcpguide/utils/logging"
	"mcpguide/mcpguide/utils/types"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxChatBody = 1 << 20

// ChatRoutes serves the chat proxy. Mounted at /api/mcp-chat.
func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()
	// every method reaches the handler so the 405 body is JSON like the rest
	r.HandleFunc("/", chatHandler(ctrl))
	r.Get("/ws", streamHandler(ctrl, cfg))
	return r
}

func chatHandler(ctrl *controllers.ChatController) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			httputils.WriteError(w, http.StatusMethodNotAllowed, controllers.MsgMethodNotAllowed)
			return
		}
		if !ctrl.Configured() {
			httputils.WriteError(w, http.StatusInternalServerError, controllers.MsgNotConfigured)
			return
		}

		var req types.ChatProxyRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody))
		// one JSON object and nothing after it
		if err := dec.Decode(&req); err != nil || !atEOF(dec) {
			httputils.WriteError(w, http.StatusBadRequest, controllers.MsgInvalidMessages)
			return
		}
		messages, err := controllers.ParseMessages(req.Messages)
		if err != nil {
			httputils.WriteError(w, http.StatusBadRequest, controllers.MsgInvalidMessages)
			return
		}

		reply, err := ctrl.Reply(r.Context(), messages)
		if err != nil {
			status, msg := controllers.StatusFor(err)
			httputils.WriteError(w, status, msg)
			return
		}
		httputils.WriteJSON(w, http.StatusOK, types.ChatProxyResponse{Message: reply})
	}
}

func atEOF(dec *json.Decoder) bool {
	_, err := dec.Token()
	return err == io.EOF
}

func acceptOptions(cfg config.Config) *websocket.AcceptOptions {
	opts := &websocket.AcceptOptions{}
	for _, origin := range cfg.AllowedOrigins {
		if origin == "*" {
			opts.InsecureSkipVerify = true
			return opts
		}
		host := strings.TrimPrefix(strings.TrimPrefix(origin, "https://"), "http://")
		opts.OriginPatterns = append(opts.OriginPatterns, host)
	}
	return opts
}

// streamHandler reads one {"messages": [...]} frame and streams the reply back
// as chunk frames followed by a done frame.
func streamHandler(ctrl *controllers.ChatController, cfg config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, acceptOptions(cfg))
		if err != nil {
			return
		}
		defer conn.CloseNow()

		ctx := r.Context()
		fail := func(err error) {
			_, msg := controllers.StatusFor(err)
			_ = wsjson.Write(ctx, conn, types.StreamFrame{Type: types.FrameError, Error: msg})
			conn.Close(websocket.StatusPolicyViolation, msg)
		}

		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		if !ctrl.Configured() {
			fail(controllers.ErrNotConfigured)
			return
		}

		var req types.ChatProxyRequest
		if err := json.Unmarshal(data, &req); err != nil {
			fail(controllers.ErrInvalidMessages)
			return
		}
		messages, err := controllers.ParseMessages(req.Messages)
		if err != nil {
			fail(err)
			return
		}

		stream, err := ctrl.Stream(ctx, messages)
		if err != nil {
			_, msg := controllers.StatusFor(err)
			_ = wsjson.Write(ctx, conn, types.StreamFrame{Type: types.FrameError, Error: msg})
			conn.Close(websocket.StatusInternalError, msg)
			return
		}

		sent := 0
		for chunk := range stream.Chunks() {
			if err := wsjson.Write(ctx, conn, types.StreamFrame{Type: types.FrameChunk, Content: chunk}); err != nil {
				if ctx.Err() == nil {
					logging.ErrorLogger.Error("stream write failed", zap.Error(err), zap.String("trace_id", logging.TraceID(ctx)))
				}
				return
			}
			sent++
		}

		fallback, err := ctrl.StreamEnded(ctx, stream, sent)
		if err != nil {
			// a partial answer must not look finished
			_ = wsjson.Write(ctx, conn, types.StreamFrame{Type: types.FrameError, Error: controllers.MsgInternal})
			conn.Close(websocket.StatusInternalError, controllers.MsgInternal)
			return
		}
		if fallback != "" {
			if err := wsjson.Write(ctx, conn, types.StreamFrame{Type: types.FrameChunk, Content: fallback}); err != nil {
				return
			}
		}
		if err := wsjson.Write(ctx, conn, types.StreamFrame{Type: types.FrameDone}); err != nil {
			return
		}
		conn.Close(websocket.StatusNormalClosure, "")
	}
}
