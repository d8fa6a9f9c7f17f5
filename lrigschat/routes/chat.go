// lrigschat/routes/chat.go
package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"lrigschat/lrigschat/config"
	"lrigschat/lrigschat/controllers"
	"lrigschat/lrigschat/middlewares"
	"lrigschat/lrigschat/services/mistral"
	"lrigschat/lrigschat/types"
	"lrigschat/lrigschat/utils/images"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

func ChatRoutes(ctrl *controllers.ChatController, cfg config.Config) chi.Router {
	r := chi.NewRouter()

	// POST /chat : send one turn, JSON or multipart (with image)
	r.Post("/", func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeChatRequest(r, cfg)
		if err != nil {
			writeError(w, err)
			return
		}
		store := middlewares.StoreFrom(r.Context())
		resp, err := ctrl.Send(r.Context(), store, req)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	})

	// GET /chat/ws : one streamed turn per connection
	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		store := middlewares.StoreFrom(r.Context())
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusInternalError, "internal error")

		ctx := r.Context()
		typ, data, err := conn.Read(ctx)
		if err != nil {
			return
		}
		if typ != websocket.MessageText {
			conn.Close(websocket.StatusUnsupportedData, "unsupported data")
			return
		}
		var req types.ChatRequest
		if err := json.Unmarshal(data, &req); err != nil {
			writeWSEvent(ctx, conn, wsEvent{Type: "error", Kind: "bad_request", Error: "invalid json"})
			return
		}

		resp, err := ctrl.SendStream(ctx, store, req, func(chunk string) error {
			return writeWSEvent(ctx, conn, wsEvent{Type: "chunk", Content: chunk})
		})
		if err != nil {
			writeWSEvent(ctx, conn, wsEvent{Type: "error", Kind: mistral.ErrorKind(err), Error: err.Error()})
			conn.Close(websocket.StatusInternalError, "stream error")
			return
		}
		writeWSEvent(ctx, conn, wsEvent{Type: "done", Response: resp})
		conn.Close(websocket.StatusNormalClosure, "")
	})

	return r
}

type wsEvent struct {
	Type     string              `json:"type"`
	Content  string              `json:"content,omitempty"`
	Kind     string              `json:"kind,omitempty"`
	Error    string              `json:"error,omitempty"`
	Response *types.ChatResponse `json:"response,omitempty"`
}

func writeWSEvent(ctx context.Context, conn *websocket.Conn, ev wsEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, payload)
}

// decodeChatRequest accepts either a JSON body or a multipart form with
// an optional image file.
func decodeChatRequest(r *http.Request, cfg config.Config) (types.ChatRequest, error) {
	var req types.ChatRequest
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, &images.ValidationError{Reason: "invalid request body"}
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(int64(cfg.MaxImageSizeMB+1) << 20); err != nil {
		return req, &images.ValidationError{Reason: "invalid multipart form"}
	}
	req.ConversationID = r.FormValue("conversation_id")
	req.Content = r.FormValue("content")
	req.Model = r.FormValue("model")
	if v := r.FormValue("max_tokens"); v != "" {
		maxTokens, err := strconv.Atoi(v)
		if err != nil {
			return req, &images.ValidationError{Reason: "max_tokens must be an integer"}
		}
		req.MaxTokens = maxTokens
	}

	file, _, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return req, nil
	}
	if err != nil {
		return req, &images.ValidationError{Reason: "unreadable image upload"}
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return req, &images.ValidationError{Reason: "unreadable image upload"}
	}
	if err := images.Validate(data, cfg.MaxImageSizeMB); err != nil {
		return req, err
	}
	req.ImageURI = images.DataURI(data)
	return req, nil
}
