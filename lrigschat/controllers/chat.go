// lrigschat/controllers/chat.go
package controllers

import (
	"context"
	"errors"
	"strings"

	"lrigschat/lrigschat/config"
	"lrigschat/lrigschat/services/mistral"
	"lrigschat/lrigschat/sources/session"
	"lrigschat/lrigschat/types"
	"lrigschat/lrigschat/utils/logging"

	"go.uber.org/zap"
)

var ErrEmptyMessage = errors.New("message content must not be empty")

type ChatController struct {
	client *mistral.Client
	cfg    config.Config
}

func NewChatController(client *mistral.Client, cfg config.Config) *ChatController {
	return &ChatController{client: client, cfg: cfg}
}

// resolveConversation picks the target conversation: the requested id
// when given, otherwise the active one. A session whose store somehow
// lost its active conversation gets a fresh one instead of an error.
func (c *ChatController) resolveConversation(store *session.Store, id string) (types.Conversation, error) {
	if id != "" {
		return store.Get(id)
	}
	if conv, ok := store.Active(); ok {
		return conv, nil
	}
	newID := store.Create()
	conv, err := store.Get(newID)
	if err != nil {
		return types.Conversation{}, err
	}
	return conv, nil
}

func (c *ChatController) buildCompletion(conv types.Conversation, req types.ChatRequest, userMsg types.Message) mistral.CompletionRequest {
	model := req.Model
	if model == "" {
		model = c.cfg.DefaultModel
	}
	history := make([]types.Message, 0, len(conv.Messages)+1)
	history = append(history, conv.Messages...)
	history = append(history, userMsg)
	return mistral.CompletionRequest{
		Model:     model,
		Messages:  history,
		ImageURI:  req.ImageURI,
		MaxTokens: req.MaxTokens,
	}
}

// Send runs one chat turn. The exchange is all-or-nothing: neither the
// user message nor the assistant reply is committed to the store until
// the provider call has succeeded.
func (c *ChatController) Send(ctx context.Context, store *session.Store, req types.ChatRequest) (*types.ChatResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyMessage
	}
	conv, err := c.resolveConversation(store, req.ConversationID)
	if err != nil {
		return nil, err
	}

	userMsg := types.Message{Role: types.RoleUser, Content: req.Content, ImageURI: req.ImageURI}
	logging.AppLogger.Info("sending chat turn",
		zap.String("conversation_id", conv.ID),
		zap.Int("history_len", len(conv.Messages)),
		zap.Bool("has_image", req.ImageURI != ""),
	)

	assistantMsg, err := c.client.Complete(ctx, c.buildCompletion(conv, req, userMsg))
	if err != nil {
		logging.ErrorLogger.Error("chat turn failed",
			zap.String("conversation_id", conv.ID),
			zap.String("kind", mistral.ErrorKind(err)),
			zap.Error(err),
		)
		return nil, err
	}

	if err := store.Append(conv.ID, userMsg); err != nil {
		return nil, err
	}
	if err := store.Append(conv.ID, assistantMsg); err != nil {
		return nil, err
	}
	return &types.ChatResponse{ConversationID: conv.ID, Message: assistantMsg}, nil
}

// SendStream runs one streaming chat turn, calling emit for every
// delta chunk. The exchange is committed only after the stream ends
// cleanly; a mid-stream failure leaves the store untouched.
func (c *ChatController) SendStream(ctx context.Context, store *session.Store, req types.ChatRequest, emit func(chunk string) error) (*types.ChatResponse, error) {
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyMessage
	}
	conv, err := c.resolveConversation(store, req.ConversationID)
	if err != nil {
		return nil, err
	}

	userMsg := types.Message{Role: types.RoleUser, Content: req.Content, ImageURI: req.ImageURI}
	ch, errCh, err := c.client.CompleteStream(ctx, c.buildCompletion(conv, req, userMsg))
	if err != nil {
		return nil, err
	}

	var full strings.Builder
	for chunk := range ch {
		full.WriteString(chunk)
		if err := emit(chunk); err != nil {
			return nil, err
		}
	}
	if err := <-errCh; err != nil {
		logging.ErrorLogger.Error("chat stream failed",
			zap.String("conversation_id", conv.ID),
			zap.Error(err),
		)
		return nil, err
	}
	if full.Len() == 0 {
		return nil, &mistral.ProviderError{Detail: "stream produced no content"}
	}

	assistantMsg := types.Message{Role: types.RoleAssistant, Content: full.String()}
	if err := store.Append(conv.ID, userMsg); err != nil {
		return nil, err
	}
	if err := store.Append(conv.ID, assistantMsg); err != nil {
		return nil, err
	}
	return &types.ChatResponse{ConversationID: conv.ID, Message: assistantMsg}, nil
}
