// lrigschat/controllers/conversations.go
package controllers

import (
	"lrigschat/lrigschat/sources/session"
	"lrigschat/lrigschat/types"
	"lrigschat/lrigschat/utils/logging"

	"go.uber.org/zap"
)

// ConversationsController backs the sidebar: list, create, select,
// rename and delete threads in the request's session store.
type ConversationsController struct{}

func NewConversationsController() *ConversationsController {
	return &ConversationsController{}
}

func (c *ConversationsController) List(store *session.Store) types.ConversationList {
	return store.List()
}

func (c *ConversationsController) Create(store *session.Store) types.ConversationSummary {
	id := store.Create()
	logging.AppLogger.Info("created conversation", zap.String("conversation_id", id))
	conv, _ := store.Get(id)
	return types.ConversationSummary{
		ID:        conv.ID,
		Title:     "New Chat",
		CreatedAt: conv.CreatedAt,
		Active:    true,
	}
}

func (c *ConversationsController) Select(store *session.Store, id string) error {
	return store.Select(id)
}

func (c *ConversationsController) Rename(store *session.Store, id, title string) error {
	if err := store.Rename(id, title); err != nil {
		return err
	}
	logging.AppLogger.Info("renamed conversation",
		zap.String("conversation_id", id), zap.String("title", title))
	return nil
}

func (c *ConversationsController) Delete(store *session.Store, id string) error {
	if err := store.Delete(id); err != nil {
		return err
	}
	logging.AppLogger.Info("deleted conversation",
		zap.String("conversation_id", id), zap.String("new_active", store.ActiveID()))
	return nil
}

// Messages returns the full history of one conversation for the chat
// pane.
func (c *ConversationsController) Messages(store *session.Store, id string) (types.Conversation, error) {
	return store.Get(id)
}
