// lrigschat/sources/session/store.go
package session

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"lrigschat/lrigschat/types"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("conversation not found")
	ErrEmptyTitle = errors.New("title must not be empty")
)

// titleRuneLimit bounds auto-derived titles: they stay strictly under
// this many runes.
const titleRuneLimit = 20

type record struct {
	conv *types.Conversation
	seq  uint64
}

// Store holds every conversation of one browser session. All state is
// in memory and dies with the session. Every operation takes the one
// mutex, so UI events racing each other still see atomic updates.
type Store struct {
	mu            sync.Mutex
	conversations map[string]*record
	activeID      string
	nextSeq       uint64
	now           func() time.Time
}

// NewStore returns a store seeded with one empty conversation, so the
// UI always has an active thread to type into.
func NewStore() *Store {
	s := &Store{
		conversations: make(map[string]*record),
		now:           time.Now,
	}
	s.Create()
	return s
}

// Create inserts a fresh empty conversation and makes it active.
func (s *Store) Create() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.nextSeq++
	s.conversations[id] = &record{
		conv: &types.Conversation{
			ID:        id,
			CreatedAt: s.now(),
		},
		seq: s.nextSeq,
	}
	s.activeID = id
	return id
}

func (s *Store) Select(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; !ok {
		return ErrNotFound
	}
	s.activeID = id
	return nil
}

func (s *Store) Rename(id, title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	rec.conv.Title = title
	return nil
}

// Delete removes a conversation. When the active one goes away, the
// most recently created remaining conversation takes over (highest
// creation sequence — deterministic even when timestamps collide), or
// none if the store is now empty.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; !ok {
		return ErrNotFound
	}
	delete(s.conversations, id)
	if s.activeID != id {
		return nil
	}
	s.activeID = ""
	var best uint64
	for cid, rec := range s.conversations {
		if rec.seq > best {
			best = rec.seq
			s.activeID = cid
		}
	}
	return nil
}

// Append adds a message to a conversation. The first user message of an
// untitled conversation also sets its title.
func (s *Store) Append(id string, msg types.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.conversations[id]
	if !ok {
		return ErrNotFound
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	rec.conv.Messages = append(rec.conv.Messages, msg)
	if rec.conv.Title == "" && msg.Role == types.RoleUser {
		rec.conv.Title = deriveTitle(msg.Content)
	}
	return nil
}

// Get returns a snapshot of one conversation. Callers never see the
// live message slice; mutation goes through the store API only.
func (s *Store) Get(id string) (types.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.conversations[id]
	if !ok {
		return types.Conversation{}, ErrNotFound
	}
	return snapshot(rec.conv), nil
}

// Active returns a snapshot of the active conversation, or false when
// the store is empty.
func (s *Store) Active() (types.Conversation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.conversations[s.activeID]
	if !ok {
		return types.Conversation{}, false
	}
	return snapshot(rec.conv), true
}

func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

// List returns sidebar summaries in creation order.
func (s *Store) List() types.ConversationList {
	s.mu.Lock()
	defer s.mu.Unlock()
	recs := make([]*record, 0, len(s.conversations))
	for _, rec := range s.conversations {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })
	out := types.ConversationList{ActiveID: s.activeID}
	for _, rec := range recs {
		out.Conversations = append(out.Conversations, types.ConversationSummary{
			ID:           rec.conv.ID,
			Title:        displayTitle(rec.conv),
			MessageCount: len(rec.conv.Messages),
			CreatedAt:    rec.conv.CreatedAt,
			Active:       rec.conv.ID == s.activeID,
		})
	}
	return out
}

// Reset drops every conversation and reseeds the default one.
func (s *Store) Reset() {
	s.mu.Lock()
	s.conversations = make(map[string]*record)
	s.activeID = ""
	s.mu.Unlock()
	s.Create()
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

func snapshot(c *types.Conversation) types.Conversation {
	out := *c
	out.Messages = make([]types.Message, len(c.Messages))
	copy(out.Messages, c.Messages)
	return out
}

func displayTitle(c *types.Conversation) string {
	if c.Title != "" {
		return c.Title
	}
	return "New Chat"
}

func deriveTitle(text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) >= titleRuneLimit {
		return string(runes[:titleRuneLimit-1])
	}
	return text
}
