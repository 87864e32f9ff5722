package state

import (
	"errors"
	"time"

	"github.com/google/uuid"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

var ErrNilSessionState = errors.New("session state is nil")

// Action names recorded in the session history log.
const (
	ActionAddToCart  = "add_to_cart"
	ActionClearCart  = "clear_cart"
	ActionPlaceOrder = "place_order"
)

// HistoryEntry is one append-only audit record of a cart or order action.
type HistoryEntry struct {
	Time      time.Time `json:"time"`
	Action    string    `json:"action"`
	ProductID string    `json:"product_id,omitempty"`
	Quantity  int       `json:"quantity,omitempty"`
	OrderID   string    `json:"order_id,omitempty"`
}

// SessionState is the per-conversation working set: the in-progress cart,
// the orders placed this session, and the audit history. It is owned by
// exactly one conversation and discarded when the conversation ends; only
// orders persist beyond it.
type SessionState struct {
	CustomerName string               `json:"customer_name,omitempty"`
	SessionID    string               `json:"session_id"`
	StartedAt    time.Time            `json:"started_at"`
	Cart         []contractx.CartLine `json:"cart"`
	Orders       []contractx.Order    `json:"orders"`
	History      []HistoryEntry       `json:"history"`
}

// NewSessionState creates a fresh session with a short random identifier.
func NewSessionState(now time.Time) *SessionState {
	return &SessionState{
		SessionID: uuid.NewString()[:8],
		StartedAt: now.UTC(),
	}
}

// AddLine appends a cart line and its audit entry.
func (s *SessionState) AddLine(line contractx.CartLine, now time.Time) error {
	if s == nil {
		return ErrNilSessionState
	}
	s.Cart = append(s.Cart, line)
	s.History = append(s.History, HistoryEntry{
		Time:      now.UTC(),
		Action:    ActionAddToCart,
		ProductID: line.ProductID,
		Quantity:  line.Quantity,
	})
	return nil
}

// ClearCart empties the cart and records the action. Idempotent.
func (s *SessionState) ClearCart(now time.Time) error {
	if s == nil {
		return ErrNilSessionState
	}
	s.Cart = nil
	s.History = append(s.History, HistoryEntry{
		Time:   now.UTC(),
		Action: ActionClearCart,
	})
	return nil
}

// RecordOrder stores a placed order on the session, clears the cart, and
// records the action.
func (s *SessionState) RecordOrder(o contractx.Order, now time.Time) error {
	if s == nil {
		return ErrNilSessionState
	}
	s.Orders = append(s.Orders, o)
	s.Cart = nil
	s.History = append(s.History, HistoryEntry{
		Time:    now.UTC(),
		Action:  ActionPlaceOrder,
		OrderID: o.ID,
	})
	return nil
}

// CartEmpty reports whether the cart holds no lines.
func (s *SessionState) CartEmpty() bool {
	return s == nil || len(s.Cart) == 0
}
