// Package session owns the process-wide per-visitor state: the cart, the
// current checkout attempt and the auth token. State is threaded through an
// explicit store handle rather than package-level singletons.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/YousefHatem4/food_storefront/internal/cart"
	"github.com/YousefHatem4/food_storefront/internal/checkout"
)

type Session struct {
	ID   string
	Cart *cart.Cart

	mu          sync.Mutex
	checkout    *checkout.Checkout
	accessToken string

	newCheckout func(*cart.Cart) *checkout.Checkout
}

// Checkout returns the session's active checkout attempt, starting a fresh
// one when none exists yet or the previous attempt was confirmed.
func (s *Session) Checkout() *checkout.Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checkout == nil || s.checkout.Step() == checkout.StepConfirmed {
		s.checkout = s.newCheckout(s.Cart)
	}
	return s.checkout
}

// AbandonCheckout drops the in-progress attempt without recording anything.
func (s *Session) AbandonCheckout() {
	s.mu.Lock()
	s.checkout = nil
	s.mu.Unlock()
}

func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	newCheckout func(*cart.Cart) *checkout.Checkout
}

func NewStore(newCheckout func(*cart.Cart) *checkout.Checkout) *Store {
	return &Store{
		sessions:    make(map[string]*Session),
		newCheckout: newCheckout,
	}
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Create starts a new session with an empty cart.
func (st *Store) Create() *Session {
	s := &Session{
		ID:          uuid.NewString(),
		Cart:        cart.New(),
		newCheckout: st.newCheckout,
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()
	return s
}

// Drop tears the session down, discarding its cart and checkout state. Order
// history is device-scoped and survives.
func (st *Store) Drop(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}
