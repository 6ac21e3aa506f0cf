package walletapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
)

// fakeWalletService mimics the routes and status codes of the wallet
// service under test
type fakeWalletService struct {
	mu         sync.Mutex
	balances   map[string]int64
	requestIDs []string
	bodies     []map[string]any
	headers    []http.Header
}

func newFakeWalletService(t *testing.T, wallets map[string]int64) (*fakeWalletService, *httptest.Server) {
	t.Helper()
	svc := &fakeWalletService{balances: wallets}

	r := chi.NewRouter()
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/wallet", svc.handleOperation)
		r.Get("/balance/{id}", svc.handleBalance)
	})

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return svc, ts
}

func (s *fakeWalletService) handleOperation(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestIDs = append(s.requestIDs, r.Header.Get(RequestIDHeader))
	s.bodies = append(s.bodies, body)
	s.headers = append(s.headers, r.Header.Clone())

	walletID, _ := body["walletId"].(string)
	amount, ok := body["amount"].(float64)
	if !ok {
		http.Error(w, "amount must be a number", http.StatusBadRequest)
		return
	}
	balance, exists := s.balances[walletID]
	if !exists {
		http.Error(w, "walletid not found", http.StatusNotFound)
		return
	}

	switch body["operationType"] {
	case "DEPOSIT":
		s.balances[walletID] = balance + int64(amount)
	case "WITHDRAW":
		if balance < int64(amount) {
			http.Error(w, "insufficient funds or walletid not found", http.StatusNotFound)
			return
		}
		s.balances[walletID] = balance - int64(amount)
	default:
		http.Error(w, "invalid operation type", http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *fakeWalletService) handleBalance(w http.ResponseWriter, r *http.Request) {
	walletID := chi.URLParam(r, "id")

	s.mu.Lock()
	s.requestIDs = append(s.requestIDs, r.Header.Get(RequestIDHeader))
	balance, exists := s.balances[walletID]
	s.mu.Unlock()

	if !exists {
		http.Error(w, "walletid not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"walletId": walletID,
		"balance":  balance,
	})
}
