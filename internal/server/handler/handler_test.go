package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/teamfortytwo/atlas/internal/domain"
)

// fakeMarket implements the handler service interfaces with canned results.
type fakeMarket struct {
	view    domain.MarketView
	err     error
	history []domain.Transaction

	lastSortKey  domain.SortKey
	lastDraft    domain.ListingDraft
	lastOrder    domain.BuyOrderDraft
	lastPrice    string
	lastIDs      []domain.ListingID
	lastBundleID domain.BundleID
	resetCalls   int
}

func (f *fakeMarket) View() domain.MarketView { return f.view }

func (f *fakeMarket) SortBy(key domain.SortKey) (domain.MarketView, error) {
	f.lastSortKey = key
	if key != domain.SortKeyPrice && key != domain.SortKeyName &&
		key != domain.SortKeyYield && key != domain.SortKeyYieldPrice {
		return domain.MarketView{}, domain.ErrInvalidListing
	}
	return f.view, f.err
}

func (f *fakeMarket) CreateListing(draft domain.ListingDraft) (domain.MarketView, error) {
	f.lastDraft = draft
	return f.view, f.err
}

func (f *fakeMarket) ListSingle(id domain.ListingID, price string) (domain.MarketView, error) {
	f.lastPrice = price
	return f.view, f.err
}

func (f *fakeMarket) ListBundle(ids []domain.ListingID, totalPrice string) (domain.MarketView, error) {
	f.lastIDs = ids
	f.lastPrice = totalPrice
	return f.view, f.err
}

func (f *fakeMarket) CancelListing(id domain.ListingID) (domain.MarketView, error) {
	return f.view, f.err
}

func (f *fakeMarket) CancelBundle(id domain.BundleID) (domain.MarketView, error) {
	f.lastBundleID = id
	return f.view, f.err
}

func (f *fakeMarket) SubmitBuyOrder(draft domain.BuyOrderDraft) (domain.MarketView, error) {
	f.lastOrder = draft
	return f.view, f.err
}

func (f *fakeMarket) EditBuyOrder(id domain.OrderID, draft domain.BuyOrderDraft) (domain.MarketView, error) {
	f.lastOrder = draft
	return f.view, f.err
}

func (f *fakeMarket) DeleteBuyOrder(id domain.OrderID) (domain.MarketView, error) {
	return f.view, f.err
}

func (f *fakeMarket) History() []domain.Transaction { return f.history }

func (f *fakeMarket) ResetHistory() domain.MarketView {
	f.resetCalls++
	f.history = nil
	return f.view
}

func (f *fakeMarket) User(username string) (domain.UserProfile, error) {
	if username == "crypto_whale" {
		return domain.UserProfile{Username: username, Reputation: 4.8}, nil
	}
	return domain.UserProfile{}, domain.ErrNotFound
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testMux registers the handlers under the real route patterns so PathValue
// works in tests.
func testMux(m *fakeMarket, adminKey string, archiver domain.HistoryArchiver) *http.ServeMux {
	logger := testLogger()
	listings := NewListingHandler(m, logger)
	orders := NewOrderHandler(m, logger)
	history := NewHistoryHandler(m, archiver, adminKey, logger)
	users := NewUserHandler(m, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/listings", listings.ListListings)
	mux.HandleFunc("POST /api/listings", listings.CreateListing)
	mux.HandleFunc("POST /api/listings/{id}/sale", listings.ListForSale)
	mux.HandleFunc("DELETE /api/listings/{id}/sale", listings.CancelSale)
	mux.HandleFunc("POST /api/bundles", listings.CreateBundle)
	mux.HandleFunc("DELETE /api/bundles/{id}", listings.CancelBundle)
	mux.HandleFunc("GET /api/orderbook", orders.GetOrderBook)
	mux.HandleFunc("POST /api/orders", orders.SubmitOrder)
	mux.HandleFunc("PUT /api/orders/{id}", orders.EditOrder)
	mux.HandleFunc("DELETE /api/orders/{id}", orders.DeleteOrder)
	mux.HandleFunc("GET /api/history", history.GetHistory)
	mux.HandleFunc("DELETE /api/history", history.ResetHistory)
	mux.HandleFunc("GET /api/users/{username}", users.GetUser)
	return mux
}

func do(t *testing.T, mux *http.ServeMux, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestListListings_SortParam(t *testing.T) {
	m := &fakeMarket{}
	mux := testMux(m, "", nil)

	rec := do(t, mux, http.MethodGet, "/api/listings?sort=price", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if m.lastSortKey != domain.SortKeyPrice {
		t.Errorf("sort key = %q, want price", m.lastSortKey)
	}

	rec = do(t, mux, http.MethodGet, "/api/listings?sort=owner", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown sort key status = %d, want 400", rec.Code)
	}
}

func TestCreateListing(t *testing.T) {
	m := &fakeMarket{}
	mux := testMux(m, "", nil)

	rec := do(t, mux, http.MethodPost, "/api/listings",
		`{"name":"Validator X","price":"32.5","yield":"2.4"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if m.lastDraft.Name != "Validator X" || m.lastDraft.Price != "32.5" {
		t.Errorf("draft = %+v", m.lastDraft)
	}

	m.err = domain.ErrInvalidListing
	rec = do(t, mux, http.MethodPost, "/api/listings", `{"name":"","price":"x"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid draft status = %d, want 400", rec.Code)
	}
}

func TestListForSale(t *testing.T) {
	m := &fakeMarket{}
	mux := testMux(m, "", nil)

	rec := do(t, mux, http.MethodPost, "/api/listings/3/sale", `{"price":"31.5"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if m.lastPrice != "31.5" {
		t.Errorf("price = %q, want 31.5", m.lastPrice)
	}

	rec = do(t, mux, http.MethodPost, "/api/listings/abc/sale", `{"price":"31.5"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d, want 400", rec.Code)
	}

	m.err = domain.ErrNotFound
	rec = do(t, mux, http.MethodPost, "/api/listings/99/sale", `{"price":"31.5"}`, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown id status = %d, want 404", rec.Code)
	}
}

func TestCreateBundle(t *testing.T) {
	m := &fakeMarket{}
	mux := testMux(m, "", nil)

	rec := do(t, mux, http.MethodPost, "/api/bundles",
		`{"listing_ids":[3,4],"total_price":"68"}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if len(m.lastIDs) != 2 || m.lastIDs[0] != 3 || m.lastIDs[1] != 4 {
		t.Errorf("ids = %v, want [3 4]", m.lastIDs)
	}

	m.err = domain.ErrAlreadyListed
	rec = do(t, mux, http.MethodPost, "/api/bundles",
		`{"listing_ids":[3],"total_price":"30"}`, nil)
	if rec.Code != http.StatusConflict {
		t.Errorf("already-listed status = %d, want 409", rec.Code)
	}
}

func TestCancelBundle(t *testing.T) {
	m := &fakeMarket{}
	mux := testMux(m, "", nil)

	id := uuid.New()
	rec := do(t, mux, http.MethodDelete, "/api/bundles/"+id.String(), "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if m.lastBundleID != id {
		t.Errorf("bundle id = %v, want %v", m.lastBundleID, id)
	}

	rec = do(t, mux, http.MethodDelete, "/api/bundles/not-a-uuid", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad uuid status = %d, want 400", rec.Code)
	}
}

func TestSubmitOrder(t *testing.T) {
	m := &fakeMarket{}
	mux := testMux(m, "", nil)

	rec := do(t, mux, http.MethodPost, "/api/orders",
		`{"price":"32","amount":"1","min_yield":"2.2","address":"0xbuyer"}`, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body)
	}
	if m.lastOrder.Address != "0xbuyer" || m.lastOrder.MinYield != "2.2" {
		t.Errorf("draft = %+v", m.lastOrder)
	}

	m.err = domain.ErrInvalidOrder
	rec = do(t, mux, http.MethodPost, "/api/orders", `{"price":"x"}`, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid order status = %d, want 400", rec.Code)
	}
}

func TestGetHistory(t *testing.T) {
	m := &fakeMarket{history: []domain.Transaction{{ID: uuid.New(), Price: 30}}}
	mux := testMux(m, "", nil)

	rec := do(t, mux, http.MethodGet, "/api/history", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Count        int
		Transactions []json.RawMessage
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 1 || len(resp.Transactions) != 1 {
		t.Errorf("resp = %+v, want one transaction", resp)
	}
}

type stubArchiver struct {
	calls int
	txs   int
}

func (a *stubArchiver) ArchiveHistory(ctx context.Context, txs []domain.Transaction) (string, error) {
	a.calls++
	a.txs = len(txs)
	return "archive/history/test.jsonl", nil
}

func TestResetHistory_ArchivesBeforeClearing(t *testing.T) {
	m := &fakeMarket{history: []domain.Transaction{{ID: uuid.New()}, {ID: uuid.New()}}}
	archiver := &stubArchiver{}
	mux := testMux(m, "topsecret", archiver)

	rec := do(t, mux, http.MethodDelete, "/api/history", "",
		map[string]string{"X-API-Key": "topsecret"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if archiver.calls != 1 || archiver.txs != 2 {
		t.Errorf("archiver calls = %d with %d txs, want 1 call with 2 txs", archiver.calls, archiver.txs)
	}
	if m.resetCalls != 1 {
		t.Errorf("reset calls = %d, want 1", m.resetCalls)
	}
}

func TestResetHistory_AdminGate(t *testing.T) {
	m := &fakeMarket{history: []domain.Transaction{{ID: uuid.New()}}}
	mux := testMux(m, "topsecret", nil)

	// No key.
	rec := do(t, mux, http.MethodDelete, "/api/history", "", nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("no key status = %d, want 403", rec.Code)
	}

	// Wrong key.
	rec = do(t, mux, http.MethodDelete, "/api/history", "",
		map[string]string{"X-API-Key": "wrong"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong key status = %d, want 403", rec.Code)
	}
	if m.resetCalls != 0 {
		t.Fatalf("reset ran %d times without admin key", m.resetCalls)
	}

	// Correct key via Bearer.
	rec = do(t, mux, http.MethodDelete, "/api/history", "",
		map[string]string{"Authorization": "Bearer topsecret"})
	if rec.Code != http.StatusOK {
		t.Errorf("admin key status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if m.resetCalls != 1 {
		t.Errorf("reset calls = %d, want 1", m.resetCalls)
	}
}

func TestResetHistory_DisabledWithoutAdminKey(t *testing.T) {
	m := &fakeMarket{}
	mux := testMux(m, "", nil)

	rec := do(t, mux, http.MethodDelete, "/api/history", "",
		map[string]string{"X-API-Key": "anything"})
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestGetUser(t *testing.T) {
	m := &fakeMarket{}
	mux := testMux(m, "", nil)

	rec := do(t, mux, http.MethodGet, "/api/users/crypto_whale", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	rec = do(t, mux, http.MethodGet, "/api/users/nobody", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown user status = %d, want 404", rec.Code)
	}
}
