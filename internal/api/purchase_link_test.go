package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-api/internal/database"
)

func linkRequest(t *testing.T, router http.Handler, userID, email string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"user_id": userID, "email": email})
	req := httptest.NewRequest(http.MethodPost, "/api/purchases/link", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLinkAttachesAllMatchingPurchases(t *testing.T) {
	identity := &fakeIdentity{accounts: []fakeAccount{
		{ID: "user-1", Email: "buyer@example.com", EmailConfirmed: true},
	}}
	router := setupTestEnv(t, identity)

	seedCompletedPurchase(t, "ref_l1", "buyer@example.com", nil)
	seedCompletedPurchase(t, "ref_l2", "buyer@example.com", nil)
	seedCompletedPurchase(t, "ref_l3", "other@example.com", nil)

	rr := linkRequest(t, router, "user-1", "buyer@example.com")
	if rr.Code != http.StatusOK {
		t.Fatalf("got status %d want 200: %s", rr.Code, rr.Body.String())
	}

	var resp LinkPurchasesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.LinkedCount != 2 {
		t.Fatalf("linked_count: got %d want 2", resp.LinkedCount)
	}
	if len(resp.Purchases) != 2 {
		t.Fatalf("purchases list: got %d want 2", len(resp.Purchases))
	}

	// The other buyer's purchase is untouched
	p, err := database.GetPurchaseByTransactionID("ref_l3")
	if err != nil {
		t.Fatalf("fetch ref_l3: %v", err)
	}
	if p.UserID != nil {
		t.Fatalf("ref_l3 must remain unlinked")
	}
}

func TestLinkIsIdempotent(t *testing.T) {
	identity := &fakeIdentity{accounts: []fakeAccount{
		{ID: "user-1", Email: "buyer@example.com", EmailConfirmed: true},
	}}
	router := setupTestEnv(t, identity)

	seedCompletedPurchase(t, "ref_l4", "buyer@example.com", nil)

	rr := linkRequest(t, router, "user-1", "buyer@example.com")
	if rr.Code != http.StatusOK {
		t.Fatalf("first call: got status %d want 200", rr.Code)
	}

	rr = linkRequest(t, router, "user-1", "buyer@example.com")
	if rr.Code != http.StatusOK {
		t.Fatalf("second call: got status %d want 200", rr.Code)
	}
	var resp LinkPurchasesResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.LinkedCount != 0 {
		t.Fatalf("second call linked_count: got %d want 0", resp.LinkedCount)
	}
}

func TestLinkDeniedWhenEmailUnconfirmed(t *testing.T) {
	identity := &fakeIdentity{accounts: []fakeAccount{
		{ID: "user-2", Email: "buyer@example.com", EmailConfirmed: false},
	}}
	router := setupTestEnv(t, identity)

	seedCompletedPurchase(t, "ref_l5", "buyer@example.com", nil)

	rr := linkRequest(t, router, "user-2", "buyer@example.com")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d want 400", rr.Code)
	}

	// No row was mutated
	p, err := database.GetPurchaseByTransactionID("ref_l5")
	if err != nil {
		t.Fatalf("fetch ref_l5: %v", err)
	}
	if p.UserID != nil {
		t.Fatalf("purchase must stay unlinked when email is unconfirmed")
	}
}

func TestLinkDeniedOnEmailMismatch(t *testing.T) {
	identity := &fakeIdentity{accounts: []fakeAccount{
		{ID: "user-3", Email: "actual@example.com", EmailConfirmed: true},
	}}
	router := setupTestEnv(t, identity)

	seedCompletedPurchase(t, "ref_l6", "claimed@example.com", nil)

	rr := linkRequest(t, router, "user-3", "claimed@example.com")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d want 400", rr.Code)
	}
}

func TestLinkDeniedForUnknownUser(t *testing.T) {
	identity := &fakeIdentity{}
	router := setupTestEnv(t, identity)

	rr := linkRequest(t, router, "ghost-user", "buyer@example.com")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("got status %d want 400", rr.Code)
	}
}

func TestLinkValidatesInput(t *testing.T) {
	identity := &fakeIdentity{}
	router := setupTestEnv(t, identity)

	body := bytes.NewReader([]byte(`{"email": "buyer@example.com"}`))
	req := httptest.NewRequest(http.MethodPost, "/api/purchases/link", body)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("missing user_id: got status %d want 400", rr.Code)
	}
}
