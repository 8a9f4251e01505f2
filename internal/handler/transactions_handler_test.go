package handler

import (
	"net/http"
	"testing"
)

func TestTransactionCreateAndFind(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "Ada", "ada@example.com")
	mmID := env.createMoneyMap(t, token, "household")
	accountID := env.createAccount(t, token, mmID, "checking")
	base := "/money_maps/" + mmID + "/accounts/" + accountID + "/transactions"

	w := env.do(t, http.MethodPost, base, token, map[string]any{
		"payee":            "Grocer",
		"amount":           42.17,
		"transaction_type": "debit",
		"category":         "food",
	})
	body := decode(t, w)
	if body["status"] != "success" {
		t.Fatalf("expected success, got %s", w.Body.String())
	}
	result := body["result"].(map[string]any)
	if result["payee"] != "Grocer" || result["amount"] != 42.17 {
		t.Errorf("unexpected result: %v", result)
	}
	if result["account_id"] != accountID {
		t.Errorf("transaction not bound to its account: %v", result)
	}
	if result["datetime"] == nil {
		t.Error("datetime not defaulted")
	}

	w = env.do(t, http.MethodGet, base, token, nil)
	if list := decode(t, w)["result"].([]any); len(list) != 1 {
		t.Errorf("expected 1 transaction, got %s", w.Body.String())
	}
}

func TestTransactionValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "Ada", "ada@example.com")
	mmID := env.createMoneyMap(t, token, "household")
	accountID := env.createAccount(t, token, mmID, "checking")
	base := "/money_maps/" + mmID + "/accounts/" + accountID + "/transactions"

	w := env.do(t, http.MethodPost, base, token, map[string]any{
		"payee":            "Grocer",
		"amount":           10,
		"transaction_type": "transfer",
	})
	body := wantInvalid(t, w)
	validation := body["validation"].(map[string]any)
	if _, ok := validation["transaction_type"]; !ok {
		t.Errorf("expected violation on transaction_type, got %s", w.Body.String())
	}
}

func TestTransactionAccountScoping(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "Ada", "ada@example.com")
	mmID := env.createMoneyMap(t, token, "household")
	otherMapID := env.createMoneyMap(t, token, "vacation")
	accountID := env.createAccount(t, token, mmID, "checking")
	foreignAccountID := env.createAccount(t, token, otherMapID, "travel")

	// An account id that lives under a different map is not found.
	w := env.do(t, http.MethodGet, "/money_maps/"+mmID+"/accounts/"+foreignAccountID+"/transactions", token, nil)
	wantFailure(t, w, "Unable to find account")

	// Malformed account id.
	w = env.do(t, http.MethodGet, "/money_maps/"+mmID+"/accounts/xyz/transactions", token, nil)
	wantFailure(t, w, "Failed to find account. Invalid ID.")

	// A non-member cannot reach the account at all.
	_, strangerToken := env.signup(t, "Eve", "eve@example.com")
	w = env.do(t, http.MethodGet, "/money_maps/"+mmID+"/accounts/"+accountID+"/transactions", strangerToken, nil)
	wantFailure(t, w, "Unable to find money map")
}

func TestStatementCreateAndFind(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "Ada", "ada@example.com")
	mmID := env.createMoneyMap(t, token, "household")
	accountID := env.createAccount(t, token, mmID, "checking")
	base := "/money_maps/" + mmID + "/accounts/" + accountID + "/statements"

	w := env.do(t, http.MethodPost, base, token, map[string]any{
		"statement_date": "2026-01-31T00:00:00Z",
		"ending_balance": 1024.33,
	})
	body := decode(t, w)
	if body["status"] != "success" {
		t.Fatalf("expected success, got %s", w.Body.String())
	}
	result := body["result"].(map[string]any)
	if result["ending_balance"] != 1024.33 || result["account_id"] != accountID {
		t.Errorf("unexpected result: %v", result)
	}

	w = env.do(t, http.MethodGet, base, token, nil)
	if list := decode(t, w)["result"].([]any); len(list) != 1 {
		t.Errorf("expected 1 statement, got %s", w.Body.String())
	}
}

func TestStatementValidation(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.signup(t, "Ada", "ada@example.com")
	mmID := env.createMoneyMap(t, token, "household")
	accountID := env.createAccount(t, token, mmID, "checking")

	w := env.do(t, http.MethodPost, "/money_maps/"+mmID+"/accounts/"+accountID+"/statements", token, map[string]any{
		"ending_balance": 10,
	})
	body := wantInvalid(t, w)
	validation := body["validation"].(map[string]any)
	if _, ok := validation["statement_date"]; !ok {
		t.Errorf("expected violation on statement_date, got %s", w.Body.String())
	}
}
