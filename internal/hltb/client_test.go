package hltb_test

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gamedex/internal/hltb"
)

func TestClientSearch(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/search" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{
					"game_name":     "Outer Wilds",
					"release_world": 2019,
					"comp_main":     57600, // 16h
					"comp_plus":     79200, // 22h
					"comp_100":      104400,
				},
			},
		})
	}))
	defer server.Close()

	client, err := hltb.New(server.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	results, err := client.Search(context.Background(), "Outer Wilds", true)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %d, want 1", len(results))
	}

	res := results[0]
	if res.GameName != "Outer Wilds" || res.ReleaseYear != 2019 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.MainHours != 16 || res.MainExtraHours != 22 || res.CompletionistHours != 29 {
		t.Fatalf("unexpected hours %+v", res)
	}
	if res.Similarity != 1 {
		t.Fatalf("similarity = %v, want 1 for identical names", res.Similarity)
	}

	terms, ok := gotBody["searchTerms"].([]any)
	if !ok || len(terms) != 2 || terms[0] != "Outer" || terms[1] != "Wilds" {
		t.Fatalf("unexpected search terms %v", gotBody["searchTerms"])
	}
	options := gotBody["searchOptions"].(map[string]any)
	games := options["games"].(map[string]any)
	if games["modifier"] != "hide_dlc" {
		t.Fatalf("expected hide_dlc modifier, got %v", games["modifier"])
	}
}

func TestClientSearchCaselessSimilarity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"game_name": "HADES"}},
		})
	}))
	defer server.Close()

	client, err := hltb.New(server.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	results, err := client.Search(context.Background(), "hades", false)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if math.Abs(results[0].Similarity-1) > 1e-9 {
		t.Fatalf("similarity = %v, want caseless 1", results[0].Similarity)
	}
}

func TestClientSearchErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client, err := hltb.New(server.URL, time.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.Search(context.Background(), "anything", true); err == nil {
		t.Fatal("expected error on non-200 response")
	}
	if _, err := client.Search(context.Background(), "   ", true); err == nil {
		t.Fatal("expected error on blank search name")
	}
}
