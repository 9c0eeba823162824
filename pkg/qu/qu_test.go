package qu

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"DriveThruGolang/internal/entity"
	"DriveThruGolang/pkg/redis"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(backendURL string) *quClient {
	return &quClient{
		backendURL: backendURL,
		httpClient: &http.Client{Timeout: time.Second},
		menuClient: &http.Client{Timeout: time.Second},
		snapshot:   &entity.MenuSnapshot{Items: make(map[string][]entity.MenuItem)},
		prices:     make(map[string]float64),
		log:        testLogger(),
	}
}

func downedBackend(t *testing.T) string {
	t.Helper()
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()
	return url
}

func TestSearchItemsFallsBackWhenBackendDown(t *testing.T) {
	q := newTestClient(downedBackend(t))

	result, err := q.SearchItems(context.Background(), "fries", 2)
	if err != nil {
		t.Fatalf("SearchItems() error = %v", err)
	}
	if !result.Degraded {
		t.Fatalf("expected degraded result")
	}
	if len(result.Results) != 2 {
		t.Fatalf("results = %d, want 2 (limit)", len(result.Results))
	}
	if result.Results[0].ItemPathKey != "curly-fries-small" || result.Results[1].ItemPathKey != "curly-fries-medium" {
		t.Fatalf("unexpected fallback order: %+v", result.Results)
	}
}

func TestSearchItemsMapsBackendResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query/items" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "jumbo" || req.Limit != 5 {
			t.Fatalf("unexpected request %+v", req)
		}
		_, _ = w.Write([]byte(`{"items":[{"title":"Jumbo Jack","item_path_key":"47587-1","price":5.99,"displayAttribute":{"description":"Classic burger"}}]}`))
	}))
	defer server.Close()

	q := newTestClient(server.URL)

	result, err := q.SearchItems(context.Background(), "jumbo", 5)
	if err != nil {
		t.Fatalf("SearchItems() error = %v", err)
	}
	if result.Degraded {
		t.Fatalf("unexpected degraded result")
	}
	if len(result.Results) != 1 {
		t.Fatalf("results = %d, want 1", len(result.Results))
	}

	got := result.Results[0]
	if got.Name != "Jumbo Jack" || got.ItemPathKey != "47587-1" || got.Price != 5.99 || got.Description != "Classic burger" {
		t.Fatalf("unexpected mapping: %+v", got)
	}
}

func TestSearchModifiersFallsBackWhenBackendDown(t *testing.T) {
	q := newTestClient(downedBackend(t))

	result, err := q.SearchModifiers(context.Background(), "coca cola", "sourdough-jack-combo", 5)
	if err != nil {
		t.Fatalf("SearchModifiers() error = %v", err)
	}
	if !result.Degraded {
		t.Fatalf("expected degraded result")
	}
	if result.Parent != "sourdough-jack-combo" {
		t.Fatalf("parent = %q", result.Parent)
	}
	if len(result.Results) != 1 || result.Results[0].ItemPathKey != "coke-drink" {
		t.Fatalf("unexpected matches: %+v", result.Results)
	}
	if result.Results[0].ModifierType != "drink" {
		t.Fatalf("modifierType = %q, want drink", result.Results[0].ModifierType)
	}
}

func TestFindModifierName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Parent != "combo-1" || req.Query != "" || req.Limit != 100 {
			t.Fatalf("unexpected request %+v", req)
		}
		_, _ = w.Write([]byte(`{"items":[{"title":"Curly Fries","itemPathKey":"combo-1-fries"},{"title":"Coca-Cola","itemPathKey":"combo-1-coke"}]}`))
	}))
	defer server.Close()

	q := newTestClient(server.URL)

	name, ok := q.FindModifierName(context.Background(), "combo-1", "combo-1-coke")
	if !ok || name != "Coca-Cola" {
		t.Fatalf("FindModifierName() = %q, %v", name, ok)
	}

	if _, ok := q.FindModifierName(context.Background(), "combo-1", "combo-1-shake"); ok {
		t.Fatalf("expected miss for unknown path")
	}
}

func TestBuildSnapshotFiltersAndAddsDesserts(t *testing.T) {
	q := newTestClient("http://localhost:0")
	q.prices = map[string]float64{
		"lunch-burger":  5.99,
		"lunch-cake":    3.49,
		"lunch-mod-kid": 1.00,
	}

	menu := &menuResponse{Value: menuValue{Categories: []backendItem{
		{
			Title: "Lunch/Dinner",
			Children: []backendItem{
				{Title: "Jumbo Jack", ItemPathKey: "lunch-burger", DisplayAttribute: displayAttribute{Description: "Classic"}},
				{Title: "Dessert - Chocolate Cake", ItemPathKey: "lunch-cake"},
				{Title: "Internal Placeholder", ItemPathKey: "lunch-internal"},
				{
					Title:       "Mod - Toppings",
					ItemPathKey: "lunch-mods",
					Children: []backendItem{
						{Title: "Kids Toy", ItemPathKey: "lunch-mod-kid"},
					},
				},
			},
		},
		{Title: "Empty Category"},
	}}}

	snapshot := q.buildSnapshot(menu)

	if len(snapshot.Categories) != 2 || snapshot.Categories[0] != "Lunch/Dinner" || snapshot.Categories[1] != "Desserts" {
		t.Fatalf("categories = %v", snapshot.Categories)
	}
	if len(snapshot.Items["Lunch/Dinner"]) != 2 {
		t.Fatalf("lunch items = %+v", snapshot.Items["Lunch/Dinner"])
	}
	for _, item := range snapshot.Items["Lunch/Dinner"] {
		if item.ItemPathKey == "lunch-internal" {
			t.Fatalf("zero-priced leaf kept: %+v", item)
		}
		if item.ItemPathKey == "lunch-mod-kid" {
			t.Fatalf("modifier subtree not pruned: %+v", item)
		}
	}
	if len(snapshot.Items["Desserts"]) != 1 || snapshot.Items["Desserts"][0].ItemPathKey != "lunch-cake" {
		t.Fatalf("desserts = %+v", snapshot.Items["Desserts"])
	}
	if !snapshot.Cached {
		t.Fatalf("live snapshot should be marked cached")
	}
}

type fakeCache struct {
	stored *entity.MenuSnapshot
	setN   int
}

func (f *fakeCache) SetMenuSnapshot(_ context.Context, snapshot *entity.MenuSnapshot, _ time.Duration) error {
	f.stored = snapshot
	f.setN++
	return nil
}

func (f *fakeCache) GetMenuSnapshot(_ context.Context) (*entity.MenuSnapshot, error) {
	return f.stored, nil
}

var _ redis.IRedis = (*fakeCache)(nil)

func TestLoadMenuUsesCachedSnapshotWhenLiveFails(t *testing.T) {
	q := newTestClient(downedBackend(t))

	cache := &fakeCache{stored: &entity.MenuSnapshot{
		Categories: []string{"Breakfast"},
		Items: map[string][]entity.MenuItem{
			"Breakfast": {{Name: "Supreme Croissant", ItemPathKey: "sc-1", Price: 6.99}},
		},
		Cached:   true,
		LoadedAt: time.Now().Add(-10 * time.Minute),
	}}

	snapshot := q.loadMenu(cache)
	if len(snapshot.Categories) != 1 || snapshot.Categories[0] != "Breakfast" {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestLoadMenuFallsBackToDefaults(t *testing.T) {
	q := newTestClient(downedBackend(t))

	snapshot := q.loadMenu(nil)
	if snapshot.Cached {
		t.Fatalf("default snapshot marked cached")
	}
	if len(snapshot.Categories) != len(defaultCategories) {
		t.Fatalf("categories = %v", snapshot.Categories)
	}
	if len(snapshot.Items) != 0 {
		t.Fatalf("default snapshot has items: %+v", snapshot.Items)
	}
}

func TestSubmitOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/token":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
		case "/orders":
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Fatalf("Authorization = %q", got)
			}
			var req orderRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("decode order: %v", err)
			}
			if req.OrderType != "DINE_IN" || len(req.Items) != 1 {
				t.Fatalf("unexpected order %+v", req)
			}
			if req.Items[0].ItemPathKey != "sourdough-jack-combo" || req.Items[0].Quantity != 1 {
				t.Fatalf("unexpected line %+v", req.Items[0])
			}
			if len(req.Items[0].Modifiers) != 1 || req.Items[0].Modifiers[0] != "curly-fries-side" {
				t.Fatalf("unexpected modifiers %v", req.Items[0].Modifiers)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"orderId":"QU-789"}`))
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	q := newTestClient(server.URL)
	q.ordersURL = server.URL + "/orders"
	tokenConfig := &clientcredentials.Config{
		ClientID:     "deepgramjitb405",
		ClientSecret: "secret",
		TokenURL:     server.URL + "/token",
		Scopes:       []string{"menu:*"},
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	q.tokens = tokenConfig.TokenSource(context.Background())

	items := []*entity.CartItem{{
		ItemID:      "item-1",
		ItemPathKey: "sourdough-jack-combo",
		Name:        "Sourdough Jack Combo",
		Price:       8.99,
		Modifiers:   []entity.Modifier{{ItemPathKey: "curly-fries-side", Name: "Curly Fries"}},
	}}

	orderID, err := q.SubmitOrder(context.Background(), items)
	if err != nil {
		t.Fatalf("SubmitOrder() error = %v", err)
	}
	if orderID != "QU-789" {
		t.Fatalf("orderID = %q, want QU-789", orderID)
	}
}

func TestSubmitOrderWithoutSecret(t *testing.T) {
	q := newTestClient("http://localhost:0")

	if _, err := q.SubmitOrder(context.Background(), nil); err == nil {
		t.Fatalf("expected error without configured credentials")
	}
}

func TestPriceByPathKey(t *testing.T) {
	q := newTestClient("http://localhost:0")
	q.prices = map[string]float64{"combo-1": 8.99, "included-side": 0}

	if got := q.PriceByPathKey("combo-1", "Combo"); got != 8.99 {
		t.Fatalf("price = %v, want 8.99", got)
	}
	if got := q.PriceByPathKey("included-side", "Side"); got != 0 {
		t.Fatalf("zero-priced path = %v, want 0", got)
	}
	if got := q.PriceByPathKey("missing", "Mystery"); got != 0 {
		t.Fatalf("unknown path = %v, want 0", got)
	}
}
