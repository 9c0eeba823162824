package menuService

import (
	"DriveThruGolang/internal/api/menu"
	"DriveThruGolang/internal/entity"
	"DriveThruGolang/pkg/latency"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
)

type fakeQu struct {
	snapshot    *entity.MenuSnapshot
	itemsResult *entity.ItemSearchResult
	itemsErr    error
	modsResult  *entity.ModifierSearchResult
	modsErr     error
	lastQuery   string
	lastParent  string
	lastLimit   int
}

func (f *fakeQu) Snapshot() *entity.MenuSnapshot {
	if f.snapshot == nil {
		return &entity.MenuSnapshot{}
	}
	return f.snapshot
}

func (f *fakeQu) SearchItems(ctx context.Context, query string, limit int) (*entity.ItemSearchResult, error) {
	f.lastQuery = query
	f.lastLimit = limit
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	if f.itemsResult == nil {
		return &entity.ItemSearchResult{Results: []entity.CatalogItem{}}, nil
	}
	return f.itemsResult, nil
}

func (f *fakeQu) SearchModifiers(ctx context.Context, query, parent string, limit int) (*entity.ModifierSearchResult, error) {
	f.lastQuery = query
	f.lastParent = parent
	f.lastLimit = limit
	if f.modsErr != nil {
		return nil, f.modsErr
	}
	if f.modsResult == nil {
		return &entity.ModifierSearchResult{Parent: parent, Results: []entity.CatalogModifier{}}, nil
	}
	return f.modsResult, nil
}

func (f *fakeQu) FindModifierName(ctx context.Context, parent, itemPathKey string) (string, bool) {
	return "", false
}

func (f *fakeQu) LookupItemName(itemPathKey string) (string, bool) { return "", false }

func (f *fakeQu) PriceByPathKey(itemPathKey, itemName string) float64 { return 0 }

func (f *fakeQu) SubmitOrder(ctx context.Context, items []*entity.CartItem) (string, error) {
	return "", nil
}

type fakeTracker struct {
	starts []string
	ends   []string
	meta   []map[string]interface{}
}

func (f *fakeTracker) Start(operation string) { f.starts = append(f.starts, operation) }

func (f *fakeTracker) End(operation string, metadata map[string]interface{}) float64 {
	f.ends = append(f.ends, operation)
	f.meta = append(f.meta, metadata)
	return 1
}

func (f *fakeTracker) Stats(operation string) latency.Stats {
	return latency.Stats{Operation: operation}
}

func (f *fakeTracker) AllStats() []latency.Stats { return nil }

func (f *fakeTracker) Session(sessionID string) latency.ISessionTimers { return f }

func newTestService(qu *fakeQu) (IMenuService, *fakeTracker) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	tracker := &fakeTracker{}
	return NewMenuService(logger, qu, tracker), tracker
}

func snapshotFixture() *entity.MenuSnapshot {
	return &entity.MenuSnapshot{
		Categories: []string{"Breakfast", "Drinks", "Late Night & LTOs"},
		Items: map[string][]entity.MenuItem{
			"Breakfast":         {{Name: "Supreme Croissant", ItemPathKey: "supreme-croissant", Price: 4.99}},
			"Drinks":            {{Name: "Iced Coffee", ItemPathKey: "iced-coffee", Price: 2.99}, {Name: "Orange Juice", ItemPathKey: "orange-juice", Price: 2.49}},
			"Late Night & LTOs": {{Name: "Munchie Meal", ItemPathKey: "munchie-meal", Price: 10.99}},
		},
		Cached: true,
	}
}

func TestCategoriesFromSnapshot(t *testing.T) {
	svc, _ := newTestService(&fakeQu{snapshot: snapshotFixture()})

	resp := svc.Categories(context.Background())

	if !resp.Cached {
		t.Errorf("resp.Cached = false, want true")
	}
	if len(resp.Categories) != 3 || resp.Categories[0] != "Breakfast" {
		t.Errorf("resp.Categories = %v, want the snapshot order", resp.Categories)
	}
}

func TestCategoriesUncachedDefaults(t *testing.T) {
	svc, _ := newTestService(&fakeQu{snapshot: &entity.MenuSnapshot{
		Categories: []string{"Breakfast", "Lunch/Dinner"},
		Cached:     false,
	}})

	resp := svc.Categories(context.Background())

	if resp.Cached {
		t.Errorf("resp.Cached = true, want false when the preload fell back to defaults")
	}
}

func TestCategoryItemsExactMatchIsCaseInsensitive(t *testing.T) {
	svc, _ := newTestService(&fakeQu{snapshot: snapshotFixture()})

	resp := svc.CategoryItems(context.Background(), menu.CategoryItemsRequest{Category: " DRINKS "})

	if !resp.Success {
		t.Fatalf("resp.Success = false, want true")
	}
	if resp.Category != "drinks" {
		t.Errorf("resp.Category = %q, want the normalized name", resp.Category)
	}
	if resp.Count != 2 || len(resp.Items) != 2 {
		t.Errorf("resp.Count = %d with %d items, want 2", resp.Count, len(resp.Items))
	}
	if !resp.Cached {
		t.Errorf("resp.Cached = false, want true")
	}
}

func TestCategoryItemsSubstringMatch(t *testing.T) {
	svc, _ := newTestService(&fakeQu{snapshot: snapshotFixture()})

	resp := svc.CategoryItems(context.Background(), menu.CategoryItemsRequest{Category: "late night"})

	if !resp.Success {
		t.Fatalf("resp.Success = false, want a substring match on %q", "Late Night & LTOs")
	}
	if len(resp.Items) != 1 || resp.Items[0].Name != "Munchie Meal" {
		t.Errorf("resp.Items = %v, want the late night items", resp.Items)
	}
}

func TestCategoryItemsNoMatch(t *testing.T) {
	svc, _ := newTestService(&fakeQu{snapshot: snapshotFixture()})

	resp := svc.CategoryItems(context.Background(), menu.CategoryItemsRequest{Category: "Pizza"})

	if resp.Success {
		t.Fatalf("resp.Success = true, want false")
	}
	if resp.Category != "Pizza" {
		t.Errorf("resp.Category = %q, want the input untouched on a miss", resp.Category)
	}
	if resp.Items == nil || len(resp.Items) != 0 {
		t.Errorf("resp.Items = %v, want empty non-nil slice", resp.Items)
	}
	if resp.Message != "No items found for category 'Pizza'" {
		t.Errorf("resp.Message = %q", resp.Message)
	}
}

func TestQueryItemsBackendSuccess(t *testing.T) {
	qu := &fakeQu{itemsResult: &entity.ItemSearchResult{
		Results: []entity.CatalogItem{
			{ItemPathKey: "sourdough-jack-combo", Name: "Sourdough Jack Combo", Price: 8.99},
			{ItemPathKey: "jumbo-jack-combo", Name: "Jumbo Jack Combo", Price: 7.99},
		},
	}}
	svc, tracker := newTestService(qu)

	resp, err := svc.QueryItems(context.Background(), menu.QueryItemsRequest{Query: "burger", Limit: 3})
	if err != nil {
		t.Fatalf("QueryItems() error = %v", err)
	}
	if resp.Count == nil || *resp.Count != 2 {
		t.Errorf("resp.Count = %v, want 2", resp.Count)
	}
	if resp.Message != "" || resp.Warning != "" {
		t.Errorf("resp = %+v, want no message or warning on a live result", resp)
	}
	if qu.lastQuery != "burger" || qu.lastLimit != 3 {
		t.Errorf("backend saw query=%q limit=%d, want burger/3", qu.lastQuery, qu.lastLimit)
	}

	if len(tracker.starts) != 1 || tracker.starts[0] != "qu_query_items" {
		t.Fatalf("tracker.starts = %v, want one qu_query_items", tracker.starts)
	}
	if len(tracker.ends) != 1 {
		t.Fatalf("tracker.ends = %v, want the timer ended", tracker.ends)
	}
	if got := tracker.meta[0]["result_count"]; got != 2 {
		t.Errorf("timer result_count = %v, want 2", got)
	}
}

func TestQueryItemsNoMatches(t *testing.T) {
	svc, tracker := newTestService(&fakeQu{})

	resp, err := svc.QueryItems(context.Background(), menu.QueryItemsRequest{Query: "sushi"})
	if err != nil {
		t.Fatalf("QueryItems() error = %v", err)
	}
	if resp.Count != nil {
		t.Errorf("resp.Count = %v, want omitted on the no-match shape", *resp.Count)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("resp.Results = %v, want empty non-nil slice", resp.Results)
	}
	if resp.Message != "No items found matching 'sushi'" {
		t.Errorf("resp.Message = %q", resp.Message)
	}
	if len(tracker.ends) != 1 {
		t.Errorf("tracker.ends = %v, want the timer ended before the empty check", tracker.ends)
	}
}

func TestQueryItemsDegraded(t *testing.T) {
	qu := &fakeQu{itemsResult: &entity.ItemSearchResult{
		Results:  []entity.CatalogItem{{ItemPathKey: "curly-fries-small", Name: "Curly Fries (Small)", Price: 2.49}},
		Degraded: true,
	}}
	svc, tracker := newTestService(qu)

	resp, err := svc.QueryItems(context.Background(), menu.QueryItemsRequest{Query: "fries"})
	if err != nil {
		t.Fatalf("QueryItems() error = %v", err)
	}
	if resp.Warning != "Using mock data - backend server unavailable" {
		t.Errorf("resp.Warning = %q", resp.Warning)
	}
	if resp.Count == nil || *resp.Count != 1 {
		t.Errorf("resp.Count = %v, want 1", resp.Count)
	}
	if len(tracker.ends) != 0 {
		t.Errorf("tracker.ends = %v, want no end on the degraded path", tracker.ends)
	}
}

func TestQueryItemsMalformedBackend(t *testing.T) {
	svc, _ := newTestService(&fakeQu{itemsErr: errors.New("failed to decode item query response")})

	_, err := svc.QueryItems(context.Background(), menu.QueryItemsRequest{Query: "burger"})
	if !errors.Is(err, menu.ErrMalformedCatalog) {
		t.Fatalf("QueryItems() error = %v, want ErrMalformedCatalog", err)
	}
}

func TestQueryItemsDefaultLimit(t *testing.T) {
	qu := &fakeQu{}
	svc, _ := newTestService(qu)

	if _, err := svc.QueryItems(context.Background(), menu.QueryItemsRequest{Query: "burger"}); err != nil {
		t.Fatalf("QueryItems() error = %v", err)
	}
	if qu.lastLimit != 5 {
		t.Errorf("backend saw limit=%d, want the default 5", qu.lastLimit)
	}
}

func TestQueryModifiersCachesResults(t *testing.T) {
	qu := &fakeQu{modsResult: &entity.ModifierSearchResult{
		Parent: "sourdough-jack-combo-extra-long-path",
		Results: []entity.CatalogModifier{
			{ItemPathKey: "curly-fries-side", Name: "Curly Fries", ModifierType: "side", Price: 0},
			{ItemPathKey: "onion-rings-side", Name: "Onion Rings", ModifierType: "side", Price: 0.50},
		},
	}}
	svc, tracker := newTestService(qu)
	session := entity.NewOrderSession("session-1")

	resp, err := svc.QueryModifiers(context.Background(), session, menu.QueryModifiersRequest{
		Query:  "fries",
		Parent: "sourdough-jack-combo-extra-long-path",
	})
	if err != nil {
		t.Fatalf("QueryModifiers() error = %v", err)
	}
	if resp.Count != 2 {
		t.Errorf("resp.Count = %d, want 2", resp.Count)
	}
	if resp.Parent != "sourdough-jack-combo-extra-long-path" {
		t.Errorf("resp.Parent = %q", resp.Parent)
	}

	cached, ok := session.CachedModifiers["onion-rings-side"]
	if !ok {
		t.Fatalf("session.CachedModifiers missing onion-rings-side, got %v", session.CachedModifiers)
	}
	if cached.Name != "Onion Rings" || cached.Price != 0.50 {
		t.Errorf("cached modifier = %+v, want name and price captured", cached)
	}

	if len(tracker.meta) != 1 {
		t.Fatalf("tracker.meta = %v, want one end", tracker.meta)
	}
	if got := tracker.meta[0]["parent"]; got != "sourdough-jack-combo" {
		t.Errorf("timer parent = %v, want it truncated to 20 chars", got)
	}
	if got := tracker.meta[0]["result_count"]; got != 2 {
		t.Errorf("timer result_count = %v, want 2", got)
	}
}

func TestQueryModifiersDegradedSkipsCache(t *testing.T) {
	qu := &fakeQu{modsResult: &entity.ModifierSearchResult{
		Parent:   "jumbo-jack-combo",
		Results:  []entity.CatalogModifier{{ItemPathKey: "coke-drink", Name: "Coca-Cola", ModifierType: "drink"}},
		Degraded: true,
	}}
	svc, tracker := newTestService(qu)
	session := entity.NewOrderSession("session-1")

	resp, err := svc.QueryModifiers(context.Background(), session, menu.QueryModifiersRequest{Query: "coca cola", Parent: "jumbo-jack-combo"})
	if err != nil {
		t.Fatalf("QueryModifiers() error = %v", err)
	}
	if resp.Warning == "" {
		t.Errorf("resp.Warning empty, want the mock data warning")
	}
	if len(session.CachedModifiers) != 0 {
		t.Errorf("session.CachedModifiers = %v, want degraded results left uncached", session.CachedModifiers)
	}
	if len(tracker.ends) != 0 {
		t.Errorf("tracker.ends = %v, want no end on the degraded path", tracker.ends)
	}
}

func TestQueryModifiersWithoutSession(t *testing.T) {
	qu := &fakeQu{modsResult: &entity.ModifierSearchResult{
		Parent:  "jumbo-jack-combo",
		Results: []entity.CatalogModifier{{ItemPathKey: "coke-drink", Name: "Coca-Cola", ModifierType: "drink"}},
	}}
	svc, _ := newTestService(qu)

	resp, err := svc.QueryModifiers(context.Background(), nil, menu.QueryModifiersRequest{Query: "coca cola", Parent: "jumbo-jack-combo"})
	if err != nil {
		t.Fatalf("QueryModifiers() error = %v", err)
	}
	if resp.Count != 1 {
		t.Errorf("resp.Count = %d, want 1", resp.Count)
	}
}
