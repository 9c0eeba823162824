package qu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"DriveThruGolang/internal/entity"
	"DriveThruGolang/pkg/redis"
)

const menuSnapshotTTL = time.Hour

// IQu is the catalog and ordering client. Searches degrade to the
// built-in menu when the backend is unreachable instead of failing.
type IQu interface {
	Snapshot() *entity.MenuSnapshot
	SearchItems(ctx context.Context, query string, limit int) (*entity.ItemSearchResult, error)
	SearchModifiers(ctx context.Context, query, parent string, limit int) (*entity.ModifierSearchResult, error)
	FindModifierName(ctx context.Context, parent, itemPathKey string) (string, bool)
	LookupItemName(itemPathKey string) (string, bool)
	PriceByPathKey(itemPathKey, itemName string) float64
	SubmitOrder(ctx context.Context, items []*entity.CartItem) (string, error)
}

type quClient struct {
	backendURL string
	ordersURL  string
	httpClient *http.Client
	menuClient *http.Client
	snapshot   *entity.MenuSnapshot
	prices     map[string]float64
	tokens     oauth2.TokenSource
	log        *logrus.Logger
}

func New(log *logrus.Logger, cache redis.IRedis) IQu {
	backendURL := os.Getenv("BACKEND_URL")
	if backendURL == "" {
		backendURL = "http://localhost:4000"
	}

	quBaseURL := os.Getenv("QU_BASE_URL")
	if quBaseURL == "" {
		quBaseURL = "https://gateway-api.qubeyond.com/api/v4"
	}

	clientID := os.Getenv("QU_CLIENT_ID")
	if clientID == "" {
		clientID = "deepgramjitb405"
	}

	q := &quClient{
		backendURL: backendURL,
		ordersURL:  quBaseURL + "/orders",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		menuClient: &http.Client{Timeout: 15 * time.Second},
		log:        log,
	}

	if secret := os.Getenv("QU_SECRET"); secret != "" {
		tokenConfig := &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: secret,
			TokenURL:     quBaseURL + "/authentication/oauth2/access-token",
			Scopes:       []string{"menu:*"},
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		q.tokens = tokenConfig.TokenSource(context.Background())
	} else {
		log.Warn("QU_SECRET not set, order submission will save locally only")
	}

	q.prices = loadPrices(log)
	q.snapshot = q.loadMenu(cache)

	return q
}

// loadMenu fills the startup snapshot from the first tier that answers:
// live backend, then the cached copy, then the built-in defaults.
func (q *quClient) loadMenu(cache redis.IRedis) *entity.MenuSnapshot {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	snapshot, err := q.fetchLiveMenu(ctx)
	if err == nil {
		total := 0
		for _, items := range snapshot.Items {
			total += len(items)
		}
		q.log.WithFields(logrus.Fields{
			"categories": len(snapshot.Categories),
			"items":      total,
		}).Info("Loaded full menu from catalog backend")

		if cache != nil {
			_ = cache.SetMenuSnapshot(ctx, snapshot, menuSnapshotTTL)
		}
		return snapshot
	}

	q.log.Warnf("Could not load menu from catalog backend: %v", err)

	if cache != nil {
		cached, cacheErr := cache.GetMenuSnapshot(ctx)
		if cacheErr == nil && cached != nil && !cached.Empty() {
			q.log.WithFields(logrus.Fields{
				"categories": len(cached.Categories),
				"loaded_at":  cached.LoadedAt,
			}).Info("Using cached menu snapshot")
			return cached
		}
	}

	q.log.Warn("Using default menu categories")
	return &entity.MenuSnapshot{
		Categories: defaultCategories,
		Items:      make(map[string][]entity.MenuItem),
		Cached:     false,
	}
}

func (q *quClient) fetchLiveMenu(ctx context.Context) (*entity.MenuSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, q.backendURL+"/menu", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create menu request: %v", err)
	}

	resp, err := q.menuClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("menu endpoint returned status %d", resp.StatusCode)
	}

	var menu menuResponse
	if err := json.NewDecoder(resp.Body).Decode(&menu); err != nil {
		return nil, fmt.Errorf("failed to decode menu response: %v", err)
	}

	if len(menu.Value.Categories) == 0 {
		return nil, fmt.Errorf("menu response contained no categories")
	}

	return q.buildSnapshot(&menu), nil
}

func (q *quClient) buildSnapshot(menu *menuResponse) *entity.MenuSnapshot {
	categories := make([]string, 0, len(menu.Value.Categories))
	items := make(map[string][]entity.MenuItem)

	for i := range menu.Value.Categories {
		node := &menu.Value.Categories[i]
		title := node.displayName()
		if title == "" {
			continue
		}

		collected := q.collectItems(node)
		if len(collected) == 0 {
			continue
		}

		categories = append(categories, title)
		items[title] = collected
	}

	// Desserts are scattered through Qu's categories under a name
	// prefix, so they get a virtual category of their own.
	var desserts []entity.MenuItem
	for _, category := range categories {
		for _, item := range items[category] {
			if strings.HasPrefix(item.Name, "Dessert -") {
				desserts = append(desserts, item)
			}
		}
	}
	if len(desserts) > 0 {
		categories = append(categories, "Desserts")
		items["Desserts"] = desserts
	}

	return &entity.MenuSnapshot{
		Categories: categories,
		Items:      items,
		Cached:     true,
		LoadedAt:   time.Now(),
	}
}

// collectItems walks one menu subtree. Modifier nodes are pruned along
// with their children, and zero-priced leaves are treated as internal.
func (q *quClient) collectItems(node *backendItem) []entity.MenuItem {
	title := node.displayName()
	if title == "" {
		return nil
	}
	if strings.HasPrefix(title, "Mod -") || strings.HasPrefix(title, "Modifier -") {
		return nil
	}

	var collected []entity.MenuItem
	if key := node.pathKey(); key != "" {
		if price := q.PriceByPathKey(key, title); price > 0 {
			collected = append(collected, entity.MenuItem{
				Name:        title,
				ItemPathKey: key,
				Price:       price,
				Description: node.describe(),
			})
		}
	}

	for i := range node.Children {
		collected = append(collected, q.collectItems(&node.Children[i])...)
	}

	return collected
}

func (q *quClient) Snapshot() *entity.MenuSnapshot {
	return q.snapshot
}

func (q *quClient) SearchItems(ctx context.Context, query string, limit int) (*entity.ItemSearchResult, error) {
	body, err := q.backendPost(ctx, "/query/items", queryRequest{Query: query, Limit: limit})
	if err != nil {
		q.log.Warnf("Could not reach catalog backend: %v, falling back to mock menu data", err)
		return &entity.ItemSearchResult{
			Results:  matchFallbackItems(query, limit),
			Degraded: true,
		}, nil
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode item query response: %v", err)
	}

	results := make([]entity.CatalogItem, 0, len(decoded.Items))
	for i := range decoded.Items {
		item := &decoded.Items[i]
		results = append(results, entity.CatalogItem{
			ItemPathKey: item.pathKey(),
			Name:        item.displayName(),
			Category:    item.Category,
			Price:       item.Price,
			Description: item.describe(),
		})
	}

	return &entity.ItemSearchResult{Results: results}, nil
}

func (q *quClient) SearchModifiers(ctx context.Context, query, parent string, limit int) (*entity.ModifierSearchResult, error) {
	body, err := q.backendPost(ctx, "/query/modifiers", queryRequest{Query: query, Limit: limit, Parent: parent})
	if err != nil {
		q.log.Warnf("Could not reach catalog backend: %v, falling back to mock modifier data", err)
		return &entity.ModifierSearchResult{
			Parent:   parent,
			Results:  matchFallbackModifiers(query, limit),
			Degraded: true,
		}, nil
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode modifier query response: %v", err)
	}

	results := make([]entity.CatalogModifier, 0, len(decoded.Items))
	for i := range decoded.Items {
		item := &decoded.Items[i]
		results = append(results, entity.CatalogModifier{
			ItemPathKey:  item.pathKey(),
			Name:         item.displayName(),
			ModifierType: item.modifierKind(),
			Price:        item.Price,
		})
	}

	return &entity.ModifierSearchResult{Parent: parent, Results: results}, nil
}

// FindModifierName asks the backend for every modifier under parent and
// scans for the requested path. Used when a modifier was never surfaced
// through a search first.
func (q *quClient) FindModifierName(ctx context.Context, parent, itemPathKey string) (string, bool) {
	body, err := q.backendPost(ctx, "/query/modifiers", queryRequest{Query: "", Limit: 100, Parent: parent})
	if err != nil {
		return "", false
	}

	var decoded queryResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", false
	}

	for i := range decoded.Items {
		if decoded.Items[i].pathKey() == itemPathKey {
			return decoded.Items[i].displayName(), true
		}
	}

	return "", false
}

func (q *quClient) LookupItemName(itemPathKey string) (string, bool) {
	for _, category := range q.snapshot.Categories {
		for _, item := range q.snapshot.Items[category] {
			if item.ItemPathKey == itemPathKey {
				return item.Name, true
			}
		}
	}
	return "", false
}

// PriceByPathKey returns the real Qu price for a path, or 0.00 when the
// path is unknown (usually a modifier already included in a combo).
func (q *quClient) PriceByPathKey(itemPathKey, itemName string) float64 {
	price, ok := q.prices[itemPathKey]
	if ok && price > 0 {
		return price
	}

	if !ok {
		q.log.Debugf("Price not found for %s (%s), using $0.00", itemPathKey, itemName)
	}

	return 0.0
}

func (q *quClient) SubmitOrder(ctx context.Context, items []*entity.CartItem) (string, error) {
	if q.tokens == nil {
		return "", fmt.Errorf("QU_SECRET is not configured")
	}

	token, err := q.tokens.Token()
	if err != nil {
		return "", fmt.Errorf("failed to get Qu access token: %v", err)
	}

	payload := orderRequest{OrderType: "DINE_IN"}
	for _, item := range items {
		line := orderLineItem{
			ItemPathKey: item.ItemPathKey,
			Quantity:    1,
			Modifiers:   make([]string, 0, len(item.Modifiers)),
		}
		for _, mod := range item.Modifiers {
			line.Modifiers = append(line.Modifiers, mod.ItemPathKey)
		}
		payload.Items = append(payload.Items, line)
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal order: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.ordersURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create order request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to submit order: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("order submission returned status %d", resp.StatusCode)
	}

	var decoded orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("failed to decode order response: %v", err)
	}

	if decoded.OrderID != "" {
		return decoded.OrderID, nil
	}
	return decoded.ID, nil
}

func (q *quClient) backendPost(ctx context.Context, path string, payload queryRequest) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.backendURL+path, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

func loadPrices(log *logrus.Logger) map[string]float64 {
	filename := os.Getenv("QU_PRICES_FILE")
	if filename == "" {
		filename = "qu_prices_complete.json"
	}

	raw, err := os.ReadFile(filename)
	if err != nil {
		log.Warnf("Could not load %s: %v, falling back to default prices", filename, err)
		return make(map[string]float64)
	}

	var data priceFile
	if err := json.Unmarshal(raw, &data); err != nil {
		log.Warnf("Could not parse %s: %v, falling back to default prices", filename, err)
		return make(map[string]float64)
	}

	log.WithFields(logrus.Fields{
		"price_count": len(data.Prices),
	}).Info("Loaded real Qu prices")

	return data.Prices
}
