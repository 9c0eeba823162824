package menuService

import (
	"DriveThruGolang/internal/api/menu"
	"DriveThruGolang/internal/entity"
	contextPkg "DriveThruGolang/pkg/context"
	"fmt"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
	"strings"
)

func (s *menuService) Categories(ctx context.Context) menu.CategoriesResponse {
	requestID := contextPkg.GetRequestID(ctx)
	snapshot := s.qu.Snapshot()

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"count":      len(snapshot.Categories),
		"cached":     snapshot.Cached,
	}).Debug("Returning menu categories")

	return menu.CategoriesResponse{
		Categories: snapshot.Categories,
		Cached:     snapshot.Cached,
	}
}

func (s *menuService) CategoryItems(ctx context.Context, req menu.CategoryItemsRequest) menu.CategoryItemsResponse {
	requestID := contextPkg.GetRequestID(ctx)
	snapshot := s.qu.Snapshot()

	wanted := strings.ToLower(strings.TrimSpace(req.Category))

	match := ""
	for _, name := range snapshot.Categories {
		if strings.ToLower(name) == wanted {
			match = name
			break
		}
	}
	if match == "" {
		for _, name := range snapshot.Categories {
			lower := strings.ToLower(name)
			if strings.Contains(lower, wanted) || strings.Contains(wanted, lower) {
				match = name
				break
			}
		}
	}

	items := snapshot.Items[match]
	if len(items) == 0 {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"category":   req.Category,
		}).Warn("No items found for category")

		return menu.CategoryItemsResponse{
			Category: req.Category,
			Items:    []entity.MenuItem{},
			Message:  fmt.Sprintf("No items found for category '%s'", req.Category),
			Cached:   true,
		}
	}

	return menu.CategoryItemsResponse{
		Success:  true,
		Category: wanted,
		Items:    items,
		Count:    len(items),
		Cached:   true,
	}
}

func (s *menuService) QueryItems(ctx context.Context, req menu.QueryItemsRequest) (menu.QueryItemsResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	timers := s.latency.Session(requestID)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	timers.Start("qu_query_items")

	result, err := s.qu.SearchItems(ctx, req.Query, limit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"query":      req.Query,
			"error":      err.Error(),
		}).Error("Failed to query catalog items")
		return menu.QueryItemsResponse{}, menu.ErrMalformedCatalog
	}

	if result.Degraded {
		count := len(result.Results)
		return menu.QueryItemsResponse{
			Results: result.Results,
			Count:   &count,
			Warning: "Using mock data - backend server unavailable",
		}, nil
	}

	timers.End("qu_query_items", map[string]interface{}{
		"query":        req.Query,
		"result_count": len(result.Results),
	})

	if len(result.Results) == 0 {
		return menu.QueryItemsResponse{
			Results: []entity.CatalogItem{},
			Message: fmt.Sprintf("No items found matching '%s'", req.Query),
		}, nil
	}

	count := len(result.Results)
	return menu.QueryItemsResponse{
		Results: result.Results,
		Count:   &count,
	}, nil
}

// QueryModifiers also feeds the session's modifier cache so a following
// AddItem/AddModifier can resolve names without another backend round
// trip. Degraded results are never cached.
func (s *menuService) QueryModifiers(ctx context.Context, session *entity.OrderSession, req menu.QueryModifiersRequest) (menu.QueryModifiersResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	timers := s.latency.Session(requestID)

	limit := req.Limit
	if limit <= 0 {
		limit = defaultQueryLimit
	}

	timers.Start("qu_query_modifiers")

	result, err := s.qu.SearchModifiers(ctx, req.Query, req.Parent, limit)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"query":      req.Query,
			"parent":     req.Parent,
			"error":      err.Error(),
		}).Error("Failed to query catalog modifiers")
		return menu.QueryModifiersResponse{}, menu.ErrMalformedCatalog
	}

	if result.Degraded {
		return menu.QueryModifiersResponse{
			Parent:  req.Parent,
			Results: result.Results,
			Count:   len(result.Results),
			Warning: "Using mock data - backend server unavailable",
		}, nil
	}

	if session != nil {
		for _, mod := range result.Results {
			session.CachedModifiers[mod.ItemPathKey] = entity.CachedModifier{
				Name:  mod.Name,
				Price: mod.Price,
			}
		}
	}

	timers.End("qu_query_modifiers", map[string]interface{}{
		"query":        req.Query,
		"parent":       truncate(req.Parent, 20),
		"result_count": len(result.Results),
	})

	return menu.QueryModifiersResponse{
		Parent:  req.Parent,
		Results: result.Results,
		Count:   len(result.Results),
	}, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
