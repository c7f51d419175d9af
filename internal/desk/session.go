package desk

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tariffdesk/tariffdesk-backend/internal/catalog"
	"github.com/tariffdesk/tariffdesk-backend/internal/expiring"
	"github.com/tariffdesk/tariffdesk-backend/internal/history"
	"github.com/tariffdesk/tariffdesk-backend/internal/rangedtariffs"
	"github.com/tariffdesk/tariffdesk-backend/internal/tariffs"
	"github.com/tariffdesk/tariffdesk-backend/pkg/logger"
)

// Session is one operator's view of the tariff service: list reads go through
// the cache, writes go straight to the API and then refresh what they touched.
type Session struct {
	api   *Client
	cache *Cache
	logg  *logger.Logger
}

func NewSession(api *Client, cache *Cache, logg *logger.Logger) (*Session, error) {
	if api == nil {
		return nil, fmt.Errorf("api client required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Session{api: api, cache: cache, logg: logg}, nil
}

// cached returns the list stored under key, fetching and storing it on a miss.
func cached[T any](ctx context.Context, s *Session, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if value, ok := s.cache.Get(key); ok {
		if list, ok := value.([]T); ok {
			return list, nil
		}
	}
	return refetch(ctx, s, key, fetch)
}

func refetch[T any](ctx context.Context, s *Session, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	list, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []T{}
	}
	s.cache.Set(key, list)
	s.logg.Debug(s.logg.WithFields(ctx, map[string]any{"key": key, "rows": len(list)}), "cache filled")
	return list, nil
}

func (s *Session) Clients(ctx context.Context) ([]catalog.Entity, error) {
	return cached(ctx, s, KeyClients, s.api.ListClients)
}

func (s *Session) Categories(ctx context.Context) ([]catalog.Entity, error) {
	return cached(ctx, s, KeyCategories, s.api.ListCategories)
}

func (s *Session) Units(ctx context.Context) ([]catalog.Entity, error) {
	return cached(ctx, s, KeyUnits, s.api.ListUnits)
}

func (s *Session) Items(ctx context.Context) ([]catalog.ItemView, error) {
	return cached(ctx, s, KeyItems, s.api.ListItems)
}

func (s *Session) Tariffs(ctx context.Context) ([]tariffs.View, error) {
	return cached(ctx, s, KeyTariffs, s.api.ListTariffs)
}

func (s *Session) RangedTariffs(ctx context.Context) ([]rangedtariffs.View, error) {
	return cached(ctx, s, KeyRangedTariffs, s.api.ListRangedTariffs)
}

// Expiring is always fetched live.
func (s *Session) Expiring(ctx context.Context) ([]expiring.Client, error) {
	return s.api.ListExpiring(ctx)
}

// History is always fetched live.
func (s *Session) History(ctx context.Context, query url.Values) ([]history.View, error) {
	return s.api.ListHistory(ctx, query)
}

// Refresh drops every cached list; the next read of each list hits the API.
func (s *Session) Refresh() {
	s.cache.Clear()
}

// DeleteTariff removes a tariff and refreshes the cached tariff list.
func (s *Session) DeleteTariff(ctx context.Context, id int64) error {
	if err := s.api.DeleteTariff(ctx, id); err != nil {
		return err
	}
	_, err := refetch(ctx, s, KeyTariffs, s.api.ListTariffs)
	return err
}

func (s *Session) DeleteRangedTariff(ctx context.Context, id int64) error {
	if err := s.api.DeleteRangedTariff(ctx, id); err != nil {
		return err
	}
	_, err := refetch(ctx, s, KeyRangedTariffs, s.api.ListRangedTariffs)
	return err
}

// DeleteClient removes a client. The server refuses while tariffs still
// reference it, so only the client list changes.
func (s *Session) DeleteClient(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, "clients", id, func(ctx context.Context) error {
		_, err := refetch(ctx, s, KeyClients, s.api.ListClients)
		return err
	})
}

func (s *Session) DeleteUnit(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, "units", id, func(ctx context.Context) error {
		_, err := refetch(ctx, s, KeyUnits, s.api.ListUnits)
		return err
	})
}

func (s *Session) DeleteCategory(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, "categories", id, func(ctx context.Context) error {
		_, err := refetch(ctx, s, KeyCategories, s.api.ListCategories)
		return err
	})
}

func (s *Session) DeleteItem(ctx context.Context, id int64) error {
	return s.deleteEntity(ctx, "items", id, func(ctx context.Context) error {
		_, err := refetch(ctx, s, KeyItems, s.api.ListItems)
		return err
	})
}

func (s *Session) deleteEntity(ctx context.Context, resource string, id int64, reload func(context.Context) error) error {
	if err := s.api.DeleteEntity(ctx, resource, id); err != nil {
		return err
	}
	return reload(ctx)
}

func (s *Session) refetchTariffLists(ctx context.Context) error {
	if _, err := refetch(ctx, s, KeyTariffs, s.api.ListTariffs); err != nil {
		return err
	}
	_, err := refetch(ctx, s, KeyRangedTariffs, s.api.ListRangedTariffs)
	return err
}
