package store //import "github.com/hondana-dev/hondana/store"

import (
	"strings"

	"github.com/hondana-dev/hondana/apperr"
	"github.com/hondana-dev/hondana/model"
	"github.com/hondana-dev/hondana/util"
)

func (s *Store) CreateShop(create *model.Shop) (*model.Shop, error) {
	if create.ID == "" {
		create.ID = util.GenUUID()
	}
	now := util.TimeNow()
	create.CreatedTs = now
	create.UpdatedTs = now

	stmt := `INSERT INTO shops (id, name, created_ts, updated_ts) VALUES (?, ?, ?, ?)`
	if _, err := s.db.Exec(stmt, create.ID, create.Name, create.CreatedTs, create.UpdatedTs); err != nil {
		return nil, apperr.FromSQLite(err)
	}

	shop := *create
	return &shop, nil
}

// GetOrCreateUnspecifiedShop returns the sentinel shop, re-creating it if a
// pre-seeded database lost it.
func (s *Store) GetOrCreateUnspecifiedShop() (*model.Shop, error) {
	id := model.UnspecifiedShopID
	shop, err := s.GetShop(&model.FindShop{ID: &id})
	if err != nil {
		return nil, err
	}
	if shop != nil {
		return shop, nil
	}
	return s.CreateShop(&model.Shop{ID: id, Name: "unspecified"})
}

func (s *Store) GetShop(find *model.FindShop) (*model.Shop, error) {
	if find.ID != nil {
		if cache, ok := s.ShopCache.Load(*find.ID); ok {
			return cache.(*model.Shop), nil
		}
	}

	list, err := s.ListShops(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	shop := list[0]
	s.ShopCache.Store(shop.ID, shop)
	return shop, nil
}

func (s *Store) ListShops(find *model.FindShop) ([]*model.Shop, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "name = ?"), append(args, *v)
	}

	query := `
        SELECT
            id,
            name,
            created_ts,
            updated_ts
        FROM shops
    WHERE ` + strings.Join(where, " AND ") + ` ORDER BY name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Shop, 0)
	for rows.Next() {
		var shop model.Shop
		if err := rows.Scan(&shop.ID, &shop.Name, &shop.CreatedTs, &shop.UpdatedTs); err != nil {
			return nil, err
		}
		list = append(list, &shop)
	}
	return list, rows.Err()
}
