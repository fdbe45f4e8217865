// Package catalog holds the orderable menu. Items are loaded once at
// process start and never change afterwards.
package catalog

import (
	"orders-bot/pkg/models"
)

type Catalog struct {
	items []models.CatalogItem
	byID  map[int]models.CatalogItem
}

// New builds a catalog from the given items. Passing nil loads the
// default menu.
func New(items []models.CatalogItem) *Catalog {
	if items == nil {
		items = defaultMenu()
	}
	byID := make(map[int]models.CatalogItem, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	return &Catalog{items: items, byID: byID}
}

// Items returns all orderable items in menu order.
func (c *Catalog) Items() []models.CatalogItem {
	return c.items
}

// Find looks an item up by id.
func (c *Catalog) Find(id int) (models.CatalogItem, bool) {
	it, ok := c.byID[id]
	return it, ok
}

func defaultMenu() []models.CatalogItem {
	return []models.CatalogItem{
		{ID: 1, Name: "Pizza Margherita", Price: 1500, Description: "Salsa de tomate, mozzarella y albahaca"},
		{ID: 2, Name: "Hamburguesa Clásica", Price: 1200, Description: "Carne, lechuga, tomate y salsas"},
		{ID: 3, Name: "Ensalada César", Price: 900, Description: "Lechuga, pollo, crutones y aderezo césar"},
		{ID: 4, Name: "Agua Mineral", Price: 300, Description: "Botella 500ml"},
		{ID: 5, Name: "Gaseosa", Price: 400, Description: "Lata 350ml"},
	}
}
