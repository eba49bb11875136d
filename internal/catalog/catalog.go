// Package catalog defines the fixed list of trackable instruments and areas.
package catalog

import "fmt"

// Type classifies a catalog item.
type Type string

const (
	TypeInstrument Type = "instrument"
	TypeArea       Type = "area"
)

// FallbackWeight is used for items without a configured default weight.
const FallbackWeight = 2.0

// Item is one trackable instrument or practice area.
// IDs are stable and must never be reused for a different item.
type Item struct {
	ID     string
	Name   string
	Type   Type
	Weight float64
}

// Catalog is an ordered, read-only list of items.
type Catalog struct {
	items []Item
	index map[string]int
}

// New validates items and builds a catalog preserving their order.
func New(items []Item) (Catalog, error) {
	if len(items) == 0 {
		return Catalog{}, fmt.Errorf("catalog is empty")
	}
	c := Catalog{
		items: make([]Item, 0, len(items)),
		index: make(map[string]int, len(items)),
	}
	for _, it := range items {
		if it.ID == "" {
			return Catalog{}, fmt.Errorf("catalog item has empty id")
		}
		if _, ok := c.index[it.ID]; ok {
			return Catalog{}, fmt.Errorf("duplicate catalog id %q", it.ID)
		}
		switch it.Type {
		case TypeInstrument, TypeArea:
		case "":
			it.Type = TypeInstrument
		default:
			return Catalog{}, fmt.Errorf("catalog item %q has unknown type %q", it.ID, it.Type)
		}
		if it.Name == "" {
			it.Name = it.ID
		}
		c.index[it.ID] = len(c.items)
		c.items = append(c.items, it)
	}
	return c, nil
}

// Default returns the built-in catalog.
func Default() Catalog {
	c, err := New(defaultItems)
	if err != nil {
		panic(err)
	}
	return c
}

// Items returns a copy of the catalog items in order.
func (c Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns item ids in catalog order.
func (c Catalog) IDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}
	return ids
}

// Len reports the number of items.
func (c Catalog) Len() int {
	return len(c.items)
}

// Lookup finds an item by id.
func (c Catalog) Lookup(id string) (Item, bool) {
	i, ok := c.index[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Has reports whether id belongs to the catalog.
func (c Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// DefaultWeight returns the configured default weight for id.
func (c Catalog) DefaultWeight(id string) float64 {
	if it, ok := c.Lookup(id); ok && it.Weight > 0 {
		return it.Weight
	}
	return FallbackWeight
}

var defaultItems = []Item{
	{ID: "piano", Name: "Piano", Type: TypeInstrument, Weight: 4},
	{ID: "guitarra-elec", Name: "Guitarra eléctrica", Type: TypeInstrument, Weight: 3},
	{ID: "guitarra-ac", Name: "Guitarra acústica", Type: TypeInstrument, Weight: 2},
	{ID: "bajo", Name: "Bajo eléctrico", Type: TypeInstrument, Weight: 2},
	{ID: "violin", Name: "Violín", Type: TypeInstrument, Weight: 3},
	{ID: "cello", Name: "Cello", Type: TypeInstrument, Weight: 2},
	{ID: "flauta-traversa", Name: "Flauta traversa", Type: TypeInstrument, Weight: 2},
	{ID: "bateria", Name: "Batería", Type: TypeInstrument, Weight: 2},
	{ID: "canto", Name: "Canto", Type: TypeArea, Weight: 3},
	{ID: "composicion", Name: "Composición", Type: TypeArea, Weight: 2},
	{ID: "teoria", Name: "Teoría", Type: TypeArea, Weight: 2},
	{ID: "produccion", Name: "Producción musical", Type: TypeArea, Weight: 2},
	{ID: "ukelele", Name: "Ukelele", Type: TypeInstrument, Weight: 1},
	{ID: "flauta-dulce", Name: "Flauta dulce", Type: TypeInstrument, Weight: 1},
}
