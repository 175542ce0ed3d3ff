package pricing

import "strconv"

// Table maps item ids to copper prices and display names. It implements
// the aggregator's PriceTable contract: missing ids price at zero.
type Table struct {
	prices map[int]int
	names  map[int]string
}

// NewTable builds a table from existing maps. Nil maps are allowed.
func NewTable(prices map[int]int, names map[int]string) *Table {
	t := &Table{
		prices: make(map[int]int, len(prices)),
		names:  make(map[int]string, len(names)),
	}
	for id, p := range prices {
		t.prices[id] = p
	}
	for id, n := range names {
		t.names[id] = n
	}
	return t
}

// Price returns the copper price for an item, zero when unknown.
func (t *Table) Price(itemID int) int { return t.prices[itemID] }

// Name returns the display name for an item, with a placeholder for
// unknown ids. Names are for downstream display only, never scoring.
func (t *Table) Name(itemID int) string {
	if n, ok := t.names[itemID]; ok {
		return n
	}
	return fallbackName(itemID)
}

// Len returns the number of priced items.
func (t *Table) Len() int { return len(t.prices) }

// Prices returns a copy of the price map for persistence.
func (t *Table) Prices() map[int]int {
	out := make(map[int]int, len(t.prices))
	for id, p := range t.prices {
		out[id] = p
	}
	return out
}

// Names returns a copy of the name map for persistence.
func (t *Table) Names() map[int]string {
	out := make(map[int]string, len(t.names))
	for id, n := range t.names {
		out[id] = n
	}
	return out
}

func fallbackName(itemID int) string {
	return "Item #" + strconv.Itoa(itemID)
}
