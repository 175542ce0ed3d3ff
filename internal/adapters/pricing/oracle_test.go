package pricing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/gw2"
	"github.com/albrektsson/gw2-guild-leaderboard/internal/adapters/pricing"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeMarket struct {
	prices       map[int]int
	names        map[int]string
	vendorValues map[int]int
	priceBatches [][]int
	itemBatches  [][]int
	pricesErr    error
	itemsErr     error
}

func (f *fakeMarket) CommercePrices(_ context.Context, ids []int) ([]gw2.CommercePrice, error) {
	f.priceBatches = append(f.priceBatches, ids)
	if f.pricesErr != nil {
		return nil, f.pricesErr
	}
	var out []gw2.CommercePrice
	for _, id := range ids {
		if p, ok := f.prices[id]; ok {
			cp := gw2.CommercePrice{ID: id}
			cp.Sells.UnitPrice = p
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeMarket) Items(_ context.Context, ids []int) ([]gw2.Item, error) {
	f.itemBatches = append(f.itemBatches, ids)
	if f.itemsErr != nil {
		return nil, f.itemsErr
	}
	var out []gw2.Item
	for _, id := range ids {
		name, ok := f.names[id]
		if !ok {
			continue
		}
		out = append(out, gw2.Item{ID: id, Name: name, VendorValue: f.vendorValues[id]})
	}
	return out, nil
}

func TestResolve(t *testing.T) {
	Convey("Given a market with tradeable and vendor-only items", t, func() {
		market := &fakeMarket{
			prices:       map[int]int{19721: 3000},
			names:        map[int]string{19721: "Glob of Ectoplasm", 24295: "Vial of Blood"},
			vendorValues: map[int]int{24295: 8},
		}
		oracle := pricing.NewOracle(market)

		Convey("When resolving both plus an unknown id", func() {
			table, err := oracle.Resolve(context.Background(), []int{19721, 24295, 99999})

			Convey("Then the trading post price wins where available", func() {
				So(err, ShouldBeNil)
				So(table.Price(19721), ShouldEqual, 3000)
			})

			Convey("And untradeable items fall back to vendor value", func() {
				So(table.Price(24295), ShouldEqual, 8)
			})

			Convey("And unknown items get zero and a placeholder name", func() {
				So(table.Price(99999), ShouldEqual, 0)
				So(table.Name(99999), ShouldEqual, "Item #99999")
			})

			Convey("And known names come through", func() {
				So(table.Name(19721), ShouldEqual, "Glob of Ectoplasm")
				So(table.Len(), ShouldEqual, 3)
			})
		})
	})

	Convey("Given more ids than the batch size", t, func() {
		market := &fakeMarket{}
		oracle := pricing.NewOracle(market, pricing.WithBatchSize(2))
		ids := []int{1, 2, 3, 4, 5}

		Convey("When resolving", func() {
			_, err := oracle.Resolve(context.Background(), ids)

			Convey("Then both passes chunk the ids", func() {
				So(err, ShouldBeNil)
				So(market.priceBatches, ShouldResemble, [][]int{{1, 2}, {3, 4}, {5}})
				So(market.itemBatches, ShouldResemble, [][]int{{1, 2}, {3, 4}, {5}})
			})
		})
	})

	Convey("Given no ids", t, func() {
		market := &fakeMarket{}
		oracle := pricing.NewOracle(market)

		Convey("When resolving", func() {
			table, err := oracle.Resolve(context.Background(), nil)

			Convey("Then an empty table is returned without touching the API", func() {
				So(err, ShouldBeNil)
				So(table.Len(), ShouldEqual, 0)
				So(market.priceBatches, ShouldBeEmpty)
			})
		})
	})

	Convey("Given a failing market API", t, func() {
		boom := errors.New("api down")

		Convey("When the price pass fails", func() {
			oracle := pricing.NewOracle(&fakeMarket{pricesErr: boom})
			_, err := oracle.Resolve(context.Background(), []int{1})

			Convey("Then the error is wrapped and surfaced", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When the item pass fails", func() {
			oracle := pricing.NewOracle(&fakeMarket{itemsErr: boom})
			_, err := oracle.Resolve(context.Background(), []int{1})

			Convey("Then the error is wrapped and surfaced", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})
	})
}

func TestTable(t *testing.T) {
	Convey("Given a table built from explicit maps", t, func() {
		table := pricing.NewTable(map[int]int{7: 55}, map[int]string{7: "Stick"})

		Convey("When reading known and unknown ids", func() {
			Convey("Then lookups default sensibly", func() {
				So(table.Price(7), ShouldEqual, 55)
				So(table.Name(7), ShouldEqual, "Stick")
				So(table.Price(8), ShouldEqual, 0)
				So(table.Name(8), ShouldEqual, "Item #8")
			})
		})

		Convey("When mutating the exported copies", func() {
			prices := table.Prices()
			prices[7] = 999
			names := table.Names()
			names[7] = "Mutated"

			Convey("Then the table is unaffected", func() {
				So(table.Price(7), ShouldEqual, 55)
				So(table.Name(7), ShouldEqual, "Stick")
			})
		})
	})

	Convey("Given nil maps", t, func() {
		table := pricing.NewTable(nil, nil)

		Convey("Then the table is empty but usable", func() {
			So(table.Len(), ShouldEqual, 0)
			So(table.Price(1), ShouldEqual, 0)
		})
	})
}
