package analytics

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/NataliPereb/sales-bonus/internal/domain/sales"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared"
	"github.com/NataliPereb/sales-bonus/internal/domain/shared/strategy"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/strategy/bonus"
	"github.com/NataliPereb/sales-bonus/internal/infrastructure/strategy/revenue"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// collectingSink records every anomaly it receives
type collectingSink struct {
	mu        sync.Mutex
	anomalies []sales.Anomaly
}

func (s *collectingSink) ReportAnomaly(_ context.Context, a sales.Anomaly) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.anomalies = append(s.anomalies, a)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func defaultStrategies() Strategies {
	return Strategies{
		Revenue: revenue.NewDiscountRevenueStrategy(),
		Bonus:   bonus.DefaultTieredBonusStrategy(),
	}
}

func seller(id string) sales.Seller {
	return sales.Seller{ID: id, FirstName: "Seller", LastName: id}
}

func product(sku, purchasePrice string) sales.Product {
	return sales.Product{SKU: sku, PurchasePrice: dec(purchasePrice), SalePrice: dec(purchasePrice)}
}

func item(sku string, qty int64, price, discount string) sales.LineItem {
	return sales.LineItem{SKU: sku, Quantity: qty, SalePrice: dec(price), Discount: dec(discount)}
}

func record(receiptID, sellerID, total string, items ...sales.LineItem) sales.PurchaseRecord {
	return sales.PurchaseRecord{
		ReceiptID:   receiptID,
		SellerID:    sellerID,
		Items:       items,
		TotalAmount: dec(total),
	}
}

func singleSellerDataset() *sales.Dataset {
	return &sales.Dataset{
		Sellers:  []sales.Seller{seller("s1")},
		Products: []sales.Product{product("A", "5")},
		PurchaseRecords: []sales.PurchaseRecord{
			record("r1", "s1", "20", item("A", 2, "10", "0")),
		},
		Customers: []sales.Customer{},
	}
}

func TestAnalyze_SingleSellerExample(t *testing.T) {
	scorecard, err := Analyze(context.Background(), singleSellerDataset(), defaultStrategies())
	require.NoError(t, err)
	require.Len(t, scorecard, 1)

	r := scorecard[0]
	assert.Equal(t, "s1", r.SellerID)
	assert.Equal(t, "Seller s1", r.Name)
	assert.True(t, r.Revenue.Equal(dec("20")), "revenue %s", r.Revenue)
	assert.True(t, r.Profit.Equal(dec("10")), "profit %s", r.Profit)
	assert.Equal(t, int64(1), r.SalesCount)
	require.Len(t, r.TopProducts, 1)
	assert.Equal(t, "A", r.TopProducts[0].SKU)
	assert.Equal(t, int64(2), r.TopProducts[0].Quantity)
	// single seller sits at rank 0, which the first tier claims
	assert.True(t, r.Bonus.Equal(dec("1.5")), "bonus %s", r.Bonus)
}

func TestAnalyze_EverySellerAppearsOnce(t *testing.T) {
	ds := &sales.Dataset{
		Sellers:  []sales.Seller{seller("s1"), seller("s2"), seller("idle")},
		Products: []sales.Product{product("A", "5")},
		PurchaseRecords: []sales.PurchaseRecord{
			record("r1", "s1", "20", item("A", 2, "10", "0")),
			record("r2", "s2", "40", item("A", 4, "10", "0")),
		},
		Customers: []sales.Customer{},
	}

	scorecard, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)
	require.Len(t, scorecard, 3)

	idle, ok := scorecard.Find("idle")
	require.True(t, ok)
	assert.True(t, idle.Revenue.IsZero())
	assert.True(t, idle.Profit.IsZero())
	assert.True(t, idle.Bonus.IsZero())
	assert.Equal(t, int64(0), idle.SalesCount)
	assert.NotNil(t, idle.TopProducts)
	assert.Empty(t, idle.TopProducts)

	assert.Equal(t, "s2", scorecard[0].SellerID)
	assert.Equal(t, "s1", scorecard[1].SellerID)
	assert.Equal(t, "idle", scorecard[2].SellerID)
}

func TestAnalyze_SortedByProfitDescending(t *testing.T) {
	ds := &sales.Dataset{
		Sellers:   []sales.Seller{seller("low"), seller("high"), seller("mid"), seller("loss")},
		Products:  []sales.Product{product("A", "5"), product("B", "50")},
		Customers: []sales.Customer{},
		PurchaseRecords: []sales.PurchaseRecord{
			record("r1", "low", "10", item("A", 1, "10", "0")),
			record("r2", "high", "100", item("A", 10, "10", "0")),
			record("r3", "mid", "30", item("A", 3, "10", "0")),
			record("r4", "loss", "10", item("B", 1, "10", "0")),
		},
	}

	scorecard, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)
	require.Len(t, scorecard, 4)

	for i := 0; i < len(scorecard)-1; i++ {
		assert.True(t, scorecard[i].Profit.GreaterThanOrEqual(scorecard[i+1].Profit),
			"row %d profit %s < row %d profit %s", i, scorecard[i].Profit, i+1, scorecard[i+1].Profit)
	}
	assert.Equal(t, "high", scorecard[0].SellerID)
	assert.Equal(t, "loss", scorecard[3].SellerID)
	assert.True(t, scorecard[3].Profit.Equal(dec("-40")))
	// last rank gets nothing, even on a loss
	assert.True(t, scorecard[3].Bonus.IsZero())
}

func TestAnalyze_EqualProfitKeepsInputOrder(t *testing.T) {
	ds := &sales.Dataset{
		Sellers:   []sales.Seller{seller("b"), seller("a"), seller("c")},
		Products:  []sales.Product{product("A", "5")},
		Customers: []sales.Customer{},
		PurchaseRecords: []sales.PurchaseRecord{
			record("r1", "a", "10", item("A", 1, "10", "0")),
			record("r2", "b", "10", item("A", 1, "10", "0")),
			record("r3", "c", "10", item("A", 1, "10", "0")),
		},
	}

	scorecard, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)

	ids := []string{scorecard[0].SellerID, scorecard[1].SellerID, scorecard[2].SellerID}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestAnalyze_DefaultBonusTiers(t *testing.T) {
	profits := []int64{500, 400, 300, 200, 100}
	ds := &sales.Dataset{
		Products:  []sales.Product{product("A", "0")},
		Customers: []sales.Customer{},
	}
	// sellers listed in reverse so ranking has to reorder them
	for i := len(profits) - 1; i >= 0; i-- {
		id := fmt.Sprintf("s%d", i)
		ds.Sellers = append(ds.Sellers, seller(id))
		ds.PurchaseRecords = append(ds.PurchaseRecords,
			record("r-"+id, id, "0", item("A", 1, fmt.Sprint(profits[i]), "0")))
	}

	scorecard, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)
	require.Len(t, scorecard, 5)

	expected := []string{"75", "40", "30", "10", "0"}
	for rank, want := range expected {
		assert.Equal(t, fmt.Sprintf("s%d", rank), scorecard[rank].SellerID)
		assert.True(t, scorecard[rank].Bonus.Equal(dec(want)),
			"rank %d: want bonus %s, got %s", rank, want, scorecard[rank].Bonus)
	}
}

func TestAnalyze_TopProducts(t *testing.T) {
	ds := &sales.Dataset{
		Sellers:   []sales.Seller{seller("s1")},
		Customers: []sales.Customer{},
	}
	var items []sales.LineItem
	for i := 0; i < 12; i++ {
		sku := fmt.Sprintf("P%02d", i)
		ds.Products = append(ds.Products, product(sku, "1"))
		items = append(items, item(sku, int64(i%4+1), "2", "0"))
	}
	// repeat one SKU across receipts to check summing
	ds.PurchaseRecords = []sales.PurchaseRecord{
		record("r1", "s1", "100", items...),
		record("r2", "s1", "10", item("P00", 9, "2", "0")),
	}

	scorecard, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)
	top := scorecard[0].TopProducts
	require.Len(t, top, 10)

	assert.Equal(t, "P00", top[0].SKU)
	assert.Equal(t, int64(10), top[0].Quantity)

	var topSum int64
	for i, p := range top {
		topSum += p.Quantity
		if i > 0 {
			assert.LessOrEqual(t, p.Quantity, top[i-1].Quantity)
		}
	}
	// 12 items with quantities 1..4 cycling plus the extra 9
	var total int64 = 9
	for i := 0; i < 12; i++ {
		total += int64(i%4 + 1)
	}
	assert.LessOrEqual(t, topSum, total)
}

func TestAnalyze_RoundsToTwoPlaces(t *testing.T) {
	ds := &sales.Dataset{
		Sellers:   []sales.Seller{seller("s1")},
		Products:  []sales.Product{product("A", "1.111")},
		Customers: []sales.Customer{},
		PurchaseRecords: []sales.PurchaseRecord{
			record("r1", "s1", "10.005", item("A", 3, "3.333", "7.5")),
		},
	}

	scorecard, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)
	r := scorecard[0]

	for name, v := range map[string]decimal.Decimal{"revenue": r.Revenue, "profit": r.Profit, "bonus": r.Bonus} {
		assert.LessOrEqual(t, -v.Exponent(), int32(2), "%s %s has more than 2 places", name, v)
	}
	// half away from zero
	assert.True(t, r.Revenue.Equal(dec("10.01")), "revenue %s", r.Revenue)
	// 3.333*3*0.925 - 3.333 = 5.916075
	assert.True(t, r.Profit.Equal(dec("5.92")), "profit %s", r.Profit)
	// 5.916075 * 0.15 = 0.88741125
	assert.True(t, r.Bonus.Equal(dec("0.89")), "bonus %s", r.Bonus)
}

func TestAnalyze_BonusUsesUnroundedProfit(t *testing.T) {
	ds := &sales.Dataset{
		Sellers:   []sales.Seller{seller("s1")},
		Products:  []sales.Product{product("A", "0")},
		Customers: []sales.Customer{},
		PurchaseRecords: []sales.PurchaseRecord{
			record("r1", "s1", "0", item("A", 1, "0.034", "0")),
		},
	}

	svc := NewService(DefaultConfig(), nil, nil, nil)
	scorecard, err := svc.Analyze(context.Background(), ds, Strategies{
		Revenue: revenue.NewGrossRevenueStrategy(),
		Bonus:   bonus.NewFlatBonusStrategy(dec("100")),
	})
	require.NoError(t, err)
	// 0.034 * 100 = 3.4; rounding profit first would give 3
	assert.True(t, scorecard[0].Bonus.Equal(dec("3.4")), "bonus %s", scorecard[0].Bonus)
	assert.True(t, scorecard[0].Profit.Equal(dec("0.03")))
}

func TestAnalyze_OrphanSellerSkipsRecord(t *testing.T) {
	ds := singleSellerDataset()
	ds.PurchaseRecords = append(ds.PurchaseRecords,
		record("r2", "ghost", "500", item("A", 50, "10", "0")))

	sink := &collectingSink{}
	svc := NewService(DefaultConfig(), sink, nil, nil)
	scorecard, err := svc.Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)

	require.Len(t, scorecard, 1)
	assert.True(t, scorecard[0].Revenue.Equal(dec("20")))
	assert.Equal(t, int64(1), scorecard[0].SalesCount)
	assert.Equal(t, int64(2), scorecard[0].TopProducts[0].Quantity)

	require.Len(t, sink.anomalies, 1)
	assert.Equal(t, sales.AnomalyOrphanSeller, sink.anomalies[0].Kind)
	assert.Equal(t, "r2", sink.anomalies[0].ReceiptID)
	assert.Equal(t, "ghost", sink.anomalies[0].SellerID)
}

func TestAnalyze_OrphanProductSkipsItem(t *testing.T) {
	ds := singleSellerDataset()
	ds.PurchaseRecords[0].Items = append(ds.PurchaseRecords[0].Items, item("ZZZ", 7, "100", "0"))

	sink := &collectingSink{}
	svc := NewService(DefaultConfig(), sink, nil, nil)
	scorecard, err := svc.Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)

	r := scorecard[0]
	// receipt still counts; only the unknown item is dropped
	assert.Equal(t, int64(1), r.SalesCount)
	assert.True(t, r.Revenue.Equal(dec("20")))
	assert.True(t, r.Profit.Equal(dec("10")))
	require.Len(t, r.TopProducts, 1)

	require.Len(t, sink.anomalies, 1)
	assert.Equal(t, sales.AnomalyOrphanProduct, sink.anomalies[0].Kind)
	assert.Equal(t, "ZZZ", sink.anomalies[0].SKU)
	assert.Equal(t, "r1", sink.anomalies[0].ReceiptID)
}

func TestAnalyze_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*sales.Dataset) *sales.Dataset
		msg    string
	}{
		{"nil dataset", func(*sales.Dataset) *sales.Dataset { return nil }, "dataset is nil"},
		{"missing sellers", func(d *sales.Dataset) *sales.Dataset { d.Sellers = nil; return d }, "sellers is missing"},
		{"empty sellers", func(d *sales.Dataset) *sales.Dataset { d.Sellers = []sales.Seller{}; return d }, "sellers is empty"},
		{"missing products", func(d *sales.Dataset) *sales.Dataset { d.Products = nil; return d }, "products is missing"},
		{"empty products", func(d *sales.Dataset) *sales.Dataset { d.Products = []sales.Product{}; return d }, "products is empty"},
		{"empty records", func(d *sales.Dataset) *sales.Dataset {
			d.PurchaseRecords = []sales.PurchaseRecord{}
			return d
		}, "purchase_records is empty"},
		{"missing customers", func(d *sales.Dataset) *sales.Dataset { d.Customers = nil; return d }, "customers is missing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &collectingSink{}
			svc := NewService(DefaultConfig(), sink, nil, nil)
			// strategies are also broken: input must be reported first
			scorecard, err := svc.Analyze(context.Background(), tt.mutate(singleSellerDataset()), Strategies{})
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.msg)
			assert.Nil(t, scorecard)
			assert.Empty(t, sink.anomalies)
		})
	}
}

func TestAnalyze_EmptyCustomersAccepted(t *testing.T) {
	ds := singleSellerDataset()
	ds.Customers = []sales.Customer{}
	_, err := Analyze(context.Background(), ds, defaultStrategies())
	assert.NoError(t, err)
}

func TestAnalyze_InvalidStrategies(t *testing.T) {
	var nilRevenueFunc strategy.RevenueFunc
	var nilBonusFunc strategy.BonusFunc
	var nilDiscount *revenue.DiscountRevenueStrategy

	tests := []struct {
		name       string
		strategies Strategies
	}{
		{"both missing", Strategies{}},
		{"revenue missing", Strategies{Bonus: bonus.DefaultTieredBonusStrategy()}},
		{"bonus missing", Strategies{Revenue: revenue.NewDiscountRevenueStrategy()}},
		{"nil revenue func", Strategies{Revenue: nilRevenueFunc, Bonus: bonus.DefaultTieredBonusStrategy()}},
		{"nil bonus func", Strategies{Revenue: revenue.NewDiscountRevenueStrategy(), Bonus: nilBonusFunc}},
		{"typed nil pointer", Strategies{Revenue: nilDiscount, Bonus: bonus.DefaultTieredBonusStrategy()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorecard, err := Analyze(context.Background(), singleSellerDataset(), tt.strategies)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidStrategies)
			assert.NotErrorIs(t, err, shared.ErrInvalidInput)
			assert.Nil(t, scorecard)
		})
	}
}

func TestAnalyze_FuncStrategies(t *testing.T) {
	var ranks []int
	strategies := Strategies{
		Revenue: strategy.RevenueFunc(func(item sales.LineItem, _ sales.Product) decimal.Decimal {
			return item.SalePrice.Mul(decimal.NewFromInt(item.Quantity))
		}),
		Bonus: strategy.BonusFunc(func(rank, total int, seller sales.SellerStats) decimal.Decimal {
			ranks = append(ranks, rank)
			assert.Equal(t, 1, total)
			assert.Equal(t, int64(2), seller.TotalQuantity())
			seller.ProductsSold["A"] = 1000
			return dec("0.5")
		}),
	}

	scorecard, err := Analyze(context.Background(), singleSellerDataset(), strategies)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ranks)
	assert.True(t, scorecard[0].Bonus.Equal(dec("5")))
	// strategies see a copy of the sold map
	assert.Equal(t, int64(2), scorecard[0].TopProducts[0].Quantity)
}

func TestAnalyze_DuplicateSellerIDs(t *testing.T) {
	ds := singleSellerDataset()
	ds.Sellers = append(ds.Sellers, sales.Seller{ID: "s1", FirstName: "Second", LastName: "Entry"})

	scorecard, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)
	require.Len(t, scorecard, 2)

	// the later entry wins the lookup and is ranked first
	assert.Equal(t, "Second Entry", scorecard[0].Name)
	assert.True(t, scorecard[0].Profit.Equal(dec("10")))
	assert.True(t, scorecard[1].Profit.IsZero())
}

func TestAnalyze_IsRepeatable(t *testing.T) {
	ds := singleSellerDataset()
	first, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)
	second, err := Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestService_ConfigTopProducts(t *testing.T) {
	ds := singleSellerDataset()
	ds.Products = append(ds.Products, product("B", "1"), product("C", "1"))
	ds.PurchaseRecords[0].Items = append(ds.PurchaseRecords[0].Items,
		item("B", 5, "2", "0"), item("C", 1, "2", "0"))

	svc := NewService(Config{TopProducts: 2, Precision: 2}, nil, nil, nil)
	scorecard, err := svc.Analyze(context.Background(), ds, defaultStrategies())
	require.NoError(t, err)

	top := scorecard[0].TopProducts
	require.Len(t, top, 2)
	assert.Equal(t, "B", top[0].SKU)
	assert.Equal(t, "A", top[1].SKU)
}

func TestNewService_Defaults(t *testing.T) {
	svc := NewService(Config{TopProducts: 0, Precision: -1}, nil, nil, nil)
	assert.Equal(t, DefaultConfig(), svc.cfg)
	assert.NotNil(t, svc.sink)
	assert.NotNil(t, svc.logger)
}

func TestAnalyze_LogsRunSummary(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewService(DefaultConfig(), nil, zap.New(core), nil)

	_, err := svc.Analyze(context.Background(), singleSellerDataset(), defaultStrategies())
	require.NoError(t, err)

	entries := logs.FilterMessage("Seller scorecard computed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(1), fields["sellers"])
	assert.NotEmpty(t, fields["run_id"])

	_, err = svc.Analyze(context.Background(), nil, defaultStrategies())
	require.Error(t, err)
	rejected := logs.FilterMessage("Seller scorecard rejected").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "invalid_input", rejected[0].ContextMap()["outcome"])
}
