package tool

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	contractx "github.com/tanpawarit/Chative-Voice-Commerce/agent/contract"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/catalog"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/ledger"
	"github.com/tanpawarit/Chative-Voice-Commerce/pkg/recordstore"
)

var orderTime = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

type shopFixture struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	session *statex.SessionState
	exec    Executor
}

func newShopFixture(t *testing.T) shopFixture {
	t.Helper()

	ctx := context.Background()
	dir := t.TempDir()

	productStore, err := recordstore.NewJSONFile[catalog.Product](filepath.Join(dir, "products.json"))
	if err != nil {
		t.Fatalf("NewJSONFile() error = %v", err)
	}
	cat, err := catalog.Open(ctx, productStore)
	if err != nil {
		t.Fatalf("catalog.Open() error = %v", err)
	}

	orderStore, err := recordstore.NewJSONFile[ledger.Order](filepath.Join(dir, "orders.json"))
	if err != nil {
		t.Fatalf("NewJSONFile() error = %v", err)
	}
	led, err := ledger.Open(ctx, orderStore, cat,
		ledger.WithClock(func() time.Time { return orderTime }),
		ledger.WithRandom(func(int) int { return 234 }),
	)
	if err != nil {
		t.Fatalf("ledger.Open() error = %v", err)
	}

	session := statex.NewSessionState("s1", string(contractx.AgentTypeShop), orderTime)
	_, exec := BuildForAgent(contractx.AgentTypeShop, Deps{
		Catalog: cat,
		Ledger:  led,
		IntN:    func(int) int { return 0 },
	}, session)

	return shopFixture{catalog: cat, ledger: led, session: session, exec: exec}
}

func (f shopFixture) call(t *testing.T, name string, args map[string]any) contractx.ToolResult {
	t.Helper()

	res, err := f.exec(context.Background(), name, args)
	if err != nil {
		t.Fatalf("exec(%s) error = %v", name, err)
	}
	if res.Tool != name {
		t.Fatalf("exec(%s).Tool = %q", name, res.Tool)
	}
	return res
}

func (f shopFixture) text(t *testing.T, name string, args map[string]any) string {
	t.Helper()

	res := f.call(t, name, args)
	if res.Error != "" {
		t.Fatalf("exec(%s) tool error = %s", name, res.Error)
	}
	return Text(res)
}

func assertContains(t *testing.T, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Fatalf("output missing %q:\n%s", want, got)
		}
	}
}

func TestBuildForAgentShop(t *testing.T) {
	t.Parallel()

	infos, executor := BuildForAgent(contractx.AgentTypeShop, Deps{}, nil)
	if executor == nil {
		t.Fatal("executor must not be nil")
	}
	var names []string
	for _, info := range infos {
		names = append(names, info.Name)
	}
	want := []string{
		ToolListProducts, ToolSearchProducts, ToolCreateOrder, ToolGetLastOrder,
		ToolGetProductDetails, ToolBrowseCategories, ToolSuggestProducts,
	}
	if !slices.Equal(names, want) {
		t.Fatalf("tool names = %v, want %v", names, want)
	}
}

func TestInfosForAgent(t *testing.T) {
	t.Parallel()

	cases := map[contractx.AgentType]int{
		contractx.AgentTypeShop:      7,
		contractx.AgentTypeWellness:  1,
		contractx.AgentTypeAdventure: 6,
		contractx.AgentType("other"): 0,
	}
	for agentType, want := range cases {
		if got := len(InfosForAgent(agentType)); got != want {
			t.Fatalf("InfosForAgent(%s) = %d tools, want %d", agentType, got, want)
		}
	}
}

func TestExecutorUnknownTool(t *testing.T) {
	t.Parallel()

	executor := NewExecutor(contractx.AgentTypeWellness, Deps{}, nil)
	out, err := executor(context.Background(), ToolCreateOrder, nil)
	if !errors.Is(err, contractx.ErrUnknownTool) {
		t.Fatalf("executor() error = %v, want ErrUnknownTool", err)
	}
	if out.Tool != ToolCreateOrder || out.Error == "" {
		t.Fatalf("unexpected result: %#v", out)
	}
}

func TestToolFailuresBecomeApologies(t *testing.T) {
	t.Parallel()

	executor := NewExecutor(contractx.AgentTypeShop, Deps{}, nil)
	out, err := executor(context.Background(), ToolListProducts, nil)
	if err != nil {
		t.Fatalf("executor() error = %v", err)
	}
	if Text(out) != "I'm having trouble accessing the product catalog right now. Please try again in a moment." {
		t.Fatalf("Text() = %q", Text(out))
	}
	if out.Error == "" {
		t.Fatal("expected the cause in Error")
	}

	panicky := Tool{
		Info:    InfosForAgent(contractx.AgentTypeShop)[0],
		Apology: "sorry",
		Run: func(context.Context, map[string]any) (string, error) {
			panic("boom")
		},
	}
	res := panicky.invoke(context.Background(), nil)
	if Text(res) != "sorry" || !strings.Contains(res.Error, "boom") {
		t.Fatalf("panic result = %#v", res)
	}
}

func TestListProductsWithFilters(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	got := f.text(t, ToolListProducts, map[string]any{"category": "Clothing", "max_price": 2000.0, "color": ""})

	assertContains(t, got,
		"Found 2 product(s) matching your criteria:",
		"1. Premium Cotton Polo T-Shirt by Urban Classic",
		"Price: ₹1299 | Rating: 4.6 out of 5",
		"2. Classic Cotton T-Shirt by Comfort Wear",
		"ID: tshirt-001 | Color: Black",
		"Would you like to see details of any product or apply different filters?",
	)
	if !slices.Equal(f.session.Shop.CurrentProductIDs, []string{"tshirt-002", "tshirt-001"}) {
		t.Fatalf("CurrentProductIDs = %v", f.session.Shop.CurrentProductIDs)
	}
	if !slices.Equal(f.session.Shop.PreferredCategories, []string{"Clothing"}) {
		t.Fatalf("PreferredCategories = %v", f.session.Shop.PreferredCategories)
	}
}

func TestListProductsAllCapsAtFour(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	got := f.text(t, ToolListProducts, map[string]any{})
	assertContains(t, got, "Showing 8 available products:", "4. ", "... and 4 more products.")
	if strings.Contains(got, "5. ") {
		t.Fatalf("more than four products listed:\n%s", got)
	}
}

func TestListProductsNoMatch(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	got := f.text(t, ToolListProducts, map[string]any{"category": "furniture", "max_price": "500", "color": "red"})
	want := "I couldn't find any products with category 'furniture' and under ₹500 and color 'red'. Would you like to try different filters?"
	if got != want {
		t.Fatalf("list_products = %q, want %q", got, want)
	}
	if len(f.session.Shop.CurrentProductIDs) != 0 {
		t.Fatalf("CurrentProductIDs = %v, want empty", f.session.Shop.CurrentProductIDs)
	}
}

func TestSearchProductsRecordsQuery(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	got := f.text(t, ToolSearchProducts, map[string]any{"query": "mug"})
	assertContains(t, got,
		"I found 2 product(s) for 'mug':",
		"1. Blue Ceramic Tea Mug with Handle by Desi Designs",
		"Category: Mugs | Color: Blue",
		"2. Stoneware Coffee Mug by Artisan Pottery",
	)
	if !slices.Equal(f.session.Shop.RecentSearches, []string{"mug"}) {
		t.Fatalf("RecentSearches = %v", f.session.Shop.RecentSearches)
	}

	none := f.text(t, ToolSearchProducts, map[string]any{"query": "submarine"})
	if none != "I couldn't find any products matching 'submarine'. Would you like to try a different search term or browse by category?" {
		t.Fatalf("search_products = %q", none)
	}
}

func TestCreateOrderAndLastOrder(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	if got := f.text(t, ToolGetLastOrder, nil); got != "You haven't placed any orders yet. Would you like to browse our products?" {
		t.Fatalf("get_last_order = %q", got)
	}

	got := f.text(t, ToolCreateOrder, map[string]any{"product_id": "mug-001", "quantity": 2.0})
	assertContains(t, got,
		"Order confirmed!",
		"Order ID: ORD-20260314-092653-1234",
		"Product: Stoneware Coffee Mug (White)",
		"Brand: Artisan Pottery",
		"Quantity: 2",
		"Total Amount: ₹1600",
		"Order Date: Mar 14, 2026 at 09:26 AM",
	)

	if f.session.Shop.LastOrder == nil || f.session.Shop.LastOrder.ID != "ORD-20260314-092653-1234" {
		t.Fatalf("session LastOrder = %#v", f.session.Shop.LastOrder)
	}
	p, err := f.catalog.GetByID("mug-001")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if p.StockQuantity != 43 {
		t.Fatalf("stock = %d, want 43", p.StockQuantity)
	}

	last := f.text(t, ToolGetLastOrder, nil)
	assertContains(t, last,
		"Order ID: ORD-20260314-092653-1234",
		"Status: Confirmed",
		"Payment Method: Voice Order",
		"- Stoneware Coffee Mug (white) - Qty: 2 - ₹1600",
		"Total: ₹1600",
	)
}

func TestCreateOrderDefaultsQuantityToOne(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	got := f.text(t, ToolCreateOrder, map[string]any{"product_id": "notebook-001"})
	assertContains(t, got, "Quantity: 1", "Total Amount: ₹650")
}

func TestCreateOrderRejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args map[string]any
		want string
	}{
		{"unknown product", map[string]any{"product_id": "mug-999"}, "I couldn't find that product. Please check the product ID and try again."},
		{"zero quantity", map[string]any{"product_id": "mug-001", "quantity": 0.0}, "Please choose a quantity of at least 1."},
		{"fractional quantity", map[string]any{"product_id": "mug-001", "quantity": 1.5}, "Please tell me how many you'd like as a whole number, for example one or two."},
		{"too many", map[string]any{"product_id": "mug-001", "quantity": "100"}, "Sorry, we only have 45 units of Stoneware Coffee Mug in stock."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newShopFixture(t)
			if got := f.text(t, ToolCreateOrder, tc.args); got != tc.want {
				t.Fatalf("create_order = %q, want %q", got, tc.want)
			}
			if f.ledger.Len() != 0 {
				t.Fatalf("ledger has %d orders, want 0", f.ledger.Len())
			}
		})
	}
}

func TestCreateOrderOutOfStock(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	f.text(t, ToolCreateOrder, map[string]any{"product_id": "laptop-bag-001", "quantity": 12})
	got := f.text(t, ToolCreateOrder, map[string]any{"product_id": "laptop-bag-001"})
	if got != "Sorry, Professional Laptop Bag is currently out of stock." {
		t.Fatalf("create_order = %q", got)
	}
}

func TestGetProductDetails(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	got := f.text(t, ToolGetProductDetails, map[string]any{"product_id": "hoodie-002"})
	assertContains(t, got,
		"Name: Soft Grey Hoodie with Front Pocket",
		"Brand: Comfort Zone",
		"Price: ₹2299",
		"Rating: 4.8 out of 5 from",
		"Category: Clothing > ",
		"Stock: 22 units available",
		"Status: In Stock",
		"Would you like to place an order for this product?",
	)
	if !slices.Equal(f.session.Shop.CurrentProductIDs, []string{"hoodie-002"}) {
		t.Fatalf("CurrentProductIDs = %v", f.session.Shop.CurrentProductIDs)
	}

	missing := f.text(t, ToolGetProductDetails, map[string]any{"product_id": "nope"})
	if missing != "I couldn't find that product. Please check the product ID." {
		t.Fatalf("get_product_details = %q", missing)
	}
}

func TestBrowseCategories(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	got := f.text(t, ToolBrowseCategories, nil)
	assertContains(t, got,
		"Available Categories:",
		"1. Bags - 1 products available",
		"2. Clothing - 4 products available",
		"3. Mugs - 2 products available",
		"4. Stationery - 1 products available",
		"You can say 'show me mugs' or 'browse clothing'.",
	)
}

func TestSuggestProducts(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	got := f.text(t, ToolSuggestProducts, nil)
	assertContains(t, got, "Recommended For You:", "ID: laptop-bag-001", "ID: hoodie-002", "ID: tshirt-002")
	if !slices.Equal(f.session.Shop.CurrentProductIDs, []string{"laptop-bag-001", "hoodie-002", "tshirt-002"}) {
		t.Fatalf("CurrentProductIDs = %v", f.session.Shop.CurrentProductIDs)
	}

	f.session.Shop.PreferCategory("mugs")
	f.session.Shop.PreferCategory("Mugs")
	got = f.text(t, ToolSuggestProducts, nil)
	if !slices.Equal(f.session.Shop.CurrentProductIDs, []string{"mug-002", "mug-001"}) {
		t.Fatalf("CurrentProductIDs = %v\n%s", f.session.Shop.CurrentProductIDs, got)
	}
}

func TestSuggestProductsFallsBackToRandomStock(t *testing.T) {
	t.Parallel()

	f := newShopFixture(t)
	f.session.EnsureShop().PreferCategory("furniture")
	got := f.text(t, ToolSuggestProducts, nil)
	if len(f.session.Shop.CurrentProductIDs) != 4 {
		t.Fatalf("CurrentProductIDs = %v\n%s", f.session.Shop.CurrentProductIDs, got)
	}
}
