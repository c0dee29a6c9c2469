package tool

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/cloudwego/eino/schema"
	statex "github.com/tanpawarit/Chative-Voice-Commerce/agent/state"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/catalog"
	"github.com/tanpawarit/Chative-Voice-Commerce/domain/ledger"
)

const (
	ToolListProducts      = "list_products"
	ToolSearchProducts    = "search_products"
	ToolCreateOrder       = "create_order"
	ToolGetLastOrder      = "get_last_order"
	ToolGetProductDetails = "get_product_details"
	ToolBrowseCategories  = "browse_categories"
	ToolSuggestProducts   = "suggest_products"
)

var errCatalogUnavailable = errors.New("catalog is not configured")

type shopTools struct {
	deps    Deps
	session *statex.SessionState
}

func newShopTools(deps Deps, session *statex.SessionState) []Tool {
	s := shopTools{deps: deps, session: session}
	return []Tool{
		{
			Info: &schema.ToolInfo{
				Name: ToolListProducts,
				Desc: "Browse in-stock products, optionally filtered by category, maximum price, color and brand.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"category":  {Type: schema.String, Desc: "Category such as mug, clothing, stationery or bag"},
					"max_price": {Type: schema.Number, Desc: "Maximum price in INR, 0 for no limit"},
					"color":     {Type: schema.String, Desc: "Color name"},
					"brand":     {Type: schema.String, Desc: "Brand name"},
				}),
			},
			Apology: "I'm having trouble accessing the product catalog right now. Please try again in a moment.",
			Run:     s.listProducts,
		},
		{
			Info: &schema.ToolInfo{
				Name: ToolSearchProducts,
				Desc: "Search products by name, description, brand or tags.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"query": {Type: schema.String, Desc: "What the shopper is looking for", Required: true},
				}),
			},
			Apology: "I'm having trouble searching products right now. Please try again.",
			Run:     s.searchProducts,
		},
		{
			Info: &schema.ToolInfo{
				Name: ToolCreateOrder,
				Desc: "Place an order for a product after the shopper has confirmed it.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"product_id": {Type: schema.String, Desc: "Product ID, for example mug-001", Required: true},
					"quantity":   {Type: schema.Integer, Desc: "Number of units, defaults to 1"},
				}),
			},
			Apology: "I'm having trouble processing your order right now. Please try again.",
			Run:     s.createOrder,
		},
		{
			Info: &schema.ToolInfo{
				Name: ToolGetLastOrder,
				Desc: "Get the details of the most recent order.",
			},
			Apology: "I'm having trouble retrieving your order details right now.",
			Run:     s.getLastOrder,
		},
		{
			Info: &schema.ToolInfo{
				Name: ToolGetProductDetails,
				Desc: "Get detailed information about one product.",
				ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
					"product_id": {Type: schema.String, Desc: "Product ID, for example hoodie-002", Required: true},
				}),
			},
			Apology: "I'm having trouble getting product details right now.",
			Run:     s.getProductDetails,
		},
		{
			Info: &schema.ToolInfo{
				Name: ToolBrowseCategories,
				Desc: "List the product categories that have stock, with product counts.",
			},
			Apology: "I'm having trouble loading categories right now.",
			Run:     s.browseCategories,
		},
		{
			Info: &schema.ToolInfo{
				Name: ToolSuggestProducts,
				Desc: "Recommend top rated products based on the categories the shopper has browsed.",
			},
			Apology: "Let me show you some popular products instead...",
			Run:     s.suggestProducts,
		},
	}
}

func (s shopTools) catalog() (*catalog.Catalog, error) {
	if s.deps.Catalog == nil {
		return nil, errCatalogUnavailable
	}
	return s.deps.Catalog, nil
}

func (s shopTools) listProducts(_ context.Context, args map[string]any) (string, error) {
	c, err := s.catalog()
	if err != nil {
		return "", err
	}
	maxPrice, err := decimalArg(args, "max_price")
	if err != nil {
		return "", err
	}
	filters := catalog.Filters{
		Category: stringArg(args, "category"),
		MaxPrice: maxPrice,
		Color:    stringArg(args, "color"),
		Brand:    stringArg(args, "brand"),
	}

	shop := s.session.EnsureShop()
	if filters.Category != "" {
		shop.PreferCategory(filters.Category)
	}

	products := c.Search("", filters)
	shop.SetCurrentProducts(productIDs(products))

	if len(products) == 0 {
		var parts []string
		if filters.Category != "" {
			parts = append(parts, fmt.Sprintf("category '%s'", filters.Category))
		}
		if filters.MaxPrice.IsPositive() {
			parts = append(parts, "under "+formatPrice(filters.MaxPrice, defaultCurrency))
		}
		if filters.Color != "" {
			parts = append(parts, fmt.Sprintf("color '%s'", filters.Color))
		}
		if filters.Brand != "" {
			parts = append(parts, fmt.Sprintf("brand '%s'", filters.Brand))
		}
		with := ""
		if len(parts) > 0 {
			with = " with " + strings.Join(parts, " and ")
		}
		return fmt.Sprintf("I couldn't find any products%s. Would you like to try different filters?", with), nil
	}

	var b strings.Builder
	if filters.IsZero() {
		fmt.Fprintf(&b, "Showing %d available products:\n\n", len(products))
	} else {
		fmt.Fprintf(&b, "Found %d product(s) matching your criteria:\n\n", len(products))
	}
	for i, p := range products[:min(listLimit, len(products))] {
		fmt.Fprintf(&b, "%d. %s%s\n", i+1, p.Name, byBrand(p.Brand))
		fmt.Fprintf(&b, "   Price: %s | Rating: %s\n", formatPrice(p.Price, p.Currency), formatRating(p.Rating))
		fmt.Fprintf(&b, "   %s\n", truncate(p.Description, listDescLimit))
		fmt.Fprintf(&b, "   ID: %s | Color: %s\n\n", p.ID, titleCase(p.Color))
	}
	b.WriteString(overflow(len(products), listLimit))
	b.WriteString("Would you like to see details of any product or apply different filters?")
	return b.String(), nil
}

func (s shopTools) searchProducts(_ context.Context, args map[string]any) (string, error) {
	c, err := s.catalog()
	if err != nil {
		return "", err
	}
	query := stringArg(args, "query")

	shop := s.session.EnsureShop()
	if query != "" {
		shop.RecordSearch(query)
	}

	products := c.Search(query, catalog.Filters{})
	shop.SetCurrentProducts(productIDs(products))

	if len(products) == 0 {
		return fmt.Sprintf("I couldn't find any products matching '%s'. Would you like to try a different search term or browse by category?", query), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "I found %d product(s) for '%s':\n\n", len(products), query)
	for i, p := range products[:min(searchLimit, len(products))] {
		fmt.Fprintf(&b, "%d. %s%s\n", i+1, p.Name, byBrand(p.Brand))
		fmt.Fprintf(&b, "   Price: %s | Rating: %s\n", formatPrice(p.Price, p.Currency), formatRating(p.Rating))
		fmt.Fprintf(&b, "   Category: %s | Color: %s\n", titleCase(p.Category), titleCase(p.Color))
		fmt.Fprintf(&b, "   ID: %s\n\n", p.ID)
	}
	b.WriteString(overflow(len(products), searchLimit))
	b.WriteString("Would you like to see more details or buy any of these products?")
	return b.String(), nil
}

func (s shopTools) createOrder(ctx context.Context, args map[string]any) (string, error) {
	if s.deps.Ledger == nil {
		return "", errors.New("order ledger is not configured")
	}
	productID := stringArg(args, "product_id")
	quantity, err := intArg(args, "quantity", 1)
	if err != nil {
		return "Please tell me how many you'd like as a whole number, for example one or two.", nil
	}

	order, err := s.deps.Ledger.CreateOrder(ctx, productID, quantity)
	var stockErr *ledger.StockError
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrInvalidQuantity):
		return "Please choose a quantity of at least 1.", nil
	case errors.Is(err, ledger.ErrProductNotFound):
		return "I couldn't find that product. Please check the product ID and try again.", nil
	case errors.As(err, &stockErr) && errors.Is(err, ledger.ErrOutOfStock):
		return fmt.Sprintf("Sorry, %s is currently out of stock.", stockErr.ProductName), nil
	case errors.As(err, &stockErr):
		return fmt.Sprintf("Sorry, we only have %d units of %s in stock.", stockErr.Available, stockErr.ProductName), nil
	default:
		if order.ID != "" {
			s.session.EnsureShop().LastOrder = &order
		}
		return "", err
	}

	s.session.EnsureShop().LastOrder = &order
	item := order.Items[0]

	var b strings.Builder
	b.WriteString("Order confirmed!\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Product: %s (%s)\n", item.ProductName, titleCase(item.Color))
	fmt.Fprintf(&b, "Brand: %s\n", orNA(item.Brand))
	fmt.Fprintf(&b, "Quantity: %d\n", item.Quantity)
	fmt.Fprintf(&b, "Total Amount: %s\n", formatPrice(order.Total, order.Currency))
	fmt.Fprintf(&b, "Order Date: %s\n\n", order.CreatedAt.Format(spokenDateLayout))
	b.WriteString("Thank you for your purchase! Your order has been processed successfully.")
	return b.String(), nil
}

func (s shopTools) getLastOrder(_ context.Context, _ map[string]any) (string, error) {
	var (
		order ledger.Order
		ok    bool
	)
	if shop := s.session.Shop; shop != nil && shop.LastOrder != nil {
		order, ok = *shop.LastOrder, true
	} else if s.deps.Ledger != nil {
		order, ok = s.deps.Ledger.LastOrder()
	}
	if !ok {
		return "You haven't placed any orders yet. Would you like to browse our products?", nil
	}

	var b strings.Builder
	b.WriteString("Your Last Order:\n\n")
	fmt.Fprintf(&b, "Order ID: %s\n", order.ID)
	fmt.Fprintf(&b, "Date: %s\n", order.CreatedAt.Format(spokenDateLayout))
	fmt.Fprintf(&b, "Status: %s\n", titleCase(order.Status))
	fmt.Fprintf(&b, "Payment Method: %s\n\n", orNA(order.PaymentMethod))
	b.WriteString("Items:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "- %s (%s) - Qty: %d - %s\n",
			item.ProductName, item.Color, item.Quantity, formatPrice(item.Subtotal(), item.Currency))
	}
	fmt.Fprintf(&b, "\nTotal: %s\n\n", formatPrice(order.Total, order.Currency))
	b.WriteString("Would you like to browse similar products?")
	return b.String(), nil
}

func (s shopTools) getProductDetails(_ context.Context, args map[string]any) (string, error) {
	c, err := s.catalog()
	if err != nil {
		return "", err
	}
	p, err := c.GetByID(stringArg(args, "product_id"))
	if errors.Is(err, catalog.ErrProductNotFound) {
		return "I couldn't find that product. Please check the product ID.", nil
	}
	if err != nil {
		return "", err
	}
	s.session.EnsureShop().SetCurrentProducts([]string{p.ID})

	status := "Out of Stock"
	if p.InStock {
		status = "In Stock"
	}

	var b strings.Builder
	b.WriteString("Product Details:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Brand: %s\n", orNA(p.Brand))
	fmt.Fprintf(&b, "Price: %s\n", formatPrice(p.Price, p.Currency))
	fmt.Fprintf(&b, "Rating: %s from %d reviews\n", formatRating(p.Rating), p.ReviewCount)
	fmt.Fprintf(&b, "Category: %s > %s\n", titleCase(p.Category), titleCase(p.Subcategory))
	fmt.Fprintf(&b, "Color: %s\n", titleCase(p.Color))
	fmt.Fprintf(&b, "Material: %s\n", orNA(p.Material))
	if p.Size != "" {
		fmt.Fprintf(&b, "Size: %s\n", p.Size)
	}
	fmt.Fprintf(&b, "Stock: %d units available\n", p.StockQuantity)
	fmt.Fprintf(&b, "Status: %s\n\n", status)
	fmt.Fprintf(&b, "Description: %s\n\n", p.Description)
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(p.Tags, ", "))
	}
	b.WriteString("Would you like to place an order for this product?")
	return b.String(), nil
}

func (s shopTools) browseCategories(_ context.Context, _ map[string]any) (string, error) {
	c, err := s.catalog()
	if err != nil {
		return "", err
	}
	categories := c.Categories()
	if len(categories) == 0 {
		return "We don't have any products in stock right now. Please check back soon.", nil
	}

	var b strings.Builder
	b.WriteString("Available Categories:\n\n")
	for i, category := range categories {
		count := len(c.Search("", catalog.Filters{Category: category}))
		fmt.Fprintf(&b, "%d. %s - %d products available\n", i+1, titleCase(category), count)
	}
	b.WriteString("\nWhich category would you like to explore? You can say 'show me mugs' or 'browse clothing'.")
	return b.String(), nil
}

func (s shopTools) suggestProducts(_ context.Context, _ map[string]any) (string, error) {
	c, err := s.catalog()
	if err != nil {
		return "", err
	}
	shop := s.session.EnsureShop()

	categories := distinctFold(shop.PreferredCategories)
	if len(categories) == 0 {
		categories = c.Categories()
	}

	var picks []catalog.Product
	for _, category := range categories[:min(suggestCategories, len(categories))] {
		inCategory := c.Search("", catalog.Filters{Category: category})
		slices.SortStableFunc(inCategory, func(a, b catalog.Product) int {
			switch {
			case a.Rating > b.Rating:
				return -1
			case a.Rating < b.Rating:
				return 1
			default:
				return 0
			}
		})
		picks = append(picks, inCategory[:min(perCategoryPicks, len(inCategory))]...)
	}
	if len(picks) == 0 {
		picks = sample(c.InStock(), suggestLimit, s.deps.IntN)
	}
	if len(picks) == 0 {
		return "We don't have any products in stock right now. Please check back soon.", nil
	}
	picks = picks[:min(suggestLimit, len(picks))]
	shop.SetCurrentProducts(productIDs(picks))

	var b strings.Builder
	b.WriteString("Recommended For You:\n\n")
	for i, p := range picks {
		fmt.Fprintf(&b, "%d. %s - %s | Rating: %s\n", i+1, p.Name, formatPrice(p.Price, p.Currency), formatRating(p.Rating))
		fmt.Fprintf(&b, "   %s\n", truncate(p.Description, suggestDescLimit))
		fmt.Fprintf(&b, "   ID: %s\n\n", p.ID)
	}
	b.WriteString("Would you like to see details of any product?")
	return b.String(), nil
}

func productIDs(products []catalog.Product) []string {
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}
	return ids
}

// distinctFold keeps the first spelling of each value, ignoring case.
func distinctFold(values []string) []string {
	var out []string
	for _, v := range values {
		if !slices.ContainsFunc(out, func(seen string) bool { return strings.EqualFold(seen, v) }) {
			out = append(out, v)
		}
	}
	return out
}

// sample picks up to n products without replacement.
func sample(products []catalog.Product, n int, intN func(int) int) []catalog.Product {
	pool := slices.Clone(products)
	n = min(n, len(pool))
	for i := range n {
		j := i + intN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return pool[:n]
}
