package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stockdesk/stockdesk/internal/apiclient"
	"github.com/stockdesk/stockdesk/internal/inventory"
)

func main() {
	baseURL := getenv("INVENTORY_API_URL", apiclient.DefaultBaseURL)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := apiclient.New(baseURL, apiclient.WithTimeout(10*time.Second))

	fmt.Println("→ Seeding products...")
	created, err := seedProducts(ctx, client, demoProducts())
	if err != nil {
		log.Fatalf("seed products: %v", err)
	}
	fmt.Printf("  %d created\n", created)

	fmt.Println("→ Refreshing backend cache...")
	if err := client.RefreshCache(ctx); err != nil {
		log.Fatalf("refresh cache: %v", err)
	}

	stats, err := client.ProductStats(ctx)
	if err != nil {
		log.Fatalf("load stats: %v", err)
	}
	fmt.Printf("✓ Seed complete: %d products, %d low stock, value %s\n",
		stats.TotalProducts, stats.LowStockCount, stats.TotalInventoryValue.StringFixed(2))
}

type productCreator interface {
	GetProductBySKU(ctx context.Context, sku string) (inventory.Product, error)
	CreateProduct(ctx context.Context, input inventory.ProductInput) (inventory.Product, error)
}

// seedProducts creates every product whose SKU is not already present.
func seedProducts(ctx context.Context, client productCreator, products []inventory.ProductInput) (int, error) {
	created := 0
	for _, p := range products {
		_, err := client.GetProductBySKU(ctx, p.SKU)
		if err == nil {
			continue
		}
		if !apiclient.IsNotFound(err) {
			return created, fmt.Errorf("lookup %s: %w", p.SKU, err)
		}
		if _, err := client.CreateProduct(ctx, p); err != nil {
			var apiErr *apiclient.APIError
			if errors.As(err, &apiErr) {
				return created, fmt.Errorf("create %s: %s", p.SKU, apiErr.Message)
			}
			return created, fmt.Errorf("create %s: %w", p.SKU, err)
		}
		created++
	}
	return created, nil
}

func demoProducts() []inventory.ProductInput {
	product := func(sku, name, category, price string, stock, min int) inventory.ProductInput {
		return inventory.ProductInput{
			SKU:           sku,
			Name:          name,
			Category:      category,
			Price:         decimal.RequireFromString(price),
			StockQuantity: stock,
			MinStockLevel: min,
		}
	}
	return []inventory.ProductInput{
		product("ELEC-001", "Wireless Mouse", "Electronics", "24.99", 120, 20),
		product("ELEC-002", "USB-C Hub", "Electronics", "49.00", 8, 15),
		product("ELEC-003", "Mechanical Keyboard", "Electronics", "89.50", 0, 10),
		product("FURN-001", "Standing Desk", "Furniture", "399.00", 14, 5),
		product("FURN-002", "Office Chair", "Furniture", "229.00", 3, 5),
		product("TOOL-001", "Cordless Drill", "Tools", "129.99", 42, 10),
		product("TOOL-002", "Socket Set", "Tools", "59.95", 25, 10),
		product("SUPP-001", "Printer Paper A4", "Office Supplies", "6.49", 600, 100),
		product("SUPP-002", "Ballpoint Pens (12)", "Office Supplies", "4.99", 45, 50),
		product("SUPP-003", "Sticky Notes", "Office Supplies", "2.79", 0, 40),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
