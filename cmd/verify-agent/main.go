// verify-agent sends one sample sale description to the model and prints
// what comes back. Use it to check an API key and model name.
//
// Usage: go run ./cmd/verify-agent ["<sale description>"]
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"paddy-books/internal/ai"
	"paddy-books/internal/config"
	"paddy-books/internal/core"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.OpenAI.APIKey == "" {
		log.Fatal("OPENAI_API_KEY not set")
	}

	agent := ai.NewAgent(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stock := []core.StockItem{{
		Code:             "RICE50",
		Name:             "Rice (50kg bag)",
		BulkUnit:         "bag",
		BulkCostPrice:    decimal.NewFromInt(38000),
		BulkSellingPrice: decimal.NewFromInt(45000),
		QuantityInBulk:   decimal.NewFromInt(4),
		RetailUnits: []core.RetailUnit{
			{Name: "cup", UnitsPerBulk: decimal.NewFromInt(100), SellingPrice: decimal.NewFromInt(500)},
		},
	}}

	text := "Sold 6 cups of rice to Mama Tunde, she paid 2000 and will bring the rest tomorrow."
	if len(os.Args) > 1 {
		text = strings.Join(os.Args[1:], " ")
	}

	fmt.Printf("INTERPRETING: %s\n", text)
	res, err := agent.InterpretSale(ctx, text, stock)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if res.NeedsClarification() {
		fmt.Printf("\nCLARIFICATION: %s\n", res.Clarification)
		return
	}
	fmt.Printf("\nConfidence: %.2f (low: %v)\n", res.Confidence, res.LowConfidence)
	fmt.Printf("Reasoning:  %s\n\n", res.Reasoning)
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res.Draft); err != nil {
		log.Fatalf("encode: %v", err)
	}
}
