package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/kasonde-dev/stockpilot-backend/internal/apperr"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/inventory"
	"github.com/kasonde-dev/stockpilot-backend/internal/modules/order"
)

// Fallback strings returned when the completion provider fails. The API
// contract is "some string within the request lifetime", never a 5xx for a
// provider outage.
const (
	fallbackChat        = "I apologize, but I am unable to respond at this time. Please try again."
	defaultChat         = "I apologize, but I cannot process your request at the moment."
	fallbackDescription = "Professional quality product designed for business excellence."
	defaultDescription  = "High-quality product for your business needs."
	fallbackInventory   = "Unable to generate inventory insights at this time."
	fallbackOrders      = "Unable to generate order insights at this time."
)

// Service defines the AI assistant operations. Each is a single-shot prompt
// forward with a canned fallback.
type Service interface {
	Chat(ctx context.Context, message, chatContext string) (string, error)
	GenerateDescription(ctx context.Context, productName, category string) (string, error)
	InventoryInsights(ctx context.Context) (string, error)
	OrderInsights(ctx context.Context) (string, error)
}

type service struct {
	client   CompletionClient
	products inventory.Repository
	orders   order.Repository
}

// NewService creates a new assistant service.
func NewService(client CompletionClient, products inventory.Repository, orders order.Repository) Service {
	return &service{client: client, products: products, orders: orders}
}

func (s *service) Chat(ctx context.Context, message, chatContext string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperr.New(apperr.KindValidation, "Message is required")
	}

	systemPrompt := "You are an ERP assistant helping users with inventory management, order processing, and business analytics. Keep responses concise and actionable."
	if chatContext != "" {
		systemPrompt = "You are an ERP assistant helping users with inventory, orders, and business operations. Context: " + chatContext
	}

	reply, err := s.client.Complete(ctx, systemPrompt, message, 300, 0.7)
	if err != nil {
		return fallbackChat, nil
	}
	if reply == "" {
		return defaultChat, nil
	}
	return reply, nil
}

func (s *service) GenerateDescription(ctx context.Context, productName, category string) (string, error) {
	if strings.TrimSpace(productName) == "" || strings.TrimSpace(category) == "" {
		return "", apperr.New(apperr.KindValidation, "Product name and category are required")
	}

	prompt := fmt.Sprintf("Write a professional product description (2-3 sentences) for: %s in the %s category.", productName, category)
	reply, err := s.client.Complete(ctx,
		"You are a professional product description writer for an ERP system. Write concise, professional product descriptions that highlight key features and benefits.",
		prompt, 150, 0.7)
	if err != nil {
		return fallbackDescription, nil
	}
	if reply == "" {
		return defaultDescription, nil
	}
	return reply, nil
}

func (s *service) InventoryInsights(ctx context.Context) (string, error) {
	products, err := s.products.ListLowestStock(ctx, 20)
	if err != nil {
		return "", err
	}

	var lines []string
	for i, p := range products {
		if i == 10 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %d units (Reorder: %d, Status: %s)",
			p.Name, p.CurrentStock, p.ReorderLevel, p.Status))
	}

	prompt := "Analyze this inventory data and provide 3 key insights:\n" + strings.Join(lines, "\n")
	reply, err := s.client.Complete(ctx,
		"You are an inventory management analyst. Provide brief, actionable insights about inventory status and recommend actions.",
		prompt, 200, 0.5)
	if err != nil || reply == "" {
		return fallbackInventory, nil
	}
	return reply, nil
}

func (s *service) OrderInsights(ctx context.Context) (string, error) {
	orders, _, err := s.orders.List(ctx, order.Filter{Page: 1, Limit: 10})
	if err != nil {
		return "", err
	}

	var lines []string
	for i, o := range orders {
		if i == 5 {
			break
		}
		lines = append(lines, fmt.Sprintf("Order %s: $%.2f - %s (%d items)",
			o.OrderNumber, o.TotalAmount, o.Status, len(o.Items)))
	}

	prompt := "Analyze these recent orders and provide 2-3 key business insights:\n" + strings.Join(lines, "\n")
	reply, err := s.client.Complete(ctx,
		"You are a business analyst. Provide brief insights about order patterns and business performance.",
		prompt, 150, 0.5)
	if err != nil || reply == "" {
		return fallbackOrders, nil
	}
	return reply, nil
}
