package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

func executeOrderPlace(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	log.Info().Msg("order.place called")

	if deps.Session.CartEmpty() {
		return contractx.ToolResult{
			Tool:   ToolOrderPlace,
			Result: "Your cart is empty. Add some items first by saying 'show catalog'.",
		}, nil
	}

	order, err := deps.Builder.Build(ctx, deps.Session.Cart, "")
	if err != nil {
		// Validation failures abort before any write; the cart stays intact.
		log.Warn().Err(err).Msg("order build failed")
		return contractx.ToolResult{
			Tool:  ToolOrderPlace,
			Error: fmt.Sprintf("I couldn't place the order: %v", err),
		}, nil
	}

	if err := deps.Session.RecordOrder(order, deps.Now()); err != nil {
		return contractx.ToolResult{}, err
	}

	if deps.Notifier != nil {
		if err := deps.Notifier.NotifyOrder(ctx, order); err != nil {
			log.Warn().Err(err).Str("order_id", order.ID).Msg("order webhook failed")
		}
	}

	lines := []string{fmt.Sprintf("Order confirmed! Order ID: %s", order.ID)}
	lines = append(lines, "\nItems ordered:")
	lines = append(lines, itemLines(order.Items)...)
	lines = append(lines, fmt.Sprintf("\nTotal: ₹%d %s", order.Total, order.Currency))
	lines = append(lines, "\nYour order has been saved. Say 'last order' to review it anytime.")

	return contractx.ToolResult{
		Tool:   ToolOrderPlace,
		Result: strings.Join(lines, "\n"),
	}, nil
}

func executeOrderLast(ctx context.Context, deps Deps) (contractx.ToolResult, error) {
	log.Info().Msg("order.last called")

	// The order store has no session scoping: "last order" is global.
	order, ok, err := deps.Orders.Last(ctx)
	if err != nil {
		ok = false
	}
	if !ok {
		return contractx.ToolResult{
			Tool:   ToolOrderLast,
			Result: "You haven't placed any orders yet. Say 'show catalog' to start shopping.",
		}, nil
	}

	lines := []string{fmt.Sprintf("Your last order: %s", order.ID)}
	lines = append(lines, fmt.Sprintf("Placed on: %s", order.CreatedAt.UTC().Format(time.RFC3339)))
	lines = append(lines, "\nItems:")
	lines = append(lines, itemLines(order.Items)...)
	lines = append(lines, fmt.Sprintf("\nTotal: ₹%d %s", order.Total, order.Currency))
	lines = append(lines, fmt.Sprintf("Status: %s", order.Status))

	return contractx.ToolResult{
		Tool:   ToolOrderLast,
		Result: strings.Join(lines, "\n"),
	}, nil
}

func itemLines(items []contractx.OrderItem) []string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		szText := ""
		if sz := it.Attrs["size"]; sz != "" {
			szText = fmt.Sprintf(" (size %s)", sz)
		}
		lines = append(lines, fmt.Sprintf("- %s x %d%s: ₹%d", it.Name, it.Quantity, szText, it.LineTotal))
	}
	return lines
}
