package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

func executeCartAdd(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	productRef := stringArg(args, "product_ref")
	if productRef == "" {
		return contractx.ToolResult{
			Tool:  ToolCartAdd,
			Error: "product_ref is required",
		}, nil
	}

	quantity := int64(1)
	if v, ok := intArg(args, "quantity"); ok && v > 0 {
		quantity = v
	}
	size := stringArg(args, "size")

	log.Info().Str("product_ref", productRef).Int64("quantity", quantity).Str("size", size).Msg("cart.add called")

	// References resolve against the full catalog, not a filtered view.
	candidates, err := deps.Catalog.All(ctx)
	if err != nil {
		candidates = nil
	}

	prod, ok := deps.Resolver.Resolve(productRef, candidates)
	if !ok {
		return contractx.ToolResult{
			Tool:   ToolCartAdd,
			Result: fmt.Sprintf("I couldn't find the product '%s'. Try saying 'show catalog' to see available items.", productRef),
		}, nil
	}

	// Size gate: sized products are refused, not defaulted. No cart mutation.
	if prod.RequiresSize() && size == "" {
		return contractx.ToolResult{
			Tool:   ToolCartAdd,
			Result: fmt.Sprintf("Please specify a size for %s. Available sizes: %s", prod.Name, strings.Join(prod.Sizes, ", ")),
		}, nil
	}

	attrs := map[string]string{}
	if size != "" {
		attrs["size"] = size
	}
	line := contractx.CartLine{
		ProductID: prod.ID,
		Quantity:  int(quantity),
		Attrs:     attrs,
	}
	if err := deps.Session.AddLine(line, deps.Now()); err != nil {
		return contractx.ToolResult{}, err
	}

	sizeText := ""
	if size != "" {
		sizeText = fmt.Sprintf(" in size %s", size)
	}
	return contractx.ToolResult{
		Tool:   ToolCartAdd,
		Result: fmt.Sprintf("Added %d x %s%s to your cart. Say 'show cart' to review or 'place order' to checkout.", quantity, prod.Name, sizeText),
	}, nil
}

func executeCartShow(ctx context.Context, deps Deps) (contractx.ToolResult, error) {
	log.Info().Msg("cart.show called")

	if deps.Session.CartEmpty() {
		return contractx.ToolResult{
			Tool:   ToolCartShow,
			Result: "Your cart is empty. Say 'show catalog' to browse products.",
		}, nil
	}

	products, err := deps.Catalog.All(ctx)
	if err != nil {
		products = nil
	}
	byID := make(map[string]contractx.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	lines := []string{"Items in your cart:"}
	var total int64
	for _, li := range deps.Session.Cart {
		p, ok := byID[li.ProductID]
		if !ok {
			// Lines whose product vanished from the catalog are skipped.
			continue
		}

		qty := li.Quantity
		if qty <= 0 {
			qty = 1
		}
		lineTotal := p.Price * int64(qty)
		total += lineTotal

		szText := ""
		if sz := li.Size(); sz != "" {
			szText = fmt.Sprintf(", size %s", sz)
		}
		lines = append(lines, fmt.Sprintf("- %s x %d%s: ₹%d", p.Name, li.Quantity, szText, lineTotal))
	}

	lines = append(lines, fmt.Sprintf("\nCart total: ₹%d", total))
	lines = append(lines, "Say 'place my order' to checkout or 'clear cart' to empty the cart.")

	return contractx.ToolResult{
		Tool:   ToolCartShow,
		Result: strings.Join(lines, "\n"),
	}, nil
}

func executeCartClear(deps Deps) (contractx.ToolResult, error) {
	log.Info().Msg("cart.clear called")

	if err := deps.Session.ClearCart(deps.Now()); err != nil {
		return contractx.ToolResult{}, err
	}
	return contractx.ToolResult{
		Tool:   ToolCartClear,
		Result: "Your cart has been cleared. Would you like to browse the catalog?",
	}, nil
}
