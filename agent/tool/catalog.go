package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	contractx "github.com/naruebet/voicecart/agent/contract"
)

// maxListedProducts caps the spoken catalog listing; the total count is still
// reported.
const maxListedProducts = 6

func executeCatalogShow(ctx context.Context, deps Deps, args map[string]any) (contractx.ToolResult, error) {
	filter := contractx.Filter{
		Query:    stringArg(args, "q"),
		Category: stringArg(args, "category"),
		Color:    stringArg(args, "color"),
	}
	if v, ok := intArg(args, "max_price"); ok {
		filter.MaxPrice = &v
	}
	if v, ok := intArg(args, "min_price"); ok {
		filter.MinPrice = &v
	}

	log.Info().
		Str("q", filter.Query).
		Str("category", filter.Category).
		Str("color", filter.Color).
		Msg("catalog.show called")

	prods, err := deps.Catalog.List(ctx, filter)
	if err != nil {
		// I/O problems degrade to an empty result set for the user.
		prods = nil
	}

	if len(prods) == 0 {
		return contractx.ToolResult{
			Tool:   ToolCatalogShow,
			Result: "Sorry, I couldn't find any products matching your criteria. Try browsing all hoodies or mugs?",
		}, nil
	}

	shown := len(prods)
	if shown > maxListedProducts {
		shown = maxListedProducts
	}

	lines := []string{fmt.Sprintf("I found %d product(s). Here are the top %d:", len(prods), shown)}
	for i, p := range prods[:shown] {
		sizeInfo := ""
		if p.RequiresSize() {
			sizeInfo = fmt.Sprintf(" (sizes: %s)", strings.Join(p.Sizes, ", "))
		}
		lines = append(lines, fmt.Sprintf("%d. %s — ₹%d (ID: %s)%s", i+1, p.Name, p.Price, p.ID, sizeInfo))
	}
	lines = append(lines, "Say 'add the second item to my cart in size M' or 'add hoodie-black-01 to cart'.")

	return contractx.ToolResult{
		Tool:   ToolCatalogShow,
		Result: strings.Join(lines, "\n"),
	}, nil
}
