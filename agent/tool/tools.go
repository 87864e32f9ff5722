package tool

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/naruebet/voicecart/agent/contract"
	statex "github.com/naruebet/voicecart/agent/state"
)

// Tool names exposed to the conversational layer, one per user intent.
const (
	ToolCatalogShow = "catalog.show"
	ToolCartAdd     = "cart.add"
	ToolCartShow    = "cart.show"
	ToolCartClear   = "cart.clear"
	ToolOrderPlace  = "order.place"
	ToolOrderLast   = "order.last"
)

// Executor runs one tool call and returns spoken-ready text. Failures that
// the user can act on come back as ToolResult.Error, not as Go errors.
type Executor func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error)

// OrderBuilder is the checkout dependency of the tool surface.
type OrderBuilder interface {
	Build(ctx context.Context, lines []contractx.CartLine, currency string) (contractx.Order, error)
}

// Notifier is told about every confirmed order; failures never surface to
// the user.
type Notifier interface {
	NotifyOrder(ctx context.Context, o contractx.Order) error
}

// Deps carries everything the tool executor closes over. Session is owned by
// exactly one conversation; tool calls run one at a time per conversation,
// so no locking happens here.
type Deps struct {
	Catalog  contractx.CatalogStore
	Orders   contractx.OrderStore
	Builder  OrderBuilder
	Resolver contractx.Resolver
	Session  *statex.SessionState
	Notifier Notifier
	Now      func() time.Time
}

func (d Deps) validate() error {
	if d.Catalog == nil {
		return fmt.Errorf("%w: catalog store is required", contractx.ErrValidation)
	}
	if d.Orders == nil {
		return fmt.Errorf("%w: order store is required", contractx.ErrValidation)
	}
	if d.Builder == nil {
		return fmt.Errorf("%w: order builder is required", contractx.ErrValidation)
	}
	if d.Resolver == nil {
		return fmt.Errorf("%w: resolver is required", contractx.ErrValidation)
	}
	if d.Session == nil {
		return fmt.Errorf("%w: session state is required", contractx.ErrValidation)
	}
	return nil
}

// Build returns the tool schema and an executor bound to deps.
func Build(deps Deps) ([]*schema.ToolInfo, Executor, error) {
	if err := deps.validate(); err != nil {
		return nil, nil, err
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return Infos(), NewExecutor(deps), nil
}

// NewExecutor dispatches tool calls against the stores and session in deps.
func NewExecutor(deps Deps) Executor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		switch tool {
		case ToolCatalogShow:
			return executeCatalogShow(ctx, deps, args)
		case ToolCartAdd:
			return executeCartAdd(ctx, deps, args)
		case ToolCartShow:
			return executeCartShow(ctx, deps)
		case ToolCartClear:
			return executeCartClear(deps)
		case ToolOrderPlace:
			return executeOrderPlace(ctx, deps, args)
		case ToolOrderLast:
			return executeOrderLast(ctx, deps)
		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is not available", tool),
			}, nil
		}
	}
}

// Infos describes the tool surface for the chat model.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolCatalogShow,
			Desc: "Show products matching the filters. Returns spoken summary with product names, prices, and IDs.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"q":         {Type: schema.String, Desc: "Search query (optional)"},
				"category":  {Type: schema.String, Desc: "Category like 'mug' or 'hoodie' (optional)"},
				"max_price": {Type: schema.Integer, Desc: "Maximum price in INR (optional)"},
				"color":     {Type: schema.String, Desc: "Color like 'black', 'blue', 'white' (optional)"},
			}),
		},
		{
			Name: ToolCartAdd,
			Desc: "Add a product to the shopping cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"product_ref": {Type: schema.String, Desc: "Product reference: ID, name, or 'first/second/third item'", Required: true},
				"quantity":    {Type: schema.Integer, Desc: "Quantity"},
				"size":        {Type: schema.String, Desc: "Size for clothing items (S, M, L, XL)"},
			}),
		},
		{
			Name: ToolCartShow,
			Desc: "Show all items currently in the shopping cart.",
		},
		{
			Name: ToolCartClear,
			Desc: "Empty the shopping cart.",
		},
		{
			Name: ToolOrderPlace,
			Desc: "Place an order with items from the cart.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"confirm": {Type: schema.Boolean, Desc: "Confirm order placement"},
			}),
		},
		{
			Name: ToolOrderLast,
			Desc: "Show the most recent order details.",
		},
	}
}

/* ----------------------------- arg helpers ------------------------------ */

// stringArg returns a trimmed string argument, or "" when absent or not a
// string.
func stringArg(args map[string]any, key string) string {
	v, ok := args[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// intArg tolerates JSON numbers, numeric strings, and ints. Anything
// unparsable reports !ok; the filter is then treated as absent rather than
// as an error.
func intArg(args map[string]any, key string) (int64, bool) {
	v, ok := args[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
