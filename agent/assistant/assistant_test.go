package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/naruebet/voicecart/agent/contract"
	toolx "github.com/naruebet/voicecart/agent/tool"
)

type fakeToolCallingModel struct {
	responses []*schema.Message
	err       error
	idx       int
}

func (f *fakeToolCallingModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.idx >= len(f.responses) {
		return nil, errors.New("no fake response left")
	}
	msg := f.responses[f.idx]
	f.idx++
	return msg, nil
}

func (f *fakeToolCallingModel) Stream(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("stream not implemented in fake model")
}

func (f *fakeToolCallingModel) WithTools(tools []*schema.ToolInfo) (einomodel.ToolCallingChatModel, error) {
	return f, nil
}

func recordingExecutor(calls *[]contractx.ToolRequest, result string) toolx.Executor {
	return func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		*calls = append(*calls, contractx.ToolRequest{Tool: tool, Args: args})
		return contractx.ToolResult{Tool: tool, Result: result}, nil
	}
}

func TestHandleMessageExecutesPlannedTool(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				ToolCalls: []schema.ToolCall{
					{Function: schema.FunctionCall{
						Name:      toolx.ToolCatalogShow,
						Arguments: `{"category":"mug"}`,
					}},
				},
			},
			{Content: "We have two mugs: the Stoneware Coffee Mug and the Midnight Blue Mug."},
		},
	}

	var calls []contractx.ToolRequest
	a, err := New(context.Background(), fake, "shopping prompt", toolx.Infos(), recordingExecutor(&calls, "2 mugs found"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := a.HandleMessage(context.Background(), "show me mugs")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if !strings.Contains(reply, "two mugs") {
		t.Fatalf("unexpected reply: %s", reply)
	}
	if len(calls) != 1 || calls[0].Tool != toolx.ToolCatalogShow {
		t.Fatalf("unexpected tool calls: %#v", calls)
	}
	if calls[0].Args["category"] != "mug" {
		t.Fatalf("tool args not forwarded: %#v", calls[0].Args)
	}
}

func TestHandleMessageDirectReplyWithoutTools(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{Content: "Hi there! Want to browse hoodies or mugs?"},
		},
	}

	var calls []contractx.ToolRequest
	a, err := New(context.Background(), fake, "shopping prompt", toolx.Infos(), recordingExecutor(&calls, ""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	reply, err := a.HandleMessage(context.Background(), "hello")
	if err != nil {
		t.Fatalf("HandleMessage() error = %v", err)
	}
	if reply != "Hi there! Want to browse hoodies or mugs?" {
		t.Fatalf("unexpected reply: %s", reply)
	}
	if len(calls) != 0 {
		t.Fatalf("no tool should run: %#v", calls)
	}
}

func TestHandleMessageRejectsUnknownTool(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{
		responses: []*schema.Message{
			{
				ToolCalls: []schema.ToolCall{
					{Function: schema.FunctionCall{Name: "warehouse.restock", Arguments: `{}`}},
				},
			},
		},
	}

	var calls []contractx.ToolRequest
	a, err := New(context.Background(), fake, "shopping prompt", toolx.Infos(), recordingExecutor(&calls, ""))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = a.HandleMessage(context.Background(), "restock everything")
	if err == nil {
		t.Fatal("expected error for unknown tool")
	}
	if !errors.Is(err, contractx.ErrSchemaViolation) {
		t.Fatalf("expected ErrSchemaViolation, got %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("unknown tool must not execute: %#v", calls)
	}
}

func TestHandleMessageEmptyInput(t *testing.T) {
	t.Parallel()

	fake := &fakeToolCallingModel{}
	a, err := New(context.Background(), fake, "shopping prompt", toolx.Infos(), func(ctx context.Context, tool string, args map[string]any) (contractx.ToolResult, error) {
		return contractx.ToolResult{}, nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_, err = a.HandleMessage(context.Background(), "  ")
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
