package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"

	contractx "github.com/naruebet/voicecart/agent/contract"
	toolx "github.com/naruebet/voicecart/agent/tool"
)

// assistantImpl fills the role the external voice framework plays in
// production: it lets the chat model plan tool calls, executes them against
// the stores, and turns the results into one spoken reply.
type assistantImpl struct {
	toolRunner   compose.Runnable[map[string]any, *schema.Message]
	spokenRunner compose.Runnable[map[string]any, *schema.Message]
	executor     toolx.Executor
	allowedTools map[string]struct{}
}

// New compiles the assistant graphs over chatModel and binds the tool
// surface.
func New(
	ctx context.Context,
	chatModel einomodel.ToolCallingChatModel,
	systemPrompt string,
	infos []*schema.ToolInfo,
	executor toolx.Executor,
) (contractx.Assistant, error) {
	if executor == nil {
		return nil, fmt.Errorf("%w: tool executor is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(systemPrompt) == "" {
		return nil, fmt.Errorf("%w: system prompt is required", contractx.ErrValidation)
	}

	toolModel, err := chatModel.WithTools(infos)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	toolRunner, err := compileChatGraph(ctx, toolModel, systemPrompt, "assistant.tool_planning_graph")
	if err != nil {
		return nil, err
	}
	spokenRunner, err := compileChatGraph(ctx, chatModel, systemPrompt, "assistant.spoken_reply_graph")
	if err != nil {
		return nil, err
	}

	allowed := make(map[string]struct{}, len(infos))
	for _, info := range infos {
		if info == nil || strings.TrimSpace(info.Name) == "" {
			continue
		}
		allowed[info.Name] = struct{}{}
	}

	return &assistantImpl{
		toolRunner:   toolRunner,
		spokenRunner: spokenRunner,
		executor:     executor,
		allowedTools: allowed,
	}, nil
}

// HandleMessage drives one conversational turn: plan, execute, speak.
func (a *assistantImpl) HandleMessage(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: user message is required", contractx.ErrValidation)
	}

	msg, err := a.invoke(ctx, a.toolRunner, map[string]any{
		"mode":         "act",
		"user_message": text,
	})
	if err != nil {
		return "", err
	}

	requests, err := toToolRequests(msg.ToolCalls)
	if err != nil {
		return "", err
	}

	if len(requests) == 0 {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			return "", fmt.Errorf("%w: assistant returned neither tools nor text", contractx.ErrSchemaViolation)
		}
		return content, nil
	}

	results := make([]contractx.ToolResult, 0, len(requests))
	for _, req := range requests {
		if _, ok := a.allowedTools[req.Tool]; !ok {
			return "", fmt.Errorf("%w: tool=%s is not allowed", contractx.ErrSchemaViolation, req.Tool)
		}
		out, err := a.executor(ctx, req.Tool, req.Args)
		if err != nil {
			return "", err
		}
		log.Debug().Str("tool", req.Tool).Bool("failed", out.Error != "").Msg("tool executed")
		results = append(results, out)
	}

	reply, err := a.invoke(ctx, a.spokenRunner, map[string]any{
		"mode":         "finalize",
		"user_message": text,
		"tool_results": results,
	})
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(reply.Content)
	if content == "" {
		return "", fmt.Errorf("%w: spoken reply is empty", contractx.ErrSchemaViolation)
	}
	return content, nil
}

func (a *assistantImpl) invoke(
	ctx context.Context,
	runner compose.Runnable[map[string]any, *schema.Message],
	payload map[string]any,
) (*schema.Message, error) {
	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal assistant payload: %v", contractx.ErrValidation, err)
	}

	msg, err := runner.Invoke(ctx, map[string]any{
		"input": string(input),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: assistant invoke: %v", contractx.ErrModelInvoke, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty model response", contractx.ErrSchemaViolation)
	}
	return msg, nil
}

func toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid tool args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{Tool: name, Args: args})
	}
	return reqs, nil
}
