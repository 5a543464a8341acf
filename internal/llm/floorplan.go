package llm

import (
	"context"
	"errors"
	"strconv"
	"time"

	"house-design-backend/internal/metrics"
	"house-design-backend/internal/model"
	"house-design-backend/pkg/logger"

	"github.com/cloudwego/eino/callbacks"
	einoModel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

const floorPlanSystemPrompt = `You are a powerful house architect assistant. Your task is to help the user design a house in svg format.
You must not generate any text other than the svg code, this is crucial. Just focus on the svg code generation.`

const floorPlanUserPrompt = `As a skilled house architect assistant, your task is to design an extraordinary {house_type} house within a {num_marla} Marla plot.
Create a masterpiece with {num_bedrooms} bedrooms and {num_floors} floors, ensuring each space is utilized efficiently.
Additional preferences: {preferences}.
Imagine a layout that captivates residents and visitors alike.
Provide a detailed SVG design, including precise dimensions and labels for each room.`

// ErrEmptyResponse is returned when the model answers with no content.
var ErrEmptyResponse = errors.New("model returned an empty response")

func newFloorPlanPrompt() prompt.ChatTemplate {
	return prompt.FromMessages(schema.FString,
		schema.SystemMessage(floorPlanSystemPrompt),
		schema.UserMessage(floorPlanUserPrompt),
	)
}

// promptVariables 将户型参数转换为模板变量
func promptVariables(req model.GenerationRequest) map[string]any {
	return map[string]any{
		"house_type":   req.HouseType(),
		"num_marla":    strconv.FormatFloat(req.PlotSize(), 'f', -1, 64),
		"num_bedrooms": strconv.Itoa(req.RoomCount()),
		"num_floors":   strconv.Itoa(req.FloorCount()),
		"preferences":  req.PreferencesText(),
	}
}

// PlanChain asks a chat model for a floor plan and returns the raw answer text.
type PlanChain struct {
	runnable compose.Runnable[model.GenerationRequest, *schema.Message]
	provider string
}

func NewPlanChain(ctx context.Context, cm einoModel.BaseChatModel, provider string) (*PlanChain, error) {
	g := compose.NewGraph[model.GenerationRequest, *schema.Message]()

	err := g.AddLambdaNode("RequestToMap", compose.InvokableLambda(func(ctx context.Context, req model.GenerationRequest) (map[string]any, error) {
		return promptVariables(req), nil
	}))
	if err != nil {
		return nil, err
	}
	if err = g.AddChatTemplateNode("FloorPlanTemplate", newFloorPlanPrompt()); err != nil {
		return nil, err
	}
	if err = g.AddChatModelNode("FloorPlanModel", cm); err != nil {
		return nil, err
	}

	if err = g.AddEdge(compose.START, "RequestToMap"); err != nil {
		return nil, err
	}
	if err = g.AddEdge("RequestToMap", "FloorPlanTemplate"); err != nil {
		return nil, err
	}
	if err = g.AddEdge("FloorPlanTemplate", "FloorPlanModel"); err != nil {
		return nil, err
	}
	if err = g.AddEdge("FloorPlanModel", compose.END); err != nil {
		return nil, err
	}

	runnable, err := g.Compile(ctx, compose.WithGraphName("FloorPlan"))
	if err != nil {
		return nil, err
	}
	return &PlanChain{runnable: runnable, provider: provider}, nil
}

// GeneratePlan returns the model's answer verbatim. Extraction of the SVG
// element is left to the caller.
func (c *PlanChain) GeneratePlan(ctx context.Context, req model.GenerationRequest) (string, error) {
	start := time.Now()
	msg, err := c.runnable.Invoke(ctx, req, compose.WithCallbacks(logCallback()))
	metrics.UpstreamDuration.WithLabelValues("chat", c.provider).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", err
	}
	if msg == nil || msg.Content == "" {
		return "", ErrEmptyResponse
	}
	return msg.Content, nil
}

func logCallback() callbacks.Handler {
	return callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
			if info != nil {
				logger.Debugf("floor plan node %s (%s) started", info.Name, info.Component)
			}
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			fields := logger.Fields{}
			if info != nil {
				fields["node"] = info.Name
				fields["component"] = info.Component
			}
			logger.WithFields(fields).Warnf("floor plan node failed: %v", err)
			return ctx
		}).
		Build()
}
