package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/daybook/pkg/app"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerCurrentGoalsTool(srv, svc)
	registerReadingPlanStateTool(srv, svc)
	registerStatsTool(srv, svc)
	registerSaveDayTool(srv, svc)
	registerListPlansTool(srv, svc)
}

func userOption() mcp.ToolOption {
	return mcp.WithString("user",
		mcp.Description("Journal owner. Defaults to the configured user."),
	)
}

func dateOption(what string) mcp.ToolOption {
	return mcp.WithString("date",
		mcp.Description(what+" as YYYY-MM-DD. Defaults to today."),
	)
}

func registerCurrentGoalsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_current_goals",
		mcp.WithDescription("Daily, weekly and monthly goals visible on a date, with deleted goals removed."),
		userOption(),
		dateOption("Reference date"),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.CurrentGoals(ctx, request.GetString("user", ""), request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerReadingPlanStateTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_reading_plan_state",
		mcp.WithDescription("Furthest recorded progress for a reading plan across all days."),
		userOption(),
		mcp.WithString("plan_id",
			mcp.Description("Plan identifier. Defaults to the active plan."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.ReadingPlanState(ctx, request.GetString("user", ""), request.GetString("plan_id", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerStatsTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"get_stats",
		mcp.WithDescription("Current streak, longest streak and completion rate."),
		userOption(),
		dateOption("Date to compute streaks as of"),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dto, err := svc.Stats(ctx, request.GetString("user", ""), request.GetString("date", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSaveDayTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"save_day",
		mcp.WithDescription("Merge fields into a day's entry and save it. Omitted fields keep their stored values; goal lists given are replaced whole."),
		userOption(),
		dateOption("Day to save"),
		mcp.WithObject("partial",
			mcp.Required(),
			mcp.Description("Fields to update: goals {daily, weekly, monthly}, deletedGoalIds, readingPlan, soap, checkIn, gratitude, dailyIntention, leadershipRating."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			User    string          `json:"user"`
			Date    string          `json:"date"`
			Partial json.RawMessage `json:"partial"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		partial, err := decodePartial(args.Partial)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		saved, err := svc.SaveDay(ctx, args.User, args.Date, partial)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(saved)
	})
}

// decodePartial accepts the partial either as an object or as a JSON string.
func decodePartial(raw json.RawMessage) (app.Partial, error) {
	var partial app.Partial
	if len(raw) == 0 || string(raw) == "null" {
		return partial, fmt.Errorf("partial is required")
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		raw = json.RawMessage(text)
	}
	if err := json.Unmarshal(raw, &partial); err != nil {
		return partial, fmt.Errorf("invalid partial: %v", err)
	}
	return partial, nil
}

func registerListPlansTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_plans",
		mcp.WithDescription("Reading plans available to start."),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		plans := svc.ListPlans()
		return toJSONResult(map[string]any{
			"plans": plans,
			"count": len(plans),
		})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}
