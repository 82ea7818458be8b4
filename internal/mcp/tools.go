package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog: id, name, muscle group, default sets, and whether the exercise is user-created."),
	mcp.WithString("muscle_group", mcp.Description("Optional muscle group filter (e.g. Chest, Back, Legs)")),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Get the weight series for an exercise: one point per completed workout containing it (date, heaviest set weight, workout name), oldest first."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id")),
)

var toolGetProgressStats = mcp.NewTool("get_progress_stats",
	mcp.WithDescription("Get progress stats for an exercise: current max weight, starting weight, percent change, and session count."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id")),
)

var toolGetRecommendation = mcp.NewTool("get_weight_recommendation",
	mcp.WithDescription("Evaluate the progressive-overload heuristics for an exercise. Returns 'increase' when the last 2 workouts hit every target, 'decrease' when the last 3 each had a failed set, otherwise none."),
	mcp.WithString("exercise_id", mcp.Required(), mcp.Description("Exercise id")),
)

var toolGetCompletedWorkouts = mcp.NewTool("get_completed_workouts",
	mcp.WithDescription("Get completed workouts, newest first, with exercises and per-set reps/weights."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of workouts to return. Defaults to 20.")),
)

// --- Handlers ---

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group := req.GetString("muscle_group", "")

	list := h.catalog.Exercises(ctx)
	if group != "" {
		filtered := list[:0]
		for _, ex := range list {
			if ex.MuscleGroup == group {
				filtered = append(filtered, ex)
			}
		}
		list = filtered
	}

	result, err := mcp.NewToolResultJSON(list)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(h.history.SeriesFor(ctx, id))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getProgressStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	stats, ok := h.history.StatsFor(ctx, id)
	if !ok {
		return mcp.NewToolResultError("no history for exercise"), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecommendation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("exercise_id")
	if err != nil {
		return mcp.NewToolResultError("exercise_id parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"recommendation": h.history.Recommendation(ctx, id),
		"lastUsedWeight": h.history.LastUsedWeight(ctx, id),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getCompletedWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := req.GetInt("limit", 20)

	list := h.history.Completed(ctx)
	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	result, err := mcp.NewToolResultJSON(list)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
