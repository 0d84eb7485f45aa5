package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// toolFunc adapts a handler method into an SDK tool handler. Results are
// returned as JSON text; domain errors become APIError tool errors.
func toolFunc[In, Out any](fn func(context.Context, In) (Out, error)) sdkmcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, _ *sdkmcp.CallToolRequest, in In) (*sdkmcp.CallToolResult, any, error) {
		out, err := fn(ctx, in)
		if err != nil {
			return nil, nil, mapError(err)
		}
		res, err := jsonResult(out)
		return res, nil, err
	}
}

// registerTools adds every pantry tool to the server.
func registerTools(server *sdkmcp.Server, h *Handler) {
	// Browsing
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_sections",
		Description: "List the unsorted bucket and every eat-by section with its meals, soonest first",
	}, toolFunc(h.ListSections))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_meal",
		Description: "Get one meal with its ingredients in sorted order",
	}, toolFunc(h.GetMeal))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_unsorted",
		Description: "List ingredients not yet assigned to a meal",
	}, toolFunc(h.ListUnsorted))

	// Meals
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_meal",
		Description: "Create an empty meal",
	}, toolFunc(h.AddMeal))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "rename_meal",
		Description: "Rename a meal",
	}, toolFunc(h.RenameMeal))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "duplicate_meal",
		Description: "Copy a meal and all of its ingredients",
	}, toolFunc(h.DuplicateMeal))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "eat_meal",
		Description: "Remove a meal and all of its ingredients",
	}, toolFunc(h.EatMeal))

	// Ingredients
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_ingredient",
		Description: "Add an ingredient to a meal, or to the unsorted bucket when meal_id is omitted",
	}, toolFunc(h.AddIngredient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "edit_ingredient",
		Description: "Rename an ingredient, change or clear its best-before date, or freeze it",
	}, toolFunc(h.EditIngredient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "duplicate_ingredient",
		Description: "Add a copy of an ingredient to the same meal",
	}, toolFunc(h.DuplicateIngredient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "eat_ingredient",
		Description: "Remove an ingredient from its meal",
	}, toolFunc(h.EatIngredient))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_ingredient",
		Description: "Move an ingredient to another meal or to the unsorted bucket",
	}, toolFunc(h.MoveIngredient))

	// Document
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "export_document",
		Description: "Export the pantry as an exchange-format JSON document",
	}, toolFunc(h.ExportDocument))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "import_document",
		Description: "Replace the pantry with an exchange-format JSON document; malformed input leaves it unchanged",
	}, toolFunc(h.ImportDocument))
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent pantry changes, newest first",
	}, toolFunc(h.GetRecentActivity))
}
