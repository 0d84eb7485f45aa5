package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `pantry tracks food as meals grouped by the date they must be eaten by.

Core concepts:
- Ingredient: a named item with an optional best-before date (YYYY-MM-DD).
- Meal: a titled group of ingredients. Its eat-by date is the earliest best-before of its ingredients; one undated ingredient makes the whole meal undated.
- Section: all meals sharing an eat-by date. The undated section comes first, then dated sections soonest first. Meals inside a section are ordered by title.
- Unsorted bucket: ingredients not yet assigned to a meal. Address it with meal_id "unsorted". It cannot be renamed, duplicated or eaten.

Default workflow:
1) Orient: call list_sections.
2) Drill in: call get_meal for ingredient ids.
3) Mutate: add_meal / add_ingredient / edit_ingredient / move_ingredient / eat_ingredient / eat_meal.
   Every mutation returns the affected meal's new section and position.
4) Bulk: export_document and import_document use the JSON exchange format. A malformed import is rejected and changes nothing.

Docs:
- pantry://docs/index
- pantry://docs/exchange-format
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "pantry://docs/index",
		Name:        "docs_index",
		Title:       "pantry docs index",
		Description: "Entry point: tools, ordering rules and limitations.",
		Content: `# pantry: Agent Docs Index

## Quick start

1. ` + "`list_sections`" + ` shows the unsorted bucket and every section with meal ids.
2. ` + "`get_meal`" + ` lists a meal's ingredients, undated first, then by best-before and name.
3. ` + "`add_ingredient`" + ` without ` + "`meal_id`" + ` drops an ingredient into the unsorted bucket.
4. ` + "`move_ingredient`" + ` files it into a meal. ` + "`can_move_ingredients`" + ` is false when there is nowhere to move to.

## Ordering

- Sections: undated first, then ascending eat-by date.
- Meals within a section: by title, ties keep the order they were added.
- Changing an ingredient's date can move its meal to another section; the response says where it went.

## Limitations

- The frozen flag is not part of the exchange format and is lost on export.
- ` + "`get_recent_activity`" + ` is only populated with the sqlite storage backend.
`,
	},
	{
		URI:         "pantry://docs/exchange-format",
		Name:        "docs_exchange_format",
		Title:       "Exchange format",
		Description: "The JSON document read by import_document and written by export_document.",
		Content: `# Exchange format

` + "```json" + `
{
  "unsorted": [{"name": "Eggs", "date": null}],
  "meals": [
    {"name": "Dinner", "ingredients": [{"name": "Rice", "date": [2025, 5, 3]}]}
  ]
}
` + "```" + `

- ` + "`date`" + ` is ` + "`[year, month, day]`" + ` or ` + "`null`" + ` for undated.
- Every ingredient and meal needs a ` + "`name`" + `.
- Impossible dates such as ` + "`[2025, 2, 30]`" + ` are rejected.
- Meal order in the file does not matter; sections are rebuilt on import.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
