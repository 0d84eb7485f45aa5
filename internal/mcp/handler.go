package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rpggio/pantry/internal/domain/activity"
	"github.com/rpggio/pantry/internal/domain/document"
	"github.com/rpggio/pantry/internal/domain/ingredient"
	"github.com/rpggio/pantry/internal/domain/meal"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	Recent(ctx context.Context, opts activity.ListOptions) ([]activity.Entry, error)
}

// Handler adapts tool calls to the document service. Calls must be serialized
// by the caller; NewServer installs a middleware that does so.
type Handler struct {
	docs     *document.Service
	store    document.Store
	activity ActivityService
}

// NewHandler creates a new MCP handler. store and activitySvc may be nil.
func NewHandler(docs *document.Service, store document.Store, activitySvc ActivityService) *Handler {
	return &Handler{
		docs:     docs,
		store:    store,
		activity: activitySvc,
	}
}

// persist flushes the document after a mutation and waits for the write.
func (h *Handler) persist(ctx context.Context) error {
	if h.store == nil {
		return nil
	}
	if err := <-h.docs.SaveAsync(ctx, h.store); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

func (h *Handler) resolveMeal(id string) (*meal.Meal, error) {
	if id == "" || id == UnsortedID {
		return h.docs.Unsorted(), nil
	}
	m, ok := h.docs.Meal(id)
	if !ok {
		return nil, fmt.Errorf("meal %q: %w", id, document.ErrMealNotFound)
	}
	return m, nil
}

// resolveIndexedMeal rejects the unsorted bucket and unknown ids.
func (h *Handler) resolveIndexedMeal(id string) (*meal.Meal, error) {
	switch id {
	case "":
		return nil, fmt.Errorf("meal_id is required: %w", document.ErrInvalidInput)
	case UnsortedID:
		return nil, fmt.Errorf("meal %q is the unsorted bucket: %w", id, document.ErrInvalidOperation)
	}
	return h.resolveMeal(id)
}

func (h *Handler) resolveIngredient(id string) (*ingredient.Ingredient, error) {
	ing, ok := h.docs.Ingredient(id)
	if !ok {
		return nil, fmt.Errorf("ingredient %q: %w", id, document.ErrIngredientNotFound)
	}
	return ing, nil
}

func parseDate(s string) (*ingredient.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := ingredient.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *Handler) ListSections(ctx context.Context, _ EmptyParams) (ListSectionsResponse, error) {
	resp := ListSectionsResponse{
		Unsorted:           h.summary(h.docs.Unsorted()),
		Sections:           []SectionResponse{},
		CanMoveIngredients: h.docs.CanMoveIngredients(),
	}
	for i, sec := range h.docs.Sections() {
		sr := SectionResponse{
			Index: h.sectionOffset() + i,
			Title: sec.Title,
			Meals: []MealSummary{},
		}
		if sec.Key.Dated {
			s := sec.Key.Date.String()
			sr.EatBy = &s
		}
		for _, m := range sec.Meals() {
			sr.Meals = append(sr.Meals, h.summary(m))
		}
		resp.Sections = append(resp.Sections, sr)
	}
	return resp, nil
}

func (h *Handler) GetMeal(ctx context.Context, req MealParams) (MealResponse, error) {
	m, err := h.resolveMeal(req.MealID)
	if err != nil {
		return MealResponse{}, err
	}
	return h.mealResponse(m), nil
}

func (h *Handler) ListUnsorted(ctx context.Context, _ EmptyParams) (MealResponse, error) {
	return h.mealResponse(h.docs.Unsorted()), nil
}

func (h *Handler) AddMeal(ctx context.Context, req AddMealParams) (MealResponse, error) {
	m, _, err := h.docs.AddMeal(ctx, req.Name)
	if err != nil {
		return MealResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return MealResponse{}, err
	}
	return h.mealResponse(m), nil
}

func (h *Handler) RenameMeal(ctx context.Context, req RenameMealParams) (ChangeResponse, error) {
	m, err := h.resolveIndexedMeal(req.MealID)
	if err != nil {
		return ChangeResponse{}, err
	}
	c, err := h.docs.RenameMeal(ctx, m, req.Name)
	if err != nil {
		return ChangeResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return ChangeResponse{}, err
	}
	return h.changeResponse(c), nil
}

func (h *Handler) DuplicateMeal(ctx context.Context, req MealParams) (MealResponse, error) {
	m, err := h.resolveIndexedMeal(req.MealID)
	if err != nil {
		return MealResponse{}, err
	}
	dup, _, err := h.docs.DuplicateMeal(ctx, m)
	if err != nil {
		return MealResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return MealResponse{}, err
	}
	return h.mealResponse(dup), nil
}

func (h *Handler) EatMeal(ctx context.Context, req MealParams) (EatMealResponse, error) {
	m, err := h.resolveIndexedMeal(req.MealID)
	if err != nil {
		return EatMealResponse{}, err
	}
	if err := h.docs.DeleteMeal(ctx, m); err != nil {
		return EatMealResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return EatMealResponse{}, err
	}
	return EatMealResponse{MealID: m.ID, Eaten: true}, nil
}

func (h *Handler) AddIngredient(ctx context.Context, req AddIngredientParams) (IngredientChangeResponse, error) {
	m, err := h.resolveMeal(req.MealID)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	date, err := parseDate(req.BestBefore)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	ing, err := h.docs.NewIngredient(req.Name, date)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	c, err := h.docs.AddIngredientTo(ctx, m, ing)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return IngredientChangeResponse{}, err
	}
	return IngredientChangeResponse{Ingredient: ingredientResponse(ing), Meal: h.changeResponse(c)}, nil
}

func (h *Handler) EditIngredient(ctx context.Context, req EditIngredientParams) (IngredientChangeResponse, error) {
	ing, err := h.resolveIngredient(req.IngredientID)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	edit := document.EditRequest{
		Name:            req.Name,
		ClearBestBefore: req.ClearBestBefore,
		Frozen:          req.Frozen,
	}
	if req.BestBefore != nil {
		if edit.BestBefore, err = parseDate(*req.BestBefore); err != nil {
			return IngredientChangeResponse{}, err
		}
	}
	c, err := h.docs.EditIngredient(ctx, ing, edit)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return IngredientChangeResponse{}, err
	}
	return IngredientChangeResponse{Ingredient: ingredientResponse(ing), Meal: h.changeResponse(c)}, nil
}

func (h *Handler) DuplicateIngredient(ctx context.Context, req IngredientParams) (IngredientChangeResponse, error) {
	ing, err := h.resolveIngredient(req.IngredientID)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	dup, c, err := h.docs.DuplicateIngredient(ctx, ing)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return IngredientChangeResponse{}, err
	}
	return IngredientChangeResponse{Ingredient: ingredientResponse(dup), Meal: h.changeResponse(c)}, nil
}

func (h *Handler) EatIngredient(ctx context.Context, req IngredientParams) (IngredientChangeResponse, error) {
	ing, err := h.resolveIngredient(req.IngredientID)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	c, err := h.docs.EatIngredient(ctx, ing)
	if err != nil {
		return IngredientChangeResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return IngredientChangeResponse{}, err
	}
	return IngredientChangeResponse{Ingredient: ingredientResponse(ing), Meal: h.changeResponse(c)}, nil
}

func (h *Handler) MoveIngredient(ctx context.Context, req MoveIngredientParams) (MoveIngredientResponse, error) {
	ing, err := h.resolveIngredient(req.IngredientID)
	if err != nil {
		return MoveIngredientResponse{}, err
	}
	from, ok := h.docs.Owner(ing)
	if !ok {
		return MoveIngredientResponse{}, document.ErrIngredientNotFound
	}
	to, err := h.resolveMeal(req.ToMealID)
	if err != nil {
		return MoveIngredientResponse{}, err
	}
	res, err := h.docs.MoveIngredient(ctx, ing, from, to)
	if err != nil {
		return MoveIngredientResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return MoveIngredientResponse{}, err
	}
	return MoveIngredientResponse{
		Ingredient: ingredientResponse(ing),
		From:       h.changeResponse(res.From),
		To:         h.changeResponse(res.To),
	}, nil
}

func (h *Handler) ExportDocument(ctx context.Context, _ EmptyParams) (ExportDocumentResponse, error) {
	data, err := h.docs.Save()
	if err != nil {
		return ExportDocumentResponse{}, err
	}
	return ExportDocumentResponse{Document: string(data)}, nil
}

func (h *Handler) ImportDocument(ctx context.Context, req ImportDocumentParams) (ImportDocumentResponse, error) {
	if err := h.docs.Load(ctx, []byte(req.Document)); err != nil {
		return ImportDocumentResponse{}, err
	}
	if err := h.persist(ctx); err != nil {
		return ImportDocumentResponse{}, err
	}
	return ImportDocumentResponse{
		Meals:    len(h.docs.Meals()),
		Unsorted: h.docs.Unsorted().Len(),
	}, nil
}

func (h *Handler) GetRecentActivity(ctx context.Context, req GetRecentActivityParams) (ActivityResponse, error) {
	if h.activity == nil {
		return ActivityResponse{Entries: []activity.Entry{}}, nil
	}
	opts := activity.ListOptions{Limit: req.Limit, Offset: req.Offset}
	if req.MealID != "" {
		opts.MealID = &req.MealID
	}
	entries, err := h.activity.Recent(ctx, opts)
	if err != nil {
		return ActivityResponse{}, err
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	return ActivityResponse{Entries: entries}, nil
}

func (h *Handler) sectionOffset() int {
	return h.docs.Document().Offset()
}

func (h *Handler) summary(m *meal.Meal) MealSummary {
	s := MealSummary{
		ID:    m.ID,
		Title: m.Title(),
		Count: h.docs.Printer().CountLabel(m.Len(), m.Special()),
	}
	if m.Special() {
		s.ID = UnsortedID
		return s
	}
	if d, ok := m.EatBy(); ok {
		str := d.String()
		s.EatBy = &str
	}
	return s
}

func (h *Handler) mealResponse(m *meal.Meal) MealResponse {
	resp := MealResponse{
		MealSummary: h.summary(m),
		Ingredients: []IngredientResponse{},
	}
	if c, ok := h.docs.Describe(m); ok {
		resp.Unsorted = c.Unsorted
		resp.Section = c.Position.Section
		resp.SectionTitle = c.Position.Title
		resp.Position = c.Position.Meal
	}
	for _, ing := range m.Ingredients() {
		resp.Ingredients = append(resp.Ingredients, ingredientResponse(ing))
	}
	return resp
}

func (h *Handler) changeResponse(c document.Change) ChangeResponse {
	if c.Meal == nil {
		return ChangeResponse{}
	}
	id := c.Meal.ID
	if c.Unsorted {
		id = UnsortedID
	}
	return ChangeResponse{
		MealID:       id,
		Title:        c.Meal.Title(),
		Unsorted:     c.Unsorted,
		Section:      c.Position.Section,
		SectionTitle: c.Position.Title,
		Position:     c.Position.Meal,
		Count:        c.Count,
	}
}

func ingredientResponse(ing *ingredient.Ingredient) IngredientResponse {
	resp := IngredientResponse{ID: ing.ID, Name: ing.Name(), Frozen: ing.Frozen()}
	if d, ok := ing.BestBefore(); ok {
		s := d.String()
		resp.BestBefore = &s
	}
	return resp
}

// jsonResult renders v as the text content of a tool result.
func jsonResult(v any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding tool result: %w", err)
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}
