package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"unicode"

	"recipe-planner/internal/cookbookapi"
	"recipe-planner/internal/history"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/preview"
	"recipe-planner/internal/session"
	"recipe-planner/internal/suggest"
	"recipe-planner/internal/week"
)

// ErrDisabled is returned by optional features that were not configured.
var ErrDisabled = errors.New("feature not configured")

// ErrUnknownRecipe is returned when the server does not know a recipe.
var ErrUnknownRecipe = errors.New("unknown recipe")

// Suggester proposes recipes for open days.
type Suggester interface {
	Suggest(ctx context.Context, req suggest.Request) (suggest.Result, error)
}

// Previewer summarizes the website named in a cookbook message.
type Previewer interface {
	FetchFromMessage(ctx context.Context, message string) (*preview.Page, error)
}

// Services are the optional collaborators of an App. Nil fields disable the
// matching feature.
type Services struct {
	History   *history.Repository
	Metrics   *metrics.Store
	Suggester Suggester
	Previewer Previewer
}

// App holds the application's dependencies and one user's session.
type App struct {
	api     cookbookapi.Client
	session *session.Session
	svc     Services
}

// NewApp creates and initializes a new App instance.
func NewApp(api cookbookapi.Client, sess *session.Session, svc Services) *App {
	if sess == nil {
		sess = session.New()
	}
	return &App{api: api, session: sess, svc: svc}
}

// WithSession returns an App sharing a's collaborators but bound to sess.
func (a *App) WithSession(sess *session.Session) *App {
	return NewApp(a.api, sess, a.svc)
}

// Session returns the session the App mutates.
func (a *App) Session() *session.Session { return a.session }

// HistoryEnabled reports whether plan snapshots can be saved.
func (a *App) HistoryEnabled() bool { return a.svc.History != nil }

// SuggestionsEnabled reports whether SuggestWeek can run.
func (a *App) SuggestionsEnabled() bool { return a.svc.Suggester != nil }

// RefreshCookbookNames replaces the cached cookbook names. On failure the
// previous names stay in place.
func (a *App) RefreshCookbookNames(ctx context.Context) error {
	names, err := a.api.CookbookNames(ctx)
	if err != nil {
		log.Printf("Error getting cookbook names: %v", err)
		return err
	}
	a.session.Cache.SetCookbookNames(names)
	return nil
}

// RefreshRecipeNames replaces the cached recipe names. On failure the
// previous names stay in place.
func (a *App) RefreshRecipeNames(ctx context.Context) error {
	names, err := a.api.AllRecipeNames(ctx)
	if err != nil {
		log.Printf("Error getting recipe names: %v", err)
		return err
	}
	a.session.Cache.SetRecipeNames(names)
	return nil
}

// Refresh loads both name lists, as done at start-up.
func (a *App) Refresh(ctx context.Context) error {
	return errors.Join(a.RefreshCookbookNames(ctx), a.RefreshRecipeNames(ctx))
}

func (a *App) CookbookInfo(ctx context.Context, name string) (*cookbookapi.CookbookInfo, error) {
	info, err := a.api.CookbookInfo(ctx, name)
	if err != nil {
		log.Printf("Error getting cookbook info for %q: %v", name, err)
		return nil, err
	}
	return info, nil
}

func (a *App) RecipeInfo(ctx context.Context, name string) (*cookbookapi.RecipeInfo, error) {
	info, err := a.api.RecipeInfo(ctx, name)
	if err != nil {
		log.Printf("Error getting recipe info for %q: %v", name, err)
		return nil, err
	}
	return info, nil
}

// RecipeNamesFor lists the recipes of one cookbook. The cache is not touched.
func (a *App) RecipeNamesFor(ctx context.Context, cookbook string) ([]string, error) {
	names, err := a.api.RecipeNames(ctx, cookbook)
	if err != nil {
		log.Printf("Error getting recipe names for %q: %v", cookbook, err)
		return nil, err
	}
	return names, nil
}

func (a *App) CheckRecipe(ctx context.Context, name string) (bool, error) {
	ok, err := a.api.CheckRecipe(ctx, name)
	if err != nil {
		log.Printf("Error checking recipe %q: %v", name, err)
		return false, err
	}
	return ok, nil
}

// AddCookbook creates a cookbook and reloads the cookbook names whether or
// not the add succeeded.
func (a *App) AddCookbook(ctx context.Context, c cookbookapi.NewCookbook) (string, error) {
	log.Printf("Trying to add cookbook %q", c.Name)
	resp, err := a.api.AddCookbook(ctx, c)
	if err != nil {
		log.Printf("Error adding cookbook: %v", err)
	}
	_ = a.RefreshCookbookNames(ctx)
	return message(resp), err
}

// DeleteCookbook removes a cookbook and reloads both name lists, since the
// server drops the cookbook's recipes with it.
func (a *App) DeleteCookbook(ctx context.Context, name string) (string, error) {
	log.Printf("Trying to delete cookbook %q", name)
	resp, err := a.api.DeleteCookbook(ctx, name)
	if err != nil {
		log.Printf("Error deleting cookbook: %v", err)
	}
	_ = a.RefreshCookbookNames(ctx)
	_ = a.RefreshRecipeNames(ctx)
	return message(resp), err
}

// AddRecipe creates a recipe and reloads the recipe names on success.
func (a *App) AddRecipe(ctx context.Context, r cookbookapi.NewRecipe) (string, error) {
	log.Printf("Trying to add recipe %q to %q", r.Name, r.Cookbook)
	resp, err := a.api.AddRecipe(ctx, r)
	if err != nil {
		log.Printf("Error adding recipe: %v", err)
		return "", err
	}
	_ = a.RefreshRecipeNames(ctx)
	return message(resp), nil
}

// DeleteRecipe removes a recipe and reloads the recipe names on success.
// Meal plan slots naming it are left alone.
func (a *App) DeleteRecipe(ctx context.Context, name string) (string, error) {
	log.Printf("Trying to delete recipe %q", name)
	resp, err := a.api.DeleteRecipe(ctx, name)
	if err != nil {
		log.Printf("Error deleting recipe: %v", err)
		return "", err
	}
	_ = a.RefreshRecipeNames(ctx)
	return message(resp), nil
}

// AddIngredient creates an ingredient and pairs it with recipe. The pairing
// is attempted even when the ingredient already existed and the add failed.
func (a *App) AddIngredient(ctx context.Context, recipe, ingredient string) error {
	log.Printf("Trying to add ingredient %q to recipe %q", ingredient, recipe)
	_, addErr := a.api.AddIngredient(ctx, ingredient, recipe)
	if addErr != nil {
		log.Printf("Error adding ingredient: %v", addErr)
	}
	_, pairErr := a.api.PairIngredient(ctx, ingredient, recipe)
	if pairErr != nil {
		log.Printf("Error adding ingredient-recipe pairing: %v", pairErr)
		return errors.Join(addErr, pairErr)
	}
	return nil
}

func (a *App) DeleteIngredient(ctx context.Context, name string) (string, error) {
	log.Printf("Trying to delete ingredient %q", name)
	resp, err := a.api.DeleteIngredient(ctx, name)
	if err != nil {
		log.Printf("Error deleting ingredient: %v", err)
		return "", err
	}
	return message(resp), nil
}

// Register creates an account. A duplicate e-mail yields
// cookbookapi.ErrUserExists.
func (a *App) Register(ctx context.Context, u cookbookapi.NewUser) error {
	if err := a.api.AddUser(ctx, u); err != nil {
		log.Printf("Error adding user: %v", err)
		return err
	}
	return nil
}

// Login checks credentials and remembers the e-mail on success.
func (a *App) Login(ctx context.Context, creds cookbookapi.Credentials) error {
	if err := a.api.Login(ctx, creds); err != nil {
		log.Printf("Error logging in: %v", err)
		return err
	}
	a.session.SetUser(creds.Email)
	return nil
}

// AssignRecipe stores recipe in the slot named by dayName.
func (a *App) AssignRecipe(dayName, recipe string) (week.Day, error) {
	day, err := week.Parse(dayName)
	if err != nil {
		return 0, err
	}
	a.session.Plan.Set(day, recipe)
	return day, nil
}

// AssignChecked title-cases recipe, confirms the server knows it, then
// assigns it. It returns the name that was stored.
func (a *App) AssignChecked(ctx context.Context, dayName, recipe string) (string, error) {
	day, err := week.Parse(dayName)
	if err != nil {
		return "", err
	}
	name := TitleCase(strings.TrimSpace(recipe))
	ok, err := a.CheckRecipe(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRecipe, name)
	}
	a.session.Plan.Set(day, name)
	return name, nil
}

// Plan returns the seven assignments in weekday order.
func (a *App) Plan() []session.Assignment {
	return a.session.Plan.Assignments()
}

// StaleDays lists planned days whose recipe is missing from the cached names.
// Nothing is reported until the recipe names have been loaded.
func (a *App) StaleDays() []week.Day {
	if !a.session.Cache.RecipeNamesLoaded() {
		return nil
	}
	return a.session.Plan.StaleDays(a.session.Cache.RecipeNames())
}

// SavePlan stores a snapshot of the current plan.
func (a *App) SavePlan(ctx context.Context, label string) (*history.Snapshot, error) {
	if a.svc.History == nil {
		return nil, fmt.Errorf("%w: plan history", ErrDisabled)
	}
	snap, err := a.svc.History.Save(ctx, a.session.User(), label, a.Plan())
	if err != nil {
		log.Printf("Error saving plan: %v", err)
		return nil, err
	}
	return snap, nil
}

// PlanHistory lists the n most recent snapshots of the signed-in user.
func (a *App) PlanHistory(ctx context.Context, n int) ([]history.Snapshot, error) {
	if a.svc.History == nil {
		return nil, fmt.Errorf("%w: plan history", ErrDisabled)
	}
	return a.svc.History.ListRecent(ctx, a.session.User(), n)
}

// SuggestWeek fills the empty days from the cached recipe names and returns
// what was assigned. Days that already hold a recipe are never changed.
func (a *App) SuggestWeek(ctx context.Context, note string) ([]suggest.Suggestion, error) {
	if a.svc.Suggester == nil {
		return nil, fmt.Errorf("%w: suggestions", ErrDisabled)
	}
	if !a.session.Cache.RecipeNamesLoaded() {
		_ = a.RefreshRecipeNames(ctx)
	}

	res, err := a.svc.Suggester.Suggest(ctx, suggest.Request{
		Recipes:  a.session.Cache.RecipeNames(),
		Open:     a.session.Plan.EmptyDays(),
		Assigned: a.Plan(),
		Note:     note,
	})
	a.recordUsage(ctx, res.Meta)
	if err != nil {
		log.Printf("Error suggesting recipes: %v", err)
		return nil, err
	}

	var applied []suggest.Suggestion
	for _, s := range res.Suggestions {
		if a.session.Plan.Get(s.Day) != "" {
			continue
		}
		a.session.Plan.Set(s.Day, s.Recipe)
		applied = append(applied, s)
	}
	return applied, nil
}

func (a *App) recordUsage(ctx context.Context, meta suggest.Meta) {
	if a.svc.Metrics == nil || meta.AgentName == "" {
		return
	}
	usage := metrics.Usage{
		Model:            meta.Usage.Model,
		PromptTokens:     meta.Usage.PromptTokens,
		CompletionTokens: meta.Usage.CompletionTokens,
	}
	if err := a.svc.Metrics.RecordUsage(ctx, meta.AgentName, usage, meta.Latency); err != nil {
		log.Printf("Warning: failed to record metrics for %s: %v", meta.AgentName, err)
	}
}

// PreviewCookbook summarizes the website mentioned in a cookbook's info.
func (a *App) PreviewCookbook(ctx context.Context, info *cookbookapi.CookbookInfo) (*preview.Page, error) {
	if a.svc.Previewer == nil {
		return nil, fmt.Errorf("%w: website preview", ErrDisabled)
	}
	if info == nil {
		return nil, preview.ErrNoWebsite
	}
	return a.svc.Previewer.FetchFromMessage(ctx, info.Message)
}

// TitleCase upper-cases the first letter of every word and lower-cases the
// rest. A word starts after any non-letter.
func TitleCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				sb.WriteRune(unicode.ToLower(r))
			} else {
				sb.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		sb.WriteRune(r)
		prevLetter = false
	}
	return sb.String()
}

func message(resp *cookbookapi.MessageResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Message
}
