package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"recipe-planner/internal/app"
	"recipe-planner/internal/cookbookapi"
	"recipe-planner/internal/history"
	"recipe-planner/internal/preview"
	"recipe-planner/internal/suggest"
)

// ReconfiguredMsg swaps the App behind the UI, for example after the config
// file named a different server. The session is kept.
type ReconfiguredMsg struct {
	App    *app.App
	Source string
}

type refreshedMsg struct{ err error }

type cookbookInfoMsg struct {
	name string
	info *cookbookapi.CookbookInfo
	err  error
}

type recipeInfoMsg struct {
	name string
	info *cookbookapi.RecipeInfo
	err  error
}

type previewMsg struct {
	page *preview.Page
	err  error
}

type historyMsg struct {
	snaps []history.Snapshot
	err   error
}

type suggestMsg struct {
	applied []suggest.Suggestion
	err     error
}

// actionMsg reports a finished write. follow, when set, runs next.
type actionMsg struct {
	status string
	err    error
	next   appState
	follow tea.Cmd
}

func (m *Model) withTimeout(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m *Model) refreshCmd() tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		return refreshedMsg{err: a.Refresh(ctx)}
	})
}

func (m *Model) cookbookInfoCmd(name string) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		info, err := a.CookbookInfo(ctx, name)
		return cookbookInfoMsg{name: name, info: info, err: err}
	})
}

func (m *Model) recipeInfoCmd(name string) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		info, err := a.RecipeInfo(ctx, name)
		return recipeInfoMsg{name: name, info: info, err: err}
	})
}

func (m *Model) previewCmd(info *cookbookapi.CookbookInfo) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		page, err := a.PreviewCookbook(ctx, info)
		return previewMsg{page: page, err: err}
	})
}

func (m *Model) historyCmd() tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		snaps, err := a.PlanHistory(ctx, historyLimit)
		return historyMsg{snaps: snaps, err: err}
	})
}

func (m *Model) suggestCmd(note string) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		// Generation is slower than the cookbook server.
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		applied, err := a.SuggestWeek(ctx, note)
		return suggestMsg{applied: applied, err: err}
	}
}

func (m *Model) addCookbookCmd(c cookbookapi.NewCookbook) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		msg, err := a.AddCookbook(ctx, c)
		return actionMsg{status: orDefault(msg, fmt.Sprintf("Added cookbook %s", c.Name)), err: err, next: stateMenu}
	})
}

func (m *Model) deleteCookbookCmd(name string) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		msg, err := a.DeleteCookbook(ctx, name)
		return actionMsg{status: orDefault(msg, fmt.Sprintf("Deleted cookbook %s", name)), err: err, next: stateMenu}
	})
}

func (m *Model) addRecipeCmd(r cookbookapi.NewRecipe) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		msg, err := a.AddRecipe(ctx, r)
		return actionMsg{status: orDefault(msg, fmt.Sprintf("Added recipe %s", r.Name)), err: err, next: stateMenu}
	})
}

func (m *Model) deleteRecipeCmd(name string) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		msg, err := a.DeleteRecipe(ctx, name)
		return actionMsg{status: orDefault(msg, fmt.Sprintf("Deleted recipe %s", name)), err: err, next: stateMenu}
	})
}

func (m *Model) addIngredientCmd(recipe, ingredient string) tea.Cmd {
	a := m.app
	follow := m.recipeInfoCmd(recipe)
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		err := a.AddIngredient(ctx, recipe, ingredient)
		return actionMsg{status: fmt.Sprintf("Added %s to %s", ingredient, recipe), err: err, next: stateRecipe, follow: follow}
	})
}

func (m *Model) deleteIngredientCmd(name string) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		msg, err := a.DeleteIngredient(ctx, name)
		return actionMsg{status: orDefault(msg, fmt.Sprintf("Deleted ingredient %s", name)), err: err, next: stateMenu}
	})
}

func (m *Model) registerCmd(u cookbookapi.NewUser) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		err := a.Register(ctx, u)
		return actionMsg{status: fmt.Sprintf("Registered %s", u.Email), err: err, next: stateMenu}
	})
}

func (m *Model) loginCmd(c cookbookapi.Credentials) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		err := a.Login(ctx, c)
		return actionMsg{status: fmt.Sprintf("Login with %s successful!", c.Email), err: err, next: stateMenu}
	})
}

func (m *Model) savePlanCmd(label string) tea.Cmd {
	a := m.app
	return m.withTimeout(func(ctx context.Context) tea.Msg {
		snap, err := a.SavePlan(ctx, label)
		if err != nil {
			return actionMsg{err: err, next: statePlan}
		}
		return actionMsg{status: fmt.Sprintf("Saved plan snapshot %s", snap.ID), next: statePlan}
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
