package telegram

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"recipe-planner/internal/app"
	"recipe-planner/internal/cookbookapi"
	"recipe-planner/internal/history"
	"recipe-planner/internal/metrics"
	"recipe-planner/internal/session"
	"recipe-planner/internal/suggest"
	"recipe-planner/internal/week"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const helpText = `🍳 *Recipe Planner*

/cookbooks - list cookbooks
/cookbook <name> - cookbook details
/recipes [cookbook] - list recipes
/recipe <name> - recipe details
/assign <day> <recipe> - put a recipe on the plan
/plan - show this week's plan
/suggest [request] - fill the open days
/save [label] - keep a copy of the plan
/history - recent saved plans`

// reply runs the command in msg against the chat's session and returns the
// Markdown answer.
func (b *Bot) reply(ctx context.Context, msg *tgbotapi.Message) string {
	a := b.sessionFor(msg.Chat.ID)
	args := strings.TrimSpace(msg.CommandArguments())

	switch msg.Command() {
	case "cookbooks":
		return b.cookbooks(ctx, a)
	case "cookbook":
		return b.cookbook(ctx, a, args)
	case "recipes":
		return b.recipes(ctx, a, args)
	case "recipe":
		return b.recipe(ctx, a, args)
	case "assign":
		return b.assign(ctx, a, args)
	case "plan":
		return formatPlanMarkdown(a.Plan(), a.StaleDays())
	case "suggest":
		return b.suggest(ctx, a, args)
	case "save":
		return b.save(ctx, a, args)
	case "history":
		return b.history(ctx, a)
	case "status":
		if msg.From == nil || msg.From.ID != b.cfg.AdminTelegramID {
			return "⛔ *Access Denied*: Admin only."
		}
		return b.status(ctx)
	default:
		return helpText
	}
}

func (b *Bot) cookbooks(ctx context.Context, a *app.App) string {
	if err := a.RefreshCookbookNames(ctx); err != nil {
		return errorText("fetching cookbooks", err)
	}
	return formatList("📚 *Cookbooks*", a.Session().Cache.CookbookNames())
}

func (b *Bot) cookbook(ctx context.Context, a *app.App, name string) string {
	if name == "" {
		return "Usage: /cookbook <name>"
	}
	info, err := a.CookbookInfo(ctx, name)
	if err != nil {
		return errorText("fetching cookbook", err)
	}
	if !info.Validity {
		return fmt.Sprintf("Cookbook *%s* was not found.", escapeMarkdown(name))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📖 *%s*\n", escapeMarkdown(name)))
	sb.WriteString(escapeMarkdown(strings.TrimSpace(info.Message)))
	sb.WriteString("\n\n")
	sb.WriteString(formatList("*Recipes*", info.Recipes))
	return sb.String()
}

func (b *Bot) recipes(ctx context.Context, a *app.App, cookbook string) string {
	if cookbook != "" {
		names, err := a.RecipeNamesFor(ctx, cookbook)
		if err != nil {
			return errorText("fetching recipes", err)
		}
		return formatList(fmt.Sprintf("🥘 *Recipes in %s*", escapeMarkdown(cookbook)), names)
	}
	if err := a.RefreshRecipeNames(ctx); err != nil {
		return errorText("fetching recipes", err)
	}
	return formatList("🥘 *Recipes*", a.Session().Cache.RecipeNames())
}

func (b *Bot) recipe(ctx context.Context, a *app.App, name string) string {
	if name == "" {
		return "Usage: /recipe <name>"
	}
	info, err := a.RecipeInfo(ctx, name)
	if err != nil {
		return errorText("fetching recipe", err)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🥘 *%s*\n", escapeMarkdown(name)))
	sb.WriteString(escapeMarkdown(strings.TrimSpace(info.Message)))
	sb.WriteString("\n\n")
	sb.WriteString(formatList("*Ingredients*", info.Ingredients))
	return sb.String()
}

func (b *Bot) assign(ctx context.Context, a *app.App, args string) string {
	day, recipe, ok := strings.Cut(args, " ")
	recipe = strings.TrimSpace(recipe)
	if !ok || recipe == "" {
		return "Usage: /assign <day> <recipe>"
	}
	name, err := a.AssignChecked(ctx, day, recipe)
	switch {
	case errors.Is(err, week.ErrUnknownDay):
		return fmt.Sprintf("%q is not a day of the week.", day)
	case errors.Is(err, app.ErrUnknownRecipe):
		return "Sorry, that recipe does not exist. Please try again."
	case err != nil:
		return errorText("checking recipe", err)
	}
	d, _ := week.Parse(day)
	return fmt.Sprintf("✅ *%s*: %s", d, escapeMarkdown(name))
}

func (b *Bot) suggest(ctx context.Context, a *app.App, request string) string {
	applied, err := a.SuggestWeek(ctx, request)
	switch {
	case errors.Is(err, app.ErrDisabled):
		return "Suggestions are not configured on this bot."
	case errors.Is(err, suggest.ErrNoRecipes):
		return "There are no recipes to choose from yet."
	case err != nil:
		return errorText("suggesting recipes", err)
	}

	var sb strings.Builder
	if len(applied) == 0 {
		sb.WriteString("No open days were filled.\n\n")
	}
	for _, s := range applied {
		if s.Note != "" {
			sb.WriteString(fmt.Sprintf("*%s*: _%s_\n", s.Day, escapeMarkdown(s.Note)))
		}
	}
	if sb.Len() > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(formatPlanMarkdown(a.Plan(), a.StaleDays()))
	return sb.String()
}

func (b *Bot) save(ctx context.Context, a *app.App, label string) string {
	snap, err := a.SavePlan(ctx, label)
	if errors.Is(err, app.ErrDisabled) {
		return "Plan history is not configured on this bot."
	}
	if err != nil {
		return errorText("saving plan", err)
	}
	return fmt.Sprintf("💾 Plan saved (%s).", snap.CreatedAt.Format("2006-01-02 15:04"))
}

func (b *Bot) history(ctx context.Context, a *app.App) string {
	snaps, err := a.PlanHistory(ctx, 5)
	if errors.Is(err, app.ErrDisabled) {
		return "Plan history is not configured on this bot."
	}
	if err != nil {
		return errorText("loading history", err)
	}
	return formatHistoryMarkdown(snaps)
}

func (b *Bot) status(ctx context.Context) string {
	var usage []metrics.DailyUsage
	if b.metricsStore != nil {
		var err error
		usage, err = b.metricsStore.GetDailyUsage(ctx, 7)
		if err != nil {
			log.Printf("Error fetching metrics: %v", err)
			return "❌ Error fetching metrics."
		}
	}
	return formatStatusMarkdown(usage, metrics.GetSysHealth(b.dataDir()))
}

func formatPlanMarkdown(plan []session.Assignment, stale []week.Day) string {
	isStale := make(map[week.Day]bool, len(stale))
	for _, d := range stale {
		isStale[d] = true
	}

	var pb strings.Builder
	pb.WriteString("📅 *Weekly Meal Plan*\n\n")
	for _, as := range plan {
		recipe := "-"
		if !as.Empty() {
			recipe = escapeMarkdown(as.Recipe)
		}
		pb.WriteString(fmt.Sprintf("*%s*: %s", as.Day, recipe))
		if isStale[as.Day] {
			pb.WriteString(" _(no longer on the server)_")
		}
		pb.WriteString("\n")
	}
	return pb.String()
}

func formatHistoryMarkdown(snaps []history.Snapshot) string {
	if len(snaps) == 0 {
		return "🗂 *Saved Plans*\n\n_No saved plans yet_"
	}
	var sb strings.Builder
	sb.WriteString("🗂 *Saved Plans*\n")
	for _, s := range snaps {
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("*%s*", s.CreatedAt.Format("2006-01-02 15:04")))
		if s.Label != "" {
			sb.WriteString(fmt.Sprintf(" %s", escapeMarkdown(s.Label)))
		}
		sb.WriteString("\n")
		for _, d := range week.Days {
			if r := s.Recipe(d); r != "" {
				sb.WriteString(fmt.Sprintf("• %s: %s\n", d.Short(), escapeMarkdown(r)))
			}
		}
	}
	return sb.String()
}

func formatStatusMarkdown(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		sb.WriteString(fmt.Sprintf("• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution))
	}

	sb.WriteString("\n🧠 *System Health*\n")
	sb.WriteString(fmt.Sprintf("• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB))
	sb.WriteString(fmt.Sprintf("• Goroutines: %d\n", health.Goroutines))
	sb.WriteString(fmt.Sprintf("• Uptime: %s\n", health.Uptime))
	sb.WriteString(fmt.Sprintf("• Disk Data: %s\n", health.DataDiskSize))
	return sb.String()
}

func formatList(header string, items []string) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")
	if len(items) == 0 {
		sb.WriteString("_None_\n")
	}
	for _, item := range items {
		sb.WriteString(fmt.Sprintf("• %s\n", escapeMarkdown(item)))
	}
	return sb.String()
}

func errorText(action string, err error) string {
	log.Printf("Error %s: %v", action, err)
	var se *cookbookapi.StatusError
	if errors.As(err, &se) && se.Code >= 500 {
		return fmt.Sprintf("❌ *Error %s:* the cookbook server failed (%d).", action, se.Code)
	}
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *Error %s:*\n```\n%v\n```", action, safeErr)
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escapeMarkdown protects user text inside legacy Markdown messages.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}
