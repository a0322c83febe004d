// Package tui is the terminal front end. Screens cover the cookbook web
// views: cookbooks, recipes, ingredients, the forms that create them and the
// weekly meal plan.
package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"recipe-planner/internal/app"
	"recipe-planner/internal/cookbookapi"
	"recipe-planner/internal/history"
	"recipe-planner/internal/preview"
	"recipe-planner/internal/week"
)

// appState represents which screen is showing.
type appState int

const (
	stateMenu appState = iota
	stateCookbooks
	stateCookbook
	stateRecipes
	stateRecipe
	stateIngredient
	statePlan
	stateHistory
	stateForm
)

const (
	historyLimit = 5
	maxServings  = 20
)

const (
	menuCookbooks   = "Cookbooks"
	menuRecipes     = "Recipes"
	menuAddCookbook = "Add Cookbook"
	menuAddRecipe   = "Add Recipe"
	menuPlan        = "Meal Plan"
	menuHistory     = "Plan History"
	menuRegister    = "Register"
	menuLogin       = "Login"
	menuQuit        = "Quit"
)

// menuItem implements list.Item for the main menu.
type menuItem struct {
	title string
	desc  string
}

func (i menuItem) Title() string       { return i.title }
func (i menuItem) Description() string { return i.desc }
func (i menuItem) FilterValue() string { return i.title }

// nameItem is a single cookbook, recipe or ingredient name.
type nameItem string

func (i nameItem) Title() string       { return string(i) }
func (i nameItem) Description() string { return "" }
func (i nameItem) FilterValue() string { return string(i) }

// Model is the bubbletea model of the whole UI.
type Model struct {
	app     *app.App
	timeout time.Duration
	state   appState

	menu   list.Model
	names  list.Model
	detail list.Model

	cookbook     string
	cookbookInfo *cookbookapi.CookbookInfo
	page         *preview.Page
	recipe       string
	recipeInfo   *cookbookapi.RecipeInfo
	recipeBack   appState
	ingredient   string
	snapshots    []history.Snapshot

	form       *form
	formReturn appState

	statusMsg string
	err       error

	width  int
	height int
}

// New creates the UI around a. timeout bounds each server call.
func New(a *app.App, timeout time.Duration) *Model {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	menu := newList("⬡ RECIPE PLANNER", []list.Item{
		menuItem{title: menuCookbooks, desc: "Browse cookbooks and their recipes"},
		menuItem{title: menuRecipes, desc: "Browse every recipe"},
		menuItem{title: menuAddCookbook, desc: "Create a cookbook"},
		menuItem{title: menuAddRecipe, desc: "Create a recipe in a cookbook"},
		menuItem{title: menuPlan, desc: "This week's meal plan"},
		menuItem{title: menuHistory, desc: "Saved plan snapshots"},
		menuItem{title: menuRegister, desc: "Create an account"},
		menuItem{title: menuLogin, desc: "Sign in"},
		menuItem{title: menuQuit, desc: "Leave the planner"},
	}, true)

	return &Model{
		app:     a,
		timeout: timeout,
		state:   stateMenu,
		menu:    menu,
		names:   newList("", nil, false),
		detail:  newList("", nil, false),
	}
}

func newList(title string, items []list.Item, descriptions bool) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = descriptions
	l := list.New(items, delegate, 60, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	return l
}

func nameItems(names []string) []list.Item {
	items := make([]list.Item, len(names))
	for i, n := range names {
		items[i] = nameItem(n)
	}
	return items
}

// Init loads both name lists, as the web page did on load.
func (m *Model) Init() tea.Cmd {
	m.statusMsg = "Loading cookbooks and recipes..."
	return m.refreshCmd()
}

// Update is called when a message is received.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w, h := max(20, msg.Width-6), max(5, msg.Height-10)
		m.menu.SetSize(w, h)
		m.names.SetSize(w, h)
		m.detail.SetSize(w, max(5, h-6))
		return m, nil

	case ReconfiguredMsg:
		if msg.App != nil {
			m.app = msg.App
			m.setStatus(fmt.Sprintf("Configuration reloaded from %s", msg.Source))
			return m, m.refreshCmd()
		}
		return m, nil

	case refreshedMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus("")
		m.syncNameList()
		return m, nil

	case cookbookInfoMsg:
		return m.handleCookbookInfo(msg)

	case recipeInfoMsg:
		return m.handleRecipeInfo(msg)

	case previewMsg:
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.page = msg.page
		m.setStatus("")
		return m, nil

	case historyMsg:
		if msg.err != nil {
			m.setError(msg.err)
			m.state = stateMenu
			return m, nil
		}
		m.snapshots = msg.snaps
		m.state = stateHistory
		m.setStatus("")
		return m, nil

	case suggestMsg:
		m.state = statePlan
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Suggested %d recipe(s)", len(msg.applied)))
		return m, nil

	case actionMsg:
		return m.handleAction(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.state == stateForm {
			return m.updateForm(msg)
		}
		return m.handleKey(msg)
	}

	if m.state == stateForm && m.form != nil {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q":
		if m.state == stateMenu {
			return m, tea.Quit
		}
	case "esc":
		return m.back()
	case "enter":
		return m.selectItem()
	}

	switch m.state {
	case stateCookbook:
		switch key {
		case "d":
			m.setStatus(fmt.Sprintf("Deleting cookbook %s...", m.cookbook))
			return m, m.deleteCookbookCmd(m.cookbook)
		case "a":
			return m.openForm(formAddRecipe)
		case "p":
			m.setStatus("Fetching website preview...")
			return m, m.previewCmd(m.cookbookInfo)
		}
	case stateRecipe:
		switch key {
		case "d":
			m.setStatus(fmt.Sprintf("Deleting recipe %s...", m.recipe))
			return m, m.deleteRecipeCmd(m.recipe)
		case "i":
			return m.openForm(formAddIngredient)
		case "w":
			return m.openForm(formAssign)
		}
	case stateIngredient:
		if key == "d" {
			m.setStatus(fmt.Sprintf("Deleting ingredient %s...", m.ingredient))
			return m, m.deleteIngredientCmd(m.ingredient)
		}
		return m, nil
	case statePlan:
		switch key {
		case "s":
			if !m.app.HistoryEnabled() {
				m.setError(fmt.Errorf("%w: plan history", app.ErrDisabled))
				return m, nil
			}
			return m.openForm(formSavePlan)
		case "g":
			if !m.app.SuggestionsEnabled() {
				m.setError(fmt.Errorf("%w: set GEMINI_API_KEY or GROQ_API_KEY", app.ErrDisabled))
				return m, nil
			}
			return m.openForm(formSuggest)
		case "r":
			m.setStatus("Refreshing recipe names...")
			return m, m.refreshCmd()
		case "h":
			return m, m.historyCmd()
		}
		return m, nil
	case stateHistory:
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case stateMenu:
		m.menu, cmd = m.menu.Update(msg)
	case stateCookbooks, stateRecipes:
		m.names, cmd = m.names.Update(msg)
	case stateCookbook, stateRecipe:
		m.detail, cmd = m.detail.Update(msg)
	}
	return m, cmd
}

func (m *Model) back() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateCookbook:
		m.showCookbooks()
	case stateRecipe:
		if m.recipeBack == stateCookbook && m.cookbookInfo != nil {
			m.showCookbook()
		} else {
			m.showRecipes()
		}
	case stateIngredient:
		m.showRecipe()
	case stateHistory:
		m.state = statePlan
	default:
		m.state = stateMenu
	}
	return m, nil
}

func (m *Model) selectItem() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.handleMenuSelection()
	case stateCookbooks:
		if item, ok := m.names.SelectedItem().(nameItem); ok {
			m.setStatus(fmt.Sprintf("Loading %s...", item))
			return m, m.cookbookInfoCmd(string(item))
		}
	case stateRecipes:
		if item, ok := m.names.SelectedItem().(nameItem); ok {
			m.recipeBack = stateRecipes
			m.setStatus(fmt.Sprintf("Loading %s...", item))
			return m, m.recipeInfoCmd(string(item))
		}
	case stateCookbook:
		if item, ok := m.detail.SelectedItem().(nameItem); ok {
			m.recipeBack = stateCookbook
			m.setStatus(fmt.Sprintf("Loading %s...", item))
			return m, m.recipeInfoCmd(string(item))
		}
	case stateRecipe:
		if item, ok := m.detail.SelectedItem().(nameItem); ok {
			m.ingredient = string(item)
			m.state = stateIngredient
			m.setStatus("")
		}
	}
	return m, nil
}

func (m *Model) handleMenuSelection() (tea.Model, tea.Cmd) {
	item, ok := m.menu.SelectedItem().(menuItem)
	if !ok {
		return m, nil
	}

	switch item.title {
	case menuCookbooks:
		m.showCookbooks()
	case menuRecipes:
		m.showRecipes()
	case menuAddCookbook:
		return m.openForm(formAddCookbook)
	case menuAddRecipe:
		m.cookbook = ""
		return m.openForm(formAddRecipe)
	case menuPlan:
		m.state = statePlan
		m.setStatus("")
	case menuHistory:
		m.setStatus("Loading plan history...")
		return m, m.historyCmd()
	case menuRegister:
		return m.openForm(formRegister)
	case menuLogin:
		return m.openForm(formLogin)
	case menuQuit:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) showCookbooks() {
	m.state = stateCookbooks
	m.names.Title = "Cookbooks"
	m.names.SetItems(nameItems(m.app.Session().Cache.CookbookNames()))
	m.names.ResetSelected()
	m.setStatus("")
}

func (m *Model) showRecipes() {
	m.state = stateRecipes
	m.names.Title = "Recipes"
	m.names.SetItems(nameItems(m.app.Session().Cache.RecipeNames()))
	m.names.ResetSelected()
	m.setStatus("")
}

func (m *Model) showCookbook() {
	m.state = stateCookbook
	m.detail.Title = "Recipes"
	var recipes []string
	if m.cookbookInfo != nil {
		recipes = m.cookbookInfo.Recipes
	}
	m.detail.SetItems(nameItems(recipes))
	m.detail.ResetSelected()
}

func (m *Model) showRecipe() {
	m.state = stateRecipe
	m.detail.Title = "Ingredients"
	var ingredients []string
	if m.recipeInfo != nil {
		ingredients = m.recipeInfo.Ingredients
	}
	m.detail.SetItems(nameItems(ingredients))
	m.detail.ResetSelected()
}

// syncNameList re-reads the cache when a name list is on screen.
func (m *Model) syncNameList() {
	switch m.state {
	case stateCookbooks:
		m.names.SetItems(nameItems(m.app.Session().Cache.CookbookNames()))
	case stateRecipes:
		m.names.SetItems(nameItems(m.app.Session().Cache.RecipeNames()))
	}
}

func (m *Model) handleCookbookInfo(msg cookbookInfoMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		m.state = stateMenu
		return m, nil
	}
	if msg.info == nil || !msg.info.Validity {
		m.setError(fmt.Errorf("%s is not a known cookbook", msg.name))
		m.state = stateMenu
		return m, nil
	}
	m.cookbook = msg.name
	m.cookbookInfo = msg.info
	m.page = nil
	m.showCookbook()
	m.setStatus("")
	return m, nil
}

func (m *Model) handleRecipeInfo(msg recipeInfoMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(msg.err)
		m.state = stateMenu
		return m, nil
	}
	m.recipe = msg.name
	m.recipeInfo = msg.info
	m.showRecipe()
	m.setStatus("")
	return m, nil
}

func (m *Model) handleAction(msg actionMsg) (tea.Model, tea.Cmd) {
	m.state = msg.next
	if msg.err != nil {
		m.setError(msg.err)
	} else {
		m.setStatus(msg.status)
	}
	if m.state == stateMenu {
		m.cookbookInfo = nil
		m.recipeInfo = nil
	}
	return m, msg.follow
}

func (m *Model) setStatus(s string) {
	m.statusMsg = s
	m.err = nil
}

func (m *Model) setError(err error) {
	m.err = err
	m.statusMsg = describeError(err)
}

func describeError(err error) string {
	switch {
	case errors.Is(err, cookbookapi.ErrUserExists):
		return "User already exists. Please try again."
	case errors.Is(err, cookbookapi.ErrInvalidLogin):
		return "Invalid login. Please try again."
	case errors.Is(err, week.ErrUnknownDay):
		return "Unknown day. Use Monday through Sunday."
	default:
		return err.Error()
	}
}

func (m *Model) openForm(kind formKind) (tea.Model, tea.Cmd) {
	m.formReturn = m.state
	switch kind {
	case formAddCookbook:
		m.form = newForm(kind, "Add Cookbook",
			fieldSpec{label: "Cookbook name"},
			fieldSpec{label: "Is it a book? (y/n)", value: "y"},
			fieldSpec{label: "Website (optional)", placeholder: "https://"},
		)
	case formAddRecipe:
		hint := strings.Join(m.app.Session().Cache.CookbookNames(), ", ")
		m.form = newForm(kind, "Add Recipe",
			fieldSpec{label: "Recipe name"},
			fieldSpec{label: "Cookbook", placeholder: hint, value: m.cookbook},
			fieldSpec{label: fmt.Sprintf("Servings (1-%d)", maxServings), value: "1"},
		)
	case formAddIngredient:
		m.form = newForm(kind, "Add Ingredient to "+m.recipe,
			fieldSpec{label: "Ingredient"},
		)
	case formAssign:
		m.form = newForm(kind, "Assign "+m.recipe,
			fieldSpec{label: "Day of the week", placeholder: "Monday"},
		)
	case formRegister:
		m.form = newForm(kind, "Register",
			fieldSpec{label: "E-mail"},
			fieldSpec{label: "Password", secret: true},
			fieldSpec{label: "First name"},
			fieldSpec{label: "Last name"},
		)
	case formLogin:
		m.form = newForm(kind, "Login",
			fieldSpec{label: "E-mail"},
			fieldSpec{label: "Password", secret: true},
		)
	case formSavePlan:
		m.form = newForm(kind, "Save Plan",
			fieldSpec{label: "Label (optional)", placeholder: time.Now().Format("Week of Jan 2")},
		)
	case formSuggest:
		m.form = newForm(kind, "Suggest Recipes for Open Days",
			fieldSpec{label: "Anything in particular? (optional)", placeholder: "quick dinners"},
		)
	}
	m.state = stateForm
	m.setStatus("")
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = m.formReturn
		m.form = nil
		return m, nil
	case "tab", "down":
		m.form.next()
		return m, nil
	case "shift+tab", "up":
		m.form.prev()
		return m, nil
	case "enter":
		if !m.form.onLastField() {
			m.form.next()
			return m, nil
		}
		return m.submitForm()
	}
	return m, m.form.update(msg)
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form
	switch f.kind {
	case formAddCookbook:
		name := f.value(0)
		if name == "" {
			m.setError(errors.New("cookbook name is required"))
			return m, nil
		}
		isBook, err := parseYesNo(f.value(1))
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.leaveForm("Adding cookbook...")
		return m, m.addCookbookCmd(cookbookapi.NewCookbook{Name: name, IsBook: isBook, Website: f.value(2)})

	case formAddRecipe:
		name, cookbook := f.value(0), f.value(1)
		if name == "" || cookbook == "" {
			m.setError(errors.New("recipe name and cookbook are required"))
			return m, nil
		}
		if !m.knownCookbook(cookbook) {
			m.setError(fmt.Errorf("%s is not a known cookbook", cookbook))
			return m, nil
		}
		servings, err := strconv.Atoi(f.value(2))
		if err != nil || servings < 1 || servings > maxServings {
			m.setError(fmt.Errorf("servings must be a number from 1 to %d", maxServings))
			return m, nil
		}
		m.leaveForm("Adding recipe...")
		return m, m.addRecipeCmd(cookbookapi.NewRecipe{Name: name, Cookbook: cookbook, Servings: servings})

	case formAddIngredient:
		ingredient := f.value(0)
		if ingredient == "" {
			m.setError(errors.New("ingredient name is required"))
			return m, nil
		}
		m.leaveForm("Adding ingredient...")
		return m, m.addIngredientCmd(m.recipe, ingredient)

	case formAssign:
		day, err := m.app.AssignRecipe(f.value(0), m.recipe)
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.form = nil
		m.state = statePlan
		m.setStatus(fmt.Sprintf("Assigned %s to %s", m.recipe, day))
		return m, nil

	case formRegister:
		email, password := f.value(0), f.rawValue(1)
		if email == "" || password == "" {
			m.setError(errors.New("e-mail and password are required"))
			return m, nil
		}
		m.leaveForm("Registering...")
		return m, m.registerCmd(cookbookapi.NewUser{Email: email, Password: password, FirstName: f.value(2), LastName: f.value(3)})

	case formLogin:
		email, password := f.value(0), f.rawValue(1)
		if email == "" || password == "" {
			m.setError(errors.New("e-mail and password are required"))
			return m, nil
		}
		m.leaveForm("Signing in...")
		return m, m.loginCmd(cookbookapi.Credentials{Email: email, Password: password})

	case formSavePlan:
		label := f.value(0)
		m.leaveForm("Saving plan...")
		return m, m.savePlanCmd(label)

	case formSuggest:
		note := f.value(0)
		m.leaveForm("Asking for suggestions...")
		return m, m.suggestCmd(note)
	}
	return m, nil
}

func (m *Model) leaveForm(status string) {
	m.state = m.formReturn
	m.form = nil
	m.setStatus(status)
}

func (m *Model) knownCookbook(name string) bool {
	cache := &m.app.Session().Cache
	if !cache.CookbookNamesLoaded() {
		return true
	}
	for _, n := range cache.CookbookNames() {
		if n == name {
			return true
		}
	}
	return false
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, fmt.Errorf("answer y or n, got %q", s)
	}
}

// View renders the current state to a string.
func (m *Model) View() string {
	var content string
	switch m.state {
	case stateMenu:
		content = m.menu.View()
	case stateCookbooks, stateRecipes:
		content = m.viewNames()
	case stateCookbook:
		content = m.viewCookbook()
	case stateRecipe:
		content = m.viewRecipe()
	case stateIngredient:
		content = m.viewIngredient()
	case statePlan:
		content = m.viewPlan()
	case stateHistory:
		content = m.viewHistory()
	case stateForm:
		if m.form != nil {
			content = m.form.view()
		}
	}

	width := m.width
	if width <= 0 {
		width = 80
	}
	header := headerStyle.Render("⬡ RECIPE PLANNER")
	if user := m.app.Session().User(); user != "" {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", userStyle.Render(user))
	}
	body := boxStyle.Width(max(20, width-4)).Render(content)

	footer := mutedStyle.Render(m.statusMsg)
	if m.err != nil {
		footer = errorStyle.Render(m.statusMsg)
	}
	return strings.Join([]string{header, body, footer, mutedStyle.Render(m.keyHints())}, "\n")
}

func (m *Model) keyHints() string {
	switch m.state {
	case stateMenu:
		return "enter select · q quit"
	case stateCookbooks, stateRecipes:
		return "enter open · esc back"
	case stateCookbook:
		return "enter open recipe · a add recipe · p preview website · d delete cookbook · esc back"
	case stateRecipe:
		return "enter open ingredient · i add ingredient · w assign to a day · d delete recipe · esc back"
	case stateIngredient:
		return "d delete ingredient · esc back"
	case statePlan:
		return "g suggest open days · s save snapshot · h history · r refresh · esc back"
	case stateHistory:
		return "esc back"
	}
	return ""
}

func (m *Model) viewNames() string {
	if len(m.names.Items()) == 0 {
		return titleStyle.Render(m.names.Title) + "\n" + mutedStyle.Render("Nothing here yet.")
	}
	return m.names.View()
}

func (m *Model) viewCookbook() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.cookbook))
	sb.WriteString("\n")
	if m.cookbookInfo != nil {
		sb.WriteString(textStyle.Render(strings.TrimSpace(m.cookbookInfo.Message)))
		sb.WriteString("\n")
	}
	if m.page != nil {
		sb.WriteString("\n")
		sb.WriteString(labelStyle.Render(m.page.Title))
		sb.WriteString("\n")
		sb.WriteString(mutedStyle.Render(m.page.Description))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	if len(m.detail.Items()) == 0 {
		sb.WriteString(mutedStyle.Render("No recipes yet."))
	} else {
		sb.WriteString(m.detail.View())
	}
	return sb.String()
}

func (m *Model) viewRecipe() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.recipe))
	sb.WriteString("\n")
	if m.recipeInfo != nil {
		sb.WriteString(textStyle.Render(strings.TrimSpace(m.recipeInfo.Message)))
		sb.WriteString("\n\n")
	}
	if len(m.detail.Items()) == 0 {
		sb.WriteString(mutedStyle.Render("No ingredients yet."))
	} else {
		sb.WriteString(m.detail.View())
	}
	return sb.String()
}

func (m *Model) viewIngredient() string {
	return titleStyle.Render(m.ingredient) + "\n" + textStyle.Render(fmt.Sprintf("Used in %s.", m.recipe))
}

func (m *Model) viewPlan() string {
	stale := make(map[week.Day]bool)
	for _, d := range m.app.StaleDays() {
		stale[d] = true
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Weekly Meal Plan"))
	sb.WriteString("\n")
	for _, a := range m.app.Plan() {
		day := labelStyle.Render(fmt.Sprintf("%-10s", a.Day))
		var recipe string
		switch {
		case a.Empty():
			recipe = mutedStyle.Render("–")
		case stale[a.Day]:
			recipe = staleStyle.Render(a.Recipe + " (no longer on the server)")
		default:
			recipe = textStyle.Render(a.Recipe)
		}
		sb.WriteString(day + " " + recipe + "\n")
	}
	return sb.String()
}

func (m *Model) viewHistory() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Plan History"))
	sb.WriteString("\n")
	if len(m.snapshots) == 0 {
		sb.WriteString(mutedStyle.Render("No saved plans yet."))
		return sb.String()
	}
	for _, s := range m.snapshots {
		label := s.Label
		if label == "" {
			label = "untitled"
		}
		sb.WriteString(labelStyle.Render(fmt.Sprintf("%s · %s", s.CreatedAt.Local().Format("Mon Jan 2 15:04"), label)))
		sb.WriteString("\n")
		var parts []string
		for _, d := range week.Days {
			r := s.Recipe(d)
			if r == "" {
				r = "–"
			}
			parts = append(parts, fmt.Sprintf("%s %s", d.Short(), r))
		}
		sb.WriteString(mutedStyle.Render(strings.Join(parts, " · ")))
		sb.WriteString("\n\n")
	}
	return sb.String()
}
