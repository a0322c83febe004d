package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formKind int

const (
	formAddCookbook formKind = iota
	formAddRecipe
	formAddIngredient
	formAssign
	formRegister
	formLogin
	formSavePlan
	formSuggest
)

type fieldSpec struct {
	label       string
	placeholder string
	value       string
	secret      bool
}

type field struct {
	label string
	input textinput.Model
}

// form is a vertical stack of text inputs. Enter on the last field submits.
type form struct {
	kind   formKind
	title  string
	fields []field
	focus  int
}

func newForm(kind formKind, title string, specs ...fieldSpec) *form {
	f := &form{kind: kind, title: title}
	for _, spec := range specs {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = spec.placeholder
		ti.CharLimit = 120
		ti.Width = 40
		ti.SetValue(spec.value)
		ti.Cursor.SetMode(cursor.CursorStatic)
		if spec.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.fields = append(f.fields, field{label: spec.label, input: ti})
	}
	f.setFocus(0)
	return f
}

func (f *form) setFocus(i int) {
	if len(f.fields) == 0 {
		return
	}
	if i < 0 {
		i = len(f.fields) - 1
	}
	if i >= len(f.fields) {
		i = 0
	}
	f.fields[f.focus].input.Blur()
	f.focus = i
	f.fields[f.focus].input.Focus()
}

func (f *form) next() { f.setFocus(f.focus + 1) }
func (f *form) prev() { f.setFocus(f.focus - 1) }

func (f *form) onLastField() bool { return f.focus == len(f.fields)-1 }

func (f *form) value(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return strings.TrimSpace(f.fields[i].input.Value())
}

// rawValue keeps surrounding spaces, used for passwords.
func (f *form) rawValue(i int) string {
	if i < 0 || i >= len(f.fields) {
		return ""
	}
	return f.fields[i].input.Value()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

func (f *form) view() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(f.title))
	sb.WriteString("\n")
	for i, fl := range f.fields {
		label := mutedStyle.Render(fl.label)
		if i == f.focus {
			label = labelStyle.Render(fl.label)
		}
		sb.WriteString(label)
		sb.WriteString("\n")
		sb.WriteString(fl.input.View())
		sb.WriteString("\n\n")
	}
	sb.WriteString(mutedStyle.Render("tab/↓ next · shift+tab/↑ previous · enter on last field submits · esc cancel"))
	return sb.String()
}
