package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/envmatch/internal/ui"
)

// RenderModel is everything the screen shows, derived from the session
// state alone. View renders nothing that is not in it.
type RenderModel struct {
	State        State
	Focus        State
	Location     string
	Current      string
	Environments []EnvironmentRow
	Variables    []VariableRow
	Status       string
	StatusError  bool
	Footer       string
	Modal        *ModalView
}

// EnvironmentRow is one line of the environments panel
type EnvironmentRow struct {
	Name     string
	Current  bool
	Selected bool
}

// VariableRow is one line of the variables panel. Value is already masked
// when values are hidden.
type VariableRow struct {
	Key      string
	Value    string
	Selected bool
}

// ModalView is the overlay shown in modal states
type ModalView struct {
	Title string
	Lines []string
	Input string // Rendered text input, empty when the modal takes no text
	Error string
	Width int
}

// RenderModel derives the render model from the current state
func (m Model) RenderModel() RenderModel {
	rm := RenderModel{
		State:    m.state,
		Focus:    m.focus,
		Location: m.store.Location(),
		Current:  m.current,
		Status:   m.status.text,
		Footer:   m.help.View(m.keys.helpFor(m.state)),
	}
	rm.StatusError = m.status.isError

	for i, env := range m.envs {
		rm.Environments = append(rm.Environments, EnvironmentRow{
			Name:     env.Name,
			Current:  env.Current,
			Selected: i == m.envCursor,
		})
	}

	for i, v := range m.variables {
		rm.Variables = append(rm.Variables, VariableRow{
			Key:      v.Key,
			Value:    m.displayValue(v.Value),
			Selected: i == m.varCursor,
		})
	}

	if m.state.IsModal() {
		rm.Modal = m.modalView()
	}
	return rm
}

func (m Model) displayValue(value string) string {
	if m.opts.MaskValues && !m.revealed {
		return maskGlyph
	}
	return strings.NewReplacer("\r", `\r`, "\n", `\n`).Replace(value)
}

func (m Model) modalView() *ModalView {
	switch m.state {
	case StateHelp:
		return &ModalView{
			Title: "ENVMATCH HELP",
			Lines: helpLines(m.keys.full()),
			Width: 60,
		}

	case StateConfirmDelete:
		question := fmt.Sprintf("Delete %s from environment '%s'?", m.pendingDelete.key, m.pendingDelete.env)
		if m.pendingDelete.isEnvironment() {
			question = fmt.Sprintf("Delete environment '%s' and all of its variables?", m.pendingDelete.env)
		}
		return &ModalView{
			Title: "CONFIRM DELETE",
			Lines: []string{question, "", "y confirm • n cancel"},
			Width: 60,
		}

	case StateInputAdd:
		mv := &ModalView{
			Title: fmt.Sprintf("ADD VARIABLE TO '%s'", m.targetEnv),
			Lines: []string{"Key:"},
			Input: m.input.View(),
			Error: m.inputErr,
			Width: 70,
		}
		if m.stage == addStageValue {
			mv.Lines = []string{"Key: " + m.pendingKey, "Value:"}
		}
		return mv

	case StateInputEdit:
		return &ModalView{
			Title: fmt.Sprintf("EDIT %s IN '%s'", m.pendingKey, m.targetEnv),
			Lines: []string{"Value:"},
			Input: m.input.View(),
			Error: m.inputErr,
			Width: 70,
		}

	case StateInputEnvironment:
		return &ModalView{
			Title: "NEW ENVIRONMENT",
			Lines: []string{"Name:"},
			Input: m.input.View(),
			Error: m.inputErr,
			Width: 60,
		}
	}
	return nil
}

// helpLines lists each enabled binding with its description
func helpLines(b bindings) []string {
	var lines []string
	for i, group := range b.FullHelp() {
		if i > 0 {
			lines = append(lines, "")
		}
		for _, binding := range group {
			if !binding.Enabled() {
				continue
			}
			lines = append(lines, formatBinding(binding))
		}
	}
	return append(lines, "", "Press any key to close this help screen")
}

func formatBinding(b key.Binding) string {
	h := b.Help()
	return fmt.Sprintf("  %-10s %s", h.Key, h.Desc)
}

// View renders the session
func (m Model) View() string {
	return Render(m.RenderModel(), m.Width, m.Height)
}

// Render draws a render model at the given terminal size
func Render(rm RenderModel, width, height int) string {
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	if rm.Modal != nil {
		return renderModal(renderModalContent(*rm.Modal, width), width, height)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		renderPanels(rm, width-4),
		renderStatus(rm),
	)
	return renderApplicationContainer(buildHeaderContent(rm.Location), content, rm.Footer, width, height)
}

func renderPanels(rm RenderModel, width int) string {
	envWidth := max(20, width/3)
	varWidth := max(20, width-envWidth-1)

	var envLines []string
	for _, row := range rm.Environments {
		envLines = append(envLines, renderEnvironmentRow(row, envWidth-4))
	}
	if len(envLines) == 0 {
		envLines = []string{mutedStyle.Render("(no environments)")}
	}

	var varLines []string
	for _, row := range rm.Variables {
		varLines = append(varLines, renderVariableRow(row, varWidth-4))
	}
	if len(varLines) == 0 {
		varLines = []string{mutedStyle.Render("(no variables set)")}
	}

	envPanel := renderPanel("Environments", envLines, envWidth, rm.Focus == StateEnvironmentList)
	varPanel := renderPanel(fmt.Sprintf("Variables (%s)", rm.Current), varLines, varWidth, rm.Focus == StateVariableList)

	return lipgloss.JoinHorizontal(lipgloss.Top, envPanel, " ", varPanel)
}

func renderPanel(title string, lines []string, width int, focused bool) string {
	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	body := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{panelTitleStyle.Render(truncate(title, width-4)), ""}, lines...)...,
	)
	return style.Width(width - 2).Render(body)
}

func renderEnvironmentRow(row EnvironmentRow, width int) string {
	arrow, style := "  ", rowStyle
	if row.Selected {
		arrow, style = "→ ", selectedRowStyle
	}
	if !row.Current {
		return style.Render(truncate(arrow+row.Name, width))
	}
	return style.Render(truncate(arrow+row.Name, width-2)) + " " + ui.CurrentMarkerStyle.Render(ui.CurrentMarker)
}

func renderVariableRow(row VariableRow, width int) string {
	arrow, style := "  ", rowStyle
	if row.Selected {
		arrow, style = "→ ", selectedRowStyle
	}
	return style.Render(truncate(arrow+row.Key+"="+row.Value, width))
}

func renderStatus(rm RenderModel) string {
	if rm.Status == "" {
		return ""
	}
	if rm.StatusError {
		return statusErrorStyle.Render(ui.FailureMarker + " " + rm.Status)
	}
	return statusStyle.Render(ui.SuccessMarker + " " + rm.Status)
}

func renderModalContent(mv ModalView, terminalWidth int) string {
	parts := []string{modalTitleStyle.Render(mv.Title), ""}
	parts = append(parts, mv.Lines...)
	if mv.Input != "" {
		parts = append(parts, mv.Input)
	}
	if mv.Error != "" {
		parts = append(parts, "", inputErrorStyle.Render(ui.FailureMarker+" "+mv.Error))
	}

	return modalStyle.
		Width(modalWidth(mv.Width, terminalWidth)).
		Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}
