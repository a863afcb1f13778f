package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/timequest/internal/delivery"
	"github.com/jwebster45206/timequest/internal/game"
)

const placeholderText = "Type a button number, or text when asked..."

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	screenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// ConsoleUI is the BubbleTea model that runs the local client.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	engine   *game.Game
	viewport viewport.Model
	textarea textarea.Model
	ready    bool
	width    int
	height   int

	screen  screenMsg
	buttons []delivery.Button
	status  string
}

func NewConsoleUI(engine *game.Game) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = placeholderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	vp := viewport.New(50, 20)
	vp.MouseWheelEnabled = true

	return ConsoleUI{
		engine:   engine,
		viewport: vp,
		textarea: ta,
	}
}

func (ui ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, ui.dispatch(func(ctx context.Context) {
		ui.engine.Start(ctx, consoleUserID, consoleChatID)
	}))
}

// dispatch runs an engine call off the UI goroutine. Screens come back
// through the loopback transport as screenMsg values.
func (ui ConsoleUI) dispatch(fn func(ctx context.Context)) tea.Cmd {
	return func() tea.Msg {
		fn(context.Background())
		return nil
	}
}

func (ui ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ui.width = msg.Width
		ui.height = msg.Height
		ui.viewport.Width = msg.Width
		ui.viewport.Height = msg.Height - 5
		ui.textarea.SetWidth(msg.Width - 4)
		ui.ready = true
		ui.refresh()

	case screenMsg:
		ui.screen = msg
		ui.buttons = flatten(msg.buttons)
		ui.status = ""
		ui.refresh()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return ui, tea.Quit
		case tea.KeyCtrlY:
			if err := clipboard.WriteAll(ui.screen.text); err != nil {
				ui.status = "copy failed: " + err.Error()
			} else {
				ui.status = "screen copied"
			}
			ui.refresh()
		case tea.KeyEnter:
			input := strings.TrimSpace(ui.textarea.Value())
			ui.textarea.Reset()
			if input == "" {
				break
			}
			return ui, ui.submit(input)
		}
	}

	var cmd tea.Cmd
	ui.textarea, cmd = ui.textarea.Update(msg)
	cmds = append(cmds, cmd)
	ui.viewport, cmd = ui.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return ui, tea.Batch(cmds...)
}

// submit interprets input as a button number first, free text
// otherwise.
func (ui ConsoleUI) submit(input string) tea.Cmd {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(ui.buttons) {
		action := ui.buttons[n-1].Action
		if ui.screen.persistent {
			// Persistent keyboards carry their label as free text.
			return ui.dispatch(func(ctx context.Context) {
				ui.engine.HandleText(ctx, consoleUserID, consoleChatID, action)
			})
		}
		return ui.dispatch(func(ctx context.Context) {
			ui.engine.HandleAction(ctx, consoleUserID, consoleChatID, action)
		})
	}
	return ui.dispatch(func(ctx context.Context) {
		ui.engine.HandleText(ctx, consoleUserID, consoleChatID, input)
	})
}

func (ui *ConsoleUI) refresh() {
	if !ui.ready {
		return
	}

	var b strings.Builder
	b.WriteString(screenStyle.Render(wordwrap.String(ui.screen.text, ui.viewport.Width-2)))
	b.WriteString("\n")
	for i, btn := range ui.buttons {
		b.WriteString(buttonStyle.Render(fmt.Sprintf("\n%d) %s", i+1, btn.Label)))
	}
	ui.viewport.SetContent(b.String())
	ui.viewport.GotoBottom()
}

func (ui ConsoleUI) View() string {
	if !ui.ready {
		return "Loading TimeQuest..."
	}

	hint := hintStyle.Render("enter: send • ctrl+y: copy screen • esc: quit")
	if ui.status != "" {
		hint = hintStyle.Render(ui.status)
	}

	return fmt.Sprintf("%s\n%s\n%s\n%s",
		titleStyle.Render("TimeQuest console"),
		ui.viewport.View(),
		ui.textarea.View(),
		hint,
	)
}

func flatten(rows [][]delivery.Button) []delivery.Button {
	var out []delivery.Button
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}
