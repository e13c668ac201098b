package main

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tbxark/formstate"
	"github.com/tbxark/formstate/extract"
	"github.com/tbxark/formstate/fill"
	"github.com/tbxark/formstate/store"
	"github.com/tbxark/formstate/types"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	focusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Width(10)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	helpStyle    = lipgloss.NewStyle().Faint(true)
	promptBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

type stateMsg store.State[Registration]

type resultMsg struct {
	action string
	ok     bool
	patch  types.Patch
	err    error
}

type formModel struct {
	ctx     context.Context
	ctrl    *formstate.Controller[Registration]
	filler  *fill.ModelFiller[Registration]
	fields  []types.FieldInfo
	cursor  int
	buffers map[string]string
	state   store.State[Registration]
	filling bool
	prompt  string
	status  string
	busy    int
}

func newFormModel(ctx context.Context, ctrl *formstate.Controller[Registration], filler *fill.ModelFiller[Registration]) formModel {
	return formModel{
		ctx:     ctx,
		ctrl:    ctrl,
		filler:  filler,
		fields:  registrationFields(),
		buffers: map[string]string{},
		state:   ctrl.Snapshot(),
	}
}

func (m formModel) Init() tea.Cmd {
	return nil
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		// Subscribers may deliver out of order.
		if msg.Version >= m.state.Version {
			m.state = store.State[Registration](msg)
		}
		return m, nil
	case resultMsg:
		return m.handleResult(msg), nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		}
		if m.filling {
			return m.updatePrompt(msg)
		}
		return m.updateForm(msg)
	}
	return m, nil
}

func (m formModel) handleResult(msg resultMsg) formModel {
	m.busy--
	m.state = m.ctrl.Snapshot()
	switch {
	case msg.err != nil:
		m.status = fmt.Sprintf("%s 失败: %v", msg.action, msg.err)
	case msg.action == "submit" && msg.ok:
		m.status = "提交成功 " + summary(m.state.Values)
	case msg.action == "submit":
		m.status = "请先修正错误"
	case msg.action == "fill":
		for name := range msg.patch {
			delete(m.buffers, name)
		}
		m.status = fmt.Sprintf("已填写 %d 个字段", len(msg.patch))
		if table := types.FormatPatch(msg.patch); table != "" {
			m.status += "\n" + table
		}
	}
	return m
}

func (m formModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	field := m.fields[m.cursor].Name
	switch msg.String() {
	case "esc":
		return m, tea.Quit
	case "up", "shift+tab":
		m.cursor = (m.cursor + len(m.fields) - 1) % len(m.fields)
		return m, nil
	case "down", "tab":
		m.cursor = (m.cursor + 1) % len(m.fields)
		return m, nil
	case "enter":
		m.busy++
		m.status = "提交中..."
		return m, m.submit()
	case "ctrl+r":
		m.ctrl.Reset()
		m.buffers = map[string]string{}
		m.state = m.ctrl.Snapshot()
		m.status = "已重置"
		return m, nil
	case "ctrl+f":
		if m.filler == nil {
			m.status = "未配置模型，无法智能填写"
			return m, nil
		}
		m.filling = true
		m.prompt = ""
		return m, nil
	}

	binding, err := m.ctrl.BindField(field, formstate.ChangeOptions{SkipValidation: true})
	if err != nil {
		m.status = err.Error()
		return m, nil
	}
	var control extract.Control
	switch {
	case binding.Toggle && msg.String() == " ":
		control = extract.Checkbox(!binding.Checked)
	case binding.Toggle:
		return m, nil
	case msg.Type == tea.KeyBackspace:
		buf := []rune(m.buffer(binding))
		if len(buf) == 0 {
			return m, nil
		}
		m.buffers[field] = string(buf[:len(buf)-1])
		control = extract.Text(m.buffers[field])
	case msg.Type == tea.KeySpace:
		m.buffers[field] = m.buffer(binding) + " "
		control = extract.Text(m.buffers[field])
	case msg.Type == tea.KeyRunes:
		m.buffers[field] = m.buffer(binding) + string(msg.Runes)
		control = extract.Text(m.buffers[field])
	default:
		return m, nil
	}

	// Values land synchronously. Validation runs in the background.
	if err := binding.OnChange(m.ctx, control); err != nil {
		m.status = err.Error()
		return m, nil
	}
	m.state = m.ctrl.Snapshot()
	m.busy++
	return m, m.validate()
}

func (m formModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filling = false
		return m, nil
	case tea.KeyEnter:
		m.filling = false
		input := strings.TrimSpace(m.prompt)
		if input == "" {
			return m, nil
		}
		m.busy++
		m.status = "模型填写中..."
		return m, m.fill(input)
	case tea.KeyBackspace:
		if r := []rune(m.prompt); len(r) > 0 {
			m.prompt = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.prompt += " "
	case tea.KeyRunes:
		m.prompt += string(msg.Runes)
	}
	return m, nil
}

func (m formModel) buffer(binding formstate.FieldBinding) string {
	if buf, ok := m.buffers[binding.Name]; ok {
		return buf
	}
	return displayValue(binding.Value)
}

func (m formModel) validate() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		_, err := ctrl.Validate(ctx)
		return resultMsg{action: "validate", err: err}
	}
}

func (m formModel) submit() tea.Cmd {
	ctx, ctrl := m.ctx, m.ctrl
	return func() tea.Msg {
		ok, err := ctrl.HandleSubmit(ctx)
		return resultMsg{action: "submit", ok: ok, err: err}
	}
}

func (m formModel) fill(input string) tea.Cmd {
	ctx, ctrl, filler := m.ctx, m.ctrl, m.filler
	return func() tea.Msg {
		p, err := filler.Apply(ctx, ctrl, input, formstate.ChangeOptions{})
		return resultMsg{action: "fill", patch: p, err: err}
	}
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("用户注册"))
	b.WriteString("\n\n")

	for i, field := range m.fields {
		binding, err := m.ctrl.BindField(field.Name, formstate.ChangeOptions{})
		if err != nil {
			continue
		}
		cursor := "  "
		label := labelStyle.Render(field.DisplayName)
		if i == m.cursor {
			cursor = focusStyle.Render("> ")
			label = focusStyle.Inherit(labelStyle).Render(field.DisplayName)
		}
		var value string
		switch {
		case binding.Toggle && binding.Checked:
			value = "[x]"
		case binding.Toggle:
			value = "[ ]"
		case field.Name == "password":
			value = strings.Repeat("*", len([]rune(m.buffer(binding))))
		default:
			value = m.buffer(binding)
		}
		b.WriteString(cursor + label + " " + value)
		if msg := m.ctrl.BindFieldError(field.Name); msg != "" {
			b.WriteString("  " + errorStyle.Render(msg))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	flags := fmt.Sprintf("pristine=%t valid=%t version=%d", m.state.IsPristine, m.state.IsValid, m.state.Version)
	if m.busy > 0 {
		flags += " ..."
	}
	b.WriteString(helpStyle.Render(flags))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.filling {
		b.WriteString(promptBorder.Render("描述你的信息: " + m.prompt))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("tab/↑↓ 切换 · 空格 勾选 · enter 提交 · ctrl+f 智能填写 · ctrl+r 重置 · esc 退出"))
	b.WriteString("\n")
	return b.String()
}

func displayValue(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case int:
		if v == 0 {
			return ""
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}
