package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"flarepie/internal/config"
	"flarepie/internal/telemetry"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a log line for the viewport.
type logMsg struct{ line string }

// sampleMsg carries the latest sample for the gauges.
type sampleMsg struct{ telemetry.SampleRow }

// summaryMsg is sent once the burn is depleted.
type summaryMsg struct{ telemetry.SummaryRow }

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

const maxLogLines = 1000

// TUIWriter renders burn samples using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.Engine) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	p := tea.NewProgram(newTUIModel(cfg), tea.WithAltScreen())
	w.program = p
	go func() {
		_, _ = p.Run()
		close(w.done)
		// quitting the TUI interrupts the run like ctrl+c would
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// Write implements SampleWriter.
func (w *TUIWriter) Write(row telemetry.SampleRow) error {
	line := fmt.Sprintf("%s[%8.3fs]%s %sstep=%d%s %sthrust=%.2fN%s %spropellant=%.3fkg%s %smass=%.3fkg%s %sused=%.3fkg%s",
		colorGray, row.TimeS, colorReset,
		colorBlue, row.Step, colorReset,
		colorMagenta, row.ThrustN, colorReset,
		colorGreen, row.RemainingPropellant, colorReset,
		colorCyan, row.TotalMass, colorReset,
		colorYellow, row.MassUsed, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(sampleMsg{row})
	return nil
}

// WriteBatch outputs multiple sample rows.
func (w *TUIWriter) WriteBatch(rows []telemetry.SampleRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteSummary shows the end-of-burn figures.
func (w *TUIWriter) WriteSummary(row telemetry.SummaryRow) error {
	w.program.Send(logMsg{line: fmt.Sprintf("%sPropellant consumed. Simulation ended.%s", colorYellow, colorReset)})
	w.program.Send(summaryMsg{row})
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	cfg        *config.Engine
	table      table.Model
	vp         viewport.Model
	bar        progress.Model
	logs       []string
	last       telemetry.SampleRow
	haveSample bool
	summary    *telemetry.SummaryRow
	admin      bool
	wrap       bool
	autoscroll bool
	help       bool
	header     string
	width      int
	height     int
}

func newTUIModel(cfg *config.Engine) tuiModel {
	cols := []table.Column{
		{Title: "Config", Width: 22},
		{Title: "Value", Width: 12},
		{Title: "Config", Width: 22},
		{Title: "Value", Width: 12},
	}
	var rows []table.Row
	if cfg != nil {
		rows = []table.Row{
			{"Propellant", cfg.Propellant, "Timestep (s)", fmt.Sprintf("%g", cfg.TimestepS)},
			{"Chamber Pressure (Pa)", fmt.Sprintf("%.0f", cfg.ChamberPressurePa), "Temperature (K)", fmt.Sprintf("%.0f", cfg.ChamberTemperatureK)},
			{"Ambient Pressure (Pa)", fmt.Sprintf("%.0f", cfg.AmbientPressure()), "Mass Flow (kg/s)", fmt.Sprintf("%.2f", cfg.MassFlowRateKgs)},
			{"Total Mass (kg)", fmt.Sprintf("%.2f", cfg.TotalMassKg), "Propellant (kg)", fmt.Sprintf("%.2f", cfg.PropellantMassKg)},
		}
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	m := tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		bar:        progress.New(progress.WithDefaultGradient()),
		autoscroll: true,
	}
	m.header = m.renderHeader()
	return m
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(msg.Width)
		m.vp.Width = msg.Width
		m.bar.Width = msg.Width - 20
		if m.bar.Width < 10 {
			m.bar.Width = 10
		}
		m.header = m.renderHeader()
		m.updateViewportHeight()
		m.refreshViewport()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
			}
			return m, nil
		case "h", "?":
			m.help = !m.help
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				return m, cmd
			}
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case sampleMsg:
		m.last = msg.SampleRow
		m.haveSample = true
	case summaryMsg:
		sum := msg.SummaryRow
		m.summary = &sum
		m.updateViewportHeight()
	case adminMsg:
		m.admin = msg.active
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	h := m.height - lipgloss.Height(m.header) - lipgloss.Height(m.renderBottom()) - 2
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	lines := make([]string, 0, len(m.logs))
	for _, l := range m.logs {
		if m.wrap && m.vp.Width > 0 {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

// remainingFraction is the share of the initial propellant load left.
func (m tuiModel) remainingFraction() float64 {
	if m.cfg == nil || m.cfg.PropellantMassKg <= 0 {
		return 0
	}
	if !m.haveSample {
		return 1
	}
	return m.last.RemainingPropellant / m.cfg.PropellantMassKg
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", m.vp.Width)
	return strings.Join([]string{m.header, divider, m.vp.View(), divider, m.renderBottom()}, "\n")
}

func (m tuiModel) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Render("Engine " + m.engineName())
	return lipgloss.JoinVertical(lipgloss.Left, title, m.table.View())
}

func (m tuiModel) engineName() string {
	if m.cfg == nil || m.cfg.Name == "" {
		return "engine"
	}
	return m.cfg.Name
}

func (m tuiModel) renderBottom() string {
	label := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	var b strings.Builder
	b.WriteString(label.Render("Propellant ") + m.bar.ViewAs(m.remainingFraction()))
	b.WriteString("\n")
	if m.haveSample {
		fmt.Fprintf(&b, "t=%.3fs  thrust=%.2fN  mass=%.3fkg  ve=%.2fm/s",
			m.last.TimeS, m.last.ThrustN, m.last.TotalMass, m.last.ExitVelocity)
	} else {
		b.WriteString("waiting for ignition")
	}
	if m.summary != nil {
		fmt.Fprintf(&b, "\nburn=%.3fs  isp=%.2fs  impulse=%.1fN*s  dv=%.2fm/s",
			m.summary.BurnTime, m.summary.SpecificImpulse, m.summary.TotalImpulse, m.summary.IdealDeltaV)
	}
	admin := "admin:off"
	if m.admin {
		admin = "admin:on"
	}
	fmt.Fprintf(&b, "\n%s  wrap:%v  autoscroll:%v  [h]elp [q]uit", admin, m.wrap, m.autoscroll)
	return b.String()
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Keys:",
		"  w        toggle line wrap",
		"  s        toggle autoscroll",
		"  j/k      scroll when autoscroll is off",
		"  pgup/dn  scroll by 10 lines",
		"  h, ?     toggle this help",
		"  q        quit",
	}
	return strings.Join(lines, "\n")
}
