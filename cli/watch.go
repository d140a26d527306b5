package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"pfeifer.dev/mtsc/planner"
	ms "pfeifer.dev/mtsc/settings"
	"pfeifer.dev/mtsc/utils"
)

var (
	docStyle    = lipgloss.NewStyle().Margin(1, 2)
	headerStyle = lipgloss.NewStyle().Bold(true)
	heldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	staleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type TickMsg time.Time

func tickEvery(interval time.Duration) tea.Cmd {
	return tea.Every(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

type candidateItem struct {
	candidate planner.Candidate
}

func (i candidateItem) Title() string {
	return fmt.Sprintf("%.2f m/s (%.1f km/h)", i.candidate.Target.Velocity, i.candidate.Target.Velocity*ms.MS_TO_KPH)
}

func (i candidateItem) Description() string {
	if !i.candidate.Evaluated {
		return fmt.Sprintf("%.1f m, %s", i.candidate.Distance, candidateStatus(i.candidate))
	}
	return fmt.Sprintf("%.1f m of %.1f m, %s", i.candidate.Distance, i.candidate.Required, candidateStatus(i.candidate))
}

func (i candidateItem) FilterValue() string { return i.Title() }

type watchModel struct {
	planner  *planner.Planner
	interval time.Duration
	vEgo     float64
	aEgo     float64
	result   planner.Result
	target   utils.Float64Tracker
	cycle    utils.UpdateTracker
	list     list.Model
}

func newWatchModel(p *planner.Planner, vEgo, aEgo float64, interval time.Duration) watchModel {
	m := watchModel{
		planner:  p,
		interval: interval,
		vEgo:     vEgo,
		aEgo:     aEgo,
		target:   utils.Float64Tracker{AllowNullLastValue: true},
		list:     list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0),
	}
	m.cycle.Init(20)
	m.list.Title = "Forward Targets"
	m.list.SetFilteringEnabled(false)
	return m
}

func (m watchModel) Init() tea.Cmd {
	return tickEvery(m.interval)
}

func (m watchModel) tick() watchModel {
	m.cycle.Update()
	m.result = m.planner.Update(m.vEgo, m.aEgo)
	m.target.Update(m.result.TargetSpeed)

	items := make([]list.Item, len(m.result.Plan.Forward))
	for i, c := range m.result.Plan.Forward {
		items[i] = candidateItem{candidate: c}
	}
	m.list.SetItems(items)
	return m
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			m.vEgo += 1
			return m, nil
		case "-":
			m.vEgo = max(m.vEgo-1, 0)
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v-lipgloss.Height(m.header()))
	case TickMsg:
		return m.tick(), tickEvery(m.interval)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m watchModel) header() string {
	status := "no restriction"
	if !m.result.Available {
		status = staleStyle.Render("position or target velocities unavailable")
	} else if m.result.Held {
		status = heldStyle.Render("holding latched target")
	} else if m.result.TargetSpeed > 0 {
		status = "following slowest active target"
	}
	limits := m.planner.Limits()
	return fmt.Sprintf(
		"%s\nv ego: %.2f m/s (+/- to change)\ntarget speed: %.2f m/s\nlast target speed: %.2f m/s\nchanged: %s ago\ncycle time: %s (last %s)\nlimits: jerk %.2f m/s^3, accel %.2f m/s^2, offset %.2f s\n",
		headerStyle.Render(status),
		m.vEgo,
		m.target.Value,
		m.target.LastValue,
		m.target.Since().Truncate(time.Millisecond),
		m.cycle.Interval().Truncate(time.Millisecond),
		m.cycle.Last().Truncate(time.Millisecond),
		limits.Jerk,
		limits.Accel,
		limits.Offset,
	)
}

func (m watchModel) View() string {
	return docStyle.Render(m.header() + "\n" + m.list.View())
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:    "watch",
		Aliases: []string{"w"},
		Usage:   "Keeps a planner running against the current params and shows its output live",
		Flags: append(egoFlags(), &cli.DurationFlag{
			Name:  "interval",
			Usage: "Time between planning cycles",
			Value: ms.LOOP_DELAY,
		}),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			p, err := newParamPlanner()
			if err != nil {
				return err
			}
			model := newWatchModel(p, cmd.Float64("v-ego"), cmd.Float64("a-ego"), cmd.Duration("interval"))
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := program.Run(); err != nil {
				return errors.Wrap(err, "watch failed")
			}
			return nil
		},
	}
}
