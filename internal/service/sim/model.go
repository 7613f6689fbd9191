package sim

import (
	"context"
	"strconv"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	domain "github.com/oshokin/morse-beacon/internal/domain/device"
	"github.com/oshokin/morse-beacon/internal/playback"
	"github.com/oshokin/morse-beacon/internal/transport/ble"
	"github.com/oshokin/morse-beacon/internal/ui"
)

const (
	// frameInterval is how often the panel samples the outputs.
	frameInterval = playback.Unit / 2
	// traceLength caps the samples kept per channel.
	traceLength = 512
	// intensityStep is the pgup/pgdn increment.
	intensityStep = 32
)

// Device is the engine surface the panel drives.
type Device interface {
	SendText(ctx context.Context, text string, actor *domain.Actor) (string, error)
	SetIntensity(ctx context.Context, intensity uint8, actor *domain.Actor) error
	Stop(ctx context.Context) error
	PostConnection(connected bool) error
	Watch() (<-chan *domain.Snapshot, func())
}

// Levels exposes what the outputs currently show.
type Levels interface {
	Level(ch playback.Channel) uint8
}

type (
	// frameMsg samples the outputs.
	frameMsg time.Time
	// snapshotMsg carries a status update from the engine.
	snapshotMsg struct{ snapshot *domain.Snapshot }
	// resultMsg reports the outcome of a command.
	resultMsg struct {
		text string
		err  error
	}
)

// watch holds the subscription shared by every Model copy.
type watch struct {
	updates <-chan *domain.Snapshot
	cancel  func()
}

// Model is the root Bubble Tea model of the simulator.
type Model struct {
	ctx    context.Context //nolint:containedctx // Commands run outside Update.
	device Device
	levels Levels
	actor  *domain.Actor
	title  string

	width  int
	height int

	input    []rune
	result   string
	failed   bool
	snapshot *domain.Snapshot

	indicator []uint8
	actuator  []uint8

	watch *watch
}

// NewModel subscribes to device status and returns the panel model.
func NewModel(ctx context.Context, device Device, levels Levels, actor *domain.Actor, title string) Model {
	updates, cancel := device.Watch()

	return Model{
		ctx:      ctx,
		device:   device,
		levels:   levels,
		actor:    actor,
		title:    title,
		snapshot: new(domain.Snapshot),
		watch:    &watch{updates: updates, cancel: cancel},
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), waitSnapshot(m.watch.updates))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case frameMsg:
		m.indicator = appendSample(m.indicator, m.levels.Level(playback.Indicator))
		m.actuator = appendSample(m.actuator, m.levels.Level(playback.Actuator))

		return m, frameCmd()

	case snapshotMsg:
		m.snapshot = msg.snapshot

		return m, waitSnapshot(m.watch.updates)

	case resultMsg:
		m.failed = msg.err != nil
		m.result = msg.text

		if msg.err != nil {
			m.result = msg.err.Error()
		}

		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.watch.cancel()

		return m, tea.Quit

	case tea.KeyEnter:
		if len(m.input) == 0 {
			return m, nil
		}

		text := string(m.input)
		m.input = nil

		return m, m.sendText(text)

	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}

	case tea.KeySpace:
		m.input = m.appendInput(m.input, ' ')

	case tea.KeyRunes:
		for _, r := range msg.Runes {
			m.input = m.appendInput(m.input, r)
		}

	case tea.KeyCtrlX:
		return m, m.stop()

	case tea.KeyPgUp:
		return m, m.setIntensity(min(int(m.snapshot.Intensity)+intensityStep, int(playback.LevelFull)))

	case tea.KeyPgDown:
		return m, m.setIntensity(max(int(m.snapshot.Intensity)-intensityStep, 0))

	case tea.KeyCtrlB:
		return m, m.setConnected(!m.snapshot.Connected)
	}

	return m, nil
}

func (m Model) View() string {
	width := m.width
	if width == 0 {
		width = 72
	}

	traceWidth := max(width-4, 8)

	channels := ui.StylePanel.Width(max(width-2, 0)).Render(
		ui.RenderLamp(playback.Indicator.String(), m.levels.Level(playback.Indicator), ui.ColorAmber, ui.ColorAmberDim) +
			"\n" + ui.RenderTrace(m.indicator, traceWidth, ui.ColorAmber) + "\n" +
			ui.RenderLamp(playback.Actuator.String(), m.levels.Level(playback.Actuator), ui.ColorCyan, ui.ColorCyanDim) +
			"\n" + ui.RenderTrace(m.actuator, traceWidth, ui.ColorCyan),
	)

	return ui.ComposeLayout(m.title, width,
		channels,
		ui.RenderDevice(m.snapshot, width),
		ui.RenderInput(string(m.input), m.result, m.failed, width),
		ui.RenderHelp(width),
	)
}

// appendInput adds r unless the text would outgrow the text characteristic.
func (m Model) appendInput(input []rune, r rune) []rune {
	if len(string(input))+utf8.RuneLen(r) > ble.TextCapacity {
		return input
	}

	return append(input, r)
}

func (m Model) sendText(text string) tea.Cmd {
	return func() tea.Msg {
		code, err := m.device.SendText(m.ctx, text, m.actor)

		return resultMsg{text: code, err: err}
	}
}

func (m Model) stop() tea.Cmd {
	return func() tea.Msg {
		if err := m.device.Stop(m.ctx); err != nil {
			return resultMsg{err: err}
		}

		return resultMsg{text: "stopped"}
	}
}

func (m Model) setIntensity(level int) tea.Cmd {
	intensity := uint8(level) //nolint:gosec // Clamped by the caller.

	return func() tea.Msg {
		if err := m.device.SetIntensity(m.ctx, intensity, m.actor); err != nil {
			return resultMsg{err: err}
		}

		return resultMsg{text: "intensity " + strconv.Itoa(int(intensity))}
	}
}

func (m Model) setConnected(connected bool) tea.Cmd {
	return func() tea.Msg {
		if err := m.device.PostConnection(connected); err != nil {
			return resultMsg{err: err}
		}

		if connected {
			return resultMsg{text: "central connected"}
		}

		return resultMsg{text: "central disconnected"}
	}
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// waitSnapshot blocks for the next status update. A closed subscription
// ends the chain.
func waitSnapshot(updates <-chan *domain.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-updates
		if !ok {
			return nil
		}

		return snapshotMsg{snapshot: snapshot}
	}
}

func appendSample(trace []uint8, level uint8) []uint8 {
	trace = append(trace, level)
	if len(trace) > traceLength {
		trace = trace[len(trace)-traceLength:]
	}

	return trace
}
