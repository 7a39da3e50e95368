package ui

import (
	"fmt"
	"io"
	"sync"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Progress displays the advance of a single download.
type Progress interface {
	Update(written, total int64)
	// Done stops the display. err is nil on success.
	Done(err error)
}

// NewProgress returns an animated bar when interactive is set and a plain
// line printer otherwise.
func NewProgress(w io.Writer, label string, interactive bool) Progress {
	if !interactive {
		return &plainProgress{w: w, label: label, step: 10}
	}
	return newTeaProgress(w, label)
}

// plainProgress prints a line every step percent, or every 5 MiB when the
// total is unknown.
type plainProgress struct {
	mu    sync.Mutex
	w     io.Writer
	label string
	step  int
	next  int64
}

const plainUnknownStep = 5 << 20

func (p *plainProgress) Update(written, total int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if total > 0 {
		pct := int64(float64(written) / float64(total) * 100)
		if pct >= p.next {
			fmt.Fprintf(p.w, "%s: %d%% (%s/%s)\n", p.label, pct, humanBytes(written), humanBytes(total))
			p.next = (pct/int64(p.step) + 1) * int64(p.step)
		}
		return
	}
	if written >= p.next {
		fmt.Fprintf(p.w, "%s: %s\n", p.label, humanBytes(written))
		p.next = written + plainUnknownStep
	}
}

func (p *plainProgress) Done(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		fmt.Fprintf(p.w, "%s: failed: %v\n", p.label, err)
		return
	}
	fmt.Fprintf(p.w, "%s: done\n", p.label)
}

type teaProgress struct {
	program  *tea.Program
	done     chan struct{}
	mu       sync.Mutex
	lastSent time.Time
}

func newTeaProgress(w io.Writer, label string) *teaProgress {
	program := tea.NewProgram(newProgressModel(label),
		tea.WithOutput(w),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	t := &teaProgress{program: program, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		_, _ = program.Run()
	}()
	return t
}

// Update is throttled; the copy loop calls it for every buffer.
func (t *teaProgress) Update(written, total int64) {
	t.mu.Lock()
	now := time.Now()
	if now.Sub(t.lastSent) < 50*time.Millisecond && written != total {
		t.mu.Unlock()
		return
	}
	t.lastSent = now
	t.mu.Unlock()
	t.program.Send(updateMsg{written: written, total: total})
}

func (t *teaProgress) Done(err error) {
	t.program.Send(finishMsg{err: err})
	select {
	case <-t.done:
	case <-time.After(2 * time.Second):
		t.program.Kill()
	}
}

type updateMsg struct {
	written int64
	total   int64
}

type finishMsg struct {
	err error
}

var (
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F8F8F2")).Bold(true)
	percentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00F5D4")).Bold(true)
	sizeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6ADC8")).Faint(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FDBFF"))
)

type progressModel struct {
	label   string
	bar     progressbar.Model
	spin    spinner.Model
	written int64
	total   int64
	done    bool
	err     error
}

func newProgressModel(label string) progressModel {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot
	spin.Style = spinnerStyle
	return progressModel{
		label: label,
		bar: progressbar.New(
			progressbar.WithGradient("#FF006E", "#00F5FF"),
			progressbar.WithWidth(40),
			progressbar.WithoutPercentage(),
		),
		spin:  spin,
		total: -1,
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spin.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case updateMsg:
		m.written, m.total = msg.written, msg.total
		if m.total > 0 {
			return m, m.bar.SetPercent(float64(m.written) / float64(m.total))
		}
		return m, nil
	case finishMsg:
		m.done, m.err = true, msg.err
		return m, tea.Quit
	case progressbar.FrameMsg:
		model, cmd := m.bar.Update(msg)
		if updated, ok := model.(progressbar.Model); ok {
			m.bar = updated
		}
		return m, cmd
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-40, 10), 60)
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.err != nil {
		return failStyle.Render("✗ "+m.label) + " " + m.err.Error() + "\n"
	}
	if m.done {
		return percentStyle.Render("✓") + " " + labelStyle.Render(m.label) + " " + sizeStyle.Render(humanBytes(m.written)) + "\n"
	}
	if m.total <= 0 {
		return m.spin.View() + " " + labelStyle.Render(m.label) + " " + sizeStyle.Render(humanBytes(m.written)) + "\n"
	}
	pct := float64(m.written) / float64(m.total) * 100
	return labelStyle.Render(m.label) + "\n" +
		m.bar.View() + " " + percentStyle.Render(fmt.Sprintf("%5.1f%%", pct)) + " " +
		sizeStyle.Render(humanBytes(m.written)+"/"+humanBytes(m.total)) + "\n"
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for n >= unit*div && exp < 3 {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%s", float64(n)/float64(div), []string{"KB", "MB", "GB", "TB"}[exp])
}
