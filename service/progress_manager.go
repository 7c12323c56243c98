package service

import (
	"io"
	"os"
	"sync"

	"github.com/ludo-technologies/mscan/domain"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// NoProgressEnv disables progress bars even on a terminal
const NoProgressEnv = "MSCAN_NO_PROGRESS"

// maxLabelWidth keeps long fact document paths from wrapping the bar
const maxLabelWidth = 32

// IsInteractiveEnvironment reports whether stderr is a terminal outside CI
func IsInteractiveEnvironment() bool {
	if os.Getenv("CI") != "" || os.Getenv(NoProgressEnv) != "" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// NewProgressManager returns a bar-drawing manager on interactive stderr and
// a silent one everywhere else
func NewProgressManager(enabled bool) domain.ProgressManager {
	if enabled && IsInteractiveEnvironment() {
		return NewProgressManagerWithWriter(os.Stderr)
	}
	return silentProgress{}
}

// ProgressManagerImpl draws one progressbar per started task
type ProgressManagerImpl struct {
	mu     sync.Mutex
	writer io.Writer
	bars   []*progressbar.ProgressBar
}

// NewProgressManagerWithWriter draws bars on w regardless of the environment
func NewProgressManagerWithWriter(w io.Writer) *ProgressManagerImpl {
	return &ProgressManagerImpl{writer: w}
}

func (pm *ProgressManagerImpl) StartTask(description string, total int) domain.TaskProgress {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(pm.writer),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(24),
		progressbar.OptionShowCount(),
		progressbar.OptionShowBytes(false),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	pm.mu.Lock()
	pm.bars = append(pm.bars, bar)
	pm.mu.Unlock()

	return &barProgress{bar: bar, label: description}
}

func (pm *ProgressManagerImpl) IsInteractive() bool { return true }

// Close finishes bars whose task never completed
func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	for _, bar := range pm.bars {
		if !bar.IsFinished() {
			_ = bar.Finish()
		}
	}
	pm.bars = nil
}

// barProgress is safe for use from the executor's worker goroutines;
// progressbar serializes its own state.
type barProgress struct {
	bar   *progressbar.ProgressBar
	label string
}

func (p *barProgress) Increment(n int) { _ = p.bar.Add(n) }

// Describe shows the item being processed next to the task label
func (p *barProgress) Describe(item string) {
	if len(item) > maxLabelWidth {
		item = "..." + item[len(item)-maxLabelWidth+3:]
	}
	p.bar.Describe(p.label + " " + item)
}

func (p *barProgress) Complete() { _ = p.bar.Finish() }

// silentProgress implements both ProgressManager and TaskProgress
type silentProgress struct{}

func (silentProgress) StartTask(string, int) domain.TaskProgress { return silentProgress{} }
func (silentProgress) IsInteractive() bool                       { return false }
func (silentProgress) Close()                                    {}
func (silentProgress) Increment(int)                             {}
func (silentProgress) Describe(string)                           {}
func (silentProgress) Complete()                                 {}
