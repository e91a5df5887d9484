package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a status line while a blocking call runs. The text is
// re-read from status on every frame, so it can carry live counters.
type Spinner struct {
	out    io.Writer
	status func() string

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    chan struct{}
	once    sync.Once
	width   int // visible width of the last frame
}

// newSpinner creates a spinner writing to out. It does nothing until Start.
func newSpinner(out io.Writer, status func() string) *Spinner {
	return &Spinner{
		out:    out,
		status: status,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start begins the animation. It ends on Stop or when ctx is done.
func (s *Spinner) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		defer s.clear()

		ticker := time.NewTicker(spinnerInterval)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-s.stop:
				return
			case <-ticker.C:
				s.render(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation and clears the line. It is safe to call more
// than once, and before Start.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.stop) })

	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if started {
		<-s.done
	}
}

func (s *Spinner) render(frame string) {
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.status())
	w := lipgloss.Width(line)

	s.mu.Lock()
	defer s.mu.Unlock()
	pad := ""
	if s.width > w {
		pad = strings.Repeat(" ", s.width-w)
	}
	fmt.Fprintf(s.out, "\r%s%s", line, pad)
	s.width = w
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", s.width))
		s.width = 0
	}
}
