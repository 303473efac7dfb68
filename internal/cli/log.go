package cli

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeline/pkg/observability"
)

// progress tracks the start time of an operation and logs completion with
// elapsed duration. It is safe for sequential use by a single goroutine;
// concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
// The returned progress should call done when the operation completes.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// The duration is rounded to the nearest millisecond.
// Example output: "Exported svg (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks routes the engine's observability hooks to the CLI logger at
// debug level: reconciliation directive counts and timings, placement
// decisions, commit outcomes.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnApplyStart(rootCount int) {
	h.logger.Debug("reconcile start", "roots", rootCount)
}

func (h logHooks) OnApplyComplete(stats observability.ApplyStats, d time.Duration) {
	h.logger.Debug("reconcile done",
		"inserts", stats.Inserts,
		"removes", stats.Removes,
		"reloads", stats.Reloads,
		"took", d.Round(time.Microsecond))
}

func (h logHooks) OnValidate(decision string, guarded bool) {
	h.logger.Debug("drop validate", "decision", decision, "guarded", guarded)
}

func (h logHooks) OnCommit(accepted bool) {
	h.logger.Debug("drop commit", "accepted", accepted)
}

// installHooks registers the logger as the process-wide engine observer.
func installHooks(l *log.Logger) {
	h := logHooks{logger: l}
	observability.SetReconcileHooks(h)
	observability.SetDropHooks(h)
}
