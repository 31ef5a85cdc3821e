package host

import (
	"time"

	"go.uber.org/zap"
)

// LogPresentation writes presentation calls to the log. It is used when the
// HUD is disabled. Clock readouts are logged once per whole second.
type LogPresentation struct {
	stopwatch  bool
	lastSecond int64
	log        *zap.Logger
}

func NewLogPresentation(stopwatch bool, log *zap.Logger) *LogPresentation {
	return &LogPresentation{stopwatch: stopwatch, lastSecond: -1, log: log}
}

func (p *LogPresentation) ShowCenterMessage(text string, d time.Duration) {
	p.log.Info("center message", zap.String("text", text), zap.Duration("for", d))
}

func (p *LogPresentation) HideCenterMessage() {
	p.log.Debug("center message hidden")
}

func (p *LogPresentation) ShowPrimaryMessage(text string, d time.Duration) {
	p.log.Info("primary message", zap.String("text", text), zap.Duration("for", d))
}

func (p *LogPresentation) CloseMenuOverlay(pauseMenu bool) {
	p.log.Debug("menu overlay", zap.Bool("pause_menu", pauseMenu))
}

func (p *LogPresentation) OpenMenuPanel(panel string) {
	p.log.Info("menu panel", zap.String("panel", panel))
}

func (p *LogPresentation) SetSunAngle(degrees float64, inSession time.Duration) {
	if sec := int64(inSession / time.Second); sec != p.lastSecond {
		p.lastSecond = sec
		p.log.Debug("sun", zap.Float64("degrees", degrees), zap.Duration("in_session", inSession))
	}
}

func (p *LogPresentation) UseStopwatch() bool { return p.stopwatch }

func (p *LogPresentation) ReportElapsedTime(seconds float64) {}
