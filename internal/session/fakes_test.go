package session

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/deadwave/sessiond/internal/config"
	"github.com/deadwave/sessiond/internal/core/event"
	"github.com/deadwave/sessiond/internal/scene"
)

const tick = 20 * time.Millisecond

type fakePresentation struct {
	center        []string
	centerHidden  int
	primary       []string
	overlays      []bool
	panels        []string
	sunAngle      float64
	sunCalls      int
	lastInSession time.Duration
	stopwatch     bool
	elapsed       []float64
}

func (p *fakePresentation) ShowCenterMessage(text string, _ time.Duration) {
	p.center = append(p.center, text)
}
func (p *fakePresentation) HideCenterMessage() { p.centerHidden++ }
func (p *fakePresentation) ShowPrimaryMessage(text string, _ time.Duration) {
	p.primary = append(p.primary, text)
}
func (p *fakePresentation) CloseMenuOverlay(pauseMenu bool) { p.overlays = append(p.overlays, pauseMenu) }
func (p *fakePresentation) OpenMenuPanel(panel string)     { p.panels = append(p.panels, panel) }
func (p *fakePresentation) SetSunAngle(deg float64, inSession time.Duration) {
	p.sunAngle = deg
	p.lastInSession = inSession
	p.sunCalls++
}
func (p *fakePresentation) UseStopwatch() bool { return p.stopwatch }
func (p *fakePresentation) ReportElapsedTime(s float64) {
	p.elapsed = append(p.elapsed, s)
}

type fakePointer struct{ captured bool }

func (p *fakePointer) SetCaptured(c bool) { p.captured = c }

type fakeSpawner struct{ spawns []SpawnPoint }

func (s *fakeSpawner) Spawn(at SpawnPoint) { s.spawns = append(s.spawns, at) }

type fakeToggle struct {
	enabled bool
	calls   int
}

func (t *fakeToggle) SetSpawning(e bool) {
	t.enabled = e
	t.calls++
}

type fakeLoader struct {
	paths  []string
	active int
	loads  []int
	err    error
}

func (l *fakeLoader) Scenes() []string { return l.paths }
func (l *fakeLoader) LoadScene(i int) error {
	if l.err != nil {
		return l.err
	}
	l.loads = append(l.loads, i)
	l.active = i
	return nil
}
func (l *fakeLoader) ActiveIndex() int { return l.active }

type fakeQuitter struct{ quits int }

func (q *fakeQuitter) Quit() { q.quits++ }

var errDiskGone = errors.New("disk gone")

type fixture struct {
	ctrl    *Controller
	cfg     config.SessionConfig
	ui      *fakePresentation
	pointer *fakePointer
	players *fakeSpawner
	waves   *fakeToggle
	loot    *fakeToggle
	loader  *fakeLoader
	quitter *fakeQuitter
	bus     *event.Bus
	logs    *observer.ObservedLogs
}

func newFixture(t *testing.T, active int, paths ...string) *fixture {
	t.Helper()
	return newFixtureWith(t, config.Defaults().Session, active, paths...)
}

func newFixtureWith(t *testing.T, cfg config.SessionConfig, active int, paths ...string) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		cfg:     cfg,
		ui:      &fakePresentation{},
		pointer: &fakePointer{},
		players: &fakeSpawner{},
		waves:   &fakeToggle{},
		loot:    &fakeToggle{},
		loader:  &fakeLoader{paths: paths, active: active},
		quitter: &fakeQuitter{},
		bus:     event.NewBus(),
		logs:    logs,
	}
	f.ctrl = NewController(cfg, scene.NewKeywordClassifier("Menu", "Game", false), Deps{
		Presentation: f.ui,
		Pointer:      f.pointer,
		Players:      f.players,
		Waves:        f.waves,
		Loot:         f.loot,
		Scenes:       f.loader,
		Quitter:      f.quitter,
		Bus:          f.bus,
		Log:          zap.New(core),
	})
	return f
}

func (f *fixture) start(t *testing.T) {
	t.Helper()
	if err := f.ctrl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
}

// run advances the controller by d in fixed ticks.
func (f *fixture) run(d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += tick {
		f.ctrl.Update(tick)
	}
}

func (f *fixture) warnings(msg string) int {
	return f.logs.FilterMessage(msg).FilterLevelExact(zapcore.WarnLevel).Len()
}
