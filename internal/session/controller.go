package session

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deadwave/sessiond/internal/config"
	"github.com/deadwave/sessiond/internal/core/event"
	"github.com/deadwave/sessiond/internal/scene"
)

const (
	centerMessageDuration  = 300 * time.Second
	primaryMessageDuration = 10 * time.Second
)

// Deps holds the collaborators the controller drives.
type Deps struct {
	Presentation Presentation
	Pointer      Pointer
	Players      PlayerSpawner
	Waves        SpawnToggle
	Loot         SpawnToggle
	Scenes       SceneLoader
	Quitter      Quitter
	Bus          *event.Bus // optional
	Log          *zap.Logger
}

// Controller owns the session phase, the active scene index, the session
// clock and the pending timed actions. All methods must be called from the
// tick goroutine.
type Controller struct {
	cfg        config.SessionConfig
	deps       Deps
	log        *zap.Logger
	classifier scene.Classifier

	scenes    *scene.Descriptor
	phase     Phase
	current   int
	finished  bool
	sessionID uuid.UUID

	clock  *Clock
	timers *Scheduler
}

func NewController(cfg config.SessionConfig, classifier scene.Classifier, deps Deps) *Controller {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		cfg:        cfg,
		deps:       deps,
		log:        log,
		classifier: classifier,
		scenes:     scene.NewDescriptor(nil, classifier),
		clock:      NewClock(),
		timers:     NewScheduler(),
	}
}

// Start enumerates the scenes and derives the initial phase from the active
// scene. Spawning stays disabled until StartSession.
func (c *Controller) Start() error {
	c.deps.Waves.SetSpawning(false)
	c.deps.Loot.SetSpawning(false)

	c.scenes = scene.NewDescriptor(c.deps.Scenes.Scenes(), c.classifier)
	if c.scenes.Len() == 0 {
		return ErrNoScenes
	}
	c.current = c.deps.Scenes.ActiveIndex()
	if !c.scenes.Valid(c.current) {
		return fmt.Errorf("active scene %d of %d: %w", c.current, c.scenes.Len(), ErrSceneOutOfRange)
	}
	c.clock.Anchor()

	c.log.Info("session controller started",
		zap.Int("scenes", c.scenes.Len()),
		zap.Int("menu_scenes", c.scenes.Count(scene.MenuScene)),
		zap.Int("game_scenes", c.scenes.Count(scene.GameScene)),
		zap.Int("scene", c.current),
		zap.String("path", c.scenes.Path(c.current)))

	switch c.scenes.Kind(c.current) {
	case scene.MenuScene:
		c.setPhase(PhaseMenu)
	case scene.GameScene:
		c.setPhase(PhasePlaying)
		c.deps.Pointer.SetCaptured(true)
		c.beginSession()
		c.deps.Players.Spawn(c.spawnPoint())
		c.deps.Presentation.ShowCenterMessage(c.cfg.WaveStartText, centerMessageDuration)
	default:
		c.log.Warn("active scene matches no keyword",
			zap.Int("scene", c.current),
			zap.String("path", c.scenes.Path(c.current)),
			zap.Error(ErrUnclassifiedScene))
	}
	c.verify()
	return nil
}

// Update advances the clocks by dt, fires due timed actions and feeds the
// in-session time to the presentation while playing.
func (c *Controller) Update(dt time.Duration) {
	c.clock.Advance(dt)
	c.timers.RunDue(c.clock.Real())

	if !c.cfg.CountTime {
		return
	}
	c.clock.UpdateTotal()
	if c.phase != PhasePlaying {
		return
	}
	inSession := c.clock.UpdateSession()
	c.deps.Presentation.SetSunAngle(c.SunAngle(), inSession)
	if c.deps.Presentation.UseStopwatch() {
		c.deps.Presentation.ReportElapsedTime(inSession.Seconds())
	}
}

// StartSession enables wave and loot spawning and clears the center message.
func (c *Controller) StartSession() {
	c.deps.Waves.SetSpawning(true)
	c.deps.Loot.SetSpawning(true)
	c.deps.Presentation.HideCenterMessage()
	c.log.Info("spawning enabled", c.sessionField())
}

// TogglePhase handles the escape-equivalent input: pause or unpause while in
// a game scene, end a finished session, or quit from the menu.
func (c *Controller) TogglePhase() error {
	switch c.phase {
	case PhasePlaying:
		if !c.finished {
			return c.Pause()
		}
		c.scheduleEndGame()
		return nil
	case PhasePaused:
		return c.Unpause()
	case PhaseMenu:
		c.Quit()
		return nil
	default:
		c.log.Warn("phase toggle in unknown phase", zap.Int("phase", int(c.phase)), zap.Error(ErrInvalidPhase))
		return fmt.Errorf("toggle in phase %d: %w", c.phase, ErrInvalidPhase)
	}
}

// Pause freezes game time and opens the pause menu. Repeated calls re-apply
// the side effects.
func (c *Controller) Pause() error {
	if c.phase == PhaseMenu {
		c.log.Warn("pause requested in menu", zap.Error(ErrInvalidPhase))
		return fmt.Errorf("pause in %s: %w", c.phase, ErrInvalidPhase)
	}
	c.log.Info("game paused", c.sessionField())
	c.deps.Pointer.SetCaptured(false)
	c.setPhase(PhasePaused)
	c.clock.SetScale(0)
	c.deps.Presentation.CloseMenuOverlay(true)
	c.verify()
	return nil
}

// Unpause resumes game time and closes the pause menu. Repeated calls
// re-apply the side effects.
func (c *Controller) Unpause() error {
	if c.phase == PhaseMenu {
		c.log.Warn("unpause requested in menu", zap.Error(ErrInvalidPhase))
		return fmt.Errorf("unpause in %s: %w", c.phase, ErrInvalidPhase)
	}
	c.unpause()
	c.verify()
	return nil
}

func (c *Controller) unpause() {
	c.log.Info("game unpaused", c.sessionField())
	c.deps.Pointer.SetCaptured(true)
	c.setPhase(PhasePlaying)
	c.clock.SetScale(1)
	c.deps.Presentation.CloseMenuOverlay(false)
}

// Quit syncs the scene index and asks the host to terminate.
func (c *Controller) Quit() {
	c.syncSceneIndex()
	c.log.Info("game is quit", zap.Int("scene", c.current))
	c.deps.Quitter.Quit()
}

// GameOver marks the session finished and shows the game-over messages. The
// next phase toggle schedules the return to the first scene.
func (c *Controller) GameOver() {
	c.deps.Presentation.ShowPrimaryMessage(c.cfg.GameOverText, primaryMessageDuration)
	c.deps.Presentation.ShowCenterMessage(c.cfg.SecondaryGameOverText, centerMessageDuration)
	c.finished = true
	c.log.Info("game over", c.sessionField())
	emit(c, SessionFinished{ID: c.sessionID})
}

// ChangeScene loads the scene at target and moves the phase to match its
// kind. Changing to the active scene is a no-op.
func (c *Controller) ChangeScene(target int) error {
	if target == c.current {
		c.log.Info("scene already active", zap.Int("scene", target))
		return nil
	}
	if !c.scenes.Valid(target) {
		c.log.Warn("scene change to unknown index", zap.Int("scene", target), zap.Int("scenes", c.scenes.Len()))
		return fmt.Errorf("change to scene %d: %w", target, ErrSceneOutOfRange)
	}

	from := c.current
	if err := c.deps.Scenes.LoadScene(target); err != nil {
		c.log.Error("scene load failed", zap.Int("scene", target), zap.Error(err))
		return fmt.Errorf("load scene %d: %w", target, err)
	}
	c.log.Info("changed scene", zap.Int("from", from), zap.Int("to", target))
	c.current = target
	c.syncSceneIndex()

	kind := c.scenes.Kind(target)
	emit(c, SceneChanged{From: from, To: target, Path: c.scenes.Path(target), Kind: kind})

	switch kind {
	case scene.MenuScene:
		c.endSession()
		c.setPhase(PhaseMenu)
		c.deps.Pointer.SetCaptured(false)
		c.deps.Presentation.OpenMenuPanel(MainMenuPanel)
	case scene.GameScene:
		c.unpause()
		c.deps.Presentation.ShowCenterMessage(c.cfg.WaveStartText, centerMessageDuration)
		c.beginSession()
		c.schedulePlayerJoin()
	default:
		c.log.Warn("target scene matches no keyword",
			zap.Int("scene", target),
			zap.String("path", c.scenes.Path(target)),
			zap.Error(ErrUnclassifiedScene))
		c.verify()
		return fmt.Errorf("scene %d %q: %w", target, c.scenes.Path(target), ErrUnclassifiedScene)
	}
	c.verify()
	return nil
}

// beginSession starts a fresh session: new ID, cleared finished flag and an
// in-session clock re-anchored at zero.
func (c *Controller) beginSession() {
	c.timers.Cancel(ActionEndGame)
	c.finished = false
	c.sessionID = uuid.New()
	c.clock.ResetSession()
	c.log.Info("session started", c.sessionField(), zap.Int("scene", c.current))
	emit(c, SessionStarted{ID: c.sessionID, Scene: c.current})
}

func (c *Controller) endSession() {
	if c.timers.Cancel(ActionPlayerJoin) {
		c.log.Info("pending player join cancelled", c.sessionField())
	}
	c.timers.Cancel(ActionEndGame)
	c.finished = false
	c.sessionID = uuid.Nil
}

func (c *Controller) schedulePlayerJoin() {
	id := c.sessionID
	c.timers.Schedule(ActionPlayerJoin, c.clock.Real(), c.cfg.PlayerJoinDelay, func() {
		c.playerJoin(id)
	})
}

func (c *Controller) playerJoin(id uuid.UUID) {
	if c.phase == PhaseMenu || id != c.sessionID {
		c.log.Warn("stale player join ignored",
			zap.Stringer("scheduled_session", id), c.sessionField(), zap.Stringer("phase", c.phase))
		return
	}
	at := c.spawnPoint()
	c.deps.Players.Spawn(at)
	c.log.Info("player joined", c.sessionField())
	emit(c, PlayerJoined{ID: id, At: at})
}

func (c *Controller) scheduleEndGame() {
	if c.timers.Pending(ActionEndGame) {
		c.log.Debug("end game already scheduled", c.sessionField())
		return
	}
	id := c.sessionID
	c.log.Info("end game scheduled", c.sessionField(), zap.Duration("delay", c.cfg.GameOverDelay))
	c.timers.Schedule(ActionEndGame, c.clock.Real(), c.cfg.GameOverDelay, func() {
		c.endGame(id)
	})
}

func (c *Controller) endGame(id uuid.UUID) {
	if !c.finished || id != c.sessionID {
		c.log.Warn("stale end game ignored", zap.Stringer("scheduled_session", id), c.sessionField())
		return
	}
	c.syncSceneIndex()
	if err := c.ChangeScene(0); err != nil {
		c.log.Error("return to first scene failed", zap.Error(err))
	}
}

// syncSceneIndex re-reads the loader's active index.
func (c *Controller) syncSceneIndex() {
	idx := c.deps.Scenes.ActiveIndex()
	if !c.scenes.Valid(idx) {
		c.log.Warn("loader reports unknown active scene", zap.Int("scene", idx))
		return
	}
	c.current = idx
}

func (c *Controller) setPhase(to Phase) {
	if c.phase == to {
		return
	}
	from := c.phase
	c.phase = to
	c.log.Debug("phase changed", zap.Stringer("from", from), zap.Stringer("to", to))
	emit(c, PhaseChanged{From: from, To: to, Scene: c.current})
}

// CheckInvariants verifies the active scene index is valid and the phase
// matches the active scene's kind.
func (c *Controller) CheckInvariants() error {
	if !c.scenes.Valid(c.current) {
		return fmt.Errorf("scene %d of %d: %w", c.current, c.scenes.Len(), ErrInvariant)
	}
	switch c.scenes.Kind(c.current) {
	case scene.MenuScene:
		if c.phase != PhaseMenu {
			return fmt.Errorf("menu scene %d in phase %s: %w", c.current, c.phase, ErrInvariant)
		}
	case scene.GameScene:
		if c.phase != PhasePlaying && c.phase != PhasePaused {
			return fmt.Errorf("game scene %d in phase %s: %w", c.current, c.phase, ErrInvariant)
		}
	}
	return nil
}

func (c *Controller) verify() {
	if err := c.CheckInvariants(); err != nil {
		c.log.Error("session state inconsistent", zap.Error(err))
	}
}

func (c *Controller) spawnPoint() SpawnPoint {
	s := c.cfg.Spawn
	return SpawnPoint{X: s.X, Y: s.Y, Z: s.Z, Heading: s.Heading}
}

func (c *Controller) sessionField() zap.Field {
	return zap.Stringer("session", c.sessionID)
}

func emit[T any](c *Controller, ev T) {
	if c.deps.Bus != nil {
		event.Emit(c.deps.Bus, ev)
	}
}

// SunAngle is the in-session time in seconds divided by the sun speed divisor.
func (c *Controller) SunAngle() float64 {
	return c.clock.InSession().Seconds() / c.cfg.SunSpeedDivisor
}

func (c *Controller) Phase() Phase { return c.phase }

func (c *Controller) SceneIndex() int { return c.current }

func (c *Controller) Finished() bool { return c.finished }

func (c *Controller) SessionID() uuid.UUID { return c.sessionID }

func (c *Controller) Clock() *Clock { return c.clock }

func (c *Controller) Timers() *Scheduler { return c.timers }

// Snapshot is a read-only view of the controller state.
type Snapshot struct {
	Phase     Phase
	Scene     int
	ScenePath string
	SceneKind scene.Kind
	Finished  bool
	SessionID uuid.UUID
	Total     time.Duration
	InSession time.Duration
	TimeScale float64
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		Phase:     c.phase,
		Scene:     c.current,
		ScenePath: c.scenes.Path(c.current),
		SceneKind: c.scenes.Kind(c.current),
		Finished:  c.finished,
		SessionID: c.sessionID,
		Total:     c.clock.Total(),
		InSession: c.clock.InSession(),
		TimeScale: c.clock.Scale(),
	}
}
