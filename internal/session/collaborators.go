package session

import "time"

// MainMenuPanel is the panel opened when a menu scene becomes active.
const MainMenuPanel = "main_menu"

// Presentation is the UI side of the session: HUD messages, menus and the
// time readouts.
type Presentation interface {
	ShowCenterMessage(text string, d time.Duration)
	HideCenterMessage()
	ShowPrimaryMessage(text string, d time.Duration)
	// CloseMenuOverlay swaps the overlay; pauseMenu selects the pause menu.
	CloseMenuOverlay(pauseMenu bool)
	OpenMenuPanel(panel string)
	// SetSunAngle receives the sun rotation input; smoothing is up to the
	// implementation.
	SetSunAngle(degrees float64, inSession time.Duration)
	UseStopwatch() bool
	ReportElapsedTime(seconds float64)
}

// Pointer captures or releases the mouse pointer.
type Pointer interface {
	SetCaptured(captured bool)
}

// SpawnPoint is where joining players appear.
type SpawnPoint struct {
	X, Y, Z float64
	Heading float64
}

type PlayerSpawner interface {
	Spawn(at SpawnPoint)
}

// SpawnToggle switches a wave or loot spawner on and off.
type SpawnToggle interface {
	SetSpawning(enabled bool)
}

// SceneLoader enumerates and loads scenes. LoadScene is synchronous from the
// caller's point of view.
type SceneLoader interface {
	Scenes() []string
	LoadScene(index int) error
	ActiveIndex() int
}

// Quitter terminates the host process.
type Quitter interface {
	Quit()
}
