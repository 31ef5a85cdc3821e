package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/deadwave/sessiond/internal/scene"
)

// Engine wraps a single gopher-lua VM.
// Single-goroutine access only (tick loop).
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// Keywords are exposed to scripts as MENU_KEYWORD and GAME_KEYWORD.
type Keywords struct {
	Menu string
	Game string
}

// NewEngine creates a Lua engine and loads path, which is either a single
// .lua file or a directory of them.
func NewEngine(path string, kw Keywords, log *zap.Logger) (*Engine, error) {
	e := newEngine(kw, log)

	info, err := os.Stat(path)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("stat scripts %s: %w", path, err)
	}
	if info.IsDir() {
		err = e.loadDir(path)
	} else {
		err = e.loadFile(path)
	}
	if err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

// NewEngineFromSource creates an engine from inline Lua source.
func NewEngineFromSource(src string, kw Keywords, log *zap.Logger) (*Engine, error) {
	e := newEngine(kw, log)
	if err := e.vm.DoString(src); err != nil {
		e.Close()
		return nil, fmt.Errorf("load inline script: %w", err)
	}
	return e, nil
}

func newEngine(kw Keywords, log *zap.Logger) *Engine {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))
	vm.SetGlobal("MENU_KEYWORD", lua.LString(kw.Menu))
	vm.SetGlobal("GAME_KEYWORD", lua.LString(kw.Game))
	return &Engine{vm: vm, log: log}
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read scripts %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		if err := e.loadFile(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) loadFile(path string) error {
	if err := e.vm.DoFile(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	e.log.Debug("loaded lua script", zap.String("file", path))
	return nil
}

// Close releases the VM.
func (e *Engine) Close() {
	e.vm.Close()
}

// Classify calls the Lua classify_scene function. The function receives the
// scene path and returns "menu", "game", or nil. Script errors classify the
// scene as unclassified.
func (e *Engine) Classify(path string) scene.Kind {
	fn := e.vm.GetGlobal("classify_scene")
	if fn == lua.LNil {
		e.log.Error("lua function classify_scene not found")
		return scene.Unclassified
	}

	if err := e.vm.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, lua.LString(path)); err != nil {
		e.log.Error("lua classify_scene error", zap.String("scene", path), zap.Error(err))
		return scene.Unclassified
	}

	result := e.vm.Get(-1)
	e.vm.Pop(1)

	switch lua.LVAsString(result) {
	case "menu":
		return scene.MenuScene
	case "game":
		return scene.GameScene
	case "":
		return scene.Unclassified
	default:
		e.log.Warn("lua classify_scene returned unknown kind",
			zap.String("scene", path), zap.String("kind", result.String()))
		return scene.Unclassified
	}
}
