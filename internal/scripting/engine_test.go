package scripting

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/deadwave/sessiond/internal/scene"
)

const keywordScript = `
function classify_scene(path)
  if string.find(path, MENU_KEYWORD, 1, true) then
    return "menu"
  end
  if string.find(path, GAME_KEYWORD, 1, true) then
    return "game"
  end
  if string.find(path, "Arena", 1, true) then
    return "game"
  end
  return nil
end
`

var defaultKeywords = Keywords{Menu: "Menu", Game: "Game"}

func TestLuaClassifier(t *testing.T) {
	e, err := NewEngineFromSource(keywordScript, defaultKeywords, zap.NewNop())
	if err != nil {
		t.Fatalf("NewEngineFromSource failed: %v", err)
	}
	defer e.Close()

	tests := map[string]scene.Kind{
		"Scenes/MainMenu":    scene.MenuScene,
		"Scenes/Game_Level1": scene.GameScene,
		"Scenes/Arena_Night": scene.GameScene,
		"Scenes/Credits":     scene.Unclassified,
	}
	for path, want := range tests {
		if got := e.Classify(path); got != want {
			t.Errorf("Classify(%q) = %s, want %s", path, got, want)
		}
	}

	var _ scene.Classifier = e
}

func TestLuaClassifierFailuresAreUnclassified(t *testing.T) {
	cases := map[string]string{
		"missing function": `x = 1`,
		"runtime error":    `function classify_scene(path) error("boom") end`,
		"unknown kind":     `function classify_scene(path) return "cutscene" end`,
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			e, err := NewEngineFromSource(src, defaultKeywords, zap.NewNop())
			if err != nil {
				t.Fatalf("NewEngineFromSource failed: %v", err)
			}
			defer e.Close()
			if got := e.Classify("Scenes/Game_Level1"); got != scene.Unclassified {
				t.Errorf("Expected unclassified, got %s", got)
			}
		})
	}
}

func TestNewEngineLoadsFileAndDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "classify.lua")
	if err := os.WriteFile(file, []byte(keywordScript), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not lua"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{file, dir} {
		e, err := NewEngine(path, defaultKeywords, zap.NewNop())
		if err != nil {
			t.Fatalf("NewEngine(%s) failed: %v", path, err)
		}
		if got := e.Classify("MainMenu"); got != scene.MenuScene {
			t.Errorf("NewEngine(%s): expected menu, got %s", path, got)
		}
		e.Close()
	}

	if _, err := NewEngine(filepath.Join(dir, "missing.lua"), defaultKeywords, zap.NewNop()); err == nil {
		t.Error("Expected error for missing script")
	}
	if _, err := NewEngineFromSource("function (", defaultKeywords, zap.NewNop()); err == nil {
		t.Error("Expected syntax error")
	}
}
