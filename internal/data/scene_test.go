package data

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseSceneTable(t *testing.T) {
	src := `
- path: Assets/Scenes/MainMenu.unity
  note: title screen
- path: Assets/Scenes/Game_Level1.unity
`
	tbl, err := ParseSceneTable([]byte(src))
	if err != nil {
		t.Fatalf("ParseSceneTable failed: %v", err)
	}
	if tbl.Count() != 2 {
		t.Fatalf("Expected 2 scenes, got %d", tbl.Count())
	}
	if got := tbl.Get(1).Path; got != "Assets/Scenes/Game_Level1.unity" {
		t.Errorf("Unexpected path %q", got)
	}
	if tbl.Get(0).Note != "title screen" {
		t.Errorf("Unexpected note %q", tbl.Get(0).Note)
	}
	if tbl.Get(2) != nil || tbl.Get(-1) != nil {
		t.Error("Expected nil for out-of-range index")
	}
	paths := tbl.Paths()
	if len(paths) != 2 || paths[0] != "Assets/Scenes/MainMenu.unity" {
		t.Errorf("Unexpected paths %v", paths)
	}
}

func TestParseSceneTableRejectsBadLists(t *testing.T) {
	cases := map[string]string{
		"empty":     "[]",
		"no path":   "- note: orphan\n",
		"duplicate": "- path: A\n- path: A\n",
		"not yaml":  "- path: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseSceneTable([]byte(src)); err == nil {
				t.Errorf("Expected error for %s", name)
			}
		})
	}
}

func TestLoadSceneTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene_list.yaml")
	if err := os.WriteFile(path, []byte("- path: MainMenu\n- path: Game_Level1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tbl, err := LoadSceneTable(path)
	if err != nil {
		t.Fatalf("LoadSceneTable failed: %v", err)
	}
	if tbl.Count() != 2 {
		t.Errorf("Expected 2 scenes, got %d", tbl.Count())
	}
	if NewSceneTable("a", "b", "c").Count() != 3 {
		t.Error("NewSceneTable lost entries")
	}
}
