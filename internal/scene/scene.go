// Package scene classifies loadable scenes by naming convention.
package scene

import (
	"strings"

	"golang.org/x/text/cases"
)

// Kind is the classification of a loadable scene.
type Kind int

const (
	Unclassified Kind = iota
	MenuScene
	GameScene
)

func (k Kind) String() string {
	switch k {
	case MenuScene:
		return "menu"
	case GameScene:
		return "game"
	default:
		return "unclassified"
	}
}

// Classifier maps a scene identifier to its kind.
type Classifier interface {
	Classify(path string) Kind
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(path string) Kind

func (f ClassifierFunc) Classify(path string) Kind { return f(path) }

// KeywordClassifier classifies by substring. The menu keyword is checked
// first, so a path containing both keywords is a menu scene.
type KeywordClassifier struct {
	menu   string
	game   string
	folder *cases.Caser
}

// NewKeywordClassifier builds a substring classifier. With foldCase the match
// ignores case using Unicode case folding.
func NewKeywordClassifier(menuKeyword, gameKeyword string, foldCase bool) *KeywordClassifier {
	k := &KeywordClassifier{menu: menuKeyword, game: gameKeyword}
	if foldCase {
		c := cases.Fold()
		k.folder = &c
		k.menu = c.String(menuKeyword)
		k.game = c.String(gameKeyword)
	}
	return k
}

func (k *KeywordClassifier) Classify(path string) Kind {
	if k.folder != nil {
		path = k.folder.String(path)
	}
	switch {
	case k.menu != "" && strings.Contains(path, k.menu):
		return MenuScene
	case k.game != "" && strings.Contains(path, k.game):
		return GameScene
	default:
		return Unclassified
	}
}

// Descriptor is the ordered, classified scene list built once at startup.
type Descriptor struct {
	paths []string
	kinds []Kind
}

// NewDescriptor classifies every path with c.
func NewDescriptor(paths []string, c Classifier) *Descriptor {
	d := &Descriptor{
		paths: append([]string(nil), paths...),
		kinds: make([]Kind, len(paths)),
	}
	for i, p := range d.paths {
		d.kinds[i] = c.Classify(p)
	}
	return d
}

func (d *Descriptor) Len() int { return len(d.paths) }

// Valid reports whether index addresses a scene.
func (d *Descriptor) Valid(index int) bool {
	return index >= 0 && index < len(d.paths)
}

// Path returns the identifier at index, or "" when out of range.
func (d *Descriptor) Path(index int) string {
	if !d.Valid(index) {
		return ""
	}
	return d.paths[index]
}

// Kind returns the classification at index; out of range is Unclassified.
func (d *Descriptor) Kind(index int) Kind {
	if !d.Valid(index) {
		return Unclassified
	}
	return d.kinds[index]
}

// Count returns how many scenes have kind k.
func (d *Descriptor) Count(k Kind) int {
	n := 0
	for _, kk := range d.kinds {
		if kk == k {
			n++
		}
	}
	return n
}
