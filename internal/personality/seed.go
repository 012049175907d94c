package personality

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// PersonaFileName is the workspace file that seeds the initial traits.
const PersonaFileName = "persona.md"

type personaFrontmatter struct {
	Tone           string  `yaml:"tone"`
	Humor          string  `yaml:"humor"`
	CuriosityLevel float64 `yaml:"curiosityLevel"`
}

// LoadSeed reads the YAML frontmatter of a persona.md file and returns it
// as the initial trait state. A missing file yields the default state; a
// present but malformed frontmatter is an error so a typo does not
// silently reset the persona.
func LoadSeed(path string) (State, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return State{}, fmt.Errorf("read persona %q: %w", path, err)
	}

	meta, err := parseFrontmatter(content)
	if err != nil {
		return State{}, fmt.Errorf("parse persona %q: %w", path, err)
	}

	seed := State{
		Tone:           strings.TrimSpace(meta.Tone),
		Humor:          strings.TrimSpace(meta.Humor),
		CuriosityLevel: meta.CuriosityLevel,
	}
	return seed.Normalize(), nil
}

func parseFrontmatter(content []byte) (personaFrontmatter, error) {
	text := strings.TrimPrefix(string(content), "\ufeff")
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return personaFrontmatter{}, errors.New("missing YAML frontmatter")
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end < 0 {
		return personaFrontmatter{}, errors.New("unterminated YAML frontmatter")
	}

	var meta personaFrontmatter
	block := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		return personaFrontmatter{}, fmt.Errorf("invalid persona YAML: %w", err)
	}
	return meta, nil
}

// DefaultPersonaMD is written by onboard when no persona file exists.
const DefaultPersonaMD = `---
tone: neutral
humor: dry
curiosityLevel: 0.5
---

# Persona

Nyx is a night-sky companion: a little mysterious at rest, quick to grow
curious, and blunt when pushed. The traits above are only the starting
point; the daily memory cycle evolves them from what it learns.
`
