package stage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type stageFile struct {
	Stages []Stage `yaml:"stages"`
}

func LoadFile(path string) ([]Stage, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading stage file %v: %w", path, err)
	}
	var f stageFile
	if err := yaml.Unmarshal(dat, &f); err != nil {
		return nil, fmt.Errorf("parsing stage file %v: %w", path, err)
	}
	return f.Stages, nil
}

// LoadDir gathers every .yml/.yaml stage file under dir, sorted by
// stage number. A missing dir is not an error; it just yields nothing.
func LoadDir(dir string) ([]Stage, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading stage dir %v: %w", dir, err)
	}

	var stages []Stage
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		loaded, err := LoadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		stages = append(stages, loaded...)
	}
	sort.Slice(stages, func(i, j int) bool {
		return stages[i].Number < stages[j].Number
	})
	return stages, nil
}

// Find looks a stage up by number in catalog order.
func Find(stages []Stage, number string) (Stage, bool) {
	for _, s := range stages {
		if s.Number == number {
			return s, true
		}
	}
	return Stage{}, false
}
