package config

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/vncsmyrnk/queridometro/internal/core/domain"
	"gopkg.in/yaml.v3"
)

//go:embed default_roster.yaml
var defaultRoster []byte

type rosterFile struct {
	People []string `yaml:"people"`
	Emojis []string `yaml:"emojis"`
}

// LoadRoster reads the roster YAML at path, or the built-in roster when
// path is empty.
func LoadRoster(path string) (*domain.Roster, error) {
	data := defaultRoster
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read roster file: %w", err)
		}
	}
	return ParseRoster(data)
}

func ParseRoster(data []byte) (*domain.Roster, error) {
	var f rosterFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRoster, err)
	}
	return domain.NewRoster(f.People, f.Emojis)
}
