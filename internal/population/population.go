// Package population loads and generates synth populations: the lists of
// synthetic personas whose latent trait means drive the simulation.
package population

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/synthlab-io/synthlab/internal/models"
)

// File is the on-disk population format: a named list of synths.
type File struct {
	Name   string         `yaml:"name,omitempty"`
	Synths []models.Synth `yaml:"synths"`
}

// Load reads a population from a YAML file and validates it. Synths
// without latent traits are allowed; the engine substitutes neutral
// defaults for them at simulation time.
func Load(path string) ([]models.Synth, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading population file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing population file: %w", err)
	}

	if err := Validate(file.Synths); err != nil {
		return nil, err
	}
	return file.Synths, nil
}

// Validate checks that the population is non-empty, ids are present and
// unique, and every declared trait mean is in [0,1].
func Validate(synths []models.Synth) error {
	if len(synths) == 0 {
		return fmt.Errorf("%w: population has no synths", models.ErrValidation)
	}

	seen := make(map[string]bool, len(synths))
	for i, synth := range synths {
		if synth.ID == "" {
			return fmt.Errorf("%w: synth at index %d has no id", models.ErrValidation, i)
		}
		if seen[synth.ID] {
			return fmt.Errorf("%w: duplicate synth id %s", models.ErrValidation, synth.ID)
		}
		seen[synth.ID] = true

		if synth.Traits != nil {
			if err := synth.Traits.Validate(); err != nil {
				return fmt.Errorf("synth %s: %w", synth.ID, err)
			}
		}
	}
	return nil
}

// Save writes a population to a YAML file.
func Save(path, name string, synths []models.Synth) error {
	data, err := yaml.Marshal(File{Name: name, Synths: synths})
	if err != nil {
		return fmt.Errorf("marshaling population: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing population file: %w", err)
	}
	return nil
}
