// Package roster reads the participant list a bracket is built from.
package roster

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Dosada05/bracket-engine/services"
	"github.com/gosimple/slug"
	"gopkg.in/yaml.v3"
)

var ErrEmptyRoster = errors.New("roster has no participants")

// File is the on-disk layout:
//
//	name: Spring Cup
//	participants:
//	  - name: Faze Clan
//	    rating: 1650
//	  - id: navi
//	    name: Natus Vincere
type File struct {
	Name         string  `yaml:"name"`
	Participants []Entry `yaml:"participants"`
}

type Entry struct {
	ID     string   `yaml:"id"`
	Name   string   `yaml:"name"`
	Rating *float64 `yaml:"rating"`
}

func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open roster %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*File, error) {
	var file File
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyRoster
		}
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	if len(file.Participants) == 0 {
		return nil, ErrEmptyRoster
	}
	for i := range file.Participants {
		e := &file.Participants[i]
		e.Name = strings.TrimSpace(e.Name)
		e.ID = strings.TrimSpace(e.ID)
		if e.ID == "" {
			e.ID = slug.Make(e.Name)
		}
		if e.ID == "" {
			return nil, fmt.Errorf("participant %d needs an id or a name", i+1)
		}
	}
	return &file, nil
}

// Inputs converts the roster into service input, keeping file order.
func (f *File) Inputs() []services.ParticipantInput {
	out := make([]services.ParticipantInput, len(f.Participants))
	for i, e := range f.Participants {
		out[i] = services.ParticipantInput{ID: e.ID, Name: e.Name, Rating: e.Rating}
	}
	return out
}
