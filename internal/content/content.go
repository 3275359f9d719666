// Package content holds the static questionnaire, report and premium copy.
// It is configuration for the presenters and the journey machine, not logic.
package content

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

const (
	TypeSelect   = "select"
	TypeMultiple = "multiple"
)

type Question struct {
	Key         string   `yaml:"key"`
	Question    string   `yaml:"question"`
	Type        string   `yaml:"type,omitempty"`
	Options     []string `yaml:"options,omitempty"`
	Placeholder string   `yaml:"placeholder,omitempty"`
}

func (q Question) Multiple() bool { return q.Type == TypeMultiple }

// HasOption reports whether opt is one of the question's options.
func (q Question) HasOption(opt string) bool {
	for _, o := range q.Options {
		if o == opt {
			return true
		}
	}
	return false
}

type Report struct {
	Patterns           []string `yaml:"patterns"`
	Recommendations    []string `yaml:"recommendations"`
	ProfessionalAdvice string   `yaml:"professional_advice"`
}

type Premium struct {
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Features []string `yaml:"features"`
}

type Content struct {
	InitialQuestions []Question `yaml:"initial_questions"`
	DailyQuestions   []Question `yaml:"daily_questions"`
	Report           Report     `yaml:"report"`
	Premium          Premium    `yaml:"premium"`
}

//go:embed content.yaml
var defaultYAML []byte

var initialKeys = []string{"childAge", "concerns", "familyHistory", "routineLevel", "relationship"}
var dailyKeys = []string{"sleep", "reactions", "communication", "crises", "happyMoment"}

// Parse decodes and validates content YAML. Both questionnaires must list
// exactly the five answer keys, in order.
func Parse(b []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := checkKeys("initial_questions", c.InitialQuestions, initialKeys); err != nil {
		return nil, err
	}
	if err := checkKeys("daily_questions", c.DailyQuestions, dailyKeys); err != nil {
		return nil, err
	}
	for _, q := range c.InitialQuestions {
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("initial question %s has no options", q.Key)
		}
		if q.Type != TypeSelect && q.Type != TypeMultiple {
			return nil, fmt.Errorf("initial question %s: unknown type %q", q.Key, q.Type)
		}
	}
	return &c, nil
}

func checkKeys(section string, qs []Question, want []string) error {
	if len(qs) != len(want) {
		return fmt.Errorf("%s: want %d questions, got %d", section, len(want), len(qs))
	}
	for i, q := range qs {
		if q.Key != want[i] {
			return fmt.Errorf("%s[%d]: want key %s, got %s", section, i, want[i], q.Key)
		}
	}
	return nil
}

// Default returns the embedded copy. It panics only if the embedded file is broken.
func Default() *Content {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}
