package eval

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/xavierca1/leadflow/internal/usecase"
)

// Suite is a set of sample leads plus the outreach settings used for all of
// them.
type Suite struct {
	Channel   string   `yaml:"channel" json:"channel"`
	Tone      string   `yaml:"tone" json:"tone"`
	ValueProp string   `yaml:"value_prop" json:"value_prop"`
	Samples   []Sample `yaml:"samples" json:"samples"`
}

type Sample struct {
	Name     string `yaml:"name" json:"name"`
	Title    string `yaml:"title" json:"title"`
	Company  string `yaml:"company" json:"company"`
	Website  string `yaml:"website" json:"website"`
	LinkedIn string `yaml:"linkedin" json:"linkedin"`
	Notes    string `yaml:"notes" json:"notes"`
}

const DefaultValueProp = "Book 2x more meetings with assisted outreach."

func DefaultSuite() *Suite {
	return &Suite{
		Channel:   "email",
		Tone:      "professional",
		ValueProp: DefaultValueProp,
		Samples:   DefaultSamples(),
	}
}

func DefaultSamples() []Sample {
	return []Sample{
		{
			Name:    "Riley Chen",
			Title:   "Head of Data",
			Company: "NimbusAI",
			Website: "https://nimbus.ai",
			Notes:   "Hiring 3 MLEs; recent funding.",
		},
		{
			Name:    "Jordan Patel",
			Title:   "CTO",
			Company: "FleetOps",
			Website: "https://fleetops.io",
			Notes:   "Series B; heavy outbound.",
		},
	}
}

// LoadSuite reads a YAML suite. Settings left out fall back to the defaults;
// an empty sample list does not.
func LoadSuite(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read eval suite: %w", err)
	}

	suite := DefaultSuite()
	suite.Samples = nil
	if err := yaml.Unmarshal(data, suite); err != nil {
		return nil, fmt.Errorf("parse eval suite %s: %w", path, err)
	}

	if len(suite.Samples) == 0 {
		return nil, fmt.Errorf("eval suite %s has no samples", path)
	}
	for i, s := range suite.Samples {
		if strings.TrimSpace(s.Name) == "" {
			return nil, fmt.Errorf("eval suite %s: sample %d has no name", path, i+1)
		}
	}
	return suite, nil
}

func (s Sample) leadInput() usecase.CreateLeadInput {
	return usecase.CreateLeadInput{
		Name:     s.Name,
		Title:    s.Title,
		Company:  s.Company,
		Website:  s.Website,
		LinkedIn: s.LinkedIn,
		Notes:    s.Notes,
	}
}
