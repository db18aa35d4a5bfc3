package goalstore

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// GoalSpec is a human-authored goal definition loaded from a YAML file.
type GoalSpec struct {
	Description        string   `yaml:"description"`
	ValidationCriteria []string `yaml:"validation_criteria"`
	SuccessThreshold   float64  `yaml:"success_threshold"`
	PointsBudget       int      `yaml:"points_budget"`
}

// LoadGoalSpec reads and validates a goal spec file.
func LoadGoalSpec(path string) (*GoalSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read goal spec %s: %w", path, err)
	}

	var spec GoalSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse goal spec %s: %w", path, err)
	}
	if spec.SuccessThreshold == 0 {
		spec.SuccessThreshold = 1.0
	}

	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid goal spec %s: %w", path, err)
	}
	return &spec, nil
}

// Validate checks field constraints.
func (s *GoalSpec) Validate() error {
	if s.Description == "" {
		return fmt.Errorf("description cannot be empty")
	}
	if s.SuccessThreshold <= 0 || s.SuccessThreshold > 1 {
		return fmt.Errorf("success_threshold must be in (0, 1], got %v", s.SuccessThreshold)
	}
	if s.PointsBudget < 0 {
		return fmt.Errorf("points_budget cannot be negative, got %d", s.PointsBudget)
	}
	return nil
}
