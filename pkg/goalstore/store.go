// Package goalstore persists the goal hierarchy as JSON records under a goal
// directory, one file per goal. Goal specifications (the human-authored goal
// description with its validation criteria) are loaded from YAML files.
package goalstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Record is one node of the goal hierarchy on disk.
type Record struct {
	GoalID      string    `json:"goal_id"`
	Description string    `json:"description"`
	ParentGoal  string    `json:"parent_goal,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SubgoalResult is the record surfaced to callers after a subgoal
// decomposition completes.
type SubgoalResult struct {
	Success                      bool           `json:"success"`
	NextStep                     string         `json:"next_step,omitempty"`
	ValidationCriteria           []string       `json:"validation_criteria,omitempty"`
	RequiresFurtherDecomposition bool           `json:"requires_further_decomposition,omitempty"`
	GitHash                      string         `json:"git_hash,omitempty"`
	GoalFile                     string         `json:"goal_file,omitempty"`
	Reasoning                    string         `json:"reasoning,omitempty"`
	RelevantContext              map[string]any `json:"relevant_context,omitempty"`
	Error                        string         `json:"error,omitempty"`
}

// Store manages goal records under a single directory.
type Store struct {
	baseDir string
}

// NewStore creates a goal store rooted at baseDir, creating it if needed.
func NewStore(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create goal directory %s: %w", baseDir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// CreateGoal writes a new top-level goal record and returns it. IDs are
// sequential: G1, G2, ...
func (s *Store) CreateGoal(description string) (*Record, error) {
	if description == "" {
		return nil, fmt.Errorf("description cannot be empty")
	}

	ids, err := s.ListGoalIDs()
	if err != nil {
		return nil, err
	}
	next := 0
	for _, id := range ids {
		var n int
		if _, err := fmt.Sscanf(id, "G%d", &n); err == nil && !strings.Contains(id, "-") && n > next {
			next = n
		}
	}

	rec := &Record{
		GoalID:      fmt.Sprintf("G%d", next+1),
		Description: description,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.writeRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// CreateSubgoal writes a child record under parentID. IDs nest one level:
// G1 → G1-S1, G1-S2, ...
func (s *Store) CreateSubgoal(parentID, description string) (*Record, error) {
	if description == "" {
		return nil, fmt.Errorf("description cannot be empty")
	}
	if _, err := s.LoadGoal(parentID); err != nil {
		return nil, fmt.Errorf("parent goal %s: %w", parentID, err)
	}

	ids, err := s.ListGoalIDs()
	if err != nil {
		return nil, err
	}
	prefix := parentID + "-S"
	next := 0
	for _, id := range ids {
		var n int
		if _, err := fmt.Sscanf(strings.TrimPrefix(id, prefix), "%d", &n); err == nil && strings.HasPrefix(id, prefix) && n > next {
			next = n
		}
	}

	rec := &Record{
		GoalID:      fmt.Sprintf("%s%d", prefix, next+1),
		Description: description,
		ParentGoal:  parentID,
		Timestamp:   time.Now().UTC(),
	}
	if err := s.writeRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// LoadGoal reads one goal record by ID.
func (s *Store) LoadGoal(goalID string) (*Record, error) {
	if goalID == "" {
		return nil, fmt.Errorf("goalID cannot be empty")
	}

	data, err := os.ReadFile(s.GoalPath(goalID))
	if err != nil {
		return nil, fmt.Errorf("failed to read goal %s: %w", goalID, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal goal %s: %w", goalID, err)
	}
	return &rec, nil
}

// ListGoalIDs returns every stored goal ID, sorted.
func (s *Store) ListGoalIDs() ([]string, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read goal directory: %w", err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		id := strings.TrimSuffix(name, ".json")
		if strings.HasSuffix(id, "_result") {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Children returns the records whose parent is goalID, sorted by ID.
func (s *Store) Children(goalID string) ([]*Record, error) {
	ids, err := s.ListGoalIDs()
	if err != nil {
		return nil, err
	}

	var children []*Record
	for _, id := range ids {
		rec, err := s.LoadGoal(id)
		if err != nil {
			return nil, err
		}
		if rec.ParentGoal == goalID {
			children = append(children, rec)
		}
	}
	return children, nil
}

// SaveSubgoalResult writes a decomposition result alongside the goal records
// and returns the file path it was written to.
func (s *Store) SaveSubgoalResult(goalID string, result *SubgoalResult) (string, error) {
	if goalID == "" {
		return "", fmt.Errorf("goalID cannot be empty")
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result for goal %s: %w", goalID, err)
	}

	path := filepath.Join(s.baseDir, fmt.Sprintf("%s_result.json", goalID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result for goal %s: %w", goalID, err)
	}
	return path, nil
}

// GoalPath returns the on-disk path of a goal record.
func (s *Store) GoalPath(goalID string) string {
	return filepath.Join(s.baseDir, goalID+".json")
}

func (s *Store) writeRecord(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal goal %s: %w", rec.GoalID, err)
	}
	if err := os.WriteFile(s.GoalPath(rec.GoalID), data, 0644); err != nil {
		return fmt.Errorf("failed to write goal %s: %w", rec.GoalID, err)
	}
	return nil
}
