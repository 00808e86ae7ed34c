package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// HistoryPath returns the path to history.yaml.
func (s *Store) HistoryPath() string {
	return filepath.Join(s.Root, "history.yaml")
}

// LoadHistory reads every recorded answer, oldest first.
func (s *Store) LoadHistory() ([]Answer, error) {
	data, err := os.ReadFile(s.HistoryPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history.yaml: %w", err)
	}

	var answers []Answer
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("parsing history.yaml: %w", err)
	}
	return answers, nil
}

// AppendAnswer records an answer and the nodes it changed.
func (s *Store) AppendAnswer(node string, correct bool, changed []string) (Answer, error) {
	answers, err := s.LoadHistory()
	if err != nil {
		return Answer{}, err
	}

	a := Answer{
		ID:      uuid.NewString(),
		Node:    node,
		Correct: correct,
		Changed: changed,
		At:      time.Now().UTC(),
	}
	answers = append(answers, a)

	data, err := yaml.Marshal(answers)
	if err != nil {
		return Answer{}, fmt.Errorf("serializing history: %w", err)
	}
	if err := os.WriteFile(s.HistoryPath(), data, 0644); err != nil {
		return Answer{}, fmt.Errorf("writing history.yaml: %w", err)
	}
	return a, nil
}
