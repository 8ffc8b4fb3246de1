package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissionClosed is returned when an outcome is recorded twice.
var ErrMissionClosed = errors.New("mission already closed")

type MissionStatus int

const (
	MissionInProgress MissionStatus = iota + 1
	MissionCompleted
	MissionFailed
)

func (s MissionStatus) String() string {
	switch s {
	case MissionInProgress:
		return "in_progress"
	case MissionCompleted:
		return "completed"
	case MissionFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func ParseMissionStatus(s string) (MissionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "in_progress":
		return MissionInProgress, nil
	case "completed":
		return MissionCompleted, nil
	case "failed":
		return MissionFailed, nil
	}
	return 0, fmt.Errorf("parse mission status: unknown status %q", s)
}

// Mission is one dispatch of a vehicle from a sorting center: the cargo it
// carries, the route it follows and, once reported, how it ended.
type Mission struct {
	ID            int
	Plate         string
	SortingCenter string
	Plan          *RoutePlan
	Cargo         []*Cargo
	Status        MissionStatus
	Note          string
	StartedAt     time.Time
	EndedAt       *time.Time
}

// Duration is the time between start and the recorded outcome, or zero
// while the mission is still in progress.
func (m *Mission) Duration() time.Duration {
	if m.EndedAt == nil {
		return 0
	}
	return m.EndedAt.Sub(m.StartedAt)
}

// Close records the outcome of an in-progress mission.
func (m *Mission) Close(status MissionStatus, note string, at time.Time) error {
	if m.Status != MissionInProgress {
		return fmt.Errorf("close mission %d: %w (status %s)", m.ID, ErrMissionClosed, m.Status)
	}
	if status != MissionCompleted && status != MissionFailed {
		return fmt.Errorf("close mission %d: outcome must be completed or failed (got %s)", m.ID, status)
	}
	if at.Before(m.StartedAt) {
		return fmt.Errorf("close mission %d: end %s precedes start %s", m.ID, at.Format(time.RFC3339), m.StartedAt.Format(time.RFC3339))
	}

	m.Status = status
	m.Note = strings.TrimSpace(note)
	ended := at
	m.EndedAt = &ended
	return nil
}
