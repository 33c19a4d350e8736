package execution

import "swiftcheck/internal/domain"

// Scheduler distributes cases across sessions
type Scheduler interface {
	Schedule(cases []domain.TestCase, sessionCount int) [][]domain.TestCase
}

// RoundRobinScheduler distributes cases evenly across sessions
type RoundRobinScheduler struct{}

// NewRoundRobinScheduler creates a new RoundRobinScheduler
func NewRoundRobinScheduler() *RoundRobinScheduler {
	return &RoundRobinScheduler{}
}

// Schedule deals cases to sessions in turn. Each shard keeps table order.
func (s *RoundRobinScheduler) Schedule(cases []domain.TestCase, sessionCount int) [][]domain.TestCase {
	if sessionCount <= 0 {
		sessionCount = 1
	}

	distribution := make([][]domain.TestCase, sessionCount)
	for i := range distribution {
		distribution[i] = make([]domain.TestCase, 0, len(cases)/sessionCount+1)
	}

	for i, tc := range cases {
		distribution[i%sessionCount] = append(distribution[i%sessionCount], tc)
	}

	return distribution
}
