package scheduler

import "go.trai.ch/kiln/internal/core/domain"

// GetJobStatusMap returns a copy of the internal job status map keyed by source.
// This is exported for testing purposes only.
func (s *Scheduler) GetJobStatusMap() map[string]domain.JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	statusMap := make(map[string]domain.JobStatus, len(s.jobStatus))
	for k, v := range s.jobStatus {
		statusMap[k] = v
	}
	return statusMap
}
