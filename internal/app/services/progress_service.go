package services

import (
	"time"

	"github.com/yigit/unitrack/internal/app/progress"
	"github.com/yigit/unitrack/internal/app/tracker"
)

// ProgressService runs the analytics engines over the current snapshot
type ProgressService struct {
	store  *tracker.Store
	policy progress.Policy
	now    func() time.Time
}

// NewProgressService creates a new progress service instance
func NewProgressService(store *tracker.Store, policy progress.Policy) *ProgressService {
	return &ProgressService{
		store:  store,
		policy: policy,
		now:    time.Now,
	}
}

// Policy returns the thresholds in effect
func (s *ProgressService) Policy() progress.Policy {
	return s.policy
}

// Overview returns the dashboard summary
func (s *ProgressService) Overview() progress.Overview {
	snap := s.store.Snapshot()
	return progress.BuildOverview(snap.Courses, snap.Areas, s.policy)
}

// Thesis returns the registration gate
func (s *ProgressService) Thesis() progress.ThesisStatus {
	return progress.Thesis(s.store.Courses(), s.policy.ThesisThreshold)
}

// Semesters returns the per-semester summaries
func (s *ProgressService) Semesters() []progress.SemesterSummary {
	return progress.Semesters(s.store.Courses())
}

// AvailableSemesters returns the semesters having at least one course
func (s *ProgressService) AvailableSemesters() []int {
	return progress.AvailableSemesters(s.store.Courses())
}

// Exams returns upcoming and past exams relative to now
func (s *ProgressService) Exams() progress.ExamSchedule {
	return progress.Exams(s.store.Courses(), s.now())
}

// Report returns the transcript report data
func (s *ProgressService) Report(order string) (progress.Report, error) {
	o, err := progress.ParseReportOrder(order)
	if err != nil {
		return progress.Report{}, err
	}
	snap := s.store.Snapshot()
	return progress.BuildReport(snap.Courses, snap.Areas, o), nil
}
