package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripnest/tripnest-backend/internal/auth/domain"
	"github.com/tripnest/tripnest-backend/internal/backend"
)

type stubAuditor struct {
	report *domain.LinkageReport
	err    error
	calls  int
}

func (s *stubAuditor) VerifyLinkage(context.Context) (*domain.LinkageReport, error) {
	s.calls++
	return s.report, s.err
}

func TestScheduler_RunOnce(t *testing.T) {
	msg := "timeout"
	auditor := &stubAuditor{report: &domain.LinkageReport{
		Results: []domain.LinkageResult{
			{AuthUser: backend.User{ID: "user-1"}, HasProfile: true},
			{AuthUser: backend.User{ID: "user-2"}},
			{AuthUser: backend.User{ID: "user-3"}, Error: &msg},
		},
	}}

	report, err := NewScheduler("@every 1h", auditor).RunOnce(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Results, 3)
	assert.Equal(t, 1, auditor.calls)

	auditor.err = errors.New("quota exceeded")
	_, err = NewScheduler("@every 1h", auditor).RunOnce(context.Background())
	assert.Error(t, err)
}

func TestScheduler_StartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler("not a schedule", &stubAuditor{})
	assert.Error(t, s.Start())

	ok := NewScheduler("0 0 3 * * *", &stubAuditor{})
	require.NoError(t, ok.Start())
	ok.Stop()
}
