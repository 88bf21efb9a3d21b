package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/zchut-miluim/mentoring-api/internal/models"
	appErrors "github.com/zchut-miluim/mentoring-api/pkg/errors"
)

type statsMenteeCounter interface {
	CountByStatus(ctx context.Context) (map[models.MenteeStatus]int, error)
}

type statsMentorCounter interface {
	CountByStatus(ctx context.Context) (map[models.MentorStatus]int, error)
}

type statsSessionCounter interface {
	CountByStatus(ctx context.Context) (map[models.SessionStatus]int, error)
}

// DashboardStats summarizes platform activity for the admin dashboard.
type DashboardStats struct {
	Mentees  map[models.MenteeStatus]int  `json:"mentees"`
	Mentors  map[models.MentorStatus]int  `json:"mentors"`
	Sessions map[models.SessionStatus]int `json:"sessions"`
}

// StatsService aggregates entity counts for the admin dashboard.
type StatsService struct {
	mentees  statsMenteeCounter
	mentors  statsMentorCounter
	sessions statsSessionCounter
	logger   *zap.Logger
}

// NewStatsService constructs StatsService.
func NewStatsService(mentees statsMenteeCounter, mentors statsMentorCounter, sessions statsSessionCounter, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{mentees: mentees, mentors: mentors, sessions: sessions, logger: logger}
}

// Dashboard returns status breakdowns for mentees, mentors and sessions.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	menteeCounts, err := s.mentees.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count mentees", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load mentee stats")
	}
	mentorCounts, err := s.mentors.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count mentors", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load mentor stats")
	}
	sessionCounts, err := s.sessions.CountByStatus(ctx)
	if err != nil {
		s.logger.Error("failed to count sessions", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrStore.Code, appErrors.ErrStore.Status, "failed to load session stats")
	}

	return &DashboardStats{
		Mentees:  menteeCounts,
		Mentors:  mentorCounts,
		Sessions: sessionCounts,
	}, nil
}
