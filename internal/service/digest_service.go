package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"career-compass/internal/domain"
	"career-compass/internal/email"
)

// DigestService arma un resumen de progreso en texto plano y lo envía
// por correo al usuario.
type DigestService struct {
	logger    *zap.Logger
	dashboard *DashboardService
	users     *UserService
	sender    email.Sender
}

func NewDigestService(logger *zap.Logger, dashboard *DashboardService, users *UserService, sender email.Sender) *DigestService {
	return &DigestService{
		logger:    logger,
		dashboard: dashboard,
		users:     users,
		sender:    sender,
	}
}

// SendDigest renderiza el dashboard del usuario y lo envía por SMTP.
func (s *DigestService) SendDigest(ctx context.Context, userID string) error {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	view, err := s.dashboard.BuildDashboard(ctx, userID)
	if err != nil {
		return err
	}

	body := renderDigest(user, view)
	if err := s.sender.SendProgressDigest(ctx, user.Email, "Your career progress digest", body); err != nil {
		s.logger.Warn("digest send failed", zap.Error(err), zap.String("user_id", userID))
		return fmt.Errorf("send digest: %w", err)
	}
	return nil
}

func renderDigest(user domain.User, view domain.DashboardView) string {
	var sb strings.Builder

	name := user.DisplayName
	if name == "" {
		name = user.Email
	}
	sb.WriteString(fmt.Sprintf("Hi %s,\n\n", name))

	switch view.State {
	case domain.DashboardStateNoTargetRole:
		sb.WriteString("You have not picked a target role yet. Choose one to get your skill gap report.\n")
	case domain.DashboardStateNoAssessment:
		sb.WriteString(fmt.Sprintf("Target role: %s.\nComplete a skill assessment to see where you stand.\n", view.RoleTitle))
	default:
		sb.WriteString(fmt.Sprintf("Target role: %s\n\nSkill gaps (most urgent first):\n", view.RoleTitle))
		for _, e := range view.GapEntries {
			sb.WriteString(fmt.Sprintf("- %s: %s (%d%%)\n", e.SkillName, e.Status, e.Percentage))
		}
	}

	if view.Goal != nil {
		sb.WriteString(fmt.Sprintf("\nReadiness: %d%%\n", view.Goal.Readiness))
		if view.Goal.TargetDate != nil {
			sb.WriteString(fmt.Sprintf("Target date: %s\n", view.Goal.TargetDate.Format(time.DateOnly)))
		}
	}

	sb.WriteString("\nKeep going,\nCareer Compass\n")
	return sb.String()
}
