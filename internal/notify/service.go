// Package notify owns notification preferences and the expiry scan that
// feeds credential-expiration alerts. Delivery (OS notifications, email) is
// out of scope here; callers consume the computed list.
package notify

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/harinadareddy11/account-vault/internal/logging"
	"github.com/harinadareddy11/account-vault/internal/models"
	"github.com/harinadareddy11/account-vault/internal/repositories/prefs"
	"github.com/harinadareddy11/account-vault/internal/repositories/projects"
)

const isoDate = "2006-01-02"

// ExpiringService is a project service annotated with how many days remain
// before its credential expires. Zero means it expires today.
type ExpiringService struct {
	models.ProjectService
	DaysUntilExpiry int `json:"daysUntilExpiry"`
}

type Service struct {
	prefs    prefs.Repository
	projects projects.Repository
	log      logging.Logger
	now      func() time.Time
}

func New(prefsRepo prefs.Repository, projRepo projects.Repository, log logging.Logger) *Service {
	return &Service{
		prefs:    prefsRepo,
		projects: projRepo,
		log:      log.With("component", "notify"),
		now:      time.Now,
	}
}

// Preferences returns the user's row, creating it with defaults on first
// access.
func (s *Service) Preferences(ctx context.Context, userID string) (*models.NotificationPreferences, error) {
	existing, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	p := models.DefaultPreferences(userID)
	p.ID = uuid.NewString()
	now := s.now().UnixMilli()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.prefs.Insert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePreferences applies a partial update, materializing the defaults row
// first if the user never touched their settings.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, patch prefs.Patch) (*models.NotificationPreferences, error) {
	if _, err := s.Preferences(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.prefs.Update(ctx, userID, patch, s.now().UnixMilli()); err != nil {
		return nil, err
	}
	return s.prefs.Get(ctx, userID)
}

// ExpiringServices lists project services whose expiry date falls within the
// user's configured look-ahead window, soonest first. With expiry alerts
// switched off the list is empty.
func (s *Service) ExpiringServices(ctx context.Context, userID string) ([]ExpiringService, error) {
	p, err := s.Preferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.APIExpiryNotifications == 0 {
		return nil, nil
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	from := today.Format(isoDate)
	to := today.AddDate(0, 0, p.APIExpiryDaysBefore).Format(isoDate)

	list, err := s.projects.ExpiringBetween(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	result := make([]ExpiringService, 0, len(list))
	for _, svc := range list {
		expiry, err := time.Parse(isoDate, *svc.ExpiryDate)
		if err != nil {
			s.log.Warn(ctx, "skipping service with unparseable expiry date",
				"service", svc.ID, "expiryDate", *svc.ExpiryDate)
			continue
		}
		result = append(result, ExpiringService{
			ProjectService:  svc,
			DaysUntilExpiry: int(expiry.Sub(today).Hours() / 24),
		})
	}
	return result, nil
}
