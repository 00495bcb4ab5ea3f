package app

import (
	"context"
	"errors"
	"time"

	"guest_manual/internal/domain"
)

const (
	statsWindow    = 30 * 24 * time.Hour
	recentMessages = 50
)

// ManageView is everything the per-property manage page shows.
type ManageView struct {
	Manual   domain.Manual
	Messages []domain.Message
	Sections []domain.SectionCount
}

// AdminService backs the password-gated content editor.
type AdminService struct {
	repo  domain.GuideRepository
	cache manualCache
	now   func() time.Time
}

func NewAdminService(r domain.GuideRepository, c domain.Cache, ttl time.Duration) *AdminService {
	return &AdminService{repo: r, cache: newManualCache(c, ttl), now: time.Now}
}

// Dashboard lists properties by name with their page views over the last 30 days.
func (s *AdminService) Dashboard(ctx context.Context) ([]domain.PropertyStats, error) {
	props, err := s.repo.ListProperties(ctx)
	if err != nil {
		return nil, err
	}
	views, err := s.repo.CountViewsSince(ctx, s.now().UTC().Add(-statsWindow))
	if err != nil {
		return nil, err
	}
	out := make([]domain.PropertyStats, 0, len(props))
	for _, p := range props {
		out = append(out, domain.PropertyStats{Property: p, Views30d: views[p.ID]})
	}
	return out, nil
}

func (s *AdminService) Property(ctx context.Context, id int64) (domain.Property, error) {
	return s.repo.GetProperty(ctx, id)
}

// SaveProperty creates a property when id is 0, otherwise overwrites the existing one.
// On domain.ErrSlugTaken the returned property carries the submitted values for redisplay.
func (s *AdminService) SaveProperty(ctx context.Context, id int64, f Form) (domain.Property, error) {
	var p domain.Property
	if id != 0 {
		old, err := s.repo.GetProperty(ctx, id)
		if err != nil {
			return domain.Property{}, err
		}
		p = old
	}
	oldSlug := p.Slug
	PropertyFromForm(&p, f)
	if err := s.repo.SaveProperty(ctx, &p); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) {
			return p, err
		}
		return domain.Property{}, err
	}
	s.cache.evict(ctx, oldSlug, p.Slug)
	return p, nil
}

func (s *AdminService) DeleteProperty(ctx context.Context, id int64) error {
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProperty(ctx, id); err != nil {
		return err
	}
	s.cache.evict(ctx, p.Slug)
	return nil
}

func (s *AdminService) ManagePage(ctx context.Context, id int64) (ManageView, error) {
	p, err := s.repo.GetProperty(ctx, id)
	if err != nil {
		return ManageView{}, err
	}
	m, err := s.repo.GetManual(ctx, p)
	if err != nil {
		return ManageView{}, err
	}
	msgs, err := s.repo.ListMessages(ctx, id, recentMessages)
	if err != nil {
		return ManageView{}, err
	}
	secs, err := s.repo.SectionViewsSince(ctx, id, s.now().UTC().Add(-statsWindow))
	if err != nil {
		return ManageView{}, err
	}
	return ManageView{Manual: m, Messages: msgs, Sections: secs}, nil
}

// AddRecord attaches a new child of kind to property pid.
func (s *AdminService) AddRecord(ctx context.Context, pid int64, kind domain.Kind, f Form) (int64, error) {
	p, err := s.repo.GetProperty(ctx, pid)
	if err != nil {
		return 0, err
	}
	rec, err := BuildRecord(kind, p.ID, f)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.AddRecord(ctx, rec)
	if err != nil {
		return 0, err
	}
	s.cache.evict(ctx, p.Slug)
	return id, nil
}

// DeleteRecord removes a child by id and returns the id of the property that owned it.
func (s *AdminService) DeleteRecord(ctx context.Context, kind domain.Kind, id int64) (int64, error) {
	owner, err := s.repo.DeleteRecord(ctx, kind, id)
	if err != nil {
		return 0, err
	}
	if p, err := s.repo.GetProperty(ctx, owner); err == nil {
		s.cache.evict(ctx, p.Slug)
	}
	return owner, nil
}
