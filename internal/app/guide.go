package app

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"guest_manual/internal/domain"
)

const DefaultCategory = "General"

// Visit identifies the caller behind a page view.
type Visit struct {
	UserAgent string
	IP        string
}

type MessageInput struct {
	Name     string
	Contact  string
	Category string
	Body     string
}

// GuideService serves the public side of every property's manual.
type GuideService struct {
	repo     domain.GuideRepository
	cache    manualCache
	notifier domain.MessageNotifier
	now      func() time.Time

	pending sync.WaitGroup
}

// NewGuideService wires the public service. cache and notifier may be nil.
func NewGuideService(r domain.GuideRepository, c domain.Cache, ttl time.Duration, n domain.MessageNotifier) *GuideService {
	return &GuideService{repo: r, cache: newManualCache(c, ttl), notifier: n, now: time.Now}
}

func (s *GuideService) ListProperties(ctx context.Context) ([]domain.Property, error) {
	return s.repo.ListProperties(ctx)
}

// Manual loads a property and all of its child lists, through the cache when one is configured.
func (s *GuideService) Manual(ctx context.Context, slug string) (domain.Manual, error) {
	var m domain.Manual
	if s.cache.get(ctx, slug, &m) {
		return m, nil
	}
	p, err := s.repo.GetPropertyBySlug(ctx, slug)
	if err != nil {
		return domain.Manual{}, err
	}
	m, err = s.repo.GetManual(ctx, p)
	if err != nil {
		return domain.Manual{}, err
	}
	s.cache.set(ctx, m)
	return m, nil
}

// Property resolves a slug without loading the manual.
func (s *GuideService) Property(ctx context.Context, slug string) (domain.Property, error) {
	return s.repo.GetPropertyBySlug(ctx, slug)
}

// ViewSection returns the manual for one allowed section and records a page view.
// Unknown sections and slugs yield domain.ErrNotFound without recording anything.
func (s *GuideService) ViewSection(ctx context.Context, slug, section string, v Visit) (domain.Manual, error) {
	if !domain.IsSection(section) {
		return domain.Manual{}, domain.ErrNotFound
	}
	m, err := s.Manual(ctx, slug)
	if err != nil {
		return domain.Manual{}, err
	}
	pv := domain.PageView{
		PropertyID: m.Property.ID,
		Section:    section,
		UserAgent:  v.UserAgent,
		IP:         v.IP,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.AddPageView(ctx, pv); err != nil {
		log.Error().Err(err).Str("slug", slug).Str("section", section).Msg("record page view")
	}
	return m, nil
}

// HowTo returns one how-to of the slug's property.
func (s *GuideService) HowTo(ctx context.Context, slug string, id int64) (domain.Property, domain.HowTo, error) {
	p, err := s.repo.GetPropertyBySlug(ctx, slug)
	if err != nil {
		return domain.Property{}, domain.HowTo{}, err
	}
	h, err := s.repo.GetHowTo(ctx, id)
	if err != nil {
		return domain.Property{}, domain.HowTo{}, err
	}
	if h.PropID != p.ID {
		return domain.Property{}, domain.HowTo{}, domain.ErrNotFound
	}
	return p, h, nil
}

// PublicURL is the absolute address of a property's manual.
func PublicURL(base, slug string) string {
	return strings.TrimRight(base, "/") + "/p/" + url.PathEscape(slug)
}

// SubmitMessage stores a guest message and hands it to the notifier in the background.
func (s *GuideService) SubmitMessage(ctx context.Context, slug string, in MessageInput) (domain.Message, error) {
	p, err := s.repo.GetPropertyBySlug(ctx, slug)
	if err != nil {
		return domain.Message{}, err
	}
	m := domain.Message{
		PropertyID: p.ID,
		Name:       strings.TrimSpace(in.Name),
		Contact:    strings.TrimSpace(in.Contact),
		Category:   strings.TrimSpace(in.Category),
		Body:       strings.TrimSpace(in.Body),
		CreatedAt:  s.now().UTC(),
	}
	if m.Category == "" {
		m.Category = DefaultCategory
	}
	if err := s.repo.AddMessage(ctx, &m); err != nil {
		return domain.Message{}, err
	}
	if s.notifier != nil {
		ev := domain.MessageEvent{
			MessageID:    m.ID,
			PropertyID:   p.ID,
			PropertySlug: p.Slug,
			PropertyName: p.Name,
			Name:         m.Name,
			Contact:      m.Contact,
			Category:     m.Category,
			Body:         m.Body,
			CreatedAt:    m.CreatedAt,
		}
		s.pending.Add(1)
		go s.notify(ev)
	}
	return m, nil
}

func (s *GuideService) notify(ev domain.MessageEvent) {
	defer s.pending.Done()
	// detached from the request so a finished response does not cancel delivery
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.notifier.NotifyMessage(ctx, ev); err != nil {
		log.Warn().Err(err).Int64("message_id", ev.MessageID).Msg("notify guest message")
	}
}

// Wait blocks until background notifications have finished.
func (s *GuideService) Wait() { s.pending.Wait() }
