// Package memory is a process-local GuideRepository, used with STORE_DRIVER=memory and in tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"guest_manual/internal/domain"
)

type Repo struct {
	mu         sync.RWMutex
	nextID     int64
	properties map[int64]domain.Property
	records    map[domain.Kind][]domain.Record
	messages   []domain.Message
	views      []domain.PageView
}

func New() *Repo {
	return &Repo{
		properties: make(map[int64]domain.Property),
		records:    make(map[domain.Kind][]domain.Record),
	}
}

func (r *Repo) id() int64 {
	r.nextID++
	return r.nextID
}

func (r *Repo) ListProperties(ctx context.Context) ([]domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Property, 0, len(r.properties))
	for _, p := range r.properties {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *Repo) CountProperties(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.properties), nil
}

func (r *Repo) GetProperty(ctx context.Context, id int64) (domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.properties[id]
	if !ok {
		return domain.Property{}, domain.ErrNotFound
	}
	return p, nil
}

func (r *Repo) GetPropertyBySlug(ctx context.Context, slug string) (domain.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.properties {
		if p.Slug == slug {
			return p, nil
		}
	}
	return domain.Property{}, domain.ErrNotFound
}

func (r *Repo) SaveProperty(ctx context.Context, p *domain.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, other := range r.properties {
		if other.Slug == p.Slug && id != p.ID {
			return domain.ErrSlugTaken
		}
	}
	if p.ID == 0 {
		p.ID = r.id()
	} else if _, ok := r.properties[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.properties[p.ID] = *p
	return nil
}

func (r *Repo) DeleteProperty(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[id]; !ok {
		return domain.ErrNotFound
	}
	for k, recs := range r.records {
		kept := recs[:0]
		for _, rec := range recs {
			if rec.Owner() != id {
				kept = append(kept, rec)
			}
		}
		r.records[k] = kept
	}
	msgs := r.messages[:0]
	for _, m := range r.messages {
		if m.PropertyID != id {
			msgs = append(msgs, m)
		}
	}
	r.messages = msgs
	views := r.views[:0]
	for _, v := range r.views {
		if v.PropertyID != id {
			views = append(views, v)
		}
	}
	r.views = views
	delete(r.properties, id)
	return nil
}

func (r *Repo) GetManual(ctx context.Context, p domain.Property) (domain.Manual, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := domain.Manual{Property: p}
	for _, k := range domain.Kinds {
		for _, rec := range r.records[k] {
			if rec.Owner() != p.ID {
				continue
			}
			switch v := rec.(type) {
			case domain.Contact:
				m.Contacts = append(m.Contacts, v)
			case domain.Rule:
				m.Rules = append(m.Rules, v)
			case domain.HowTo:
				m.HowTos = append(m.HowTos, v)
			case domain.IssueFlow:
				m.Issues = append(m.Issues, v)
			case domain.Emergency:
				m.Emergencies = append(m.Emergencies, v)
			case domain.LocalPlace:
				m.Locals = append(m.Locals, v)
			case domain.CheckinStep:
				m.CheckinSteps = append(m.CheckinSteps, v)
			case domain.CheckoutStep:
				m.CheckoutSteps = append(m.CheckoutSteps, v)
			case domain.FAQ:
				m.FAQs = append(m.FAQs, v)
			}
		}
	}
	// records are stored in id order, so a stable sort keeps id as the tiebreak
	sort.SliceStable(m.CheckinSteps, func(i, j int) bool { return m.CheckinSteps[i].Step < m.CheckinSteps[j].Step })
	sort.SliceStable(m.CheckoutSteps, func(i, j int) bool { return m.CheckoutSteps[i].Step < m.CheckoutSteps[j].Step })
	return m, nil
}

func (r *Repo) GetHowTo(ctx context.Context, id int64) (domain.HowTo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records[domain.KindHowTo] {
		if h := rec.(domain.HowTo); h.ID == id {
			return h, nil
		}
	}
	return domain.HowTo{}, domain.ErrNotFound
}

func withID(rec domain.Record, id int64) domain.Record {
	switch v := rec.(type) {
	case domain.Contact:
		v.ID = id
		return v
	case domain.Rule:
		v.ID = id
		return v
	case domain.HowTo:
		v.ID = id
		return v
	case domain.IssueFlow:
		v.ID = id
		return v
	case domain.Emergency:
		v.ID = id
		return v
	case domain.LocalPlace:
		v.ID = id
		return v
	case domain.CheckinStep:
		v.ID = id
		return v
	case domain.CheckoutStep:
		v.ID = id
		return v
	case domain.FAQ:
		v.ID = id
		return v
	}
	return nil
}

func recordID(rec domain.Record) int64 {
	switch v := rec.(type) {
	case domain.Contact:
		return v.ID
	case domain.Rule:
		return v.ID
	case domain.HowTo:
		return v.ID
	case domain.IssueFlow:
		return v.ID
	case domain.Emergency:
		return v.ID
	case domain.LocalPlace:
		return v.ID
	case domain.CheckinStep:
		return v.ID
	case domain.CheckoutStep:
		return v.ID
	case domain.FAQ:
		return v.ID
	}
	return 0
}

func (r *Repo) AddRecord(ctx context.Context, rec domain.Record) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[rec.Owner()]; !ok {
		return 0, domain.ErrNotFound
	}
	id := r.id()
	stored := withID(rec, id)
	if stored == nil {
		return 0, domain.ErrUnknownKind
	}
	r.records[rec.Kind()] = append(r.records[rec.Kind()], stored)
	return id, nil
}

func (r *Repo) DeleteRecord(ctx context.Context, kind domain.Kind, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	recs := r.records[kind]
	for i, rec := range recs {
		if recordID(rec) == id {
			r.records[kind] = append(recs[:i:i], recs[i+1:]...)
			return rec.Owner(), nil
		}
	}
	return 0, domain.ErrNotFound
}

func (r *Repo) AddMessage(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[m.PropertyID]; !ok {
		return domain.ErrNotFound
	}
	m.ID = r.id()
	r.messages = append(r.messages, *m)
	return nil
}

func (r *Repo) ListMessages(ctx context.Context, propertyID int64, limit int) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Message
	for i := len(r.messages) - 1; i >= 0 && len(out) < limit; i-- {
		if r.messages[i].PropertyID == propertyID {
			out = append(out, r.messages[i])
		}
	}
	return out, nil
}

func (r *Repo) AddPageView(ctx context.Context, v domain.PageView) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.properties[v.PropertyID]; !ok {
		return domain.ErrNotFound
	}
	v.ID = r.id()
	r.views = append(r.views, v)
	return nil
}

func (r *Repo) CountViewsSince(ctx context.Context, since time.Time) (map[int64]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := map[int64]int{}
	for _, v := range r.views {
		if !v.CreatedAt.Before(since) {
			out[v.PropertyID]++
		}
	}
	return out, nil
}

func (r *Repo) SectionViewsSince(ctx context.Context, propertyID int64, since time.Time) ([]domain.SectionCount, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := map[string]int{}
	for _, v := range r.views {
		if v.PropertyID == propertyID && !v.CreatedAt.Before(since) {
			counts[v.Section]++
		}
	}
	out := make([]domain.SectionCount, 0, len(counts))
	for s, n := range counts {
		out = append(out, domain.SectionCount{Section: s, Views: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Views != out[j].Views {
			return out[i].Views > out[j].Views
		}
		return out[i].Section < out[j].Section
	})
	return out, nil
}

// PageViews returns a copy of every recorded view.
func (r *Repo) PageViews() []domain.PageView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.PageView(nil), r.views...)
}

// Messages returns a copy of every stored message, oldest first.
func (r *Repo) Messages() []domain.Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.Message(nil), r.messages...)
}

// RecordCount reports how many records of kind belong to propertyID.
func (r *Repo) RecordCount(kind domain.Kind, propertyID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, rec := range r.records[kind] {
		if rec.Owner() == propertyID {
			n++
		}
	}
	return n
}
