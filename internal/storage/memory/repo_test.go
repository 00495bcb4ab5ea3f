package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"guest_manual/internal/domain"
	"guest_manual/internal/storage/memory"
)

func newProperty(t *testing.T, r *memory.Repo, slug string) domain.Property {
	t.Helper()
	p := domain.Property{Slug: slug, Name: "Flat " + slug}
	if err := r.SaveProperty(context.Background(), &p); err != nil {
		t.Fatalf("save: %v", err)
	}
	return p
}

func TestSaveProperty_SlugUnique(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	a := newProperty(t, r, "sea")
	b := newProperty(t, r, "hill")

	dup := domain.Property{Slug: "sea", Name: "Other"}
	if err := r.SaveProperty(ctx, &dup); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("want ErrSlugTaken, got %v", err)
	}
	b.Slug = "sea"
	if err := r.SaveProperty(ctx, &b); !errors.Is(err, domain.ErrSlugTaken) {
		t.Fatalf("update to taken slug: %v", err)
	}
	// re-saving with its own slug is fine
	a.Name = "Sea View"
	if err := r.SaveProperty(ctx, &a); err != nil {
		t.Fatalf("resave: %v", err)
	}
	got, _ := r.GetPropertyBySlug(ctx, "sea")
	if got.Name != "Sea View" {
		t.Fatalf("name not updated: %+v", got)
	}
	ghost := domain.Property{ID: 999, Slug: "ghost"}
	if err := r.SaveProperty(ctx, &ghost); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown id: %v", err)
	}
}

func TestGetManual_StepOrder(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	p := newProperty(t, r, "sea")
	for _, s := range []int{3, 1, 2, 1} {
		if _, err := r.AddRecord(ctx, domain.CheckinStep{PropID: p.ID, Step: s}); err != nil {
			t.Fatal(err)
		}
	}
	m, err := r.GetManual(ctx, p)
	if err != nil {
		t.Fatal(err)
	}
	var steps []int
	for _, s := range m.CheckinSteps {
		steps = append(steps, s.Step)
	}
	if len(steps) != 4 || steps[0] != 1 || steps[1] != 1 || steps[2] != 2 || steps[3] != 3 {
		t.Fatalf("order: %v", steps)
	}
	if m.CheckinSteps[0].ID >= m.CheckinSteps[1].ID {
		t.Fatalf("tie not broken by id: %+v", m.CheckinSteps[:2])
	}
}

func TestDeleteProperty_Cascades(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	a := newProperty(t, r, "a")
	b := newProperty(t, r, "b")
	for _, p := range []domain.Property{a, b} {
		r.AddRecord(ctx, domain.Rule{PropID: p.ID, Title: "No smoking"})
		r.AddRecord(ctx, domain.FAQ{PropID: p.ID, Question: "Wifi?"})
		r.AddMessage(ctx, &domain.Message{PropertyID: p.ID, Body: "hi"})
		r.AddPageView(ctx, domain.PageView{PropertyID: p.ID, Section: "welcome", CreatedAt: time.Now()})
	}

	if err := r.DeleteProperty(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := r.GetProperty(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("property still there: %v", err)
	}
	if n := r.RecordCount(domain.KindRule, a.ID); n != 0 {
		t.Fatalf("rules left: %d", n)
	}
	if n := r.RecordCount(domain.KindRule, b.ID); n != 1 {
		t.Fatalf("other property lost rules: %d", n)
	}
	if len(r.Messages()) != 1 || len(r.PageViews()) != 1 {
		t.Fatalf("guest activity not cascaded: %d msgs, %d views", len(r.Messages()), len(r.PageViews()))
	}
	if err := r.DeleteProperty(ctx, a.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
}

func TestDeleteRecord_ReportsOwner(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	p := newProperty(t, r, "sea")
	id, err := r.AddRecord(ctx, domain.HowTo{PropID: p.ID, Appliance: "Oven"})
	if err != nil {
		t.Fatal(err)
	}
	if h, err := r.GetHowTo(ctx, id); err != nil || h.Appliance != "Oven" {
		t.Fatalf("get: %+v %v", h, err)
	}
	owner, err := r.DeleteRecord(ctx, domain.KindHowTo, id)
	if err != nil || owner != p.ID {
		t.Fatalf("owner=%d err=%v", owner, err)
	}
	if _, err := r.DeleteRecord(ctx, domain.KindHowTo, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	// ids are unique per kind, so the wrong kind misses
	id, _ = r.AddRecord(ctx, domain.Rule{PropID: p.ID})
	if _, err := r.DeleteRecord(ctx, domain.KindFAQ, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("wrong kind: %v", err)
	}
}

func TestViewsSince(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	p := newProperty(t, r, "sea")
	now := time.Now().UTC()
	r.AddPageView(ctx, domain.PageView{PropertyID: p.ID, Section: "welcome", CreatedAt: now})
	r.AddPageView(ctx, domain.PageView{PropertyID: p.ID, Section: "rules", CreatedAt: now})
	r.AddPageView(ctx, domain.PageView{PropertyID: p.ID, Section: "rules", CreatedAt: now})
	r.AddPageView(ctx, domain.PageView{PropertyID: p.ID, Section: "rules", CreatedAt: now.AddDate(0, 0, -40)})

	since := now.AddDate(0, 0, -30)
	counts, _ := r.CountViewsSince(ctx, since)
	if counts[p.ID] != 3 {
		t.Fatalf("views: %v", counts)
	}
	sec, _ := r.SectionViewsSince(ctx, p.ID, since)
	if len(sec) != 2 || sec[0].Section != "rules" || sec[0].Views != 2 {
		t.Fatalf("sections: %+v", sec)
	}
}

func TestListMessages_NewestFirst(t *testing.T) {
	ctx := context.Background()
	r := memory.New()
	p := newProperty(t, r, "sea")
	for _, b := range []string{"one", "two", "three"} {
		r.AddMessage(ctx, &domain.Message{PropertyID: p.ID, Body: b})
	}
	got, _ := r.ListMessages(ctx, p.ID, 2)
	if len(got) != 2 || got[0].Body != "three" || got[1].Body != "two" {
		t.Fatalf("messages: %+v", got)
	}
}
