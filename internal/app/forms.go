package app

import (
	"strconv"
	"strings"

	"guest_manual/internal/domain"
)

// Form is the read side of a submitted form; url.Values satisfies it.
type Form interface {
	Get(key string) string
}

func field(f Form, key string) string { return strings.TrimSpace(f.Get(key)) }

func step(f Form) int {
	n, err := strconv.Atoi(field(f, "step"))
	if err != nil {
		return 0
	}
	return n
}

// BuildRecord collects the kind-specific fields of an add form into a record owned by pid.
func BuildRecord(kind domain.Kind, pid int64, f Form) (domain.Record, error) {
	switch kind {
	case domain.KindContact:
		return domain.Contact{
			PropID:   pid,
			Role:     field(f, "role"),
			Name:     field(f, "name"),
			Phone:    field(f, "phone"),
			WhatsApp: field(f, "whatsapp"),
		}, nil
	case domain.KindRule:
		return domain.Rule{
			PropID:      pid,
			Title:       field(f, "title"),
			Description: field(f, "description"),
			Penalty:     field(f, "penalty"),
			Rationale:   field(f, "rationale"),
		}, nil
	case domain.KindHowTo:
		return domain.HowTo{
			PropID:     pid,
			Area:       field(f, "area"),
			Appliance:  field(f, "appliance"),
			BrandModel: field(f, "brand_model"),
			How:        field(f, "how"),
			ManualURL:  field(f, "manual_url"),
			Issues:     field(f, "issues"),
		}, nil
	case domain.KindIssue:
		return domain.IssueFlow{
			PropID:        pid,
			Category:      field(f, "category"),
			TryFirst:      field(f, "try_first"),
			WhenToContact: field(f, "when_to_contact"),
			InfoNeeded:    field(f, "info_needed"),
			AutoReply:     field(f, "auto_reply"),
		}, nil
	case domain.KindEmergency:
		return domain.Emergency{
			PropID:  pid,
			EType:   field(f, "etype"),
			Name:    field(f, "name"),
			Phone:   field(f, "phone"),
			When:    field(f, "when"),
			Address: field(f, "address"),
			Notes:   field(f, "notes"),
		}, nil
	case domain.KindLocal:
		return domain.LocalPlace{
			PropID:   pid,
			Category: field(f, "category"),
			Name:     field(f, "name"),
			Blurb:    field(f, "blurb"),
			Address:  field(f, "address"),
			MapLink:  field(f, "map_link"),
			Hours:    field(f, "hours"),
			Link:     field(f, "link"),
			Price:    field(f, "price"),
		}, nil
	case domain.KindCheckin:
		return domain.CheckinStep{
			PropID: pid,
			Step:   step(f),
			Title:  field(f, "title"),
			Body:   field(f, "body"),
			Image:  field(f, "image"),
			Video:  field(f, "video"),
			Tip:    field(f, "tip"),
		}, nil
	case domain.KindCheckout:
		return domain.CheckoutStep{
			PropID: pid,
			Step:   step(f),
			Title:  field(f, "title"),
			Body:   field(f, "body"),
			Notes:  field(f, "notes"),
		}, nil
	case domain.KindFAQ:
		return domain.FAQ{
			PropID:   pid,
			Question: field(f, "q"),
			Answer:   field(f, "a"),
			Related:  field(f, "related"),
		}, nil
	}
	return nil, domain.ErrUnknownKind
}

// PropertyFromForm overwrites every editable field of p with the trimmed form value.
func PropertyFromForm(p *domain.Property, f Form) {
	for _, name := range domain.PropertyFields {
		*p.Field(name) = field(f, name)
	}
}
