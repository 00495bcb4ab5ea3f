package domain

import (
	"strings"
	"time"
)

type Property struct {
	ID             int64
	Slug           string
	Name           string
	AddressDisplay string
	MapURL         string
	CheckinTime    string
	CheckoutTime   string
	WifiSSID       string
	WifiPassword   string
	Parking        string
	QuietHours     string
	Notes          string
	HeroURL        string
	GalleryURLs    string // comma separated
	InstagramURL   string
	FacebookURL    string
	TiktokURL      string
	WhatsappURL    string
	PhoneNumber    string
	EmailAddress   string
}

// Gallery splits GalleryURLs into its non-empty entries.
func (p Property) Gallery() []string {
	var out []string
	for _, u := range strings.Split(p.GalleryURLs, ",") {
		if t := strings.TrimSpace(u); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// PropertyFields is the fixed list of form fields the property editor overwrites.
var PropertyFields = []string{
	"slug", "name", "address_display", "map_url", "checkin_time", "checkout_time",
	"wifi_ssid", "wifi_password", "parking", "quiet_hours", "notes",
	"hero_url", "gallery_urls",
	"instagram_url", "facebook_url", "tiktok_url", "whatsapp_url", "phone_number", "email_address",
}

// Field returns the value of a property form field by its form name.
func (p *Property) Field(name string) *string {
	switch name {
	case "slug":
		return &p.Slug
	case "name":
		return &p.Name
	case "address_display":
		return &p.AddressDisplay
	case "map_url":
		return &p.MapURL
	case "checkin_time":
		return &p.CheckinTime
	case "checkout_time":
		return &p.CheckoutTime
	case "wifi_ssid":
		return &p.WifiSSID
	case "wifi_password":
		return &p.WifiPassword
	case "parking":
		return &p.Parking
	case "quiet_hours":
		return &p.QuietHours
	case "notes":
		return &p.Notes
	case "hero_url":
		return &p.HeroURL
	case "gallery_urls":
		return &p.GalleryURLs
	case "instagram_url":
		return &p.InstagramURL
	case "facebook_url":
		return &p.FacebookURL
	case "tiktok_url":
		return &p.TiktokURL
	case "whatsapp_url":
		return &p.WhatsappURL
	case "phone_number":
		return &p.PhoneNumber
	case "email_address":
		return &p.EmailAddress
	}
	return nil
}

// Message is a guest-submitted note. Never edited after insert.
type Message struct {
	ID         int64
	PropertyID int64
	Name       string
	Contact    string
	Category   string
	Body       string
	CreatedAt  time.Time
}

// PageView is one analytics event per section visit.
type PageView struct {
	ID         int64
	PropertyID int64
	Section    string
	UserAgent  string
	IP         string
	CreatedAt  time.Time
}

// Manual is a property together with every child list, the unit the public pages render.
type Manual struct {
	Property      Property
	Contacts      []Contact
	Rules         []Rule
	HowTos        []HowTo
	Issues        []IssueFlow
	Emergencies   []Emergency
	Locals        []LocalPlace
	CheckinSteps  []CheckinStep
	CheckoutSteps []CheckoutStep
	FAQs          []FAQ
}

// PropertyStats is a dashboard row.
type PropertyStats struct {
	Property Property
	Views30d int
}

// SectionCount is the number of views one section received.
type SectionCount struct {
	Section string
	Views   int
}
