package domain

// Kind names a child record type by the token used in admin URLs.
type Kind string

const (
	KindContact   Kind = "contact"
	KindRule      Kind = "rule"
	KindHowTo     Kind = "howto"
	KindIssue     Kind = "issue"
	KindEmergency Kind = "emergency"
	KindLocal     Kind = "local"
	KindCheckin   Kind = "checkin"
	KindCheckout  Kind = "checkout"
	KindFAQ       Kind = "faq"
)

// Kinds lists every child kind in manage-page order.
var Kinds = []Kind{
	KindCheckin, KindCheckout, KindRule, KindHowTo, KindIssue,
	KindEmergency, KindLocal, KindFAQ, KindContact,
}

var kindLabels = map[Kind]string{
	KindContact:   "Contact",
	KindRule:      "Rule",
	KindHowTo:     "How-to",
	KindIssue:     "Issue flow",
	KindEmergency: "Emergency contact",
	KindLocal:     "Local place",
	KindCheckin:   "Check-in step",
	KindCheckout:  "Check-out step",
	KindFAQ:       "FAQ",
}

// ParseKind validates a URL token.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kindLabels[k]; !ok {
		return "", ErrUnknownKind
	}
	return k, nil
}

func (k Kind) Label() string { return kindLabels[k] }

// Record is any child entity owned by exactly one Property.
type Record interface {
	Kind() Kind
	Owner() int64
}

type Contact struct {
	ID       int64
	PropID   int64
	Role     string
	Name     string
	Phone    string
	WhatsApp string
}

type Rule struct {
	ID          int64
	PropID      int64
	Title       string
	Description string
	Penalty     string
	Rationale   string
}

type HowTo struct {
	ID         int64
	PropID     int64
	Area       string
	Appliance  string
	BrandModel string
	How        string
	ManualURL  string
	Issues     string
}

type IssueFlow struct {
	ID            int64
	PropID        int64
	Category      string
	TryFirst      string
	WhenToContact string
	InfoNeeded    string
	AutoReply     string
}

type Emergency struct {
	ID      int64
	PropID  int64
	EType   string
	Name    string
	Phone   string
	When    string
	Address string
	Notes   string
}

type LocalPlace struct {
	ID       int64
	PropID   int64
	Category string
	Name     string
	Blurb    string
	Address  string
	MapLink  string
	Hours    string
	Link     string
	Price    string
}

type CheckinStep struct {
	ID     int64
	PropID int64
	Step   int
	Title  string
	Body   string
	Image  string
	Video  string
	Tip    string
}

type CheckoutStep struct {
	ID     int64
	PropID int64
	Step   int
	Title  string
	Body   string
	Notes  string
}

type FAQ struct {
	ID       int64
	PropID   int64
	Question string
	Answer   string
	Related  string
}

func (Contact) Kind() Kind      { return KindContact }
func (Rule) Kind() Kind         { return KindRule }
func (HowTo) Kind() Kind        { return KindHowTo }
func (IssueFlow) Kind() Kind    { return KindIssue }
func (Emergency) Kind() Kind    { return KindEmergency }
func (LocalPlace) Kind() Kind   { return KindLocal }
func (CheckinStep) Kind() Kind  { return KindCheckin }
func (CheckoutStep) Kind() Kind { return KindCheckout }
func (FAQ) Kind() Kind          { return KindFAQ }

func (r Contact) Owner() int64      { return r.PropID }
func (r Rule) Owner() int64         { return r.PropID }
func (r HowTo) Owner() int64        { return r.PropID }
func (r IssueFlow) Owner() int64    { return r.PropID }
func (r Emergency) Owner() int64    { return r.PropID }
func (r LocalPlace) Owner() int64   { return r.PropID }
func (r CheckinStep) Owner() int64  { return r.PropID }
func (r CheckoutStep) Owner() int64 { return r.PropID }
func (r FAQ) Owner() int64          { return r.PropID }
