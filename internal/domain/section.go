package domain

const SectionWelcome = "welcome"

// Sections is the fixed allow-list of public manual pages, in navigation order.
var Sections = []string{
	"welcome", "check-in", "rules", "how-to", "issues", "emergency",
	"local", "checkout", "faqs", "social", "print", "reviews",
}

func IsSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}
