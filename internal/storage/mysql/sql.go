package mysql

import "guest_manual/internal/domain"

const propertyColumns = `id, slug, name, address_display, map_url, checkin_time, checkout_time,
  wifi_ssid, wifi_password, COALESCE(parking, ''), quiet_hours, COALESCE(notes, ''), hero_url,
  COALESCE(gallery_urls, ''), instagram_url, facebook_url, tiktok_url, whatsapp_url,
  phone_number, email_address`

const listPropertiesSQL = `SELECT ` + propertyColumns + ` FROM properties ORDER BY name, id`

const getPropertySQL = `SELECT ` + propertyColumns + ` FROM properties WHERE id = ?`

const getPropertyBySlugSQL = `SELECT ` + propertyColumns + ` FROM properties WHERE slug = ?`

const insertPropertySQL = `
INSERT INTO properties
  (slug, name, address_display, map_url, checkin_time, checkout_time,
   wifi_ssid, wifi_password, parking, quiet_hours, notes, hero_url, gallery_urls,
   instagram_url, facebook_url, tiktok_url, whatsapp_url, phone_number, email_address)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const updatePropertySQL = `
UPDATE properties SET
  slug = ?, name = ?, address_display = ?, map_url = ?, checkin_time = ?, checkout_time = ?,
  wifi_ssid = ?, wifi_password = ?, parking = ?, quiet_hours = ?, notes = ?, hero_url = ?,
  gallery_urls = ?, instagram_url = ?, facebook_url = ?, tiktok_url = ?, whatsapp_url = ?,
  phone_number = ?, email_address = ?
WHERE id = ?
`

// childTables maps each kind to its table.
var childTables = map[domain.Kind]string{
	domain.KindContact:   "contacts",
	domain.KindRule:      "rules",
	domain.KindHowTo:     "howtos",
	domain.KindIssue:     "issue_flows",
	domain.KindEmergency: "emergencies",
	domain.KindLocal:     "local_places",
	domain.KindCheckin:   "checkin_steps",
	domain.KindCheckout:  "checkout_steps",
	domain.KindFAQ:       "faqs",
}

// -----------------------------------------------------------------------------
// CHILD RECORDS
// -----------------------------------------------------------------------------

const insertContactSQL = "INSERT INTO contacts (prop_id, `role`, name, phone, whatsapp) VALUES (?, ?, ?, ?, ?)"

const insertRuleSQL = `INSERT INTO rules (prop_id, title, description, penalty, rationale) VALUES (?, ?, ?, ?, ?)`

const insertHowToSQL = `
INSERT INTO howtos (prop_id, area, appliance, brand_model, how, manual_url, issues)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertIssueSQL = `
INSERT INTO issue_flows (prop_id, category, try_first, when_to_contact, info_needed, auto_reply)
VALUES (?, ?, ?, ?, ?, ?)`

const insertEmergencySQL = `
INSERT INTO emergencies (prop_id, etype, name, phone, when_info, address, notes)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertLocalSQL = `
INSERT INTO local_places (prop_id, category, name, blurb, address, map_link, hours, link, price)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertCheckinSQL = `
INSERT INTO checkin_steps (prop_id, step, title, body, image, video, tip)
VALUES (?, ?, ?, ?, ?, ?, ?)`

const insertCheckoutSQL = `
INSERT INTO checkout_steps (prop_id, step, title, body, notes)
VALUES (?, ?, ?, ?, ?)`

const insertFAQSQL = `INSERT INTO faqs (prop_id, question, answer, related) VALUES (?, ?, ?, ?)`

const listContactsSQL = "SELECT id, prop_id, `role`, name, phone, whatsapp FROM contacts WHERE prop_id = ? ORDER BY id"

const listRulesSQL = `
SELECT id, prop_id, title, COALESCE(description, ''), penalty, COALESCE(rationale, '')
FROM rules WHERE prop_id = ? ORDER BY id`

const howToColumns = `id, prop_id, area, appliance, brand_model, COALESCE(how, ''), manual_url, COALESCE(issues, '')`

const listHowTosSQL = `SELECT ` + howToColumns + ` FROM howtos WHERE prop_id = ? ORDER BY id`

const getHowToSQL = `SELECT ` + howToColumns + ` FROM howtos WHERE id = ?`

const listIssuesSQL = `
SELECT id, prop_id, category, COALESCE(try_first, ''), COALESCE(when_to_contact, ''),
       COALESCE(info_needed, ''), COALESCE(auto_reply, '')
FROM issue_flows WHERE prop_id = ? ORDER BY id`

const listEmergenciesSQL = `
SELECT id, prop_id, etype, name, phone, COALESCE(when_info, ''), address, COALESCE(notes, '')
FROM emergencies WHERE prop_id = ? ORDER BY id`

const listLocalsSQL = `
SELECT id, prop_id, category, name, COALESCE(blurb, ''), address, map_link, hours, link, price
FROM local_places WHERE prop_id = ? ORDER BY id`

const listCheckinSQL = `
SELECT id, prop_id, step, title, COALESCE(body, ''), image, video, COALESCE(tip, '')
FROM checkin_steps WHERE prop_id = ? ORDER BY step, id`

const listCheckoutSQL = `
SELECT id, prop_id, step, title, COALESCE(body, ''), COALESCE(notes, '')
FROM checkout_steps WHERE prop_id = ? ORDER BY step, id`

const listFAQsSQL = `
SELECT id, prop_id, question, COALESCE(answer, ''), related
FROM faqs WHERE prop_id = ? ORDER BY id`

// -----------------------------------------------------------------------------
// GUEST ACTIVITY
// -----------------------------------------------------------------------------

const insertMessageSQL = `
INSERT INTO messages (property_id, name, contact, category, body, created_at)
VALUES (?, ?, ?, ?, ?, ?)`

const listMessagesSQL = `
SELECT id, property_id, name, contact, category, COALESCE(body, ''), created_at
FROM messages WHERE property_id = ?
ORDER BY created_at DESC, id DESC
LIMIT ?`

const insertPageViewSQL = `
INSERT INTO page_views (property_id, section, user_agent, ip, created_at)
VALUES (?, ?, ?, ?, ?)`

const countViewsSinceSQL = `
SELECT property_id, COUNT(*) FROM page_views
WHERE created_at >= ?
GROUP BY property_id`

const sectionViewsSinceSQL = `
SELECT section, COUNT(*) AS n FROM page_views
WHERE property_id = ? AND created_at >= ?
GROUP BY section
ORDER BY n DESC, section`
