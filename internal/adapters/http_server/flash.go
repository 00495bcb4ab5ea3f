package httpserver

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const flashCookie = "gm_flash"

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind string `json:"k"` // ok|error
	Text string `json:"t"`
}

func setFlash(w http.ResponseWriter, kind, text string) {
	b, _ := json.Marshal([]Flash{{Kind: kind, Text: text}})
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes reads and clears pending notices.
func popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var out []Flash
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
