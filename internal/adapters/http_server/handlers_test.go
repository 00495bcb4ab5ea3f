package httpserver_test

import (
	"bytes"
	"context"
	"image"
	_ "image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/makiuchi-d/gozxing"
	zxqr "github.com/makiuchi-d/gozxing/qrcode"
	"golang.org/x/crypto/bcrypt"

	server "guest_manual/internal/adapters/http_server"
	"guest_manual/internal/app"
	"guest_manual/internal/domain"
	"guest_manual/internal/storage/memory"
)

const adminPassword = "letmein"

type env struct {
	t    *testing.T
	repo *memory.Repo
	h    http.Handler
	demo domain.Property
}

func newEnv(t *testing.T, opts ...func(*server.Handlers)) *env {
	t.Helper()
	ctx := context.Background()
	repo := memory.New()
	if _, err := app.Seed(ctx, repo); err != nil {
		t.Fatalf("seed: %v", err)
	}
	demo, _ := repo.GetPropertyBySlug(ctx, app.DemoSlug)

	auth, err := app.NewPasswordAuth(adminPassword, bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	views, err := server.NewRenderer(server.Brand{AppName: "Guest Manual", Primary: "#0E7C86", Accent: "#E7F5F6", Theme: "classic"})
	if err != nil {
		t.Fatalf("templates: %v", err)
	}
	h := &server.Handlers{
		Guide:    app.NewGuideService(repo, nil, time.Minute, nil),
		Admin:    app.NewAdminService(repo, nil, time.Minute),
		Auth:     auth,
		Sessions: server.NewSessionManager("test-secret", time.Hour, false),
		Views:    views,
		Limiter:  server.NewRateLimiter(100),
	}
	for _, o := range opts {
		o(h)
	}
	srv := server.New()
	srv.MountHandlers(h)
	return &env{t: t, repo: repo, h: srv.Mux(), demo: demo}
}

func (e *env) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.h.ServeHTTP(rr, req)
	return rr
}

func (e *env) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil), cookies...)
}

func (e *env) post(path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req, cookies...)
}

func cookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name && c.Value != "" {
			return c
		}
	}
	return nil
}

func (e *env) login() *http.Cookie {
	e.t.Helper()
	rr := e.post("/admin/login", url.Values{"password": {adminPassword}})
	c := cookie(rr, "gm_session")
	if rr.Code != http.StatusSeeOther || c == nil {
		e.t.Fatalf("login failed: %d", rr.Code)
	}
	return c
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, loc string) {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status %d, want 303", rr.Code)
	}
	if got := rr.Header().Get("Location"); got != loc {
		t.Fatalf("location %q, want %q", got, loc)
	}
}

// ---- public ----

func TestHome_SameAsWelcome(t *testing.T) {
	e := newEnv(t)
	home := e.get("/p/" + app.DemoSlug)
	welcome := e.get("/p/" + app.DemoSlug + "/welcome")
	if home.Code != 200 || welcome.Code != 200 {
		t.Fatalf("status %d / %d", home.Code, welcome.Code)
	}
	if home.Body.String() != welcome.Body.String() {
		t.Fatalf("home and welcome differ")
	}
	views := e.repo.PageViews()
	if len(views) != 2 || views[0].Section != "welcome" || views[1].Section != "welcome" {
		t.Fatalf("views: %+v", views)
	}
}

func TestUnknownSlug_NotFoundWithoutViews(t *testing.T) {
	e := newEnv(t)
	for _, path := range []string{
		"/p/nope", "/p/nope/rules", "/p/nope/qr.png", "/p/nope/howto/1",
		"/p/" + app.DemoSlug + "/bogus", "/p/" + app.DemoSlug + "/howto/abc",
	} {
		if rr := e.get(path); rr.Code != http.StatusNotFound {
			t.Errorf("%s: status %d", path, rr.Code)
		}
	}
	rr := e.post("/p/nope/message", url.Values{"body": {"hi"}})
	if rr.Code != http.StatusNotFound {
		t.Errorf("message to unknown slug: %d", rr.Code)
	}
	if n := len(e.repo.PageViews()); n != 0 {
		t.Fatalf("recorded %d views", n)
	}
}

func TestEverySectionRenders(t *testing.T) {
	e := newEnv(t)
	for _, s := range domain.Sections {
		rr := e.get("/p/" + app.DemoSlug + "/" + s)
		if rr.Code != http.StatusOK {
			t.Errorf("%s: status %d", s, rr.Code)
		}
	}
	if n := len(e.repo.PageViews()); n != len(domain.Sections) {
		t.Fatalf("views: %d", n)
	}
}

func TestFAQsPage(t *testing.T) {
	e := newEnv(t)
	rr := e.get("/p/" + app.DemoSlug + "/faqs")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	if n := strings.Count(body, `class="faq"`); n != 8 {
		t.Fatalf("faq entries: %d", n)
	}
	if !strings.Contains(body, "What is the Wi-Fi network and password?") || !strings.Contains(body, "VibeFI") {
		t.Fatalf("wifi faq missing")
	}
}

func TestHowToDetail(t *testing.T) {
	e := newEnv(t)
	m, _ := e.repo.GetManual(context.Background(), e.demo)
	rr := e.get("/p/" + app.DemoSlug + "/howto/" + strconv.FormatInt(m.HowTos[1].ID, 10))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Netflix") {
		t.Fatalf("status %d", rr.Code)
	}
	if n := len(e.repo.PageViews()); n != 0 {
		t.Fatalf("how-to detail recorded %d views", n)
	}
}

func TestPostMessage_DefaultCategory(t *testing.T) {
	e := newEnv(t)
	rr := e.post("/p/"+app.DemoSlug+"/message", url.Values{"name": {"Jo"}, "body": {"Help"}, "category": {""}})
	expectRedirect(t, rr, "/p/"+app.DemoSlug)
	if cookie(rr, "gm_flash") == nil {
		t.Fatalf("no flash set")
	}
	msgs := e.repo.Messages()
	if len(msgs) != 1 {
		t.Fatalf("messages: %d", len(msgs))
	}
	if m := msgs[0]; m.Name != "Jo" || m.Body != "Help" || m.Category != "General" || m.PropertyID != e.demo.ID {
		t.Fatalf("message: %+v", m)
	}
}

func TestPostMessage_RedirectsToReferer(t *testing.T) {
	e := newEnv(t)
	req := httptest.NewRequest(http.MethodPost, "/p/"+app.DemoSlug+"/message", strings.NewReader("body=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://example.com/p/"+app.DemoSlug+"/issues")
	expectRedirect(t, e.do(req), "/p/"+app.DemoSlug+"/issues")

	req = httptest.NewRequest(http.MethodPost, "/p/"+app.DemoSlug+"/message", strings.NewReader("body=hi"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "https://evil.test/phish")
	expectRedirect(t, e.do(req), "/p/"+app.DemoSlug)
}

func TestPostMessage_RateLimited(t *testing.T) {
	e := newEnv(t, func(h *server.Handlers) { h.Limiter = server.NewRateLimiter(1) })
	path := "/p/" + app.DemoSlug + "/message"
	e.post(path, url.Values{"body": {"one"}})
	rr := e.post(path, url.Values{"body": {"two"}})
	expectRedirect(t, rr, "/p/"+app.DemoSlug)
	if n := len(e.repo.Messages()); n != 1 {
		t.Fatalf("messages: %d", n)
	}
	next := e.get("/p/"+app.DemoSlug, cookie(rr, "gm_flash"))
	if !strings.Contains(next.Body.String(), "Too many messages") {
		t.Fatalf("limit notice not shown")
	}
}

func postFrom(e *env, path, forwardedFor, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(url.Values{"body": {body}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Forwarded-For", forwardedFor)
	return e.do(req)
}

func TestPostMessage_RateLimitIgnoresForwardedFor(t *testing.T) {
	e := newEnv(t, func(h *server.Handlers) { h.Limiter = server.NewRateLimiter(1) })
	path := "/p/" + app.DemoSlug + "/message"
	for i := 0; i < 20; i++ {
		rr := postFrom(e, path, "10.0.0."+strconv.Itoa(i), "hello")
		expectRedirect(t, rr, "/p/"+app.DemoSlug)
	}
	if n := len(e.repo.Messages()); n != 1 {
		t.Fatalf("stored messages: %d", n)
	}
}

func TestPostMessage_RateLimitPerClientBehindTrustedProxy(t *testing.T) {
	e := newEnv(t, func(h *server.Handlers) {
		h.Limiter = server.NewRateLimiter(1)
		h.TrustProxy = true
	})
	path := "/p/" + app.DemoSlug + "/message"
	postFrom(e, path, "10.0.0.1", "a")
	postFrom(e, path, "10.0.0.1", "b")
	postFrom(e, path, "10.0.0.2", "c")
	if n := len(e.repo.Messages()); n != 2 {
		t.Fatalf("stored messages: %d", n)
	}

	req := httptest.NewRequest(http.MethodGet, "/p/"+app.DemoSlug+"/rules", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9")
	e.do(req)
	views := e.repo.PageViews()
	if last := views[len(views)-1]; last.IP != "203.0.113.9" {
		t.Fatalf("view ip %q", last.IP)
	}
}

func TestPostMessage_UnknownSlugWhileLimited(t *testing.T) {
	e := newEnv(t, func(h *server.Handlers) { h.Limiter = server.NewRateLimiter(1) })
	e.post("/p/"+app.DemoSlug+"/message", url.Values{"body": {"one"}})
	if rr := e.post("/p/nope/message", url.Values{"body": {"two"}}); rr.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rr.Code)
	}
	if n := len(e.repo.Messages()); n != 1 {
		t.Fatalf("messages: %d", n)
	}
}

func decodeQR(t *testing.T, png []byte) string {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(png))
	if err != nil {
		t.Fatalf("png: %v", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	res, err := zxqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	return res.GetText()
}

func TestQRCode(t *testing.T) {
	e := newEnv(t)
	rr := e.get("/p/" + app.DemoSlug + "/qr.png")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("status %d type %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	// httptest requests arrive on example.com
	if got := decodeQR(t, rr.Body.Bytes()); got != "http://example.com/p/"+app.DemoSlug {
		t.Fatalf("payload %q", got)
	}

	forwarded := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/p/"+app.DemoSlug+"/qr.png", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		return req
	}
	// forwarded headers count only behind a trusted proxy
	if got := decodeQR(t, e.do(forwarded()).Body.Bytes()); got != "http://example.com/p/"+app.DemoSlug {
		t.Fatalf("untrusted forwarded payload %q", got)
	}
	e = newEnv(t, func(h *server.Handlers) { h.TrustProxy = true })
	if got := decodeQR(t, e.do(forwarded()).Body.Bytes()); got != "https://example.com/p/"+app.DemoSlug {
		t.Fatalf("forwarded payload %q", got)
	}

	e = newEnv(t, func(h *server.Handlers) { h.BaseURL = "https://guide.example.org" })
	if got := decodeQR(t, e.get("/p/"+app.DemoSlug+"/qr.png").Body.Bytes()); got != "https://guide.example.org/p/"+app.DemoSlug {
		t.Fatalf("configured payload %q", got)
	}
}

// ---- admin ----

func TestAdmin_RedirectsWithoutSession(t *testing.T) {
	e := newEnv(t)
	pid := strconv.FormatInt(e.demo.ID, 10)
	faqs := e.repo.RecordCount(domain.KindFAQ, e.demo.ID)

	expectRedirect(t, e.get("/admin"), "/admin/login")
	expectRedirect(t, e.get("/admin/property/"+pid+"/manage"), "/admin/login")
	expectRedirect(t, e.post("/admin/"+pid+"/faq", url.Values{"q": {"x"}}), "/admin/login")
	expectRedirect(t, e.post("/admin/property/"+pid+"/delete", nil), "/admin/login")
	expectRedirect(t, e.post("/admin/property/new", url.Values{"slug": {"x"}}), "/admin/login")

	m, _ := e.repo.GetManual(context.Background(), e.demo)
	expectRedirect(t, e.post("/admin/faq/"+strconv.FormatInt(m.FAQs[0].ID, 10)+"/delete", nil), "/admin/login")

	if n := e.repo.RecordCount(domain.KindFAQ, e.demo.ID); n != faqs {
		t.Fatalf("faqs changed: %d -> %d", faqs, n)
	}
	if n, _ := e.repo.CountProperties(context.Background()); n != 1 {
		t.Fatalf("properties: %d", n)
	}
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	for _, pw := range []string{"", "admin", adminPassword + " "} {
		rr := e.post("/admin/login", url.Values{"password": {pw}})
		if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Wrong password") {
			t.Fatalf("%q: status %d", pw, rr.Code)
		}
		if cookie(rr, "gm_session") != nil {
			t.Fatalf("%q: session issued", pw)
		}
	}

	rr := e.post("/admin/login", url.Values{"password": {adminPassword}})
	expectRedirect(t, rr, "/admin")
	sess := cookie(rr, "gm_session")
	if sess == nil || !sess.HttpOnly {
		t.Fatalf("session cookie: %+v", sess)
	}
	if dash := e.get("/admin", sess); dash.Code != http.StatusOK || !strings.Contains(dash.Body.String(), e.demo.Name) {
		t.Fatalf("dashboard: %d", dash.Code)
	}

	out := e.get("/admin/logout", sess)
	expectRedirect(t, out, "/")
	var cleared bool
	for _, c := range out.Result().Cookies() {
		cleared = cleared || (c.Name == "gm_session" && c.MaxAge < 0)
	}
	if !cleared {
		t.Fatalf("logout did not clear the session")
	}
	// a copy of the old cookie no longer authenticates
	expectRedirect(t, e.get("/admin", sess), "/admin/login")
	fresh := e.login()
	if dash := e.get("/admin", fresh); dash.Code != http.StatusOK {
		t.Fatalf("new session after logout: %d", dash.Code)
	}
}

func TestAdmin_ForgedSession(t *testing.T) {
	e := newEnv(t)
	other := server.NewSessionManager("another-secret", time.Hour, false)
	rr := httptest.NewRecorder()
	if err := other.Issue(rr); err != nil {
		t.Fatal(err)
	}
	expectRedirect(t, e.get("/admin", cookie(rr, "gm_session")), "/admin/login")
	expectRedirect(t, e.get("/admin", &http.Cookie{Name: "gm_session", Value: "garbage"}), "/admin/login")
}

func TestDashboard_ViewCount(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		e.repo.AddPageView(ctx, domain.PageView{PropertyID: e.demo.ID, Section: "rules", CreatedAt: now.Add(-time.Duration(i) * time.Hour)})
	}
	rr := e.get("/admin", e.login())
	if !strings.Contains(rr.Body.String(), `<td class="views">3</td>`) {
		t.Fatalf("expected 3 views in dashboard")
	}
}

func TestAdmin_PropertyLifecycle(t *testing.T) {
	e := newEnv(t)
	sess := e.login()

	if rr := e.get("/admin/property/new", sess); rr.Code != http.StatusOK {
		t.Fatalf("new form: %d", rr.Code)
	}
	rr := e.post("/admin/property/new", url.Values{"slug": {"loft"}, "name": {" Loft "}}, sess)
	expectRedirect(t, rr, "/admin")
	loft, err := e.repo.GetPropertyBySlug(context.Background(), "loft")
	if err != nil || loft.Name != "Loft" {
		t.Fatalf("created: %+v %v", loft, err)
	}

	// duplicate slug re-renders the form
	rr = e.post("/admin/property/"+strconv.FormatInt(loft.ID, 10), url.Values{"slug": {app.DemoSlug}, "name": {"Loft"}}, sess)
	if rr.Code != http.StatusConflict || !strings.Contains(rr.Body.String(), "already used") {
		t.Fatalf("duplicate slug: %d", rr.Code)
	}

	if rr := e.get("/admin/property/9999", sess); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown edit: %d", rr.Code)
	}
	if rr := e.post("/admin/property/9999", url.Values{"slug": {"x"}}, sess); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown save: %d", rr.Code)
	}

	rr = e.post("/admin/property/"+strconv.FormatInt(e.demo.ID, 10)+"/delete", nil, sess)
	expectRedirect(t, rr, "/admin")
	for _, k := range domain.Kinds {
		if n := e.repo.RecordCount(k, e.demo.ID); n != 0 {
			t.Errorf("%s left: %d", k, n)
		}
	}
	if rr := e.get("/p/" + app.DemoSlug); rr.Code != http.StatusNotFound {
		t.Fatalf("deleted slug still resolves: %d", rr.Code)
	}
	if rr := e.post("/admin/property/"+strconv.FormatInt(e.demo.ID, 10)+"/delete", nil, sess); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", rr.Code)
	}
}

func TestAdmin_ChildRecords(t *testing.T) {
	e := newEnv(t)
	sess := e.login()
	pid := strconv.FormatInt(e.demo.ID, 10)
	manage := "/admin/property/" + pid + "/manage"

	rr := e.post("/admin/"+pid+"/faq", url.Values{"q": {"Towels?"}, "a": {"In the bathroom"}}, sess)
	expectRedirect(t, rr, manage)
	page := e.get(manage, sess, cookie(rr, "gm_flash"))
	if page.Code != http.StatusOK || !strings.Contains(page.Body.String(), "FAQ added") || !strings.Contains(page.Body.String(), "Towels?") {
		t.Fatalf("manage page after add: %d", page.Code)
	}
	if n := e.repo.RecordCount(domain.KindFAQ, e.demo.ID); n != 9 {
		t.Fatalf("faqs: %d", n)
	}

	expectRedirect(t, e.post("/admin/"+pid+"/issue", url.Values{"category": {"Heating"}}, sess), manage)
	if n := e.repo.RecordCount(domain.KindIssue, e.demo.ID); n != 5 {
		t.Fatalf("issues: %d", n)
	}

	if rr := e.post("/admin/"+pid+"/pets", url.Values{}, sess); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown kind: %d", rr.Code)
	}
	if rr := e.post("/admin/9999/rule", url.Values{}, sess); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown property: %d", rr.Code)
	}

	m, _ := e.repo.GetManual(context.Background(), e.demo)
	id := strconv.FormatInt(m.Locals[0].ID, 10)
	expectRedirect(t, e.post("/admin/local/"+id+"/delete", nil, sess), manage)
	if n := e.repo.RecordCount(domain.KindLocal, e.demo.ID); n != 15 {
		t.Fatalf("locals: %d", n)
	}
	if rr := e.post("/admin/local/"+id+"/delete", nil, sess); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", rr.Code)
	}
}

func TestHealthz(t *testing.T) {
	e := newEnv(t)
	if rr := e.get("/healthz"); rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("healthz: %d %q", rr.Code, rr.Body.String())
	}
}

func TestIndex_ListsProperties(t *testing.T) {
	e := newEnv(t)
	rr := e.get("/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `href="/p/`+app.DemoSlug+`"`) {
		t.Fatalf("demo property not linked")
	}
	if len(e.repo.PageViews()) != 0 {
		t.Fatalf("index must not record views")
	}
}
