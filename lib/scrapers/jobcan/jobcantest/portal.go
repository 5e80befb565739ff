// Package jobcantest runs a fake attendance portal over httptest for
// exercising the scraper without the real host.
package jobcantest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

const sessionCookieName = "jobcan_session"

type Portal struct {
	Server *httptest.Server

	Username  string
	Password  string
	AditToken string
	GroupId   int
	// status embedded in the employee page payload
	CurrentStatus string
	// raw json body returned by the clock endpoint
	ClockResponse string
	// render an OTP challenge instead of the authenticated page
	RequireOTP bool
	// leave the status payload off the employee page
	OmitStatusBlock bool

	mu            sync.Mutex
	csrfCount     int
	lastCsrf      string
	sessionValue  string
	totalRequests int

	landingFetches int
	signInPosts    int
	clockForms     []url.Values
	clockCookies   []string
	clockCsrfs     []string
}

func NewPortal() *Portal {
	p := &Portal{
		Username:      "test@example.net",
		Password:      "hunter2",
		AditToken:     "adit-token-1",
		GroupId:       3,
		CurrentStatus: "resting",
		ClockResponse: `{"result":1,"state":1,"current_status":"working"}`,
		sessionValue:  "session-value-1",
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /users/sign_in", p.handleSignInPage)
	mux.HandleFunc("POST /users/sign_in", p.handleSignInSubmit)
	mux.HandleFunc("GET /employee", p.handleEmployeePage)
	mux.HandleFunc("POST /employee/index/adit", p.handleAdit)

	p.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.mu.Lock()
		p.totalRequests++
		p.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	return p
}

func (p *Portal) Close() {
	p.Server.Close()
}

func (p *Portal) BaseUrl() string {
	return p.Server.URL
}

func (p *Portal) TotalRequests() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.totalRequests
}

func (p *Portal) LandingFetches() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.landingFetches
}

func (p *Portal) SignInPosts() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.signInPosts
}

func (p *Portal) ClockForms() []url.Values {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clockForms
}

// session cookie value observed on each clock request
func (p *Portal) ClockCookies() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clockCookies
}

// X-CSRF-Token header observed on each clock request
func (p *Portal) ClockCsrfs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clockCsrfs
}

// LastCsrf is the most recently issued csrf token.
func (p *Portal) LastCsrf() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastCsrf
}

func (p *Portal) nextCsrf() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.csrfCount++
	p.lastCsrf = fmt.Sprintf("csrf-%d", p.csrfCount)
	return p.lastCsrf
}

func (p *Portal) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	writePage(w, loginPage(p.nextCsrf()))
}

func (p *Portal) handleSignInSubmit(w http.ResponseWriter, r *http.Request) {
	p.mu.Lock()
	p.signInPosts++
	expectedCsrf := p.lastCsrf
	p.mu.Unlock()

	r.ParseForm()
	staleToken := r.PostForm.Get("authenticity_token") != expectedCsrf
	wrongCreds := r.PostForm.Get("user[email]") != p.Username ||
		r.PostForm.Get("user[password]") != p.Password
	if staleToken || wrongCreds {
		writePage(w, loginPage(p.nextCsrf()))
		return
	}

	if p.RequireOTP {
		writePage(w, otpPage(p.nextCsrf()))
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:  sessionCookieName,
		Value: p.sessionValue,
		Path:  "/",
	})
	writePage(w, myPage(p.nextCsrf()))
}

func (p *Portal) authenticated(r *http.Request) bool {
	cookie, err := r.Cookie(sessionCookieName)
	return err == nil && cookie.Value == p.sessionValue
}

func (p *Portal) handleEmployeePage(w http.ResponseWriter, r *http.Request) {
	if !p.authenticated(r) {
		writePage(w, loginPage(p.nextCsrf()))
		return
	}
	p.mu.Lock()
	p.landingFetches++
	p.mu.Unlock()
	writePage(w, p.employeePage())
}

func (p *Portal) handleAdit(w http.ResponseWriter, r *http.Request) {
	if !p.authenticated(r) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.ParseForm()
	cookie, _ := r.Cookie(sessionCookieName)

	p.mu.Lock()
	p.clockForms = append(p.clockForms, r.PostForm)
	p.clockCookies = append(p.clockCookies, cookie.Value)
	p.clockCsrfs = append(p.clockCsrfs, r.Header.Get("X-CSRF-Token"))
	p.mu.Unlock()

	w.Header().Set("content-type", "application/json")
	fmt.Fprint(w, p.ClockResponse)
}

func writePage(w http.ResponseWriter, markup string) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	fmt.Fprint(w, markup)
}

func loginPage(csrf string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta name="csrf-token" content="%s">
<title>ログイン | ジョブカン共通ID</title>
</head>
<body>
<form action="/users/sign_in" method="post">
<input type="email" name="user[email]" value="">
<input type="password" name="user[password]" value="">
</form>
</body>
</html>`, csrf)
}

func otpPage(csrf string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta name="csrf-token" content="%s">
<title>2段階認証 | ジョブカン共通ID</title>
</head>
<body>
<form action="/users/sign_in" method="post">
<input type="text" name="user[otp_attempt]" value="">
</form>
</body>
</html>`, csrf)
}

func myPage(csrf string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta name="csrf-token" content="%s">
<title>JOBCAN MyPage: ダッシュボード</title>
</head>
<body>
<p>ようこそ</p>
</body>
</html>`, csrf)
}

func (p *Portal) employeePage() string {
	statusBlock := fmt.Sprintf(`<script type="text/javascript">
$(function () {
	load_adit_params({"adit_group_id": %d, "current_status": "%s"});
});
</script>`, p.GroupId, p.CurrentStatus)
	if p.OmitStatusBlock {
		statusBlock = ""
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<title>勤怠 | ジョブカン</title>
</head>
<body>
<form id="adit-form">
<input type="hidden" name="token" value="%s">
<input type="hidden" name="notice" value="">
</form>
%s
</body>
</html>`, p.AditToken, statusBlock)
}

// Store is an in-memory SecretStore for tests.
type Store struct {
	mu sync.Mutex
	m  map[string]string
}

func NewStore() *Store {
	return &Store{m: map[string]string{}}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.m[key], nil
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
