package screens

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hirelink/internal/api"
	"hirelink/internal/errors"
	"hirelink/internal/gateway"
	"hirelink/internal/guard"
	"hirelink/internal/lifecycle"
	"hirelink/internal/navigation"
	"hirelink/internal/session"
	"hirelink/internal/storage"
	"hirelink/internal/types"
	"hirelink/internal/validation"
)

const (
	aliceLogin = `{"access_token":"tok123","token_type":"bearer","role":"candidate","name":"Alice","username":"alice","email":"a@x.com","phone_no":"555"}`
	hanaLogin  = `{"access_token":"tokhr","token_type":"bearer","role":"hr","name":"Hana","username":"hana","email":"h@x.com","phone_no":"556"}`
	jobsBody   = `[{"job_id":"j1","hr_username":"hana","job_title":"Go Developer","job_description":"Build services","status":"Open"},` +
		`{"job_id":"j2","hr_username":"hana","job_title":"Designer","job_description":"Draw","status":"Open"}]`
)

var minimalPDF = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<<>>\n%%EOF\n")

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
}

func (f *memFiles) WriteBytes(path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = append([]byte(nil), data...)
	return nil
}

type env struct {
	app   *App
	store *session.Store
	files *memFiles

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	auth     map[string]string
	count    atomic.Int32
}

// handle registers the API response for a path below /api/.
func (e *env) handle(path string, h http.HandlerFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers["/api/"+path] = h
}

func (e *env) callCount() int { return int(e.count.Load()) }

func (e *env) authFor(path string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.auth["/api/"+path]
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		files:    &memFiles{files: map[string][]byte{}},
		handlers: map[string]http.HandlerFunc{},
		auth:     map[string]string{},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.count.Add(1)
		e.mu.Lock()
		e.auth[r.URL.EscapedPath()] = r.Header.Get("Authorization")
		h, ok := e.handlers[r.URL.EscapedPath()]
		e.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	db, err := storage.Open(context.Background(), filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	e.store = session.FromDB(db, session.Options{})

	gw, err := gateway.New(e.store, gateway.Options{BaseURL: srv.URL + "/api/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	client := api.New(gw)

	e.app = New(Deps{
		Navigator:   navigation.New(context.Background(), nil),
		Guard:       guard.New(e.store, nil, nil),
		Lifecycle:   lifecycle.New(context.Background(), client, e.store, lifecycle.Options{}),
		Session:     e.store,
		API:         client,
		Files:       e.files,
		DownloadDir: "downloads",
	})
	return e
}

func body(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, s)
	}
}

func status(code int, s string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_, _ = io.WriteString(w, s)
	}
}

func (e *env) login(t *testing.T, response string) {
	t.Helper()
	e.handle(api.PathLogin, body(response))
	_, err := e.app.Login(context.Background(), types.LoginInput{Username: "u", Password: "pw"})
	require.NoError(t, err)
}

func writePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(path, minimalPDF, 0o600))
	return path
}

func TestProtectedRoute_AnonymousThenLogin(t *testing.T) {
	e := newEnv(t)
	e.handle(api.PathGetJobs, body(jobsBody))
	ctx := context.Background()

	_, err := e.app.CandidateJobs(ctx, JobQuery{})
	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, guard.RouteLogin, redirect.To)
	assert.Equal(t, guard.RouteLogin, e.app.Navigator().Current())
	assert.Zero(t, e.callCount(), "a denied mount must not call the API")

	e.handle(api.PathLogin, body(aliceLogin))
	view, err := e.app.Login(ctx, types.LoginInput{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, guard.RouteCandidate, view.Route)
	assert.Equal(t, "alice", view.Profile.Username)

	jobs, err := e.app.CandidateJobs(ctx, JobQuery{})
	require.NoError(t, err)
	assert.Len(t, jobs.Jobs, 2)
	assert.Equal(t, "Bearer tok123", e.authFor(api.PathGetJobs))
	assert.Empty(t, e.authFor(api.PathLogin))
}

func TestRoleMismatch_RedirectsToDashboard(t *testing.T) {
	e := newEnv(t)
	e.login(t, aliceLogin)
	before := e.callCount()

	_, err := e.app.HRJobs(context.Background(), JobQuery{})
	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, guard.RouteDashboard, redirect.To)
	assert.Equal(t, guard.RouteDashboard, e.app.Navigator().Current())
	assert.Equal(t, before, e.callCount())
}

func TestSessionRejected_ForcesLogout(t *testing.T) {
	e := newEnv(t)
	e.login(t, aliceLogin)
	e.handle(api.PathGetJobs, status(http.StatusUnauthorized, `{"detail":"Could not validate credentials"}`))
	ctx := context.Background()

	_, err := e.app.CandidateJobs(ctx, JobQuery{})
	require.ErrorIs(t, err, errors.ErrSessionInvalidated)

	_, ok := e.store.Credential(ctx)
	assert.False(t, ok)
	p, err := e.store.Profile(ctx)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.Equal(t, navigation.ForcedRecoveryRoute, e.app.Navigator().Current())
	assert.Equal(t, lifecycle.Anonymous, e.app.Lifecycle().State())

	_, err = e.app.CandidateJobs(ctx, JobQuery{})
	var redirect *RedirectError
	assert.ErrorAs(t, err, &redirect)
}

func TestCandidateJobs_FailureShowsDetail(t *testing.T) {
	e := newEnv(t)
	e.login(t, aliceLogin)
	e.handle(api.PathGetJobs, status(http.StatusInternalServerError, `{"detail":"database down"}`))

	_, err := e.app.CandidateJobs(context.Background(), JobQuery{})
	require.Error(t, err)
	assert.Equal(t, "database down", errors.Message(err, ""))

	e.handle(api.PathGetJobs, status(http.StatusInternalServerError, `oops`))
	_, err = e.app.CandidateJobs(context.Background(), JobQuery{})
	assert.Equal(t, MsgFetchJobsFailed, errors.Message(err, ""))
}

func TestCandidateJobs_SearchAndTruncate(t *testing.T) {
	e := newEnv(t)
	e.login(t, aliceLogin)
	long := strings.Repeat("a", 300)
	e.handle(api.PathGetJobs, body(`[{"job_id":"j1","job_title":"Senior GO Developer","job_description":"`+long+`","status":"Open"},`+
		`{"job_id":"j2","job_title":"Designer","status":"Open"}]`))
	ctx := context.Background()

	view, err := e.app.CandidateJobs(ctx, JobQuery{Search: "go"})
	require.NoError(t, err)
	require.Len(t, view.Jobs, 1)
	assert.Equal(t, "j1", view.Jobs[0].JobID)
	assert.Equal(t, strings.Repeat("a", DescriptionLimit)+"...", view.Jobs[0].JobDescription)

	view, err = e.app.CandidateJobs(ctx, JobQuery{Search: "go", Full: true})
	require.NoError(t, err)
	assert.Equal(t, long, view.Jobs[0].JobDescription)

	view, err = e.app.CandidateJobs(ctx, JobQuery{Search: "nurse"})
	require.NoError(t, err)
	assert.Empty(t, view.Jobs)
	assert.Equal(t, MsgNoJobs, view.Message)
}

func TestCandidateJobs_StaleResponseDiscarded(t *testing.T) {
	e := newEnv(t)
	e.login(t, aliceLogin)
	arrived := make(chan struct{})
	e.handle(api.PathGetJobs, func(w http.ResponseWriter, r *http.Request) {
		close(arrived)
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		_, _ = io.WriteString(w, jobsBody)
	})

	done := make(chan error, 1)
	go func() {
		_, err := e.app.CandidateJobs(context.Background(), JobQuery{})
		done <- err
	}()

	<-arrived
	e.app.Navigator().Navigate(guard.RouteChat)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrScreenLeft)
	case <-time.After(5 * time.Second):
		t.Fatal("screen did not return after the user left")
	}
	assert.Equal(t, guard.RouteChat, e.app.Navigator().Current())
}

func TestHRJobs_RequiresCredential(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	require.NoError(t, e.store.SetProfile(ctx, types.UserProfile{Username: "hana", Role: types.RoleHR}))

	_, err := e.app.HRJobs(ctx, JobQuery{})
	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, guard.RouteLogin, redirect.To)
	assert.Equal(t, MsgUnauthorized, redirect.Message)
	assert.Zero(t, e.callCount())
}

func TestHRJobs_Lists(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	e.handle(api.PathHRJobs, body(jobsBody))

	view, err := e.app.HRJobs(context.Background(), JobQuery{})
	require.NoError(t, err)
	assert.Len(t, view.Jobs, 2)
	assert.Equal(t, "hana", view.Profile.Username)
	assert.Equal(t, "Bearer tokhr", e.authFor(api.PathHRJobs))
}

func TestHRJobs_TruncatesShorterThanCandidateList(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	long := strings.Repeat("b", 200)
	e.handle(api.PathHRJobs, body(`[{"job_id":"j1","job_title":"SRE","job_description":"`+long+`","status":"Open"}]`))
	ctx := context.Background()

	view, err := e.app.HRJobs(ctx, JobQuery{})
	require.NoError(t, err)
	require.Len(t, view.Jobs, 1)
	assert.Equal(t, strings.Repeat("b", HRDescriptionLimit)+"...", view.Jobs[0].JobDescription)

	view, err = e.app.HRJobs(ctx, JobQuery{Full: true})
	require.NoError(t, err)
	assert.Equal(t, long, view.Jobs[0].JobDescription)
}

func TestPostJob(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	e.handle(api.PathPostJob, body(`{"job_id":"j9","job_title":"SRE","status":"Open","skills_required":["go","k8s"]}`))
	ctx := context.Background()

	_, err := e.app.PostJob(ctx, JobForm{JobTitle: "SRE"})
	assert.Equal(t, validation.MsgFillAllFields, errors.Message(err, ""))

	view, err := e.app.PostJob(ctx, JobForm{
		JobTitle: "SRE", JobDescription: "Keep it up", Skills: "go, k8s",
		Location: "Remote", ExperienceRequired: "3y", SalaryRange: "100k",
	})
	require.NoError(t, err)
	assert.Equal(t, MsgJobPosted, view.Message)
	assert.Equal(t, "j9", view.Job.JobID)
}

func TestApply_FillsJobDetails(t *testing.T) {
	e := newEnv(t)
	e.login(t, aliceLogin)
	e.handle(api.PathGetJobs, body(jobsBody))
	var fields map[string]string
	e.handle(api.PathUploadResume, func(w http.ResponseWriter, r *http.Request) {
		if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			fields = map[string]string{}
			for k, v := range r.MultipartForm.Value {
				fields[k] = v[0]
			}
		}
		_, _ = io.WriteString(w, `{"file_name":"resume.pdf"}`)
	})

	view, err := e.app.Apply(context.Background(), ApplyForm{JobID: "j1", FilePath: writePDF(t)})
	require.NoError(t, err)
	assert.Equal(t, "resume.pdf", view.FileName)
	assert.Equal(t, "alice", fields["candidate_username"])
	assert.Equal(t, "hana", fields["hr_username"])
	assert.Equal(t, "Go Developer", fields["job_title"])
	assert.Equal(t, "j1", fields["job_id"])
}

func TestApply_Validation(t *testing.T) {
	e := newEnv(t)
	e.login(t, aliceLogin)
	before := e.callCount()
	ctx := context.Background()

	_, err := e.app.Apply(ctx, ApplyForm{JobID: "j1"})
	assert.Equal(t, validation.MsgSelectPDF, errors.Message(err, ""))

	text := filepath.Join(t.TempDir(), "resume.pdf")
	require.NoError(t, os.WriteFile(text, []byte("plain words"), 0o600))
	_, err = e.app.Apply(ctx, ApplyForm{JobID: "j1", FilePath: text})
	assert.Equal(t, validation.MsgOnlyPDF, errors.Message(err, ""))
	assert.Equal(t, before, e.callCount())

	e.handle(api.PathGetJobs, body(`[]`))
	_, err = e.app.Apply(ctx, ApplyForm{JobID: "missing", FilePath: writePDF(t)})
	assert.Equal(t, MsgJobNotFound, errors.Message(err, ""))
}

func TestJobResumes_FailureShowsEmptyList(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	e.handle(api.PathJobResumes+"j1", status(http.StatusInternalServerError, `{"detail":"boom"}`))

	view, err := e.app.JobResumes(context.Background(), "j1")
	require.NoError(t, err)
	assert.Empty(t, view.Applications)
	assert.Equal(t, MsgNoResumes, view.Message)
}

func TestJobResumes_SessionRejectedIsReported(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	e.handle(api.PathJobResumes+"j1", status(http.StatusUnauthorized, `{}`))

	_, err := e.app.JobResumes(context.Background(), "j1")
	require.ErrorIs(t, err, errors.ErrSessionInvalidated)
	assert.Equal(t, navigation.ForcedRecoveryRoute, e.app.Navigator().Current())
}

func TestJobResumes_Lists(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	e.handle(api.PathJobResumes+"j1", body(`[{"application_id":"a1","candidate_username":"alice","job_title":"Go Developer","filename":"cv.pdf"}]`))

	view, err := e.app.JobResumes(context.Background(), "j1")
	require.NoError(t, err)
	require.Len(t, view.Applications, 1)
	assert.Equal(t, "a1", view.Applications[0].ApplicationID)
	assert.Empty(t, view.Message)
}

func TestDownloadResume_WritesFile(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	e.handle(api.PathDownloadResume+"a1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(minimalPDF)
	})

	view, err := e.app.DownloadResume(context.Background(), "j1", "a1")
	require.NoError(t, err)
	want := filepath.Join("downloads", "resume_a1.pdf")
	assert.Equal(t, want, view.Resume.Path)
	assert.Equal(t, int64(len(minimalPDF)), view.Resume.Size)
	assert.Equal(t, minimalPDF, e.files.files[want])
}

func TestDownloadResume_Failure(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	e.handle(api.PathDownloadResume+"a1", status(http.StatusNotFound, `{"detail":"gone"}`))

	_, err := e.app.DownloadResume(context.Background(), "j1", "a1")
	assert.Equal(t, MsgDownloadFailed, errors.Message(err, ""))
	assert.Empty(t, e.files.files)
}

// leavingAPI navigates away once the resume bytes have arrived.
type leavingAPI struct {
	API
	nav *navigation.Navigator
	to  string
}

func (l *leavingAPI) DownloadResume(ctx context.Context, applicationID string) ([]byte, error) {
	data, err := l.API.DownloadResume(ctx, applicationID)
	l.nav.Navigate(l.to)
	return data, err
}

func TestDownloadResume_NotWrittenAfterLeaving(t *testing.T) {
	e := newEnv(t)
	e.login(t, hanaLogin)
	e.handle(api.PathDownloadResume+"a1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write(minimalPDF)
	})
	e.app.api = &leavingAPI{API: e.app.api, nav: e.app.Navigator(), to: guard.RouteChat}

	view, err := e.app.DownloadResume(context.Background(), "j1", "a1")
	assert.ErrorIs(t, err, ErrScreenLeft)
	assert.Nil(t, view)
	assert.Empty(t, e.files.files)
	assert.Equal(t, guard.RouteChat, e.app.Navigator().Current())
}

func TestDownloadFileName(t *testing.T) {
	assert.Equal(t, "resume_a1.pdf", DownloadFileName("a1"))
	assert.Equal(t, "resume_.._x.pdf", DownloadFileName("../x"))
}

func TestAnalyze(t *testing.T) {
	e := newEnv(t)
	e.login(t, aliceLogin)
	e.handle(api.PathGetJobs, body(jobsBody))
	var desc string
	e.handle(api.PathAnalyze, func(w http.ResponseWriter, r *http.Request) {
		if assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			desc = r.FormValue("job_desc")
		}
		_, _ = io.WriteString(w, `{"result":"Matching Skills: Go\nScore: 80%\nConclusion: Good Fit\nReason: solid"}`)
	})
	ctx := context.Background()

	_, err := e.app.Analyze(ctx, AnalyzeForm{ResumePath: writePDF(t)})
	assert.Equal(t, validation.MsgFillAllFields, errors.Message(err, ""))

	view, err := e.app.Analyze(ctx, AnalyzeForm{JobID: "j1", ResumePath: writePDF(t)})
	require.NoError(t, err)
	assert.Equal(t, "Build services", desc)
	assert.Equal(t, "80%", view.Result.Score)
	assert.True(t, view.Result.GoodFit())
}

func TestChat(t *testing.T) {
	e := newEnv(t)
	e.handle(api.PathChat, body(`{"answer":"Try the candidate dashboard."}`))
	ctx := context.Background()

	chat, err := e.app.OpenChat()
	require.NoError(t, err)
	require.Len(t, chat.History(), 1)
	assert.Equal(t, ChatGreeting, chat.History()[0].Text)

	reply, err := chat.Send(ctx, "   ")
	require.NoError(t, err)
	assert.Nil(t, reply)
	assert.Zero(t, e.callCount())

	reply, err = chat.Send(ctx, "where are jobs?")
	require.NoError(t, err)
	assert.Equal(t, "Try the candidate dashboard.", reply.Text)

	e.handle(api.PathChat, status(http.StatusInternalServerError, `{}`))
	reply, err = chat.Send(ctx, "again?")
	require.NoError(t, err)
	assert.Equal(t, MsgChatFailed, reply.Text)

	_, err = e.app.Home(ctx)
	require.NoError(t, err)
	history := e.app.Chat().History()
	require.Len(t, history, 5)
	assert.Equal(t, types.SenderUser, history[1].Sender)
	assert.Equal(t, types.SenderBot, history[4].Sender)
}

func TestLogout(t *testing.T) {
	yes := func(context.Context) (bool, error) { return true, nil }
	no := func(context.Context) (bool, error) { return false, nil }

	t.Run("confirmed", func(t *testing.T) {
		e := newEnv(t)
		e.login(t, aliceLogin)
		ctx := context.Background()

		view, err := e.app.Logout(ctx, yes)
		require.NoError(t, err)
		assert.True(t, view.LoggedOut)
		assert.Equal(t, MsgLoggedOut, view.Message)
		assert.Equal(t, guard.RouteHome, view.Route)
		assert.False(t, e.store.Authenticated(ctx))

		view, err = e.app.Logout(ctx, yes)
		require.NoError(t, err)
		assert.Equal(t, MsgNotLoggedIn, view.Message)
	})

	t.Run("cancelled", func(t *testing.T) {
		e := newEnv(t)
		e.login(t, aliceLogin)
		ctx := context.Background()

		view, err := e.app.Logout(ctx, no)
		require.NoError(t, err)
		assert.False(t, view.LoggedOut)
		assert.Equal(t, MsgLogoutCancelled, view.Message)
		assert.Equal(t, guard.RouteCandidate, view.Route)
		assert.True(t, e.store.Authenticated(ctx))
		assert.Equal(t, lifecycle.Authenticated, e.app.Lifecycle().State())
	})

	t.Run("prompt fails", func(t *testing.T) {
		e := newEnv(t)
		e.login(t, aliceLogin)
		boom := stderrors.New("no terminal")

		_, err := e.app.Logout(context.Background(), func(context.Context) (bool, error) { return false, boom })
		assert.ErrorIs(t, err, boom)
		assert.True(t, e.store.Authenticated(context.Background()))
	})
}

func TestSignup_GoesToLogin(t *testing.T) {
	e := newEnv(t)
	e.handle(api.PathSignup, body(`{"name":"Bob","username":"bob","email":"b@x.com","phone_no":"1","role":"candidate"}`))

	view, err := e.app.Signup(context.Background(), types.SignupInput{
		Name: "Bob", Username: "bob", Email: "b@x.com", PhoneNo: "1", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, MsgSignupSucceeded, view.Message)
	assert.Equal(t, guard.RouteLogin, view.Route)
	assert.False(t, e.store.Authenticated(context.Background()))
}

func TestHomeAndDashboard(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	home, err := e.app.Home(ctx)
	require.NoError(t, err)
	assert.Nil(t, home.Profile)
	assert.Equal(t, []string{guard.RouteLogin, guard.RouteSignup, guard.RouteChat}, routes(home.Links))

	_, err = e.app.Dashboard(ctx)
	var redirect *RedirectError
	require.ErrorAs(t, err, &redirect)
	assert.Equal(t, guard.RouteLogin, redirect.To)

	e.login(t, hanaLogin)
	home, err = e.app.Home(ctx)
	require.NoError(t, err)
	got := routes(home.Links)
	assert.Contains(t, got, guard.RouteHR)
	assert.Contains(t, got, guard.RouteLogout)
	assert.NotContains(t, got, guard.RouteCandidate)
	assert.NotContains(t, got, guard.RouteLogin)

	dash, err := e.app.Dashboard(ctx)
	require.NoError(t, err)
	assert.True(t, dash.Status.HasCredential)
	assert.Equal(t, "hana", dash.Status.Profile.Username)
}

func TestLogin_RejectedOverLiveSessionKeepsIt(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.login(t, aliceLogin)
	e.handle(api.PathLogin, status(http.StatusUnauthorized, `{"detail":"Incorrect username or password"}`))

	view, err := e.app.Login(ctx, types.LoginInput{Username: "mallory", Password: "nope"})
	require.Error(t, err)
	assert.Nil(t, view)
	assert.Equal(t, "Incorrect username or password", errors.Message(err, ""))
	assert.Equal(t, guard.RouteLogin, e.app.Navigator().Current())

	token, ok := e.store.Credential(ctx)
	require.True(t, ok)
	assert.Equal(t, "tok123", token)
	profile, err := e.store.Profile(ctx)
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, lifecycle.Authenticated, e.app.Lifecycle().State())
}

func TestDashboard_ReportsBreaker(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.login(t, aliceLogin)

	dash, err := e.app.Dashboard(ctx)
	require.NoError(t, err)
	assert.Nil(t, dash.API)

	e.app.breaker = (*gateway.CircuitBreaker)(nil)
	dash, err = e.app.Dashboard(ctx)
	require.NoError(t, err)
	require.NotNil(t, dash.API)
	assert.Equal(t, types.BreakerStatus{Healthy: true}, *dash.API)
}

func TestUnknownScreen(t *testing.T) {
	e := newEnv(t)
	_, _, err := e.app.mount("/nowhere")
	assert.True(t, errors.Is(err, errors.ErrorTypeValidation))
}

func routes(links []Link) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Route
	}
	return out
}
