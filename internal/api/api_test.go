package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/narrate/narrate/internal/auth"
	"github.com/narrate/narrate/internal/model"
	"github.com/narrate/narrate/internal/services"
	"github.com/narrate/narrate/internal/store"
)

const testToken = "test-token"
const testUserID = "tester"

var errStorage = errors.New("failed to fetch entries: connection refused")

// staticAuthorizer accepts exactly one token for one user.
type staticAuthorizer struct{}

func (staticAuthorizer) Authorize(_ context.Context, token string) (*auth.Session, error) {
	if token != testToken {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Session{UserID: testUserID}, nil
}

type staticIssuer struct{}

func (staticIssuer) IssueToken(string) (string, error) { return testToken, nil }

// memStore is an in-memory store.Store for handler tests.
type memStore struct {
	users   memUsers
	entries memEntries
}

func newMemStore() *memStore {
	return &memStore{
		users:   memUsers{byID: map[string]*model.User{}},
		entries: memEntries{},
	}
}

func (m *memStore) Users() store.Users     { return &m.users }
func (m *memStore) Entries() store.Entries { return &m.entries }

type memUsers struct {
	byID map[string]*model.User
}

func (m *memUsers) Create(_ context.Context, u *model.User) (*model.User, error) {
	if _, ok := m.byID[u.UserID]; ok {
		return nil, model.ErrConflict
	}
	cp := *u
	cp.Status = "ACTIVE"
	cp.CreationTime = time.Now().UTC()
	m.byID[u.UserID] = &cp
	return &cp, nil
}

func (m *memUsers) Get(_ context.Context, userID string) (*model.User, error) {
	if u, ok := m.byID[userID]; ok {
		return u, nil
	}
	return nil, model.ErrNotFound
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *memUsers) Delete(_ context.Context, userID string) error {
	if _, ok := m.byID[userID]; !ok {
		return model.ErrNotFound
	}
	delete(m.byID, userID)
	return nil
}

type memEntries struct {
	rows []*model.Entry
	seq  int
}

func (m *memEntries) Create(_ context.Context, e *model.Entry) (*model.Entry, error) {
	m.seq++
	cp := *e
	cp.EntryID = fmt.Sprintf("e%d", m.seq)
	if cp.CreationTime.IsZero() {
		cp.CreationTime = time.Now().UTC()
	}
	m.rows = append(m.rows, &cp)
	return &cp, nil
}

func (m *memEntries) List(_ context.Context, req model.ListEntriesRequest) ([]*model.Entry, error) {
	var out []*model.Entry
	for _, e := range m.rows {
		if e.UserID != req.UserID {
			continue
		}
		if req.Before != nil && !e.CreationTime.Before(*req.Before) {
			continue
		}
		if req.After != nil && !e.CreationTime.After(*req.After) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.After(out[j].CreationTime) })
	if req.Limit > 0 && len(out) > req.Limit {
		out = out[:req.Limit]
	}
	return out, nil
}

func (m *memEntries) ListRange(_ context.Context, userID string, start, end time.Time) ([]*model.Entry, error) {
	var out []*model.Entry
	for _, e := range m.rows {
		if e.UserID == userID && !e.CreationTime.Before(start) && !e.CreationTime.After(end) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreationTime.Before(out[j].CreationTime) })
	return out, nil
}

func (m *memEntries) CountRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	rows, err := m.ListRange(ctx, userID, start, end)
	return len(rows), err
}

func (m *memEntries) GetByID(_ context.Context, userID, entryID string) (*model.Entry, error) {
	for _, e := range m.rows {
		if e.UserID == userID && e.EntryID == entryID {
			return e, nil
		}
	}
	return nil, model.ErrNotFound
}

func (m *memEntries) DeleteByID(_ context.Context, userID, entryID string) error {
	for i, e := range m.rows {
		if e.UserID == userID && e.EntryID == entryID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return model.ErrNotFound
}

// scriptedPipeline returns canned eligibility and generation outcomes and
// counts invocations.
type scriptedPipeline struct {
	elig       model.EligibilityResult
	eligErr    error
	eligCalls  int
	genResult  *model.WeeklySummary
	genErrs    []error
	genCalls   int
	lastUserID string
}

func (p *scriptedPipeline) CheckEligibility(_ context.Context, userID string) (model.EligibilityResult, error) {
	p.eligCalls++
	p.lastUserID = userID
	return p.elig, p.eligErr
}

func (p *scriptedPipeline) GenerateSummary(_ context.Context, userID string) (*model.WeeklySummary, error) {
	p.genCalls++
	p.lastUserID = userID
	if len(p.genErrs) > 0 {
		err := p.genErrs[0]
		p.genErrs = p.genErrs[1:]
		return nil, err
	}
	return p.genResult, nil
}

func newTestRouter(s store.Store, pipeline SummaryPipeline) *mux.Router {
	return NewRouter(Deps{
		Users:      services.NewUserService(s),
		Entries:    services.NewEntryService(s),
		Pipeline:   pipeline,
		Policy:     SummaryPolicy{MaxAttempts: 3, RetryDelay: time.Millisecond, CacheTTL: time.Minute},
		Authorizer: staticAuthorizer{},
		Issuer:     staticIssuer{},
		Log:        zerolog.Nop(),
	})
}

func doRequest(router http.Handler, req *http.Request, withToken bool) *httptest.ResponseRecorder {
	if withToken {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}
