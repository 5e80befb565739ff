// Package attendance orchestrates the portal scraper: it owns the
// secret store, keeps an authenticated session alive between user
// actions and serializes every flow so csrf token refreshes cannot
// interleave.
package attendance

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"jobcan-assist/lib/restyutil"
	"jobcan-assist/lib/scrapers/jobcan"
	"jobcan-assist/lib/timezone"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/attendance")

type Options struct {
	AccountBaseUrl  string
	EmployeeBaseUrl string
	Timeout         time.Duration
	DebugOutput     restyutil.InstrumentOutput
}

type Service struct {
	store jobcan.SecretStore
	opts  Options

	// a single mutex guards all flows, overlapping invocations could
	// interleave csrf token refreshes and trip stale-token rejections
	mu       sync.Mutex
	sessions *expirable.LRU[string, *jobcan.Client]

	nightShift bool
}

func NewService(store jobcan.SecretStore, opts Options) *Service {
	return &Service{
		store:    store,
		opts:     opts,
		sessions: expirable.NewLRU[string, *jobcan.Client](8, nil, time.Minute*15),
	}
}

func (s *Service) newClient(ctx context.Context) (*jobcan.Client, error) {
	return jobcan.NewClient(ctx, jobcan.ClientOptions{
		AccountBaseUrl:  s.opts.AccountBaseUrl,
		EmployeeBaseUrl: s.opts.EmployeeBaseUrl,
		Timeout:         s.opts.Timeout,
		Store:           s.store,
		DebugOutput:     s.opts.DebugOutput,
	})
}

// session returns a logged-in client, reusing a cached one (and its
// cookie jar) when the previous login is recent enough.
func (s *Service) session(ctx context.Context) (*jobcan.Client, error) {
	username, err := s.store.Get(ctx, jobcan.KeyUsername)
	if err != nil {
		return nil, err
	}

	cached, hit := s.sessions.Get(username)
	if hit {
		return cached, nil
	}

	client, err := s.newClient(ctx)
	if err != nil {
		return nil, err
	}
	err = client.Login(ctx)
	if err != nil {
		return nil, err
	}

	s.sessions.Add(username, client)
	return client, nil
}

// Login performs a fresh credential login, replacing any cached
// session.
func (s *Service) Login(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	s.sessions.Purge()
	_, err := s.session(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Status reads the current attendance status from the portal. The
// result is never cached, the server is the source of truth.
func (s *Service) Status(ctx context.Context) (jobcan.StatusReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "Status")
	defer span.End()

	client, err := s.session(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return jobcan.StatusReport{}, err
	}
	report, err := client.Status(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return jobcan.StatusReport{}, err
	}
	return report, nil
}

type TouchOptions struct {
	// attendance group to record against, 0 means "use the default
	// group advertised on the landing page"
	GroupId int
	Note    string
}

// Touch performs the clock in/out action and returns the portal's
// resulting state.
func (s *Service) Touch(ctx context.Context, opts TouchOptions) (jobcan.ClockResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, span := tracer.Start(ctx, "Touch")
	defer span.End()

	client, err := s.session(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return jobcan.ClockResult{}, err
	}

	report, err := client.Status(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return jobcan.ClockResult{}, err
	}
	span.SetAttributes(attribute.String("status_before", string(report.CurrentStatus)))

	groupId := opts.GroupId
	if groupId == 0 {
		groupId = report.AditGroupId
	}

	result, err := client.Clock(ctx, jobcan.ClockRequest{
		GroupId:    groupId,
		NightShift: s.nightShift,
		Note:       opts.Note,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}

	slog.InfoContext(
		ctx, "clocked",
		"group_id", groupId,
		"status", result.CurrentStatus,
		"at", timezone.Now().Format(time.RFC3339),
	)
	return result, nil
}

// SetUsername stores the login username and drops any cached session.
func (s *Service) SetUsername(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions.Purge()
	return s.store.Set(ctx, jobcan.KeyUsername, username)
}

// SetPassword stores the login password and drops any cached session.
func (s *Service) SetPassword(ctx context.Context, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions.Purge()
	return s.store.Set(ctx, jobcan.KeyPassword, password)
}

// SetNightShift flips the process-scoped night shift flag submitted
// with every clock action. Defaults to off.
func (s *Service) SetNightShift(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nightShift = enabled
}

func (s *Service) NightShift() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nightShift
}
