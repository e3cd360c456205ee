package status

import (
	"context"
	"errors"
	"testing"
	"time"

	"laborpay/internal/domain/auth"
)

type fixedIdentity struct {
	identity auth.Identity
	err      error
}

func (f fixedIdentity) CurrentIdentity(context.Context) (auth.Identity, error) {
	return f.identity, f.err
}

type blockingIdentity struct{}

func (blockingIdentity) CurrentIdentity(ctx context.Context) (auth.Identity, error) {
	<-ctx.Done()
	return auth.Identity{}, ctx.Err()
}

type profileMap map[string]auth.Profile

func (p profileMap) GetProfileByUserID(_ context.Context, userID string) (auth.Profile, error) {
	profile, ok := p[userID]
	if !ok {
		return auth.Profile{}, auth.ErrProfileNotFound
	}
	return profile, nil
}

type lamp struct {
	ID     string
	Status light
	Owner  string
}

var errGuard = errors.New("lamp is locked")

func lampEngine(identity auth.IdentityResolver) *Engine[lamp, light] {
	return &Engine[lamp, light]{
		Machine: lightMachine(),
		Policy: Policy[light]{
			red:    {auth.RoleEmployer: {green, off}, auth.RoleWorker: {green}},
			green:  {auth.RoleEmployer: {yellow}},
			yellow: {auth.RoleEmployer: {red}},
		},
		Identity: identity,
		Profiles: profileMap{
			"u-emp":  {ID: "p-emp", UserID: "u-emp", Role: auth.RoleEmployer},
			"u-wrk":  {ID: "p-wrk", UserID: "u-wrk", Role: auth.RoleWorker},
			"u-none": {ID: "p-none", UserID: "u-none", Role: "auditor"},
		},
		Guard: func(_ context.Context, actor auth.Profile, req Request[lamp, light]) error {
			if req.Entity.Owner != "" && req.Entity.Owner != actor.ID {
				return ErrNotOwner
			}
			if req.ID == "locked" {
				return errGuard
			}
			return nil
		},
	}
}

func as(userID string) auth.IdentityResolver {
	return fixedIdentity{identity: auth.Identity{UserID: userID}}
}

func request(id string, from, to light) Request[lamp, light] {
	return Request[lamp, light]{ID: id, Entity: lamp{ID: id, Status: from}, From: from, To: to}
}

func TestApplySuccess(t *testing.T) {
	calls := 0
	persist := func(_ context.Context, req Request[lamp, light]) (lamp, error) {
		calls++
		return lamp{ID: req.ID, Status: req.To}, nil
	}
	res, err := lampEngine(as("u-emp")).Apply(context.Background(), request("l1", red, green), persist)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entity.Status != green || res.Actor.ID != "p-emp" || calls != 1 {
		t.Fatalf("unexpected result %+v after %d writes", res, calls)
	}
}

func TestApplyCheckOrder(t *testing.T) {
	cases := []struct {
		name     string
		identity auth.IdentityResolver
		req      Request[lamp, light]
		want     []error
	}{
		{"missing id beats bad table", as("u-emp"), request("", green, red), []error{ErrMissingIdentifier}},
		{"table before identity", fixedIdentity{err: auth.ErrNoSession}, request("l1", green, red), []error{ErrInvalidTransition}},
		{"unknown current status", as("u-emp"), request("l1", "blue", red), []error{ErrInvalidTransition}},
		{"no identity", fixedIdentity{err: auth.ErrNoSession}, request("l1", red, green), []error{ErrUnauthenticated, auth.ErrNoSession}},
		{"nil identity", nil, request("l1", red, green), []error{ErrUnauthenticated}},
		{"no profile", as("u-ghost"), request("l1", red, green), []error{ErrProfileUnresolved, auth.ErrProfileNotFound}},
		{"role not allowed", as("u-wrk"), request("l1", red, off), []error{ErrPreconditionFailed, ErrRoleNotAllowed}},
		{"unknown role", as("u-none"), request("l1", red, green), []error{ErrPreconditionFailed, ErrRoleNotAllowed}},
		{"guard owner", as("u-emp"), Request[lamp, light]{ID: "l1", Entity: lamp{Owner: "p-other"}, From: red, To: green}, []error{ErrPreconditionFailed, ErrNotOwner}},
		{"guard other", as("u-emp"), request("locked", red, green), []error{ErrPreconditionFailed, errGuard}},
	}

	for _, tc := range cases {
		written := false
		persist := func(_ context.Context, req Request[lamp, light]) (lamp, error) {
			written = true
			return req.Entity, nil
		}
		_, err := lampEngine(tc.identity).Apply(context.Background(), tc.req, persist)
		for _, want := range tc.want {
			if !errors.Is(err, want) {
				t.Fatalf("%s: expected %v in %v", tc.name, want, err)
			}
		}
		if written {
			t.Fatalf("%s: store must not be written on failure", tc.name)
		}
	}
}

func TestApplyPersistenceErrors(t *testing.T) {
	engine := lampEngine(as("u-emp"))
	boom := errors.New("connection reset")

	_, err := engine.Apply(context.Background(), request("l1", red, green), func(context.Context, Request[lamp, light]) (lamp, error) {
		return lamp{}, boom
	})
	if !errors.Is(err, ErrPersistence) || !errors.Is(err, boom) {
		t.Fatalf("expected ErrPersistence wrapping cause, got %v", err)
	}

	_, err = engine.Apply(context.Background(), request("l1", red, green), func(context.Context, Request[lamp, light]) (lamp, error) {
		return lamp{}, ErrStaleStatus
	})
	if !errors.Is(err, ErrStaleStatus) || errors.Is(err, ErrPersistence) {
		t.Fatalf("expected ErrStaleStatus only, got %v", err)
	}
}

func TestApplyTimeout(t *testing.T) {
	engine := lampEngine(blockingIdentity{})
	engine.Timeout = 10 * time.Millisecond

	_, err := engine.Apply(context.Background(), request("l1", red, green), func(context.Context, Request[lamp, light]) (lamp, error) {
		t.Fatal("persist must not run")
		return lamp{}, nil
	})
	if !errors.Is(err, ErrUnauthenticated) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded during identity lookup, got %v", err)
	}
}

func TestBound(t *testing.T) {
	engine := lampEngine(as("u-emp"))
	engine.Timeout = time.Minute
	ctx, cancel := engine.Bound(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	if !ok || time.Until(deadline) > time.Minute {
		t.Fatalf("expected a deadline within a minute, got %v (%v)", deadline, ok)
	}

	engine.Timeout = 0
	ctx, cancel = engine.Bound(context.Background())
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("expected no deadline without a timeout")
	}
}

func TestAvailableFor(t *testing.T) {
	engine := lampEngine(as("u-emp"))
	if got := engine.AvailableFor(auth.RoleEmployer, red); len(got) != 2 {
		t.Fatalf("expected two options for employer, got %v", got)
	}
	if got := engine.AvailableFor(auth.RoleWorker, red); len(got) != 1 || got[0] != green {
		t.Fatalf("expected only green for worker, got %v", got)
	}
	if got := engine.AvailableFor(auth.RoleWorker, green); len(got) != 0 {
		t.Fatalf("expected nothing for worker from green, got %v", got)
	}
}
