package application

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/bnema/campus-cli/internal/domain"
	"github.com/bnema/campus-cli/internal/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type backendCall struct {
	Method string
	Path   string
	Body   any
}

type routeFunc func(body any) (any, error)

// fakeBackend answers from a route table keyed by "METHOD path". Unknown routes are unreachable.
type fakeBackend struct {
	mu     sync.Mutex
	routes map[string]routeFunc
	calls  []backendCall
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{routes: map[string]routeFunc{}}
}

func (b *fakeBackend) on(method, path string, fn routeFunc) *fakeBackend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[method+" "+path] = fn
	return b
}

func (b *fakeBackend) reply(method, path string, payload any) *fakeBackend {
	return b.on(method, path, func(any) (any, error) { return payload, nil })
}

func (b *fakeBackend) fail(method, path string, err error) *fakeBackend {
	return b.on(method, path, func(any) (any, error) { return nil, err })
}

func (b *fakeBackend) Calls() []backendCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]backendCall{}, b.calls...)
}

func (b *fakeBackend) Get(ctx context.Context, path string, out any) error {
	return b.do(ctx, http.MethodGet, path, nil, out)
}

func (b *fakeBackend) Post(ctx context.Context, path string, body any, out any) error {
	return b.do(ctx, http.MethodPost, path, body, out)
}

func (b *fakeBackend) Put(ctx context.Context, path string, body any, out any) error {
	return b.do(ctx, http.MethodPut, path, body, out)
}

func (b *fakeBackend) Delete(ctx context.Context, path string, out any) error {
	return b.do(ctx, http.MethodDelete, path, nil, out)
}

func (b *fakeBackend) do(_ context.Context, method, path string, body any, out any) error {
	op := method + " " + path

	b.mu.Lock()
	b.calls = append(b.calls, backendCall{Method: method, Path: path, Body: body})
	route, ok := b.routes[op]
	b.mu.Unlock()

	if !ok {
		return domain.NewError(domain.KindNetworkUnreachable, op, "connection refused")
	}

	payload, err := route(body)
	if err != nil {
		return err
	}
	if out == nil || payload == nil {
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

type memoryState struct {
	mu      sync.Mutex
	entries map[string]string
	puts    int
}

func newMemoryState() *memoryState {
	return &memoryState{entries: map[string]string{}}
}

func (s *memoryState) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, ok := s.entries[key]
	if !ok {
		return "", domain.ErrStateNotFound
	}
	return value, nil
}

func (s *memoryState) Put(_ context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
	s.puts++
	return nil
}

func (s *memoryState) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

type memorySecrets struct {
	memoryState
}

func newMemorySecrets() *memorySecrets {
	return &memorySecrets{memoryState: memoryState{entries: map[string]string{}}}
}

func (s *memorySecrets) Get(ctx context.Context, key string) (string, error) {
	value, err := s.memoryState.Get(ctx, key)
	if err != nil {
		return "", domain.ErrSecretNotFound
	}
	return value, nil
}

type staticIdentity struct {
	user domain.User
}

func (i staticIdentity) CurrentUser(context.Context) (domain.User, bool) {
	return i.user, i.user.Identified()
}

var student = domain.User{ID: "u-1", Email: "ada@stanford.edu", Name: "Ada", Role: domain.RoleStudent}

func observedLogger(t *testing.T) (*log.Logger, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	return log.FromZap(zap.New(core)), logs
}
