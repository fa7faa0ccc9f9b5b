package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quocvuong92/devos-ai/internal/api"
	"github.com/quocvuong92/devos-ai/internal/config"
	"github.com/quocvuong92/devos-ai/internal/constants"
	"github.com/quocvuong92/devos-ai/internal/executor"
	"github.com/quocvuong92/devos-ai/internal/logging"
	"github.com/quocvuong92/devos-ai/internal/render"
	"github.com/quocvuong92/devos-ai/internal/settings"
)

// MockAIClient implements api.AIClient for testing
type MockAIClient struct {
	response *api.ChatResponse
	err      error
	requests []api.CompletionRequest
}

func (m *MockAIClient) SetResponse(content string) {
	m.response = &api.ChatResponse{
		ID: "test-response",
		Choices: []api.Choice{{
			Message: api.Message{Role: api.RoleAssistant, Content: content},
		}},
		Usage: api.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30},
	}
}

func (m *MockAIClient) Complete(ctx context.Context, req api.CompletionRequest) (*api.ChatResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockAIClient) lastRequest(t *testing.T) api.CompletionRequest {
	t.Helper()
	require.NotEmpty(t, m.requests, "no completion request was sent")
	return m.requests[len(m.requests)-1]
}

type fakeSearch struct {
	resp    *api.SearchResponse
	err     error
	queries []string
}

func (f *fakeSearch) Search(ctx context.Context, query string) (*api.SearchResponse, error) {
	f.queries = append(f.queries, query)
	return f.resp, f.err
}

type fakeFetcher struct {
	text string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.text, f.err
}

type fakeProcesses struct {
	procs   []executor.ProcessInfo
	err     error
	opened  []string
	killed  []string
	killN   int
	panicky bool
}

func (f *fakeProcesses) List(ctx context.Context) ([]executor.ProcessInfo, error) {
	if f.panicky {
		panic("process table exploded")
	}
	return f.procs, f.err
}

func (f *fakeProcesses) Open(ctx context.Context, name string) error {
	f.opened = append(f.opened, name)
	return f.err
}

func (f *fakeProcesses) Kill(ctx context.Context, name string) (int, error) {
	f.killed = append(f.killed, name)
	return f.killN, f.err
}

type fakeGit struct {
	status *executor.GitStatus
	err    error
	paths  []string
}

func (f *fakeGit) Status(ctx context.Context, path string) (*executor.GitStatus, error) {
	f.paths = append(f.paths, path)
	return f.status, f.err
}

type testApp struct {
	*App
	client *MockAIClient
	search *fakeSearch
	fetch  *fakeFetcher
	procs  *fakeProcesses
	git    *fakeGit
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// newTestApp builds an App with fake collaborators, a settings file in a
// temp directory and a colourless renderer writing to buffers.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	var out, errOut bytes.Buffer
	ta := &testApp{
		client: &MockAIClient{},
		search: &fakeSearch{},
		fetch:  &fakeFetcher{},
		procs:  &fakeProcesses{},
		git:    &fakeGit{},
		out:    &out,
		errOut: &errOut,
	}
	store := settings.NewStoreAt(filepath.Join(t.TempDir(), settings.FileName), constants.DefaultModel)
	s, err := store.Load()
	require.NoError(t, err)

	ta.App = &App{
		cfg: &config.Config{
			APIKey:         "sk-test",
			BaseURL:        constants.DefaultBaseURL,
			Model:          constants.DefaultModel,
			SearchProvider: config.SearchDuckDuckGo,
		},
		store:    store,
		settings: s,
		client:   ta.client,
		search:   ta.search,
		fetcher:  ta.fetch,
		files:    executor.NewFileTools(),
		procs:    ta.procs,
		git:      ta.git,
		renderer: render.New(&out, &errOut, render.Options{Width: 80}),
		logger:   logging.New(logging.Options{Level: logging.LevelNone}),
		out:      &out,
		errOut:   &errOut,
	}
	return ta
}
