package actions

import (
	"context"
	"errors"
	"testing"

	"caseboard/application/ports"
	pkgerrors "caseboard/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRunner struct {
	jobs []ports.ActionJob
	err  error
}

func (f *fakeRunner) Run(ctx context.Context, job ports.ActionJob) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func TestRegistry_ResolveForType(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name       string
		entityType string
		wantNames  []string
	}{
		{
			name:       "domain gets domain actions plus wildcards",
			entityType: "domain",
			wantNames:  []string{"domain-expand", "ip-whois", "merge-duplicates", "export-subgraph"},
		},
		{
			name:       "email",
			entityType: "email",
			wantNames:  []string{"email-breaches", "social-profiles", "merge-duplicates", "export-subgraph"},
		},
		{
			name:       "unknown type only gets wildcards",
			entityType: "vehicle",
			wantNames:  []string{"merge-duplicates", "export-subgraph"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved := r.ResolveForType(tt.entityType)
			names := make([]string, 0, len(resolved))
			for _, a := range resolved {
				names = append(names, a.Name)
			}
			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestRegistry_Lookup(t *testing.T) {
	r := DefaultRegistry()

	a, err := r.Lookup("domain", "domain-expand")
	require.NoError(t, err)
	assert.Equal(t, KindEnricher, a.Kind)

	// The action exists globally but does not apply to this type
	_, err = r.Lookup("person", "domain-expand")
	assert.True(t, pkgerrors.IsNotFound(err))

	_, err = r.Lookup("domain", "nope")
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestDispatcher_Dispatch(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDispatcher(DefaultRegistry(), runner, zap.NewNop(), nil)

	job, err := d.Dispatch(context.Background(), "sketch-1", []string{"n1", "n2"}, "domain", "domain-expand")
	require.NoError(t, err)

	assert.NotEmpty(t, job.JobID)
	assert.Equal(t, "sketch-1", job.SketchID)
	assert.Equal(t, "domain-expand", job.Action)
	assert.Equal(t, KindEnricher, job.Kind)
	assert.Equal(t, []string{"n1", "n2"}, job.TargetIDs)

	require.Len(t, runner.jobs, 1)
	assert.Equal(t, job.JobID, runner.jobs[0].JobID)
}

func TestDispatcher_DispatchEmptyTargets(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDispatcher(DefaultRegistry(), runner, zap.NewNop(), nil)

	_, err := d.Dispatch(context.Background(), "sketch-1", nil, "domain", "domain-expand")
	assert.True(t, pkgerrors.IsValidation(err))
	assert.Empty(t, runner.jobs)
}

func TestDispatcher_DispatchUnknownAction(t *testing.T) {
	runner := &fakeRunner{}
	d := NewDispatcher(DefaultRegistry(), runner, zap.NewNop(), nil)

	_, err := d.Dispatch(context.Background(), "sketch-1", []string{"n1"}, "person", "domain-expand")
	assert.True(t, pkgerrors.IsNotFound(err))
	assert.Empty(t, runner.jobs, "a failed lookup must never reach the runner")
}

func TestDispatcher_RunnerFailure(t *testing.T) {
	runner := &fakeRunner{err: errors.New("bus unreachable")}
	d := NewDispatcher(DefaultRegistry(), runner, zap.NewNop(), nil)

	_, err := d.Dispatch(context.Background(), "sketch-1", []string{"n1"}, "email", "email-breaches")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsType(err, pkgerrors.ErrorTypeExternal))
}
