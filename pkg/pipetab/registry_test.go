package pipetab_test

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pipetab/pipetab/pkg/errs"
	"github.com/pipetab/pipetab/pkg/pipetab"
	"github.com/pipetab/pipetab/pkg/table"
)

// suffixer is a minimal stateless transformer for registry tests.
type suffixer struct {
	Suffix string
}

func (s *suffixer) Name() string { return "suffixer" }

func (s *suffixer) Fit(context.Context, *table.Table) error { return nil }

func (s *suffixer) Transform(_ context.Context, t *table.Table) (*table.Table, error) {
	vals, valid, err := t.Strings("tag")
	if err != nil {
		return nil, err
	}
	for i := range vals {
		if valid[i] {
			vals[i] += s.Suffix
		}
	}
	col, err := table.NewCol("tag", vals, valid, nil)
	if err != nil {
		return nil, err
	}
	return t.SetColumn(col)
}

func testRegistry(t *testing.T) *pipetab.Registry {
	t.Helper()
	r := pipetab.NewRegistry()
	r.MustRegister(pipetab.Registration{
		Name: "suffixer",
		Kind: pipetab.CapTransformer,
		Factory: func(_ *pipetab.Resolver, args map[string]any) (any, error) {
			var opts struct {
				Suffix string `mapstructure:"suffix"`
			}
			if err := pipetab.DecodeArgs(args, &opts); err != nil {
				return nil, err
			}
			return &suffixer{Suffix: opts.Suffix}, nil
		},
	})
	pipetab.RegisterCompositionWrappers(r)
	return r
}

func TestIsConfig(t *testing.T) {
	r := testRegistry(t)

	assert.True(t, r.IsConfig(map[string]any{"target": "suffixer"}, pipetab.CapTransformer))
	assert.True(t, r.IsConfig(map[any]any{"target": "suffixer"}, pipetab.CapTransformer))

	assert.False(t, r.IsConfig(map[string]any{"target": "suffixer"}, pipetab.CapIngestor))
	assert.False(t, r.IsConfig(map[string]any{"target": "nope"}, pipetab.CapTransformer))
	assert.False(t, r.IsConfig(map[string]any{"suffix": "x"}, pipetab.CapTransformer))
	assert.False(t, r.IsConfig("suffixer", pipetab.CapTransformer))
	assert.False(t, r.IsConfig(42, pipetab.CapTransformer))
	assert.False(t, r.IsConfig(nil, pipetab.CapTransformer))
}

func TestResolveIdentityPassthrough(t *testing.T) {
	r := testRegistry(t)
	live := &suffixer{Suffix: "!"}
	out, err := r.Resolve(live, pipetab.CapTransformer)
	require.NoError(t, err)
	assert.Same(t, live, out)
}

func TestResolveConstructsFromConfig(t *testing.T) {
	r := testRegistry(t)
	out, err := r.Resolve(map[string]any{"target": "suffixer", "suffix": "_x"}, pipetab.CapTransformer)
	require.NoError(t, err)
	s, ok := out.(*suffixer)
	require.True(t, ok)
	assert.Equal(t, "_x", s.Suffix)
}

func TestResolveUnknownTarget(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Resolve(map[string]any{"target": "no_such_stage"}, pipetab.CapTransformer)
	require.Error(t, err)
	var inst *errs.InstantiationError
	require.True(t, errors.As(err, &inst))
	assert.Equal(t, "no_such_stage", inst.Target)
}

func TestResolveArgTypoFailsConstruction(t *testing.T) {
	r := testRegistry(t)
	_, err := r.Resolve(map[string]any{"target": "suffixer", "sufix": "oops"}, pipetab.CapTransformer)
	require.Error(t, err)
	var inst *errs.InstantiationError
	assert.True(t, errors.As(err, &inst))
}

func TestResolveNonConfigIsPermissive(t *testing.T) {
	logs := observeLogs(t)
	r := testRegistry(t)

	out, err := r.Resolve("just a string", pipetab.CapTransformer)
	require.NoError(t, err)
	assert.Equal(t, "just a string", out)

	out, err = r.Resolve(map[string]any{"no_target": true}, pipetab.CapTransformer)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"no_target": true}, out)

	assert.Equal(t, 2, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestResolveTransformerRequiresCapability(t *testing.T) {
	r := testRegistry(t)

	tr, err := r.ResolveTransformer(map[string]any{"target": "suffixer", "suffix": "!"})
	require.NoError(t, err)
	assert.Equal(t, "suffixer", tr.Name())

	_, err = r.ResolveTransformer("just a string")
	require.Error(t, err)
	var inst *errs.InstantiationError
	assert.True(t, errors.As(err, &inst))

	_, err = r.ResolveIngestor(map[string]any{"target": "suffixer"})
	require.Error(t, err)
}

func TestResolveNestedSequential(t *testing.T) {
	r := testRegistry(t)
	tr, err := r.ResolveTransformer(map[string]any{
		"target": "sequential",
		"steps": []any{
			map[string]any{"target": "suffixer", "suffix": "_a"},
			map[any]any{"target": "suffixer", "suffix": "_b"},
		},
	})
	require.NoError(t, err)
	seq, ok := tr.(*pipetab.Sequential)
	require.True(t, ok)
	require.Len(t, seq.Steps(), 2)

	tbl, err := table.New(mustCol(t, "tag", []string{"v"}, nil))
	require.NoError(t, err)
	out, err := tr.Transform(context.Background(), tbl)
	require.NoError(t, err)
	vals, _, err := out.Strings("tag")
	require.NoError(t, err)
	assert.Equal(t, []string{"v_a_b"}, vals)
}

func TestResolveDepthGuard(t *testing.T) {
	r := testRegistry(t)
	cfg := map[string]any{"target": "suffixer"}
	for i := 0; i < 40; i++ {
		cfg = map[string]any{"target": "sequential", "steps": []any{cfg}}
	}
	_, err := r.ResolveTransformer(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nesting")
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := testRegistry(t)
	err := r.Register(pipetab.Registration{
		Name:    "suffixer",
		Kind:    pipetab.CapTransformer,
		Factory: func(*pipetab.Resolver, map[string]any) (any, error) { return nil, nil },
	})
	assert.Error(t, err)
}

func TestListIsSorted(t *testing.T) {
	r := testRegistry(t)
	regs := r.List()
	names := make([]string, len(regs))
	for i, reg := range regs {
		names[i] = reg.Name
	}
	assert.IsNonDecreasing(t, names)
}
