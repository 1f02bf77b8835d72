package overrides_test

import (
	"testing"

	"github.com/arthur-debert/fgroup/pkg/errors"
	"github.com/arthur-debert/fgroup/pkg/overrides"
	"github.com/arthur-debert/fgroup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := overrides.New(map[string]string{
		"sync":             "backup",
		"backup":           "archive",
		types.DefaultGroup: "misc",
	})

	tests := []struct {
		name  string
		group string
		want  string
	}{
		{name: "applies_once", group: "sync", want: "backup"},
		{name: "never_chains", group: "backup", want: "archive"},
		{name: "unmapped_group_unchanged", group: "code", want: "code"},
		{name: "default_group_never_remapped", group: types.DefaultGroup, want: types.DefaultGroup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.group))
		})
	}

	t.Run("nil_resolver_is_identity", func(t *testing.T) {
		var nilR *overrides.Resolver
		assert.Equal(t, "sync", nilR.Resolve("sync"))
		assert.Equal(t, 0, nilR.Len())
		assert.Empty(t, nilR.Keys())
	})
}

func TestNewCopiesInput(t *testing.T) {
	m := map[string]string{"a": "b"}
	r := overrides.New(m)
	m["a"] = "c"

	assert.Equal(t, "b", r.Resolve("a"))
	assert.Equal(t, []string{"a"}, r.Keys())
	assert.Equal(t, 1, r.Len())
}

func TestMerge(t *testing.T) {
	got := overrides.Merge(
		map[string]string{"a": "config", "b": "config"},
		map[string]string{"b": "cli", "c": "cli"},
	)
	assert.Equal(t, map[string]string{"a": "config", "b": "cli", "c": "cli"}, got)
}

func TestParsePairs(t *testing.T) {
	t.Run("splits_on_last_colon", func(t *testing.T) {
		got, err := overrides.ParsePairs([]string{"sync:backup", "a:b:c"})
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"sync": "backup", "a:b": "c"}, got)
	})

	t.Run("missing_colon", func(t *testing.T) {
		_, err := overrides.ParsePairs([]string{"sync"})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}
