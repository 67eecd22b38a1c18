package find

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubstitute(t *testing.T) {
	tests := []struct {
		name    string
		cmd     string
		want    Substitution
		wantErr bool
	}{
		{
			name: "current match",
			cmd:  "/foo/bar",
			want: Substitution{Pattern: "foo", Replacement: "bar", Options: SearchOptions{RegexMode: true, CaseSensitive: true}},
		},
		{
			name: "global ignore case",
			cmd:  "/foo/bar/gi",
			want: Substitution{Pattern: "foo", Replacement: "bar", Global: true, Options: SearchOptions{RegexMode: true}},
		},
		{
			name: "literal",
			cmd:  "/a.b/c/l",
			want: Substitution{Pattern: "a.b", Replacement: "c", Options: SearchOptions{CaseSensitive: true}},
		},
		{
			name: "escaped delimiter",
			cmd:  `/a\/b/c\/d/g`,
			want: Substitution{Pattern: "a/b", Replacement: "c/d", Global: true, Options: SearchOptions{RegexMode: true, CaseSensitive: true}},
		},
		{
			name: "regex escapes kept",
			cmd:  `/\d+/N/`,
			want: Substitution{Pattern: `\d+`, Replacement: "N", Options: SearchOptions{RegexMode: true, CaseSensitive: true}},
		},
		{
			name: "empty replacement",
			cmd:  "/x//g",
			want: Substitution{Pattern: "x", Global: true, Options: SearchOptions{RegexMode: true, CaseSensitive: true}},
		},
		{name: "missing leading slash", cmd: "foo/bar", wantErr: true},
		{name: "missing replacement", cmd: "/foo", wantErr: true},
		{name: "empty pattern", cmd: "//bar/", wantErr: true},
		{name: "unknown flag", cmd: "/a/b/z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSubstitute(tt.cmd)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseSubstitute("//x/")
	assert.ErrorIs(t, err, ErrEmptyPattern)
}

func TestSubstitutionRun(t *testing.T) {
	host := newFakeHost("cat bat cat")
	s := newTestSession(host, SearchOptions{})

	sub, err := ParseSubstitute("/cat/dog/")
	require.NoError(t, err)
	result, err := sub.Run(s)
	require.NoError(t, err)
	assert.Equal(t, "dog bat cat", host.Text())
	assert.Equal(t, 2, result.BeforeCount)
	assert.Equal(t, 1, result.AfterCount)

	sub, err = ParseSubstitute("/(\\w)at/${1}og/g")
	require.NoError(t, err)
	result, err = sub.Run(s)
	require.NoError(t, err)
	assert.Equal(t, "dog bog cog", host.Text())
	assert.Equal(t, 2, result.ChangeCount)
}
