package engine

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/muurk/envmatch/internal/store"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(store.New(store.NewMemoryBackend()))
	out := e.Execute(Init{})
	require.True(t, out.OK(), "init failed: %v", out.Err)
	return e
}

func TestInit(t *testing.T) {
	e := New(store.New(store.NewMemoryBackend()))

	out := e.Execute(Init{Environment: "staging"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, 0, out.ExitCode())
	assert.Equal(t, "envmatch initialized", out.Title)
	assert.Contains(t, out.Lines, "Environment: staging")
	assert.Contains(t, out.Hint, "--env staging")

	out = e.Execute(Init{})
	assert.Equal(t, 1, out.ExitCode())
	assert.True(t, store.IsKind(out.Err, store.KindAlreadyInitialized), "%v", out.Err)
}

func TestNotInitialized(t *testing.T) {
	e := New(store.New(store.NewMemoryBackend()))

	commands := []Command{
		Set{Key: "K", Value: "v"},
		Get{Key: "K"},
		Unset{Key: "K"},
		Switch{Env: "production"},
		Current{},
		List{},
		Envs{},
		Validate{Required: []string{"K"}},
		Validate{},
		CreateEnv{Env: "qa"},
		DeleteEnv{Env: "qa"},
		Export{},
	}

	for _, cmd := range commands {
		t.Run(cmd.commandName(), func(t *testing.T) {
			out := e.Execute(cmd)
			assert.Equal(t, 1, out.ExitCode())
			assert.True(t, store.IsKind(out.Err, store.KindNotInitialized), "%v", out.Err)
		})
	}
}

func TestSetGetUnset(t *testing.T) {
	e := newEngine(t)

	out := e.Execute(Set{Key: "DATABASE_URL", Value: "x"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, "Set DATABASE_URL=x in environment 'development'", out.Title)

	out = e.Execute(Get{Key: "DATABASE_URL"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, "x\n", out.Raw)
	assert.Empty(t, out.Title)

	out = e.Execute(Unset{Key: "DATABASE_URL"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, "Removed 'DATABASE_URL' from environment 'development'", out.Title)

	out = e.Execute(Get{Key: "DATABASE_URL"})
	assert.Equal(t, 1, out.ExitCode())
	assert.Equal(t, "Key Not Found: key 'DATABASE_URL' not found in environment 'development'", out.Err.Error())
}

func TestSetExplicitEnvironment(t *testing.T) {
	e := newEngine(t)

	require.True(t, e.Execute(Set{Key: "K", Value: "v1", Env: "production"}).OK())
	out := e.Execute(Set{Key: "K", Value: "v2", Env: "production"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Contains(t, out.Title, "'production'")

	out = e.Execute(Get{Key: "K", Env: "production"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, "v2\n", out.Raw)

	out = e.Execute(Get{Key: "K", Env: "staging"})
	assert.True(t, store.IsKind(out.Err, store.KindEnvironmentNotFound), "%v", out.Err)
}

func TestSwitchAndCurrent(t *testing.T) {
	e := newEngine(t)

	out := e.Execute(Switch{Env: "production"})
	assert.Equal(t, 1, out.ExitCode())
	assert.True(t, store.IsKind(out.Err, store.KindEnvironmentNotFound), "%v", out.Err)

	out = e.Execute(Current{})
	require.True(t, out.OK())
	assert.Equal(t, "development\n", out.Raw)

	require.True(t, e.Execute(CreateEnv{Env: "production"}).OK())
	out = e.Execute(Switch{Env: "production"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, "Switched to environment 'production'", out.Title)

	assert.Equal(t, "production\n", e.Execute(Current{}).Raw)
}

func TestList(t *testing.T) {
	e := newEngine(t)

	out := e.Execute(List{})
	require.True(t, out.OK())
	assert.Equal(t, "Environment: development", out.Title)
	assert.Equal(t, []string{"(no variables set)"}, out.Lines)

	require.True(t, e.Execute(Set{Key: "B", Value: "2"}).OK())
	require.True(t, e.Execute(Set{Key: "A", Value: "1"}).OK())

	out = e.Execute(List{})
	require.True(t, out.OK())
	assert.Equal(t, []string{"A=1", "B=2"}, out.Lines)
}

func TestEnvs(t *testing.T) {
	e := newEngine(t)
	require.True(t, e.Execute(Set{Key: "K", Value: "v", Env: "production"}).OK())
	require.True(t, e.Execute(CreateEnv{Env: "alpha"}).OK())

	out := e.Execute(Envs{})
	require.True(t, out.OK())
	assert.Equal(t, []string{"development (current)", "alpha", "production"}, out.Lines)
}

func TestValidate(t *testing.T) {
	e := newEngine(t)
	require.True(t, e.Execute(Set{Key: "REQUIRED_VAR", Value: "value"}).OK())

	t.Run("count without required keys", func(t *testing.T) {
		out := e.Execute(Validate{})
		require.True(t, out.OK())
		assert.Equal(t, "Environment 'development' has 1 variable(s)", out.Title)
	})

	t.Run("blank entries only count as no required keys", func(t *testing.T) {
		out := e.Execute(Validate{Required: []string{" ", ""}})
		require.True(t, out.OK())
		assert.Contains(t, out.Title, "has 1 variable(s)")
	})

	t.Run("all present", func(t *testing.T) {
		out := e.Execute(Validate{Required: []string{" REQUIRED_VAR "}})
		require.True(t, out.OK(), "%v", out.Err)
		assert.Equal(t, "All required variables are set in environment 'development'", out.Title)
	})

	t.Run("missing keys fail", func(t *testing.T) {
		out := e.Execute(Validate{Required: []string{"MISSING_B", "REQUIRED_VAR", "MISSING_A"}})
		assert.Equal(t, 1, out.ExitCode())
		assert.Equal(t, []string{"MISSING_B", "MISSING_A"}, out.Lines)

		var missing *MissingVariablesError
		require.True(t, errors.As(out.Err, &missing))
		assert.Equal(t, "development", missing.Env)
		assert.Equal(t, "Missing Required Variables: environment 'development' is missing MISSING_B, MISSING_A", missing.Error())
	})

	t.Run("explicit missing environment", func(t *testing.T) {
		out := e.Execute(Validate{Env: "qa", Required: []string{"K"}})
		assert.True(t, store.IsKind(out.Err, store.KindEnvironmentNotFound), "%v", out.Err)
	})
}

func TestCreateAndDeleteEnv(t *testing.T) {
	e := newEngine(t)

	out := e.Execute(CreateEnv{Env: "qa"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, "Created environment 'qa'", out.Title)

	out = e.Execute(CreateEnv{Env: "qa"})
	assert.True(t, store.IsKind(out.Err, store.KindEnvironmentExists), "%v", out.Err)

	out = e.Execute(DeleteEnv{Env: "development"})
	assert.True(t, store.IsKind(out.Err, store.KindCannotDeleteCurrent), "%v", out.Err)

	out = e.Execute(DeleteEnv{Env: "qa"})
	require.True(t, out.OK(), "%v", out.Err)
	assert.Equal(t, "Deleted environment 'qa'", out.Title)
}

func TestExport(t *testing.T) {
	e := newEngine(t)
	for k, v := range map[string]string{
		"PLAIN":    "value",
		"SPACED":   "hello world",
		"QUOTED":   `say "hi"`,
		"EMPTY":    "",
		"with.dot": "x",
	} {
		require.True(t, e.Execute(Set{Key: k, Value: v}).OK())
	}

	tests := []struct {
		format Format
		want   string
	}{
		{
			format: FormatDotenv,
			want: "EMPTY=\n" +
				"PLAIN=value\n" +
				"QUOTED=\"say \\\"hi\\\"\"\n" +
				"SPACED=\"hello world\"\n" +
				"with.dot=x\n",
		},
		{
			format: FormatShell,
			want: "export EMPTY=''\n" +
				"export PLAIN='value'\n" +
				"export QUOTED='say \"hi\"'\n" +
				"export SPACED='hello world'\n" +
				"# skipped \"with.dot\": not a valid shell variable name\n",
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out := e.Execute(Export{Format: tt.format})
			require.True(t, out.OK(), "%v", out.Err)
			assert.Equal(t, tt.want, out.Raw)
		})
	}

	t.Run("yaml", func(t *testing.T) {
		out := e.Execute(Export{Format: FormatYAML})
		require.True(t, out.OK(), "%v", out.Err)

		var decoded map[string]string
		require.NoError(t, yaml.Unmarshal([]byte(out.Raw), &decoded))
		assert.Equal(t, map[string]string{
			"PLAIN":    "value",
			"SPACED":   "hello world",
			"QUOTED":   `say "hi"`,
			"EMPTY":    "",
			"with.dot": "x",
		}, decoded)
	})

	t.Run("empty environment", func(t *testing.T) {
		require.True(t, e.Execute(CreateEnv{Env: "empty"}).OK())
		out := e.Execute(Export{Env: "empty", Format: FormatYAML})
		require.True(t, out.OK(), "%v", out.Err)
		assert.Empty(t, out.Raw)
	})
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatDotenv, false},
		{"dotenv", FormatDotenv, false},
		{"SHELL", FormatShell, false},
		{"yaml", FormatYAML, false},
		{"json", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestShellQuote(t *testing.T) {
	if got := shellQuote("it's"); got != `'it'\''s'` {
		t.Errorf("shellQuote() = %s", got)
	}
}
