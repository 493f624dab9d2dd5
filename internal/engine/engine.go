package engine

import (
	"fmt"
	"strings"

	"github.com/muurk/envmatch/internal/logging"
	"github.com/muurk/envmatch/internal/store"
)

// Engine executes commands against a Store. It holds no state of its own.
type Engine struct {
	store *store.Store
}

// New returns an Engine operating on s
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// Execute runs cmd and reports its outcome. Failures are returned in the
// Outcome, never retried.
func (e *Engine) Execute(cmd Command) Outcome {
	var out Outcome
	switch c := cmd.(type) {
	case Init:
		out = e.init(c)
	case Set:
		out = e.set(c)
	case Get:
		out = e.get(c)
	case Unset:
		out = e.unset(c)
	case Switch:
		out = e.switchEnv(c)
	case Current:
		out = e.current()
	case List:
		out = e.list(c)
	case Envs:
		out = e.envs()
	case Validate:
		out = e.validate(c)
	case CreateEnv:
		out = e.createEnv(c)
	case DeleteEnv:
		out = e.deleteEnv(c)
	case Export:
		out = e.export(c)
	default:
		out = failure("unknown", fmt.Errorf("unsupported command %T", cmd))
	}

	if !out.OK() {
		logging.LogCommandFailure(out.Command, out.Err)
	}
	return out
}

// targetName names the environment a command with an optional --env acts
// on. An empty env resolves to the current one.
func (e *Engine) targetName(env string) (string, error) {
	if env != "" {
		return env, nil
	}
	return e.store.Current()
}

func (e *Engine) init(c Init) Outcome {
	logging.LogCommand("init", c.Environment)
	env := c.Environment
	if env == "" {
		env = store.DefaultEnvironment
	}
	if err := e.store.Init(env); err != nil {
		return failure("init", err)
	}

	out := success("init", "envmatch initialized",
		"Directory:   "+e.store.Location(),
		"Environment: "+env,
	)
	out.Hint = fmt.Sprintf("Try: envmatch set API_KEY your-key-here --env %s", env)
	return out
}

func (e *Engine) set(c Set) Outcome {
	logging.LogCommand("set", c.Env)
	env, err := e.targetName(c.Env)
	if err != nil {
		return failure("set", err)
	}
	if err := e.store.Set(env, c.Key, c.Value); err != nil {
		return failure("set", err)
	}
	return success("set", fmt.Sprintf("Set %s=%s in environment '%s'", c.Key, c.Value, env))
}

func (e *Engine) get(c Get) Outcome {
	logging.LogCommand("get", c.Env)
	value, err := e.store.Get(c.Env, c.Key)
	if err != nil {
		return failure("get", err)
	}
	return Outcome{Command: "get", Kind: KindSuccess, Raw: value + "\n"}
}

func (e *Engine) unset(c Unset) Outcome {
	logging.LogCommand("unset", c.Env)
	env, err := e.targetName(c.Env)
	if err != nil {
		return failure("unset", err)
	}
	if err := e.store.Unset(env, c.Key); err != nil {
		return failure("unset", err)
	}
	return success("unset", fmt.Sprintf("Removed '%s' from environment '%s'", c.Key, env))
}

func (e *Engine) switchEnv(c Switch) Outcome {
	logging.LogCommand("switch", c.Env)
	if err := e.store.Switch(c.Env); err != nil {
		return failure("switch", err)
	}
	return success("switch", fmt.Sprintf("Switched to environment '%s'", c.Env))
}

func (e *Engine) current() Outcome {
	logging.LogCommand("current", "")
	env, err := e.store.Current()
	if err != nil {
		return failure("current", err)
	}
	return Outcome{Command: "current", Kind: KindSuccess, Raw: env + "\n"}
}

func (e *Engine) list(c List) Outcome {
	logging.LogCommand("list", c.Env)
	env, vars, err := e.store.ListVariables(c.Env)
	if err != nil {
		return failure("list", err)
	}

	var lines []string
	for _, v := range vars.Sorted() {
		lines = append(lines, v.Key+"="+v.Value)
	}
	if len(lines) == 0 {
		lines = []string{"(no variables set)"}
	}
	return success("list", "Environment: "+env, lines...)
}

func (e *Engine) envs() Outcome {
	logging.LogCommand("envs", "")
	envs, err := e.store.ListEnvironments()
	if err != nil {
		return failure("envs", err)
	}

	lines := make([]string, 0, len(envs))
	for _, info := range envs {
		if info.Current {
			lines = append(lines, info.Name+" (current)")
		} else {
			lines = append(lines, info.Name)
		}
	}
	return success("envs", "Available environments", lines...)
}

func (e *Engine) validate(c Validate) Outcome {
	logging.LogCommand("validate", c.Env)

	var required []string
	for _, key := range c.Required {
		if key = strings.TrimSpace(key); key != "" {
			required = append(required, key)
		}
	}

	if len(required) == 0 {
		env, vars, err := e.store.ListVariables(c.Env)
		if err != nil {
			return failure("validate", err)
		}
		return success("validate", fmt.Sprintf("Environment '%s' has %d variable(s)", env, len(vars)))
	}

	env, missing, err := e.store.Validate(c.Env, required)
	if err != nil {
		return failure("validate", err)
	}
	if len(missing) > 0 {
		out := failure("validate", &MissingVariablesError{Env: env, Keys: missing})
		out.Title = fmt.Sprintf("Missing required variables in environment '%s'", env)
		out.Lines = missing
		return out
	}
	return success("validate", fmt.Sprintf("All required variables are set in environment '%s'", env))
}

func (e *Engine) createEnv(c CreateEnv) Outcome {
	logging.LogCommand("create-env", c.Env)
	if err := e.store.CreateEnvironment(c.Env); err != nil {
		return failure("create-env", err)
	}
	out := success("create-env", fmt.Sprintf("Created environment '%s'", c.Env))
	out.Hint = fmt.Sprintf("Try: envmatch switch %s", c.Env)
	return out
}

func (e *Engine) deleteEnv(c DeleteEnv) Outcome {
	logging.LogCommand("delete-env", c.Env)
	if err := e.store.DeleteEnvironment(c.Env); err != nil {
		return failure("delete-env", err)
	}
	return success("delete-env", fmt.Sprintf("Deleted environment '%s'", c.Env))
}

func (e *Engine) export(c Export) Outcome {
	logging.LogCommand("export", c.Env)
	_, vars, err := e.store.ListVariables(c.Env)
	if err != nil {
		return failure("export", err)
	}
	text, err := render(vars, c.Format)
	if err != nil {
		return failure("export", err)
	}
	return Outcome{Command: "export", Kind: KindSuccess, Raw: text}
}
