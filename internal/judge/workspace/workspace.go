// Package workspace manages the per-execution filesystem footprint: a
// host-side staging directory plus a matching isolated directory inside the
// shared per-language execution container. Release is guaranteed on every
// exit path.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"

	"go.uber.org/zap"
)

// Paths describes one allocated workspace. Dir is container-side; HostDir
// is the host staging copy of the same artifacts.
type Paths struct {
	ID         string
	HostDir    string
	Dir        string
	Container  string
	SourceFile string
	InputFile  string
}

type Manager struct {
	stagingRoot string
	sandboxRoot string
	containers  map[model.Language]string
	cmd         Commander
}

// NewManager builds a Manager over the given per-language containers. cmd
// may be nil, in which case the real docker CLI is used.
func NewManager(dockerBin, stagingRoot, sandboxRoot string, containers map[model.Language]string, cmd Commander) *Manager {
	if cmd == nil {
		cmd = NewDockerCommander(dockerBin)
	}
	return &Manager{
		stagingRoot: stagingRoot,
		sandboxRoot: sandboxRoot,
		containers:  containers,
		cmd:         cmd,
	}
}

// With allocates a workspace for one execution, invokes fn with its paths,
// and releases both directories no matter how fn exits. The execution
// identity is testID plus a monotonic timestamp, unique enough that
// concurrent executions against the same container never collide.
func (m *Manager) With(ctx context.Context, lang model.Language, testID, source, input string, fn func(Paths) error) error {
	container, ok := m.containers[lang]
	if !ok {
		return fmt.Errorf("no execution host for language %q: %w", lang, common.ErrUnsupportedLanguage)
	}
	if err := m.ensureHost(ctx, container); err != nil {
		return err
	}

	id := fmt.Sprintf("%s-%d", testID, time.Now().UnixNano())
	p := Paths{
		ID:         id,
		HostDir:    filepath.Join(m.stagingRoot, id),
		Dir:        path.Join(m.sandboxRoot, id),
		Container:  container,
		SourceFile: lang.SourceFileName(),
		InputFile:  "input.txt",
	}

	if err := os.MkdirAll(p.HostDir, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %v: %w", err, common.ErrInfrastructure)
	}
	defer m.release(p)

	if err := os.WriteFile(filepath.Join(p.HostDir, p.SourceFile), []byte(source), 0o644); err != nil {
		return fmt.Errorf("stage source file: %v: %w", err, common.ErrInfrastructure)
	}
	if err := os.WriteFile(filepath.Join(p.HostDir, p.InputFile), []byte(input), 0o644); err != nil {
		return fmt.Errorf("stage input file: %v: %w", err, common.ErrInfrastructure)
	}

	// Two distinct failure points: directory creation inside the host,
	// then the artifact copy. Keep their errors distinguishable.
	if _, stderr, err := m.cmd.Run(ctx, "exec", container, "mkdir", "-p", p.Dir); err != nil {
		return fmt.Errorf("create sandbox directory %s: %s: %w", p.Dir, firstLine(stderr), common.ErrInfrastructure)
	}
	if _, stderr, err := m.cmd.Run(ctx, "cp", p.HostDir+"/.", container+":"+p.Dir); err != nil {
		return fmt.Errorf("copy artifacts into %s: %s: %w", container, firstLine(stderr), common.ErrInfrastructure)
	}

	return fn(p)
}

// ensureHost checks that the container is running and starts it once if it
// is merely stopped. Any other outcome is an infrastructure error, not a
// judging verdict.
func (m *Manager) ensureHost(ctx context.Context, container string) error {
	out, stderr, err := m.cmd.Run(ctx, "inspect", "-f", "{{.State.Running}}", container)
	if err != nil {
		return fmt.Errorf("inspect execution host %q: %s: %w", container, firstLine(stderr), common.ErrInfrastructure)
	}
	switch strings.TrimSpace(out) {
	case "true":
		return nil
	case "false":
		if _, stderr, err := m.cmd.Run(ctx, "start", container); err != nil {
			return fmt.Errorf("execution host %q stopped and failed to start: %s: %w", container, firstLine(stderr), common.ErrInfrastructure)
		}
		return nil
	}
	return fmt.Errorf("execution host %q in unexpected state %q: %w", container, strings.TrimSpace(out), common.ErrInfrastructure)
}

// release tears down both directories. It runs on a fresh context so
// cleanup still happens when the execution context was cancelled.
func (m *Manager) release(p Paths) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, stderr, err := m.cmd.Run(ctx, "exec", p.Container, "rm", "-rf", p.Dir); err != nil {
		zap.L().Warn("sandbox directory cleanup failed",
			zap.String("dir", p.Dir),
			zap.String("container", p.Container),
			zap.String("stderr", firstLine(stderr)),
			zap.Error(err))
	}
	if err := os.RemoveAll(p.HostDir); err != nil {
		zap.L().Warn("staging directory cleanup failed",
			zap.String("dir", p.HostDir),
			zap.Error(err))
	}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
