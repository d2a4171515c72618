package workspace

import (
	"bytes"
	"context"
	"os/exec"
)

// Commander runs one docker subcommand. It exists so the lifecycle logic
// can be exercised without a docker daemon.
type Commander interface {
	Run(ctx context.Context, args ...string) (stdout string, stderr string, err error)
}

type dockerCommander struct {
	bin string
}

func NewDockerCommander(bin string) Commander {
	if bin == "" {
		bin = "docker"
	}
	return dockerCommander{bin: bin}
}

func (d dockerCommander) Run(ctx context.Context, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, d.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
