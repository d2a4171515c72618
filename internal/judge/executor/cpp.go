package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/workspace"
)

// CPPAdapter compiles with g++ and runs the native binary under the
// inner shell timeout; the outer deadline backstops a hung compiler or
// a timeout(1) that never fires.
type CPPAdapter struct {
	cli dockerCLI
}

func NewCPPAdapter(dockerBin string) *CPPAdapter {
	return &CPPAdapter{cli: dockerCLI{bin: dockerBin}}
}

func (a *CPPAdapter) Language() model.Language { return model.LangCPP }

func (a *CPPAdapter) Run(ctx context.Context, p workspace.Paths, t Timeouts) (Outcome, error) {
	start := time.Now()

	compile := fmt.Sprintf("g++ -O2 -std=c++17 -o main %s", p.SourceFile)
	res, err := a.cli.exec(ctx, t.Compile, p.Container, p.Dir, compile)
	if err != nil {
		return Outcome{}, err
	}
	if res.killed || res.exitCode != 0 {
		return outcomeFrom(res, time.Since(start)), nil
	}

	run := fmt.Sprintf("timeout %d ./main < %s", int(t.Inner.Seconds()), p.InputFile)
	res, err = a.cli.exec(ctx, t.Outer, p.Container, p.Dir, run)
	if err != nil {
		return Outcome{}, err
	}
	return outcomeFrom(res, time.Since(start)), nil
}
