package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/workspace"
)

// JavaAdapter compiles with javac and runs the class under the inner
// shell-level timeout, with the outer deadline as a backstop against a
// hung JVM or toolchain.
type JavaAdapter struct {
	cli dockerCLI
}

func NewJavaAdapter(dockerBin string) *JavaAdapter {
	return &JavaAdapter{cli: dockerCLI{bin: dockerBin}}
}

func (a *JavaAdapter) Language() model.Language { return model.LangJava }

func (a *JavaAdapter) Run(ctx context.Context, p workspace.Paths, t Timeouts) (Outcome, error) {
	start := time.Now()

	res, err := a.cli.exec(ctx, t.Compile, p.Container, p.Dir, fmt.Sprintf("javac %s", p.SourceFile))
	if err != nil {
		return Outcome{}, err
	}
	if res.killed || res.exitCode != 0 {
		return outcomeFrom(res, time.Since(start)), nil
	}

	run := fmt.Sprintf("timeout %d java Main < %s", int(t.Inner.Seconds()), p.InputFile)
	res, err = a.cli.exec(ctx, t.Outer, p.Container, p.Dir, run)
	if err != nil {
		return Outcome{}, err
	}
	return outcomeFrom(res, time.Since(start)), nil
}
