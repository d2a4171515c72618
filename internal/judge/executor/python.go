package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/judge/workspace"
)

// PythonAdapter has no compile step; the interpreter runs straight
// against the staged source.
type PythonAdapter struct {
	cli dockerCLI
}

func NewPythonAdapter(dockerBin string) *PythonAdapter {
	return &PythonAdapter{cli: dockerCLI{bin: dockerBin}}
}

func (a *PythonAdapter) Language() model.Language { return model.LangPython }

func (a *PythonAdapter) Run(ctx context.Context, p workspace.Paths, t Timeouts) (Outcome, error) {
	start := time.Now()

	run := fmt.Sprintf("timeout %d python3 %s < %s", int(t.Inner.Seconds()), p.SourceFile, p.InputFile)
	res, err := a.cli.exec(ctx, t.Outer, p.Container, p.Dir, run)
	if err != nil {
		return Outcome{}, err
	}
	return outcomeFrom(res, time.Since(start)), nil
}
