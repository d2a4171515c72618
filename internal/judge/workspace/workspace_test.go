package workspace

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/common"
	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
)

type fakeCommander struct {
	inspectOut string
	failSub    string // subcommand to fail, e.g. "cp"
	calls      [][]string
}

func (f *fakeCommander) Run(ctx context.Context, args ...string) (string, string, error) {
	f.calls = append(f.calls, args)
	sub := args[0]
	if sub == f.failSub {
		return "", "simulated " + sub + " failure", errors.New("exit status 1")
	}
	if sub == "inspect" {
		return f.inspectOut, "", nil
	}
	return "", "", nil
}

func (f *fakeCommander) ran(sub string) bool {
	for _, c := range f.calls {
		if c[0] == sub {
			return true
		}
	}
	return false
}

func newTestManager(t *testing.T, cmd Commander) *Manager {
	t.Helper()
	return NewManager("docker", t.TempDir(), "/tmp/neocode",
		map[model.Language]string{model.LangCPP: "neocode-cpp"}, cmd)
}

func TestWithStagesFilesAndReleases(t *testing.T) {
	cmd := &fakeCommander{inspectOut: "true\n"}
	m := newTestManager(t, cmd)

	var got Paths
	err := m.With(context.Background(), model.LangCPP, "t1", "int main(){}", "1 2", func(p Paths) error {
		got = p
		data, err := os.ReadFile(p.HostDir + "/" + p.SourceFile)
		if err != nil {
			return err
		}
		if string(data) != "int main(){}" {
			t.Errorf("staged source mismatch: %q", data)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("With: %v", err)
	}

	if got.SourceFile != "main.cpp" || got.Container != "neocode-cpp" {
		t.Errorf("unexpected paths: %+v", got)
	}
	if !strings.HasPrefix(got.ID, "t1-") {
		t.Errorf("execution identity %q not derived from test identity", got.ID)
	}
	if _, err := os.Stat(got.HostDir); !os.IsNotExist(err) {
		t.Errorf("host staging dir still exists after release")
	}
	if !cmd.ran("cp") {
		t.Errorf("artifacts were never copied into the container")
	}
	removed := false
	for _, c := range cmd.calls {
		if c[0] == "exec" && len(c) >= 3 && c[2] == "rm" {
			removed = true
		}
	}
	if !removed {
		t.Errorf("sandbox dir was not removed in the container")
	}
}

func TestWithReleasesWhenFnFails(t *testing.T) {
	cmd := &fakeCommander{inspectOut: "true"}
	m := newTestManager(t, cmd)

	var hostDir string
	wantErr := errors.New("boom")
	err := m.With(context.Background(), model.LangCPP, "t2", "x", "", func(p Paths) error {
		hostDir = p.HostDir
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected fn error back, got %v", err)
	}
	if _, err := os.Stat(hostDir); !os.IsNotExist(err) {
		t.Errorf("host staging dir survived a failing fn")
	}
}

func TestWithCopyFailureIsInfrastructureAndStillReleases(t *testing.T) {
	cmd := &fakeCommander{inspectOut: "true", failSub: "cp"}
	m := newTestManager(t, cmd)

	called := false
	err := m.With(context.Background(), model.LangCPP, "t3", "x", "", func(p Paths) error {
		called = true
		return nil
	})
	if !errors.Is(err, common.ErrInfrastructure) {
		t.Fatalf("copy failure must be an infrastructure error, got %v", err)
	}
	if called {
		t.Errorf("fn must not run when staging failed")
	}
	removed := false
	for _, c := range cmd.calls {
		if c[0] == "exec" && len(c) >= 3 && c[2] == "rm" {
			removed = true
		}
	}
	if !removed {
		t.Errorf("release skipped after copy failure")
	}
}

func TestEnsureHostStartsStoppedContainer(t *testing.T) {
	cmd := &fakeCommander{inspectOut: "false"}
	m := newTestManager(t, cmd)

	err := m.With(context.Background(), model.LangCPP, "t4", "x", "", func(Paths) error { return nil })
	if err != nil {
		t.Fatalf("With: %v", err)
	}
	if !cmd.ran("start") {
		t.Errorf("stopped container was not started")
	}
}

func TestEnsureHostFailureAbortsBeforeStaging(t *testing.T) {
	cmd := &fakeCommander{failSub: "inspect"}
	m := newTestManager(t, cmd)

	err := m.With(context.Background(), model.LangCPP, "t5", "x", "", func(Paths) error { return nil })
	if !errors.Is(err, common.ErrInfrastructure) {
		t.Fatalf("expected infrastructure error, got %v", err)
	}
	if cmd.ran("cp") {
		t.Errorf("staging must not proceed when the host is unreachable")
	}
}

func TestUnsupportedLanguageRejectedUpfront(t *testing.T) {
	cmd := &fakeCommander{inspectOut: "true"}
	m := newTestManager(t, cmd)

	err := m.With(context.Background(), model.LangJava, "t6", "x", "", func(Paths) error { return nil })
	if !errors.Is(err, common.ErrUnsupportedLanguage) {
		t.Fatalf("expected unsupported language error, got %v", err)
	}
	if len(cmd.calls) != 0 {
		t.Errorf("no docker command should run for an unmapped language")
	}
}

func TestExecutionIdentitiesDoNotCollide(t *testing.T) {
	cmd := &fakeCommander{inspectOut: "true"}
	m := newTestManager(t, cmd)

	ids := make(map[string]bool)
	for i := 0; i < 10; i++ {
		err := m.With(context.Background(), model.LangCPP, "same-key", "x", "", func(p Paths) error {
			ids[p.ID] = true
			return nil
		})
		if err != nil {
			t.Fatalf("With: %v", err)
		}
	}
	if len(ids) != 10 {
		t.Errorf("expected 10 unique execution identities, got %d", len(ids))
	}
}
