// Package sanitizer rewrites submitted source before it is staged. It is
// defense-in-depth on top of the container boundary, not a security
// boundary of record: the Python guard only blocks named imports and the
// Java rewrites are best-effort pattern matching, both bypassable by
// obfuscated equivalents.
package sanitizer

import (
	"regexp"
	"strings"

	"github.com/Rakesh-116/NeoCode-v2-sub000/internal/domain/model"
)

// DefaultPythonDenylist covers process control, filesystem, networking,
// low-level FFI and process signals.
var DefaultPythonDenylist = []string{
	"os", "sys", "subprocess", "shutil", "socket",
	"ctypes", "signal", "multiprocessing", "importlib",
}

var javaDenied = []*regexp.Regexp{
	regexp.MustCompile(`System\s*\.\s*exit\s*\([^)]*\)`),
	regexp.MustCompile(`Runtime\s*\.\s*getRuntime\s*\(\s*\)`),
	regexp.MustCompile(`new\s+ProcessBuilder\b`),
	regexp.MustCompile(`import\s+java\.lang\.reflect\.[\w.*]+\s*;`),
	regexp.MustCompile(`import\s+java\.io\.RandomAccessFile\s*;`),
	regexp.MustCompile(`import\s+sun\.misc\.Unsafe\s*;`),
}

const javaReplacement = "/* removed */"

type Sanitizer struct {
	pythonDenylist []string
}

func New(pythonDenylist []string) *Sanitizer {
	if len(pythonDenylist) == 0 {
		pythonDenylist = DefaultPythonDenylist
	}
	return &Sanitizer{pythonDenylist: pythonDenylist}
}

// Sanitize returns the staged form of source for lang. It never fails:
// languages without rules, including unknown ones, pass through unchanged.
func (s *Sanitizer) Sanitize(source string, lang model.Language) string {
	switch lang {
	case model.LangPython:
		return s.pythonGuard() + "\n" + source
	case model.LangJava:
		rewritten := source
		for _, re := range javaDenied {
			rewritten = re.ReplaceAllString(rewritten, javaReplacement)
		}
		return rewritten
	}
	return source
}

// pythonGuard builds an import hook that raises as soon as a denylisted
// module is requested, before any of the user's code runs.
func (s *Sanitizer) pythonGuard() string {
	quoted := make([]string, len(s.pythonDenylist))
	for i, name := range s.pythonDenylist {
		quoted[i] = `"` + name + `"`
	}
	var b strings.Builder
	b.WriteString("import builtins as _builtins\n")
	b.WriteString("_BLOCKED_MODULES = {" + strings.Join(quoted, ", ") + "}\n")
	b.WriteString("_real_import = _builtins.__import__\n")
	b.WriteString("def _guarded_import(name, *args, **kwargs):\n")
	b.WriteString("    if name.split(\".\")[0] in _BLOCKED_MODULES:\n")
	b.WriteString("        raise ImportError(\"import of module '\" + name + \"' is not allowed\")\n")
	b.WriteString("    return _real_import(name, *args, **kwargs)\n")
	b.WriteString("_builtins.__import__ = _guarded_import\n")
	return b.String()
}
