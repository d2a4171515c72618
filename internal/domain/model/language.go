package model

// Language identifies one of the supported execution languages. Each
// language maps to its own long-lived execution container.
type Language string

const (
	LangCPP    Language = "cpp"
	LangJava   Language = "java"
	LangPython Language = "python"
)

// SourceFileName returns the staged file name the toolchain for this
// language expects.
func (l Language) SourceFileName() string {
	switch l {
	case LangCPP:
		return "main.cpp"
	case LangJava:
		return "Main.java"
	case LangPython:
		return "main.py"
	}
	return "main.txt"
}

func (l Language) Valid() bool {
	switch l {
	case LangCPP, LangJava, LangPython:
		return true
	}
	return false
}
