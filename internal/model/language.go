package model

import (
	"errors"
	"fmt"
)

// Language is one of the supported editor languages
type Language string

const (
	LangC          Language = "c"
	LangCPP        Language = "cpp"
	LangPython     Language = "python"
	LangJavaScript Language = "javascript"
	LangJava       Language = "java"
)

// DefaultLanguage is selected when a room is opened
const DefaultLanguage = LangC

var ErrUnsupportedLanguage = errors.New("unsupported language")

// LanguageConfig describes how a language is compiled and run
type LanguageConfig struct {
	Name           string `json:"name"`
	FileExtension  string `json:"fileExtension"`
	CompileCommand string `json:"compileCommand,omitempty"`
	RunCommand     string `json:"runCommand"`
}

var languageConfigs = map[Language]LanguageConfig{
	LangC: {
		Name:           "C",
		FileExtension:  ".c",
		CompileCommand: "gcc -o output",
		RunCommand:     "./output",
	},
	LangCPP: {
		Name:           "C++",
		FileExtension:  ".cpp",
		CompileCommand: "g++ -o output",
		RunCommand:     "./output",
	},
	LangPython: {
		Name:          "Python",
		FileExtension: ".py",
		RunCommand:    "python3",
	},
	LangJavaScript: {
		Name:          "JavaScript",
		FileExtension: ".js",
		RunCommand:    "node",
	},
	LangJava: {
		Name:           "Java",
		FileExtension:  ".java",
		CompileCommand: "javac",
		RunCommand:     "java",
	},
}

// Languages returns the supported languages in selector order
func Languages() []Language {
	return []Language{LangC, LangCPP, LangPython, LangJavaScript, LangJava}
}

// ParseLanguage validates a language tag against the closed enumeration
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if _, ok := languageConfigs[l]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, s)
	}
	return l, nil
}

// Valid reports whether l is a member of the enumeration
func (l Language) Valid() bool {
	_, ok := languageConfigs[l]
	return ok
}

// Config returns the compile/run configuration for l
func (l Language) Config() LanguageConfig {
	return languageConfigs[l]
}

// DisplayName returns the human-readable name, falling back to the tag
func (l Language) DisplayName() string {
	if cfg, ok := languageConfigs[l]; ok {
		return cfg.Name
	}
	return string(l)
}

// HighlightMode returns the editor syntax-highlighting mode id.
// Monaco uses the same ids as our tags.
func (l Language) HighlightMode() string {
	return string(l)
}

// RunLabel is the caption shown on the run trigger
func (l Language) RunLabel() string {
	return "Run " + l.DisplayName()
}

// LanguageInfo is the wire form of a language selection
type LanguageInfo struct {
	Language      Language       `json:"language"`
	HighlightMode string         `json:"highlightMode"`
	RunLabel      string         `json:"runLabel"`
	Config        LanguageConfig `json:"config"`
}

// Info returns the wire description of l
func (l Language) Info() LanguageInfo {
	return LanguageInfo{
		Language:      l,
		HighlightMode: l.HighlightMode(),
		RunLabel:      l.RunLabel(),
		Config:        l.Config(),
	}
}
