package model

import (
	"path/filepath"
	"strings"
)

// Path represents a file system path.
type Path string

// Language identifies the grammar a script is parsed with.
type Language string

// Supported script languages.
const (
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageTSX        Language = "tsx"
)

var languageByExt = map[string]Language{
	".js":  LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".cjs": LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".ts":  LanguageTypeScript,
	".mts": LanguageTypeScript,
	".cts": LanguageTypeScript,
	".tsx": LanguageTSX,
}

// LanguageOf returns the language for path based on its extension.
func LanguageOf(path Path) (Language, bool) {
	lang, ok := languageByExt[strings.ToLower(filepath.Ext(string(path)))]
	return lang, ok
}

// File represents a script file on disk.
type File struct {
	FullPath  Path
	ShortPath Path
	Hash      string
}

// Source is one script scheduled for analysis.
type Source struct {
	Origin   *File
	Language Language
}
