package config

const SourceFileExt = ".lsp"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".lsp", ".tl"}

// IsTestMode indicates if the checker is running under the test harness.
// It defaults to false; main.go does not set it.
var IsTestMode = false

// ConfigFileName is the project configuration file searched for upward
// from the checked file's directory.
const ConfigFileName = "typedlisp.yaml"

// Reserved form keywords
const (
	LetKeyword = "let"
	DefKeyword = "def"
	SetKeyword = "set"
	IfKeyword  = "if"
	ColonToken = ":"
)

// Primitive type names accepted in annotations
var PrimitiveTypeNames = []string{"int", "bool", "string", "float", "double", "char"}

// Literal lexemes
const (
	TrueLiteral  = "true"
	FalseLiteral = "false"
)
