package pipeline

import (
	"github.com/elricmann/typed-lisp/internal/ast"
	"github.com/elricmann/typed-lisp/internal/diagnostics"
	"github.com/elricmann/typed-lisp/internal/project"
	"github.com/elricmann/typed-lisp/internal/symbols"
	"github.com/elricmann/typed-lisp/internal/token"
	"github.com/elricmann/typed-lisp/internal/typesystem"
)

// Processor is a single pipeline stage. Stages append diagnostics to the
// shared context instead of failing, so later stages still run where they
// can (a parse error in one form should not hide checker diagnostics in
// the forms that did parse).
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext is the shared state threaded through all stages.
type PipelineContext struct {
	Source     string
	FilePath   string
	IsTestMode bool

	TokenStream []token.Token
	AstRoot     ast.Node

	SymbolTable *symbols.Scope
	TypeMap     map[ast.Node]typesystem.Type
	Subst       typesystem.Subst

	Config *project.Config

	Errors []*diagnostics.Diagnostic
}

func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{Source: source}
}

// FillLocations sets the file path and source-line context on diagnostics
// that do not carry them yet. Each processor calls this before returning.
func (ctx *PipelineContext) FillLocations() {
	for _, d := range ctx.Errors {
		if d.File == "" {
			d.File = ctx.FilePath
		}
		if d.Context == "" {
			d.Context = diagnostics.SourceLine(ctx.Source, d.Token.Line)
		}
	}
}
