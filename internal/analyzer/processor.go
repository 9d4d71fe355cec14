package analyzer

import (
	"github.com/elricmann/typed-lisp/internal/pipeline"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.AstRoot == nil {
		return ctx
	}

	analyzer := New()
	RegisterBuiltins(analyzer.GlobalScope())
	if ctx.Config != nil {
		ctx.Errors = append(ctx.Errors,
			RegisterConfigBuiltins(analyzer.GlobalScope(), ctx.Config.Builtins)...)
	}

	errors := analyzer.Analyze(ctx.AstRoot)

	ctx.SymbolTable = analyzer.GlobalScope()
	ctx.TypeMap = analyzer.TypeMap
	ctx.Subst = analyzer.Context().Unifier().Subst()

	ctx.Errors = append(ctx.Errors, errors...)
	ctx.FillLocations()

	return ctx
}
