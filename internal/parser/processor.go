package parser

import (
	"github.com/elricmann/typed-lisp/internal/diagnostics"
	"github.com/elricmann/typed-lisp/internal/pipeline"
	"github.com/elricmann/typed-lisp/internal/token"
)

type ParserProcessor struct{}

func (pp *ParserProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.TokenStream == nil {
		// Should not be hit if the lexer runs first, but as a safeguard:
		err := diagnostics.NewError(diagnostics.ErrP001, token.Token{}, "parser: token stream is nil")
		ctx.Errors = append(ctx.Errors, err)
		return ctx
	}

	parser := New(ctx.TokenStream)
	program := parser.ParseProgram()
	program.File = ctx.FilePath
	ctx.AstRoot = program

	ctx.Errors = append(ctx.Errors, parser.Errors()...)
	ctx.FillLocations()

	return ctx
}
