// Package repl implements the interactive read-eval-print loop.
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/oarkflow/log"

	"github.com/oarkflow/monkey"
	"github.com/oarkflow/monkey/pkg/transcript"
)

const (
	DefaultPrompt      = ">> "
	continuationPrompt = ".. "

	maxLineSize = 16 * 1024 * 1024
)

type REPL struct {
	engine     *monkey.Engine
	session    *monkey.Session
	in         io.Reader
	out        io.Writer
	prompt     string
	banner     bool
	transcript *transcript.Writer
	logger     *log.Logger
}

type Option func(*REPL)

func WithPrompt(prompt string) Option {
	return func(r *REPL) {
		r.prompt = prompt
	}
}

// WithTranscript records every evaluated input to w.
func WithTranscript(w *transcript.Writer) Option {
	return func(r *REPL) {
		r.transcript = w
	}
}

func WithoutBanner() Option {
	return func(r *REPL) {
		r.banner = false
	}
}

func New(engine *monkey.Engine, in io.Reader, out io.Writer, opts ...Option) *REPL {
	r := &REPL{
		engine:  engine,
		session: engine.NewSession(),
		in:      in,
		out:     out,
		prompt:  DefaultPrompt,
		banner:  true,
		logger:  engine.Logger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run reads inputs until end of input, "exit" or ctx is done. Multi-line
// input is collected while braces are unbalanced.
func (r *REPL) Run(ctx context.Context) error {
	if r.banner {
		fmt.Fprintln(r.out, "Welcome to the Monkey programming language!")
		fmt.Fprintln(r.out, "Type 'exit' to quit, ':tokens <src>' or ':ast <src>' to inspect input")
		fmt.Fprintln(r.out, "For multi-line input: ensure braces {} are balanced")
		fmt.Fprintln(r.out)
	}

	scanner := bufio.NewScanner(r.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, r.prompt)
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}

		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "exit" {
			return nil
		}
		if trimmed == "" {
			continue
		}

		input := line
		braceCount := countBraces(line)
		for braceCount > 0 {
			fmt.Fprint(r.out, continuationPrompt)
			if !scanner.Scan() {
				break
			}
			next := scanner.Text()
			input += "\n" + next
			braceCount += countBraces(next)
		}

		r.handle(ctx, input)
	}
}

func (r *REPL) handle(ctx context.Context, input string) {
	trimmed := strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(trimmed, ":tokens"):
		for _, tok := range monkey.Tokenize(strings.TrimSpace(strings.TrimPrefix(trimmed, ":tokens"))) {
			fmt.Fprintf(r.out, "%d:%d\t%s\n", tok.Line, tok.Column, tok)
		}
		return
	case strings.HasPrefix(trimmed, ":ast"):
		program, err := monkey.Parse(strings.TrimSpace(strings.TrimPrefix(trimmed, ":ast")))
		if err != nil {
			r.printError(err)
			return
		}
		for _, stmt := range program.Statements {
			fmt.Fprintln(r.out, stmt.String())
		}
		return
	}

	result, err := r.session.Eval(ctx, input)
	r.record(input, result, err)

	var perr *monkey.ParseError
	var rerr *monkey.RuntimeError
	switch {
	case errors.As(err, &perr):
		r.printError(err)
	case errors.As(err, &rerr):
		fmt.Fprintln(r.out, result.Inspect)
	case err != nil:
		fmt.Fprintf(r.out, "error: %v\n", err)
	case result.Type != "NULL":
		fmt.Fprintln(r.out, result.Inspect)
	}
}

func (r *REPL) printError(err error) {
	var perr *monkey.ParseError
	if !errors.As(err, &perr) {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, "parser errors:")
	for _, msg := range perr.Messages {
		fmt.Fprintf(r.out, "\t%s\n", msg)
	}
}

func (r *REPL) record(input string, result monkey.Result, err error) {
	if r.transcript == nil {
		return
	}
	entry := transcript.Entry{
		Session:  r.session.ID,
		Source:   input,
		Type:     result.Type,
		Result:   result.Inspect,
		Duration: result.Duration,
	}
	if err != nil {
		entry.Error = err.Error()
	}
	if werr := r.transcript.Append(entry); werr != nil {
		r.logger.Error().Err(werr).Str("path", r.transcript.Path()).Msg("failed to write transcript")
	}
}

// countBraces returns the net number of open braces in line, ignoring any
// inside string literals.
func countBraces(line string) int {
	count := 0
	inString := false
	for _, ch := range line {
		switch {
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			count++
		case ch == '}':
			count--
		}
	}
	return count
}
