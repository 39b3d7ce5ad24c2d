package service

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"

	"interviewio/internal/model"
)

// Executor runs source code and captures its output
type Executor interface {
	Execute(ctx context.Context, code string, lang model.Language) (*model.CodeOutput, error)
}

// MockExecutor simulates a remote execution backend. It never runs the code;
// the output is derived from the source text after a random delay.
type MockExecutor struct {
	minDelay time.Duration
	maxDelay time.Duration
}

// NewMockExecutor creates a mock executor with latency in [minDelay, maxDelay]
func NewMockExecutor(minDelay, maxDelay time.Duration) *MockExecutor {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &MockExecutor{minDelay: minDelay, maxDelay: maxDelay}
}

// Execute implements Executor
func (e *MockExecutor) Execute(ctx context.Context, code string, lang model.Language) (*model.CodeOutput, error) {
	delay := e.minDelay
	if spread := e.maxDelay - e.minDelay; spread > 0 {
		delay += rand.N(spread)
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
	}

	switch {
	case strings.Contains(code, "error") || strings.Contains(code, "Error"):
		return &model.CodeOutput{
			Stderr:   "Compilation error: undefined reference to 'error'",
			ExitCode: model.ExitCodePtr(1),
		}, nil
	case strings.Contains(code, "hello") || strings.Contains(code, "Hello"):
		return &model.CodeOutput{
			Stdout:   "Hello, World!\n",
			ExitCode: model.ExitCodePtr(0),
		}, nil
	case lang == model.LangC || lang == model.LangCPP:
		return &model.CodeOutput{
			Stdout:   "Program executed successfully\n",
			ExitCode: model.ExitCodePtr(0),
		}, nil
	}

	return &model.CodeOutput{
		Stdout:   "Code executed in " + lang.DisplayName() + "\n",
		ExitCode: model.ExitCodePtr(0),
	}, nil
}
