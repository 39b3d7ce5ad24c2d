package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"interviewio/internal/model"
)

func TestMockExecutor_Outputs(t *testing.T) {
	exec := NewMockExecutor(0, 0)

	tests := []struct {
		name     string
		code     string
		lang     model.Language
		stdout   string
		stderr   string
		exitCode int
	}{
		{"error keyword", "throw Error()", model.LangJavaScript, "", "Compilation error: undefined reference to 'error'", 1},
		{"hello", `print("hello")`, model.LangPython, "Hello, World!\n", "", 0},
		{"c program", "int main(){return 0;}", model.LangC, "Program executed successfully\n", "", 0},
		{"cpp program", "int main(){}", model.LangCPP, "Program executed successfully\n", "", 0},
		{"java program", "class A {}", model.LangJava, "Code executed in Java\n", "", 0},
		{"python program", "x = 1", model.LangPython, "Code executed in Python\n", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := exec.Execute(context.Background(), tt.code, tt.lang)
			if err != nil {
				t.Fatalf("Execute: %v", err)
			}
			if out.Stdout != tt.stdout || out.Stderr != tt.stderr {
				t.Errorf("output = %+v", out)
			}
			if out.ExitCode == nil || *out.ExitCode != tt.exitCode {
				t.Errorf("exit code = %v, want %d", out.ExitCode, tt.exitCode)
			}
		})
	}
}

func TestMockExecutor_DelayHonoursContext(t *testing.T) {
	exec := NewMockExecutor(time.Hour, time.Hour)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := exec.Execute(ctx, "x", model.LangC); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}
