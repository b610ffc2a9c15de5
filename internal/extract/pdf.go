package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// CommandRunner runs an external command and returns its stdout
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// PDF extracts text with poppler's pdftotext. Pages are concatenated
// without page-break characters.
type PDF struct {
	toolPath string
	runner   CommandRunner
	check    func() error
}

// NewPDF uses the pdftotext binary at toolPath, looked up on PATH
func NewPDF(toolPath string) *PDF {
	p := &PDF{toolPath: toolPath, runner: execRunner{}}
	p.check = p.CheckAvailable
	return p
}

// NewPDFWithRunner uses runner instead of executing toolPath directly
func NewPDFWithRunner(toolPath string, runner CommandRunner) *PDF {
	return &PDF{toolPath: toolPath, runner: runner}
}

// CheckAvailable reports ErrToolNotFound when pdftotext cannot be found
func (p *PDF) CheckAvailable() error {
	if _, err := exec.LookPath(p.toolPath); err != nil {
		return fmt.Errorf("%w: %s (install poppler: brew install poppler, apt install poppler-utils)", ErrToolNotFound, p.toolPath)
	}
	return nil
}

func (p *PDF) Extensions() []string {
	return []string{".pdf"}
}

func (p *PDF) MediaTypes() []string {
	return []string{"application/pdf"}
}

func (p *PDF) Extract(ctx context.Context, name string, content []byte) (string, error) {
	if content == nil {
		return "", ErrInvalidInput
	}
	if p.check != nil {
		if err := p.check(); err != nil {
			return "", err
		}
	}

	tmp, err := os.CreateTemp("", "docmatch-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}

	out, err := p.runner.Run(ctx, p.toolPath, "-enc", "UTF-8", "-nopgbrk", tmp.Name(), "-")
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
			return "", fmt.Errorf("pdftotext failed on %s: %s", name, exitErr.Stderr)
		}
		return "", fmt.Errorf("pdftotext failed on %s: %w", name, err)
	}
	return string(out), nil
}
