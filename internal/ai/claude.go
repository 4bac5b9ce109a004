// Package ai delegates utterances the interpreter cannot resolve to a hosted
// language model, via the Claude Code CLI. Replies are opaque text: nothing
// in the core depends on their structure.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// claudeResponse represents the JSON structure returned by Claude Code CLI
// when using --output-format json.
type claudeResponse struct {
	Type    string `json:"type"`
	Result  string `json:"result"`
	IsError bool   `json:"is_error"`
}

// CommandContext is the function used to create exec.Cmd instances.
// It can be replaced in tests to mock command execution.
var CommandContext = exec.CommandContext

// DefaultFallbackTimeout bounds a single fallback call.
const DefaultFallbackTimeout = 60 * time.Second

// ErrUnavailable indicates the claude command is not installed.
var ErrUnavailable = errors.New("Claude Code CLI not found. Install it: https://claude.ai/code")

// IsClaudeAvailable checks if the claude command exists in PATH.
func IsClaudeAvailable() bool {
	_, err := exec.LookPath("claude")
	return err == nil
}

// Fallback answers utterances that matched no command pattern.
type Fallback interface {
	Reply(ctx context.Context, utterance string, recent []string) (string, error)
}

// Claude is a Fallback backed by the Claude Code CLI.
type Claude struct{}

// Reply sends the utterance plus recent conversation context and returns the
// model's free-text response. The context controls cancellation; if it has
// no deadline, DefaultFallbackTimeout is applied.
func (Claude) Reply(ctx context.Context, utterance string, recent []string) (string, error) {
	if !IsClaudeAvailable() {
		return "", ErrUnavailable
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultFallbackTimeout)
		defer cancel()
	}

	prompt := buildFallbackPrompt(utterance, recent)

	// --dangerously-skip-permissions is required for non-interactive use. This is safe here
	// because we only use the -p flag with a controlled prompt (no file access or tool use).
	cmd := CommandContext(ctx, "claude", "-p", prompt, "--output-format", "json", "--dangerously-skip-permissions")
	output, err := cmd.Output()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", errors.New("fallback reply timed out")
		}
		if ctx.Err() == context.Canceled {
			return "", errors.New("fallback reply was cancelled")
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("claude command failed: %s", string(exitErr.Stderr))
		}
		return "", fmt.Errorf("failed to execute claude command: %w", err)
	}

	return extractText(output)
}

// buildFallbackPrompt frames the utterance with recent exchanges so the model
// can answer in context.
func buildFallbackPrompt(utterance string, recent []string) string {
	var b strings.Builder
	b.WriteString("You are SmartTask, a friendly personal task and goal assistant. ")
	b.WriteString("Answer the user's message conversationally in a few sentences. ")
	b.WriteString("If they seem to want a task command, suggest the exact phrasing, ")
	b.WriteString("for example: 'add buy milk due tomorrow priority high'.\n\n")

	if len(recent) > 0 {
		b.WriteString("Recent conversation:\n")
		for _, line := range recent {
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("User message: ")
	b.WriteString(utterance)
	return b.String()
}

// extractText pulls the result text out of the CLI's JSON wrapper, falling
// back to the raw output when the wrapper is absent.
func extractText(data []byte) (string, error) {
	var resp claudeResponse
	if err := json.Unmarshal(data, &resp); err == nil && resp.Type == "result" {
		if resp.IsError {
			return "", errors.New("claude returned an error: " + resp.Result)
		}
		return strings.TrimSpace(resp.Result), nil
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("empty response from claude")
	}
	return text, nil
}
