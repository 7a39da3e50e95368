// Package ui holds the interactive pieces of the CLI: an fzf picker, result
// rendering and the download progress display. Items reach fzf as plain text
// on stdin; no remote data is ever placed in fzf arguments.
package ui

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"snaplink/internal/media"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("selection cancelled")

// Select presents items via fzf and returns the chosen index.
func Select(prompt string, items []string) (int, error) {
	if len(items) == 0 {
		return -1, fmt.Errorf("no items to select from")
	}

	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return -1, fmt.Errorf("fzf not found in PATH: %w", err)
	}

	// index<TAB>label, with the index column hidden
	var input strings.Builder
	for i, item := range items {
		fmt.Fprintf(&input, "%d\t%s\n", i, strings.ReplaceAll(item, "\n", " "))
	}

	cmd := exec.Command(fzfPath,
		"--prompt", prompt+" > ",
		"--height", "40%",
		"--reverse",
		"--with-nth", "2..",
		"--delimiter", "\t",
		"--no-multi",
		"--cycle",
	)
	cmd.Stdin = strings.NewReader(input.String())
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 130 {
			return -1, ErrCancelled
		}
		return -1, fmt.Errorf("fzf failed: %w", err)
	}

	return parseSelection(stdout.String(), len(items))
}

// parseSelection reads the hidden index column of an fzf output line.
func parseSelection(out string, n int) (int, error) {
	selected := strings.TrimSpace(out)
	if selected == "" {
		return -1, ErrCancelled
	}

	field, _, _ := strings.Cut(selected, "\t")
	idx, err := strconv.Atoi(field)
	if err != nil {
		return -1, fmt.Errorf("parsing selection index: %w", err)
	}
	if idx < 0 || idx >= n {
		return -1, fmt.Errorf("selection index %d out of range", idx)
	}
	return idx, nil
}

// Confirm asks a yes/no question via fzf.
func Confirm(prompt string) (bool, error) {
	idx, err := Select(prompt, []string{"Yes", "No"})
	if err != nil {
		return false, err
	}
	return idx == 0, nil
}

// Input prompts for free text via fzf's --print-query.
func Input(prompt string) (string, error) {
	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return "", fmt.Errorf("fzf not found in PATH: %w", err)
	}

	cmd := exec.Command(fzfPath,
		"--prompt", prompt+" > ",
		"--height", "10%",
		"--reverse",
		"--print-query",
		"--no-info",
	)
	cmd.Stdin = strings.NewReader("")
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	// exit status 1 means "no match", which --print-query always hits
	_ = cmd.Run()

	query, _, _ := strings.Cut(stdout.String(), "\n")
	if query = strings.TrimSpace(query); query == "" {
		return "", fmt.Errorf("no input provided")
	}
	return query, nil
}

// AssetLabels describes each asset of r on one line for Select.
func AssetLabels(r *media.Result) []string {
	labels := make([]string, len(r.Assets))
	for i, a := range r.Assets {
		parts := []string{string(a.Type)}
		if a.Quality != "" {
			parts = append(parts, a.Quality)
		}
		if a.Format != "" {
			parts = append(parts, a.Format)
		}
		labels[i] = fmt.Sprintf("%d. %s", i+1, strings.Join(parts, " · "))
	}
	return labels
}
