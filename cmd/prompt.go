package cmd

import (
	"errors"
	"fmt"
	"net/mail"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"

	"github.com/spigell/cvmatch/internal/secrets"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	passwordEnv = envPrefix + "_PASSWORD"
)

var errNotInteractive = errors.New("stdin is not a terminal")

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// readPassword takes the password from a file or CVMATCH_PASSWORD and falls
// back to a masked prompt on a terminal.
func readPassword(label, file string) (string, error) {
	src := secrets.Source{
		Name: "password",
		File: file,
		Env:  passwordEnv,
	}
	if src.Configured() {
		return secrets.Load(src)
	}

	if !interactive() {
		return "", fmt.Errorf("%w: set --password-file or %s", errNotInteractive, passwordEnv)
	}

	prompt := promptui.Prompt{
		Label: label,
		Mask:  '*',
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return errors.New("password must not be empty")
			}
			return nil
		},
	}

	return prompt.Run()
}

// readEmail returns value when set, otherwise asks for it on a terminal.
func readEmail(value string) (string, error) {
	if value = strings.TrimSpace(value); value != "" {
		return value, validateEmail(value)
	}

	if !interactive() {
		return "", fmt.Errorf("%w: set --email", errNotInteractive)
	}

	prompt := promptui.Prompt{
		Label:    "Email",
		Validate: validateEmail,
	}

	email, err := prompt.Run()
	return strings.TrimSpace(email), err
}

func readLine(label, value string) (string, error) {
	if value = strings.TrimSpace(value); value != "" {
		return value, nil
	}

	if !interactive() {
		return "", fmt.Errorf("%w: %s is required", errNotInteractive, strings.ToLower(label))
	}

	prompt := promptui.Prompt{Label: label}
	line, err := prompt.Run()
	return strings.TrimSpace(line), err
}

func validateEmail(s string) error {
	if _, err := mail.ParseAddress(strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid email %q", s)
	}
	return nil
}

// confirm asks a yes/no question. It answers yes without asking when assumeYes
// is set and refuses when there is no terminal to ask on.
func confirm(label string, assumeYes bool) (bool, error) {
	if assumeYes {
		return true, nil
	}

	if !interactive() {
		return false, fmt.Errorf("%w: pass --yes to confirm", errNotInteractive)
	}

	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return false, err
	}

	return answer == PromptYes, nil
}
