// Package credentials resolves the username/password pair used to log in to
// the deployment API. Credentials are resolved once per process and are
// never written anywhere.
package credentials

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
)

const (
	// EnvUsername and EnvPassword are read by the Env provider
	EnvUsername = "CORRINO_USERNAME"
	EnvPassword = "CORRINO_PASSWORD"
)

// ErrMissingCredentials is returned when no provider yields both fields
var ErrMissingCredentials = errors.New("username and password are required")

// Credentials is a username/password pair
type Credentials struct {
	Username string
	Password string
}

// Complete reports whether both fields are set
func (c Credentials) Complete() bool {
	return c.Username != "" && c.Password != ""
}

// Validate rejects incomplete credentials
func (c Credentials) Validate() error {
	if !c.Complete() {
		return ErrMissingCredentials
	}
	return nil
}

// merge fills the empty fields of c from other. Only the username is trimmed.
func (c Credentials) merge(other Credentials) Credentials {
	if c.Username == "" {
		c.Username = strings.TrimSpace(other.Username)
	}
	if c.Password == "" {
		c.Password = other.Password
	}
	return c
}

// Provider yields credentials, possibly only partially
type Provider interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Static returns fixed credentials, typically from command-line flags
type Static Credentials

// Credentials implements Provider
func (s Static) Credentials(ctx context.Context) (Credentials, error) {
	return Credentials(s), nil
}

// Env reads CORRINO_USERNAME and CORRINO_PASSWORD
type Env struct {
	lookup func(string) (string, bool)
}

// Credentials implements Provider
func (e Env) Credentials(ctx context.Context) (Credentials, error) {
	lookup := e.lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	username, _ := lookup(EnvUsername)
	password, _ := lookup(EnvPassword)
	return Credentials{Username: username, Password: password}, nil
}

// AskFunc matches survey.AskOne
type AskFunc func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// Prompt asks interactively, masking the password. Username is asked only
// when it is not already known.
type Prompt struct {
	Username string
	Ask      AskFunc
}

// Credentials implements Provider
func (p Prompt) Credentials(ctx context.Context) (Credentials, error) {
	ask := p.Ask
	if ask == nil {
		ask = survey.AskOne
	}

	creds := Credentials{Username: strings.TrimSpace(p.Username)}
	if creds.Username == "" {
		if err := ask(&survey.Input{Message: "Username:"}, &creds.Username, survey.WithValidator(survey.Required)); err != nil {
			return Credentials{}, fmt.Errorf("failed to read username: %w", err)
		}
	}

	if err := ask(&survey.Password{Message: "Password:"}, &creds.Password, survey.WithValidator(survey.Required)); err != nil {
		return Credentials{}, fmt.Errorf("failed to read password: %w", err)
	}

	creds.Username = strings.TrimSpace(creds.Username)
	return creds, nil
}

// Chain consults providers in order until the credentials are complete.
// A later provider only fills fields an earlier one left empty.
type Chain []Provider

// Credentials implements Provider
func (c Chain) Credentials(ctx context.Context) (Credentials, error) {
	var creds Credentials
	for _, provider := range c {
		if creds.Complete() {
			break
		}
		if prompt, ok := provider.(Prompt); ok && prompt.Username == "" {
			prompt.Username = creds.Username
			provider = prompt
		}
		next, err := provider.Credentials(ctx)
		if err != nil {
			return Credentials{}, err
		}
		creds = creds.merge(next)
	}
	return creds, creds.Validate()
}

// Resolve returns complete credentials from provider or an error
func Resolve(ctx context.Context, provider Provider) (Credentials, error) {
	creds, err := provider.Credentials(ctx)
	if err != nil {
		return Credentials{}, err
	}
	creds = Credentials{}.merge(creds)
	if err := creds.Validate(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
