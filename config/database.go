package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyURI          = errors.New("database uri cannot be empty")
	ErrUnsupportedScheme = errors.New("unsupported database uri format")
)

type Family string

const (
	FamilyPostgres Family = "postgres"
	FamilyBadger   Family = "badger"
	FamilyMemory   Family = "memory"
)

// scheme pairs the blocking and the concurrent prefix of one storage family.
type scheme struct {
	family Family
	sync   string
	async  string
}

var schemes = []scheme{
	{family: FamilyPostgres, sync: "postgresql://", async: "postgres://"},
	{family: FamilyBadger, sync: "badger://", async: "badger+async://"},
	{family: FamilyMemory, sync: "memory://", async: "memory+async://"},
}

type DatabaseConfig struct {
	URI      string
	MaxConns int32 `validate:"gte=0"`
}

func (c DatabaseConfig) resolve() (scheme, string, error) {
	uri := strings.TrimSpace(c.URI)
	if uri == "" {
		return scheme{}, "", ErrEmptyURI
	}
	for _, s := range schemes {
		if rest, ok := strings.CutPrefix(uri, s.sync); ok {
			return s, rest, nil
		}
		if rest, ok := strings.CutPrefix(uri, s.async); ok {
			return s, rest, nil
		}
	}
	name, _, _ := strings.Cut(uri, "://")
	return scheme{}, "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, name)
}

func (c DatabaseConfig) Family() (Family, error) {
	s, _, err := c.resolve()
	if err != nil {
		return "", err
	}
	return s.family, nil
}

// SyncURI returns the URI in the form used by blocking sessions.
func (c DatabaseConfig) SyncURI() (string, error) {
	s, rest, err := c.resolve()
	if err != nil {
		return "", err
	}
	return s.sync + rest, nil
}

// AsyncURI returns the URI in the form used by the concurrent request path.
func (c DatabaseConfig) AsyncURI() (string, error) {
	s, rest, err := c.resolve()
	if err != nil {
		return "", err
	}
	return s.async + rest, nil
}

// Location is the URI without its scheme, e.g. the badger directory.
func (c DatabaseConfig) Location() (string, error) {
	_, rest, err := c.resolve()
	return rest, err
}
