// Package tokenfile keeps the access and refresh tokens issued by the auth
// service between runs.
package tokenfile

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (t Tokens) Empty() bool {
	return t.AccessToken == "" && t.RefreshToken == ""
}

type Store interface {
	Load() (Tokens, error)
	Save(tokens Tokens) error
	Clear() error
}

type fileContents struct {
	Tokens Tokens `json:"tokens"`
}

// File stores tokens as JSON. A missing file reads as empty tokens.
type File struct {
	path string
	mu   sync.Mutex
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Load() (Tokens, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return Tokens{}, nil
	}
	if err != nil {
		return Tokens{}, errors.Wrapf(err, "read token file %s", f.path)
	}

	var contents fileContents
	if err := json.Unmarshal(data, &contents); err != nil {
		return Tokens{}, errors.Wrapf(err, "parse token file %s", f.path)
	}
	return contents.Tokens, nil
}

func (f *File) Save(tokens Tokens) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(fileContents{Tokens: tokens}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode tokens")
	}
	return errors.Wrapf(os.WriteFile(f.path, data, 0600), "write token file %s", f.path)
}

func (f *File) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "remove token file %s", f.path)
	}
	return nil
}

type Memory struct {
	mu     sync.Mutex
	tokens Tokens
}

func NewMemory(initial Tokens) *Memory {
	return &Memory{tokens: initial}
}

func (m *Memory) Load() (Tokens, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tokens, nil
}

func (m *Memory) Save(tokens Tokens) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = tokens
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = Tokens{}
	return nil
}
