package vault

import (
	"fmt"

	"github.com/hashicorp/vault/api"
)

type Vault struct {
	SecretPath string
	*api.Client
}

func New(token, address, secretPath string) (*Vault, error) {
	config := &api.Config{
		Address: address,
	}

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("new: error initializing vault: %w", err)
	}

	client.SetToken(token)

	s := client.Sys()
	status, err := s.SealStatus()
	if err != nil {
		return nil, fmt.Errorf("new: error getting seal status: %w", err)
	}

	if status.Sealed {
		return nil, fmt.Errorf("new: vault at %s is sealed", address)
	}

	return &Vault{SecretPath: secretPath, Client: client}, nil
}

// Reader is the part of the vault client the secret loading needs.
type Reader interface {
	Read(path string) (*api.Secret, error)
}

// Secrets reads the string values stored under path. Both kv v1 and kv v2 layouts are accepted.
func Secrets(r Reader, path string) (map[string]string, error) {
	secret, err := r.Read(path)
	if err != nil {
		return nil, fmt.Errorf("secrets: unable to read %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("secrets: nothing stored at %s", path)
	}

	data := secret.Data
	if nested, ok := data["data"].(map[string]interface{}); ok {
		data = nested
	}

	out := map[string]string{}
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out, nil
}

func (v *Vault) Secrets() (map[string]string, error) {
	return Secrets(v.Logical(), v.SecretPath)
}
