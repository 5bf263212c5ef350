package principal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// usersFile is the YAML shape for seeding a MemoryStore in local and demo
// deployments:
//
//	users:
//	  - subject: u-1
//	    username: alice
//	    password: s3cret
//	    roles: [USER, ADMIN]
//	    enabled: true
type usersFile struct {
	Users []struct {
		Subject  string   `yaml:"subject"`
		Username string   `yaml:"username"`
		Password string   `yaml:"password"`
		Roles    []string `yaml:"roles"`
		Enabled  bool     `yaml:"enabled"`
	} `yaml:"users"`
}

// LoadMemoryStore builds a MemoryStore from a YAML users file.
func LoadMemoryStore(path string) (*MemoryStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var uf usersFile
	if err := yaml.Unmarshal(data, &uf); err != nil {
		return nil, fmt.Errorf("failed to parse users file %s: %w", path, err)
	}

	store := NewMemoryStore()
	for i, u := range uf.Users {
		if u.Subject == "" || u.Username == "" {
			return nil, fmt.Errorf("user %d: subject and username are required", i)
		}
		err := store.Add(Principal{
			Subject:  u.Subject,
			Username: u.Username,
			Enabled:  u.Enabled,
			Roles:    u.Roles,
		}, u.Password)
		if err != nil {
			return nil, fmt.Errorf("user %d (%s): %w", i, u.Username, err)
		}
	}
	return store, nil
}
