package seedpassplugin

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/sdk/logical"
)

const (
	policyStoragePrefix = "policies/"
	roleStoragePrefix   = "roles/"
)

// getEntry decodes the JSON entry at path into a T. A missing entry yields
// (nil, nil).
func getEntry[T any](ctx context.Context, s logical.Storage, path string) (*T, error) {
	entry, err := s.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if entry == nil {
		return nil, nil
	}

	out := new(T)
	if err := entry.DecodeJSON(out); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return out, nil
}

func putEntry(ctx context.Context, s logical.Storage, path string, v interface{}) error {
	entry, err := logical.StorageEntryJSON(path, v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := s.Put(ctx, entry); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func getPolicy(ctx context.Context, s logical.Storage, name string) (*Policy, error) {
	return getEntry[Policy](ctx, s, policyStoragePrefix+name)
}

func putPolicy(ctx context.Context, s logical.Storage, name string, p *Policy) error {
	return putEntry(ctx, s, policyStoragePrefix+name, p)
}

func deletePolicy(ctx context.Context, s logical.Storage, name string) error {
	return s.Delete(ctx, policyStoragePrefix+name)
}

func listPolicies(ctx context.Context, s logical.Storage) ([]string, error) {
	return s.List(ctx, policyStoragePrefix)
}

func getRole(ctx context.Context, s logical.Storage, name string) (*RoleEntry, error) {
	return getEntry[RoleEntry](ctx, s, roleStoragePrefix+name)
}

func putRole(ctx context.Context, s logical.Storage, name string, role *RoleEntry) error {
	return putEntry(ctx, s, roleStoragePrefix+name, role)
}

func deleteRole(ctx context.Context, s logical.Storage, name string) error {
	return s.Delete(ctx, roleStoragePrefix+name)
}

func listRoles(ctx context.Context, s logical.Storage) ([]string, error) {
	return s.List(ctx, roleStoragePrefix)
}
