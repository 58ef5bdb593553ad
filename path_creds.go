package seedpassplugin

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathCreds(b *seedpassBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "creds/" + framework.GenericNameRegex("name"),
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeString,
					Description: "Name of the role.",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathCredsRead,
				},
			},
			HelpSynopsis:    "Read the current password for a role.",
			HelpDescription: "Derives and returns the password for the named role's seed, policy and current generation.",
		},
	}
}

func (b *seedpassBackend) pathCredsRead(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	b.roleMutex.RLock()
	defer b.roleMutex.RUnlock()

	role, err := getRole(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return logical.ErrorResponse("role %q not found", name), nil
	}

	p, err := getPolicy(ctx, req.Storage, role.Policy)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return logical.ErrorResponse("policy %q not found for role %q", role.Policy, name), nil
	}

	password, err := GeneratePassword(DerivationSeed(role.Seed, role.Generation), p)
	if err != nil {
		return nil, fmt.Errorf("deriving password for role %q: %w", name, err)
	}

	data := map[string]interface{}{
		"password":   password,
		"policy":     role.Policy,
		"generation": role.Generation,
	}
	if !role.LastRotated.IsZero() {
		data["last_rotated"] = role.LastRotated.Format(time.RFC3339)
	}

	return &logical.Response{Data: data}, nil
}
