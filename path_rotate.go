package seedpassplugin

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathRotateRole(b *seedpassBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "rotate-role/" + framework.GenericNameRegex("name"),
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeString,
					Description: "Name of the role to rotate.",
					Required:    true,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.CreateOperation: &framework.PathOperation{
					Callback: b.pathRotateRoleWrite,
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathRotateRoleWrite,
				},
			},
			ExistenceCheck:  b.pathRotateRoleExistenceCheck,
			HelpSynopsis:    "Rotate the password for a role.",
			HelpDescription: "Advances the named role to its next generation, so subsequent reads of creds derive a different password.",
		},
	}
}

func (b *seedpassBackend) pathRotateRoleExistenceCheck(ctx context.Context, req *logical.Request, d *framework.FieldData) (bool, error) {
	name := d.Get("name").(string)
	role, err := getRole(ctx, req.Storage, name)
	if err != nil {
		return false, err
	}
	return role != nil, nil
}

func (b *seedpassBackend) pathRotateRoleWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)
	return b.rotateRole(ctx, req.Storage, name)
}

func (b *seedpassBackend) rotateRole(ctx context.Context, s logical.Storage, name string) (*logical.Response, error) {
	b.roleMutex.Lock()
	defer b.roleMutex.Unlock()

	role, err := getRole(ctx, s, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return logical.ErrorResponse("role %q not found", name), nil
	}

	p, err := getPolicy(ctx, s, role.Policy)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return logical.ErrorResponse("policy %q not found for role %q", role.Policy, name), nil
	}

	// Never advance to a generation that cannot be derived.
	if _, err := GeneratePassword(DerivationSeed(role.Seed, role.Generation+1), p); err != nil {
		b.Logger().Error("cannot derive next password",
			"role", name,
			"policy", role.Policy,
			"error", err,
		)
		return logical.ErrorResponse("failed to rotate role %q: %s", name, err), nil
	}

	role.Generation++
	role.LastRotated = time.Now().UTC()

	if err := putRole(ctx, s, name, role); err != nil {
		return nil, fmt.Errorf("storing rotated role %q: %w", name, err)
	}

	return nil, nil
}
