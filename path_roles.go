package seedpassplugin

import (
	"context"
	"time"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathRoles(b *seedpassBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "roles/" + framework.GenericNameRegex("name"),
			Fields: map[string]*framework.FieldSchema{
				"name": {
					Type:        framework.TypeString,
					Description: "Name of the role.",
					Required:    true,
				},
				"policy": {
					Type:        framework.TypeString,
					Description: "Name of the password policy to derive with.",
					Required:    true,
				},
				"seed": {
					Type:        framework.TypeString,
					Description: "Secret seed the password is derived from. Write-only.",
					Required:    true,
					DisplayAttrs: &framework.DisplayAttributes{
						Sensitive: true,
					},
				},
				"rotation_period": {
					Type:        framework.TypeDurationSecond,
					Description: "How often to advance the role to a new password, in seconds. 0 disables automatic rotation.",
					Default:     0,
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.CreateOperation: &framework.PathOperation{
					Callback: b.pathRolesWrite,
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathRolesWrite,
				},
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathRolesRead,
				},
				logical.DeleteOperation: &framework.PathOperation{
					Callback: b.pathRolesDelete,
				},
			},
			ExistenceCheck:  b.pathRolesExistenceCheck,
			HelpSynopsis:    "Manage roles that bind a seed to a password policy.",
			HelpDescription: "Create, read, update, or delete a role. A role's password is derived from its seed, its policy and its current generation.",
		},
		{
			Pattern: "roles/?$",
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ListOperation: &framework.PathOperation{
					Callback: b.pathRolesList,
				},
			},
			HelpSynopsis:    "List configured roles.",
			HelpDescription: "List the names of all configured roles.",
		},
	}
}

func (b *seedpassBackend) pathRolesExistenceCheck(ctx context.Context, req *logical.Request, d *framework.FieldData) (bool, error) {
	name := d.Get("name").(string)
	role, err := getRole(ctx, req.Storage, name)
	if err != nil {
		return false, err
	}
	return role != nil, nil
}

func (b *seedpassBackend) pathRolesWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)
	policyName := d.Get("policy").(string)
	seed := d.Get("seed").(string)
	rotationPeriodSec := d.Get("rotation_period").(int)

	if policyName == "" {
		return logical.ErrorResponse("policy is required"), nil
	}
	if rotationPeriodSec < 0 {
		return logical.ErrorResponse("rotation_period must not be negative"), nil
	}

	// Verify the referenced policy exists
	p, err := getPolicy(ctx, req.Storage, policyName)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return logical.ErrorResponse("policy %q not found", policyName), nil
	}

	b.roleMutex.Lock()
	defer b.roleMutex.Unlock()

	// Preserve the seed, generation and last_rotated if updating
	existing, err := getRole(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}

	role := &RoleEntry{
		Policy:         policyName,
		Seed:           seed,
		RotationPeriod: time.Duration(rotationPeriodSec) * time.Second,
		LastRotated:    time.Now().UTC(),
	}

	if existing != nil {
		if role.Seed == "" {
			role.Seed = existing.Seed
		}
		role.Generation = existing.Generation
		role.LastRotated = existing.LastRotated
	}
	if role.Seed == "" {
		return logical.ErrorResponse("seed is required"), nil
	}

	if err := putRole(ctx, req.Storage, name, role); err != nil {
		return nil, err
	}

	return nil, nil
}

func (b *seedpassBackend) pathRolesRead(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	role, err := getRole(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, nil
	}

	data := map[string]interface{}{
		"policy":          role.Policy,
		"rotation_period": int(role.RotationPeriod.Seconds()),
		"generation":      role.Generation,
	}
	if !role.LastRotated.IsZero() {
		data["last_rotated"] = role.LastRotated.Format(time.RFC3339)
	}

	return &logical.Response{Data: data}, nil
}

func (b *seedpassBackend) pathRolesDelete(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	b.roleMutex.Lock()
	defer b.roleMutex.Unlock()

	if err := deleteRole(ctx, req.Storage, name); err != nil {
		return nil, err
	}

	return nil, nil
}

func (b *seedpassBackend) pathRolesList(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	roles, err := listRoles(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	return logical.ListResponse(roles), nil
}
