package seedpassplugin

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func pathGenerate(b *seedpassBackend) []*framework.Path {
	return []*framework.Path{
		{
			Pattern: "generate/" + framework.GenericNameRegex("policy"),
			Fields: map[string]*framework.FieldSchema{
				"policy": {
					Type:        framework.TypeString,
					Description: "Name of the password policy.",
					Required:    true,
				},
				"seed": {
					Type:        framework.TypeString,
					Description: "Seed to derive the password from.",
					Required:    true,
					DisplayAttrs: &framework.DisplayAttributes{
						Sensitive: true,
					},
				},
			},
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathGenerateWrite,
				},
			},
			HelpSynopsis:    "Derive a password from a seed.",
			HelpDescription: "Derives the password for the given seed under the named policy without storing anything. The same seed always yields the same password.",
		},
	}
}

func (b *seedpassBackend) pathGenerateWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	policyName := d.Get("policy").(string)
	seed, ok := d.GetOk("seed")
	if !ok {
		return logical.ErrorResponse("seed is required"), nil
	}

	p, err := getPolicy(ctx, req.Storage, policyName)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return logical.ErrorResponse("policy %q not found", policyName), nil
	}

	password, err := GeneratePassword(seed.(string), p)
	if err != nil {
		return nil, fmt.Errorf("deriving password with policy %q: %w", policyName, err)
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"password": password,
		},
	}, nil
}
