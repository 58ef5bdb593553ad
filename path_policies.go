package seedpassplugin

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

func policyFields() map[string]*framework.FieldSchema {
	return map[string]*framework.FieldSchema{
		"password_length": {
			Type:        framework.TypeInt,
			Description: "Total number of characters in a derived password.",
			Required:    true,
		},
		"allowed_letters": {
			Type:        framework.TypeString,
			Description: "Letters the password body and its optional first and last characters are drawn from.",
			Required:    true,
		},
		"obligatory_sets": {
			Type:        framework.TypeSlice,
			Description: "Character sets of which each password must contain at least one character. Whitespace inside a set is kept.",
		},
		"upper_and_lowercase": {
			Type:        framework.TypeBool,
			Description: "Use both the lowercase and the uppercase form of every allowed letter.",
			Default:     false,
		},
		"starts_with_letter": {
			Type:        framework.TypeBool,
			Description: "Require the first character to be a letter.",
			Default:     false,
		},
		"ends_with_letter": {
			Type:        framework.TypeBool,
			Description: "Require the last character to be a letter.",
			Default:     false,
		},
	}
}

func pathPolicies(b *seedpassBackend) []*framework.Path {
	fields := policyFields()
	fields["name"] = &framework.FieldSchema{
		Type:        framework.TypeString,
		Description: "Name of the policy.",
		Required:    true,
	}

	return []*framework.Path{
		{
			Pattern: "policies/" + framework.GenericNameRegex("name"),
			Fields:  fields,
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.CreateOperation: &framework.PathOperation{
					Callback: b.pathPoliciesWrite,
				},
				logical.UpdateOperation: &framework.PathOperation{
					Callback: b.pathPoliciesWrite,
				},
				logical.ReadOperation: &framework.PathOperation{
					Callback: b.pathPoliciesRead,
				},
				logical.DeleteOperation: &framework.PathOperation{
					Callback: b.pathPoliciesDelete,
				},
			},
			ExistenceCheck:  b.pathPoliciesExistenceCheck,
			HelpSynopsis:    "Manage password composition policies.",
			HelpDescription: "Create, read, update, or delete the rules a derived password must satisfy: its length, letters, obligatory character sets, and leading or trailing letters.",
		},
		{
			Pattern: "policies/?$",
			Operations: map[logical.Operation]framework.OperationHandler{
				logical.ListOperation: &framework.PathOperation{
					Callback: b.pathPoliciesList,
				},
			},
			HelpSynopsis:    "List configured policies.",
			HelpDescription: "List the names of all configured password policies.",
		},
	}
}

func (b *seedpassBackend) pathPoliciesExistenceCheck(ctx context.Context, req *logical.Request, d *framework.FieldData) (bool, error) {
	name := d.Get("name").(string)
	p, err := getPolicy(ctx, req.Storage, name)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// policyFromFieldData reads the composition fields of a request.
func policyFromFieldData(d *framework.FieldData) (*Policy, error) {
	sets, err := stringList(d.Get("obligatory_sets"))
	if err != nil {
		return nil, fmt.Errorf("obligatory_sets should be a list of strings: %w", err)
	}

	return &Policy{
		PasswordLength:    d.Get("password_length").(int),
		AllowedLetters:    d.Get("allowed_letters").(string),
		ObligatorySets:    sets,
		UpperAndLowercase: d.Get("upper_and_lowercase").(bool),
		StartsWithLetter:  d.Get("starts_with_letter").(bool),
		EndsWithLetter:    d.Get("ends_with_letter").(bool),
	}, nil
}

func (b *seedpassBackend) pathPoliciesWrite(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	if _, ok := d.GetOk("password_length"); !ok {
		return logical.ErrorResponse("password_length is required"), nil
	}
	if _, ok := d.GetOk("allowed_letters"); !ok {
		return logical.ErrorResponse("allowed_letters is required"), nil
	}

	p, err := policyFromFieldData(d)
	if err != nil {
		return logical.ErrorResponse("invalid policy: %s", err), nil
	}
	if err := p.Validate(); err != nil {
		return logical.ErrorResponse("invalid policy: %s", err), nil
	}

	if err := putPolicy(ctx, req.Storage, name, p); err != nil {
		return nil, err
	}

	return nil, nil
}

func (b *seedpassBackend) pathPoliciesRead(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	p, err := getPolicy(ctx, req.Storage, name)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, nil
	}

	sets := p.ObligatorySets
	if sets == nil {
		sets = []string{}
	}

	return &logical.Response{
		Data: map[string]interface{}{
			"password_length":     p.PasswordLength,
			"allowed_letters":     p.AllowedLetters,
			"obligatory_sets":     sets,
			"upper_and_lowercase": p.UpperAndLowercase,
			"starts_with_letter":  p.StartsWithLetter,
			"ends_with_letter":    p.EndsWithLetter,
		},
	}, nil
}

func (b *seedpassBackend) pathPoliciesDelete(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	name := d.Get("name").(string)

	if err := deletePolicy(ctx, req.Storage, name); err != nil {
		return nil, err
	}

	return nil, nil
}

func (b *seedpassBackend) pathPoliciesList(ctx context.Context, req *logical.Request, d *framework.FieldData) (*logical.Response, error) {
	names, err := listPolicies(ctx, req.Storage)
	if err != nil {
		return nil, err
	}

	return logical.ListResponse(names), nil
}
