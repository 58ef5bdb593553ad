package seedpassplugin

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/vault/sdk/framework"
	"github.com/hashicorp/vault/sdk/logical"
)

const backendHelp = `The seedpass secrets engine derives reproducible passwords from a secret seed
and a set of composition rules. The same seed and policy always yield the same password.`

type seedpassBackend struct {
	*framework.Backend

	// roleMutex serializes generation changes against credential reads.
	roleMutex sync.RWMutex
}

func Factory(ctx context.Context, conf *logical.BackendConfig) (logical.Backend, error) {
	b := backend()
	if err := b.Setup(ctx, conf); err != nil {
		return nil, err
	}
	return b, nil
}

func backend() *seedpassBackend {
	b := &seedpassBackend{}

	b.Backend = &framework.Backend{
		Help:        strings.TrimSpace(backendHelp),
		BackendType: logical.TypeLogical,
		PathsSpecial: &logical.Paths{
			SealWrapStorage: []string{
				"roles/*",
			},
		},
		Paths: framework.PathAppend(
			pathPolicies(b),
			pathRoles(b),
			pathCreds(b),
			pathRotateRole(b),
			pathGenerate(b),
		),
		PeriodicFunc: b.periodicFunc,
	}

	return b
}

// periodicFunc rotates every role whose rotation period has elapsed. A
// failing role is logged and skipped.
func (b *seedpassBackend) periodicFunc(ctx context.Context, req *logical.Request) error {
	names, err := listRoles(ctx, req.Storage)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, name := range names {
		role, err := getRole(ctx, req.Storage, name)
		if err != nil {
			b.Logger().Error("reading role for periodic rotation", "role", name, "error", err)
			continue
		}
		if role == nil || role.RotationPeriod <= 0 {
			continue
		}
		if now.Before(role.LastRotated.Add(role.RotationPeriod)) {
			continue
		}

		resp, err := b.rotateRole(ctx, req.Storage, name)
		if err != nil {
			b.Logger().Error("periodic rotation failed", "role", name, "error", err)
			continue
		}
		if resp != nil && resp.IsError() {
			b.Logger().Warn("periodic rotation skipped", "role", name, "reason", resp.Error())
			continue
		}
		b.Logger().Info("rotated role", "role", name)
	}

	return nil
}
