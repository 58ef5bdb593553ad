package seedpassplugin

import (
	"fmt"

	"github.com/seedpass-vault-plugin/prng"
)

// GeneratePassword derives the password for seed under policy p. The same
// seed and policy always yield the same password.
func GeneratePassword(seed any, p *Policy) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	return p.Generate(prng.New(seed))
}

// DerivationSeed returns the seed used for a role at the given generation.
// Generation 0 uses the role seed unchanged.
func DerivationSeed(seed string, generation int) string {
	if generation == 0 {
		return seed
	}
	return fmt.Sprintf("%s:%d", seed, generation)
}

// Generate draws a password from s. The order of draws is fixed: the free
// body, then one insertion per obligatory set, then the leading and
// trailing letters.
func (p *Policy) Generate(s *prng.Sampler) (string, error) {
	letters := p.letters()

	body, err := p.body(s, p.characters())
	if err != nil {
		return "", fmt.Errorf("drawing characters: %w", err)
	}
	if body, err = p.insertObligatory(s, body); err != nil {
		return "", fmt.Errorf("inserting obligatory characters: %w", err)
	}
	if body, err = p.addEnds(s, body, letters); err != nil {
		return "", fmt.Errorf("adding leading or trailing letters: %w", err)
	}

	return string(body), nil
}

func (p *Policy) body(s *prng.Sampler, chars []rune) ([]rune, error) {
	n := p.freeCharacters()
	if n < 0 {
		n = 0
	}
	res := make([]rune, 0, p.PasswordLength)
	for i := 0; i < n; i++ {
		c, err := prng.Choice(s, chars)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}

func (p *Policy) insertObligatory(s *prng.Sampler, res []rune) ([]rune, error) {
	for _, set := range p.ObligatorySets {
		pos, err := s.Int(0, len(res))
		if err != nil {
			return nil, err
		}
		c, err := prng.Choice(s, []rune(set))
		if err != nil {
			return nil, err
		}
		res = append(res[:pos], append([]rune{c}, res[pos:]...)...)
	}
	return res, nil
}

func (p *Policy) addEnds(s *prng.Sampler, res, letters []rune) ([]rune, error) {
	if p.StartsWithLetter {
		c, err := prng.Choice(s, letters)
		if err != nil {
			return nil, err
		}
		res = append([]rune{c}, res...)
	}
	if p.EndsWithLetter {
		c, err := prng.Choice(s, letters)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, nil
}
