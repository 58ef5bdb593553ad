package seedpassplugin

import "time"

// Policy holds the composition rules a derived password must satisfy.
type Policy struct {
	PasswordLength    int      `json:"password_length"`
	AllowedLetters    string   `json:"allowed_letters"`
	ObligatorySets    []string `json:"obligatory_sets,omitempty"`
	UpperAndLowercase bool     `json:"upper_and_lowercase,omitempty"`
	StartsWithLetter  bool     `json:"starts_with_letter,omitempty"`
	EndsWithLetter    bool     `json:"ends_with_letter,omitempty"`
}

// RoleEntry binds a secret seed to a policy. The password for a role is
// never stored; it is derived from Seed and Generation on every read.
type RoleEntry struct {
	Policy         string        `json:"policy"`
	Seed           string        `json:"seed"`
	RotationPeriod time.Duration `json:"rotation_period,omitempty"`
	Generation     int           `json:"generation"`
	LastRotated    time.Time     `json:"last_rotated,omitempty"`
}
