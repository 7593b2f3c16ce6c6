package auth

import "fmt"

// Probe is the fixed input of a self-test run.
type Probe struct {
	Password string
	Identity IdentityClaims
}

var (
	// StartupProbe runs once before the listener opens.
	StartupProbe = Probe{
		Password: "test123",
		Identity: IdentityClaims{UserID: 1, Username: "test_user", Email: "test@example.com"},
	}
	// HealthProbe backs GET /auth/health.
	HealthProbe = Probe{
		Password: "test123456",
		Identity: IdentityClaims{UserID: 999, Username: "health_check", Email: "health@example.com"},
	}
)

// SelfTestReport records which half of the self-test passed.
type SelfTestReport struct {
	PasswordHashing bool `json:"password_hashing"`
	JWTTokens       bool `json:"jwt_tokens"`
}

// OK reports whether both checks passed.
func (r SelfTestReport) OK() bool { return r.PasswordHashing && r.JWTTokens }

// RunSelfTest hashes and verifies p.Password, then issues and verifies a
// token for p.Identity.  The error describes the first failed step.
func RunSelfTest(hasher *PasswordHasher, tokens *TokenService, p Probe) (SelfTestReport, error) {
	var rep SelfTestReport

	hash, err := hasher.Hash(p.Password)
	if err != nil {
		return rep, fmt.Errorf("self-test: %w", err)
	}
	if !hasher.Verify(p.Password, hash) {
		return rep, fmt.Errorf("self-test: password verification failed")
	}
	rep.PasswordHashing = true

	tok, err := tokens.Issue(p.Identity)
	if err != nil {
		return rep, fmt.Errorf("self-test: %w", err)
	}
	got, err := tokens.Verify(tok.Token)
	if err != nil {
		return rep, fmt.Errorf("self-test: %w", err)
	}
	if got != p.Identity {
		return rep, fmt.Errorf("self-test: token round-trip mismatch")
	}
	rep.JWTTokens = true
	return rep, nil
}

// SelfTest is the startup check; any error must abort the process before
// the listener opens.
func SelfTest(hasher *PasswordHasher, tokens *TokenService) error {
	_, err := RunSelfTest(hasher, tokens, StartupProbe)
	return err
}
