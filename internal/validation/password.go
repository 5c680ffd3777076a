package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/casetrack/casetrack/internal/model"
)

// bigrams scores similarity as the Sørensen–Dice coefficient over character pairs.
var bigrams = metrics.NewSorensenDice()

// PasswordPolicy checks candidate passwords and reports every violation.
type PasswordPolicy struct {
	MinLength int
	// MaxBytes guards bcrypt, which silently truncates input past 72 bytes.
	MaxBytes       int
	CommonPatterns []string
	// MaxSimilarity is the ratio at which a password counts as too close to a user attribute.
	MaxSimilarity float64
}

// DefaultPasswordPolicy follows NIST guidance: minimum 12 characters, block common patterns.
var DefaultPasswordPolicy = PasswordPolicy{
	MinLength: 12,
	MaxBytes:  72,
	CommonPatterns: []string{
		"password", "123456", "qwerty", "admin", "letmein",
		"welcome", "monkey", "dragon", "master", "sunshine",
	},
	MaxSimilarity: 0.7,
}

// Validate returns the violation messages for candidate; empty means accepted.
// user may be nil when no account exists yet.
func (p PasswordPolicy) Validate(candidate string, user *model.User) []string {
	var reasons []string

	if user != nil {
		attrs := []struct{ name, value string }{
			{"username", user.Username},
			{"first name", user.FirstName},
			{"last name", user.LastName},
		}
		for _, attr := range attrs {
			if p.tooSimilar(candidate, attr.value) {
				reasons = append(reasons, fmt.Sprintf("The password is too similar to the %s.", attr.name))
				break
			}
		}
	}

	if len([]rune(candidate)) < p.MinLength {
		reasons = append(reasons, fmt.Sprintf("This password is too short. It must contain at least %d characters.", p.MinLength))
	}

	if p.MaxBytes > 0 && len(candidate) > p.MaxBytes {
		reasons = append(reasons, fmt.Sprintf("This password is too long. It must contain at most %d bytes.", p.MaxBytes))
	}

	lower := strings.ToLower(candidate)
	for _, pattern := range p.CommonPatterns {
		if strings.Contains(lower, pattern) {
			reasons = append(reasons, "This password is too common.")
			break
		}
	}

	if candidate != "" && strings.IndexFunc(candidate, func(r rune) bool { return !unicode.IsDigit(r) }) == -1 {
		reasons = append(reasons, "This password is entirely numeric.")
	}

	return reasons
}

func (p PasswordPolicy) tooSimilar(candidate, attr string) bool {
	if p.MaxSimilarity <= 0 || len(attr) < 3 {
		return false
	}
	a := strings.ToLower(candidate)
	b := strings.ToLower(attr)
	if strings.Contains(a, b) {
		return true
	}
	return strutil.Similarity(a, b, bigrams) >= p.MaxSimilarity
}
