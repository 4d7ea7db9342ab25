package secrets

import "regexp"

// Rule identifiers reported by this detector.
const (
	RuleAPIKey     = "SECRET001"
	RulePrivateKey = "SECRET002"
	RuleAssignment = "SECRET003"
)

// Rules enumerates every rule identifier this detector can emit, in order.
func Rules() []string {
	return []string{RuleAPIKey, RulePrivateKey, RuleAssignment}
}

// RuleDescriptions maps each rule to its report description.
func RuleDescriptions() map[string]string {
	return map[string]string{
		RuleAPIKey:     "Hardcoded API key literal",
		RulePrivateKey: "Private key block committed to the repository",
		RuleAssignment: "Long opaque literal assigned to a secret-named identifier",
	}
}

// pattern is one regular expression belonging to a rule group.
type pattern struct {
	rule    string
	message string
	re      *regexp.Regexp
}

// The battery. Each rule group holds one or more alternative expressions;
// every match of every pattern becomes a candidate finding.
var patterns = []pattern{
	{
		rule:    RuleAPIKey,
		message: "OpenAI-style API key literal",
		re:      regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{20,}\b`),
	},
	{
		rule:    RuleAPIKey,
		message: "Stripe live key literal",
		re:      regexp.MustCompile(`\b[sp]k_live_[A-Za-z0-9]{16,}\b`),
	},
	{
		rule:    RuleAPIKey,
		message: "AWS access key ID literal",
		re:      regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
	},
	{
		rule:    RuleAPIKey,
		message: "GitHub token literal",
		re:      regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`),
	},
	{
		rule:    RuleAPIKey,
		message: "Slack token literal",
		re:      regexp.MustCompile(`\bxox[baprs]-[A-Za-z0-9-]{10,}\b`),
	},
	{
		rule:    RulePrivateKey,
		message: "private key block",
		re:      regexp.MustCompile(`-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`),
	},
	{
		rule:    RuleAssignment,
		message: "long opaque literal assigned to a secret-named identifier",
		// No leading boundary: camelCase names like sessionSecret count.
		re:      regexp.MustCompile(`(?i)(?:secret|token|password|passwd|api[_-]?key)[A-Za-z0-9_]*\s*[:=]\s*['"][^'"]{20,}['"]`),
	},
}

// envAccessorRe recognizes lines that read the value from the environment
// instead of embedding it.
var envAccessorRe = regexp.MustCompile(`process\.env|import\.meta\.env|os\.environ|getenv`)

// placeholderRe recognizes obviously non-secret placeholder values.
var placeholderRe = regexp.MustCompile(`(?i)your-|example|dummy|sample|placeholder|changeme|xxxx|fake|sk_test_|pk_test_`)
