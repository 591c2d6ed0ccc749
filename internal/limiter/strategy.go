package limiter

import (
	"fmt"
	"strings"

	"github.com/cybertec-postgresql/sqllimit/internal/errors"
)

// Strategy names a row-limiting syntax the rewriter may look for and insert.
type Strategy string

const (
	StrategyLimit Strategy = "limit" // LIMIT n
	StrategyFetch Strategy = "fetch" // FETCH FIRST n ROWS ONLY
)

// DefaultStrategies is used when a request leaves Strategies nil.
var DefaultStrategies = []Strategy{StrategyLimit, StrategyFetch}

// ValidStrategy checks if a strategy name is known
func ValidStrategy(s string) bool {
	switch Strategy(s) {
	case StrategyLimit, StrategyFetch:
		return true
	default:
		return false
	}
}

// SupportedStrategies returns a list of supported strategy names
func SupportedStrategies() []string {
	return []string{string(StrategyLimit), string(StrategyFetch)}
}

// ParseStrategies converts flag or config values into strategies. Each value
// may itself be a comma separated list, so "limit,fetch" and
// []string{"limit", "fetch"} are equivalent. Order is preserved.
func ParseStrategies(values []string) ([]Strategy, error) {
	var out []Strategy
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			out = append(out, Strategy(part))
		}
	}
	if err := validateStrategies(out); err != nil {
		return nil, err
	}
	return out, nil
}

// validateStrategies requires a non-empty, duplicate-free list of known strategies.
func validateStrategies(strategies []Strategy) error {
	if len(strategies) == 0 {
		return errors.NewContractError("limit strategies", strategies,
			"at least one strategy is required",
			fmt.Sprintf("Use one or more of: %s", strings.Join(SupportedStrategies(), ", ")))
	}
	seen := make(map[Strategy]bool, len(strategies))
	for _, s := range strategies {
		if !ValidStrategy(string(s)) {
			return errors.NewContractError("limit strategies", s,
				fmt.Sprintf("unknown strategy %q", string(s)),
				fmt.Sprintf("Use one or more of: %s", strings.Join(SupportedStrategies(), ", ")))
		}
		if seen[s] {
			return errors.NewContractError("limit strategies", s,
				fmt.Sprintf("strategy %q listed more than once", string(s)),
				"List each strategy once, in order of preference")
		}
		seen[s] = true
	}
	return nil
}
