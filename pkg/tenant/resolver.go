package tenant

import (
	"path"
	"strings"
)

// Outcome classifies the result of a resolution attempt. All three values
// are ordinary control flow, never errors.
type Outcome int

const (
	// NoDecision means no alias could be determined; the engine's default
	// database governs the request.
	NoDecision Outcome = iota
	// Resolved means a single alias was determined.
	Resolved
	// Ambiguous means several databases are candidates and the user must
	// choose one via the selector endpoint.
	Ambiguous
)

// String implements fmt.Stringer, used as a metrics label.
func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Ambiguous:
		return "ambiguous"
	default:
		return "no_decision"
	}
}

// Resolution is the outcome of one resolution attempt. Persist is set when
// an alias was auto-selected and should be written back to the session.
type Resolution struct {
	Outcome Outcome
	Alias   string
	Persist bool
}

// Resolver combines the extracted subdomain, the persisted session
// selection and the discovered database list into an alias decision.
//
// Pattern, when non-empty, is a template with a single %s token that is
// substituted with the subdomain and evaluated as a path.Match glob
// against the discovered names ("tenant_%s" matches exactly, "%s_*"
// matches a family). A non-empty pattern switches session state off
// entirely.
type Resolver struct {
	Pattern string
}

// Resolve applies the resolution policy, first applicable rule wins:
//
//  1. pattern and subdomain present: glob-match discovered names,
//     preferring one equal to the subdomain; no match is NoDecision and
//     pattern mode stays active (no session fallback).
//  2. pattern present, subdomain absent: NoDecision.
//  3. no pattern, session holds an alias: that alias, verbatim. The
//     discovered list is not consulted, so a stored selection keeps
//     routing even while discovery is degraded; a selection pointing at
//     a genuinely vanished database surfaces at connection time.
//  4. no pattern, no session value, exactly one database: that database,
//     with Persist set.
//  5. otherwise: Ambiguous when several databases exist, NoDecision when
//     none do.
func (r *Resolver) Resolve(subdomain, sessionAlias string, discovered []string) Resolution {
	if r.Pattern != "" {
		if subdomain == "" {
			return Resolution{Outcome: NoDecision}
		}
		return r.resolvePattern(subdomain, discovered)
	}

	if sessionAlias != "" {
		return Resolution{Outcome: Resolved, Alias: sessionAlias}
	}

	switch len(discovered) {
	case 0:
		return Resolution{Outcome: NoDecision}
	case 1:
		return Resolution{Outcome: Resolved, Alias: discovered[0], Persist: true}
	default:
		return Resolution{Outcome: Ambiguous}
	}
}

// resolvePattern matches the substituted pattern against the discovered
// names. When several names match and none equals the subdomain, the first
// match in discovery order wins. That tie-break is stable but arbitrary;
// it mirrors long-standing behavior that downstream deployments rely on.
func (r *Resolver) resolvePattern(subdomain string, discovered []string) Resolution {
	expr := strings.ReplaceAll(r.Pattern, "%s", subdomain)

	var first string
	for _, name := range discovered {
		ok, err := path.Match(expr, name)
		if err != nil || !ok {
			continue
		}
		if name == subdomain {
			return Resolution{Outcome: Resolved, Alias: name}
		}
		if first == "" {
			first = name
		}
	}
	if first == "" {
		return Resolution{Outcome: NoDecision}
	}
	return Resolution{Outcome: Resolved, Alias: first}
}
