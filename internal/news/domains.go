package news

import "strings"

// DomainMap maps a lower-cased publication name to its domains.
type DomainMap map[string][]string

// ResolveDomains turns publication names or raw domains into a domain list.
// Known names expand to all their domains; anything else passes through
// trimmed. Duplicates are dropped, keeping first-seen order.
func ResolveDomains(tokens []string, m DomainMap) []string {
	seen := make(map[string]struct{})
	var out []string

	add := func(d string) {
		if d == "" {
			return
		}
		if _, dup := seen[d]; dup {
			return
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}

	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if domains, ok := m[strings.ToLower(tok)]; ok {
			for _, d := range domains {
				add(strings.TrimSpace(d))
			}
			continue
		}
		add(tok)
	}
	return out
}

// SplitList splits a comma-separated user input, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
