package news

import (
	"context"
	"fmt"
)

// Diagnostic records one contained provider failure.
type Diagnostic struct {
	Provider string
	Query    string
	Err      error
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s (%q): %v", d.Provider, d.Query, d.Err)
}

// Guard calls src and converts any failure, including a panic, into an empty
// result plus a single diagnostic.
func Guard(ctx context.Context, src Source, query string, c Constraints) (articles []RawArticle, diag *Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			articles = nil
			diag = &Diagnostic{Provider: src.Name(), Query: query, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	items, err := src.Fetch(ctx, query, c)
	if err != nil {
		return nil, &Diagnostic{Provider: src.Name(), Query: query, Err: err}
	}
	for i := range items {
		if items[i].Provider == "" {
			items[i].Provider = src.Name()
		}
	}
	return items, nil
}
