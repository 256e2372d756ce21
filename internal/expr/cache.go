package expr

import "sync"

// parseCache caches parsed expressions process-wide, keyed by source text
// and parse mode. Parsing is pure, so sharing the immutable result across
// nodes (and goroutines) is safe. Errors are not cached.
var parseCache sync.Map // cacheKey -> *Expression

type cacheKey struct {
	source   string
	template bool
}

// Cached returns the parsed expression for source, parsing at most once
// per unique (source, mode) pair for the life of the process.
func Cached(source string, template bool) (*Expression, error) {
	key := cacheKey{source: source, template: template}
	if hit, ok := parseCache.Load(key); ok {
		return hit.(*Expression), nil
	}

	var (
		e   *Expression
		err error
	)
	if template {
		e, err = ParseTemplate(source)
	} else {
		e, err = Parse(source)
	}
	if err != nil {
		return nil, err
	}

	actual, _ := parseCache.LoadOrStore(key, e)
	return actual.(*Expression), nil
}

// ResetCache drops all cached expressions. Intended for tests.
func ResetCache() {
	parseCache.Range(func(key, _ any) bool {
		parseCache.Delete(key)
		return true
	})
}
