// Package join implements the in-memory attachment of related records onto a
// primary collection fetched separately. Views need denormalized data the
// query layer returns unjoined (posts with author profile, participants with
// profile, comments with author); every such view collects the foreign keys,
// issues one batched secondary lookup, and attaches by map.
package join

// Keys returns the distinct foreign keys of a collection, in first-seen
// order. The extractor returns ok=false for rows without a foreign key
// (e.g. system posts with no owning member); those rows contribute nothing.
func Keys[T any, K comparable](items []T, extract func(T) (K, bool)) []K {
	seen := make(map[K]struct{}, len(items))
	keys := make([]K, 0, len(items))
	for _, item := range items {
		k, ok := extract(item)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

// Index builds a key-to-record map over a secondary collection.
// Later duplicates win, matching SQL "last row scanned" behavior.
func Index[T any, K comparable](items []T, key func(T) K) map[K]T {
	idx := make(map[K]T, len(items))
	for _, item := range items {
		idx[key(item)] = item
	}
	return idx
}

// Attach pairs every primary row with its secondary record in place. Rows
// whose key is missing from the secondary collection get nil; rows are never
// dropped and a missing secondary is never an error, so a deleted or
// profile-less member cannot break rendering.
func Attach[P, S any, K comparable](primary []P, secondary []S, fk func(P) (K, bool), key func(S) K, set func(*P, *S)) {
	idx := Index(secondary, key)
	for i := range primary {
		k, ok := fk(primary[i])
		if !ok {
			set(&primary[i], nil)
			continue
		}
		if s, found := idx[k]; found {
			s := s
			set(&primary[i], &s)
		} else {
			set(&primary[i], nil)
		}
	}
}
