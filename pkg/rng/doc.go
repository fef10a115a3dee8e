// Package rng provides the deterministic 64-bit random stream that
// backs every selection a render makes.
//
// # Overview
//
// An RNG is constructed from a single u64 seed. Seed zero is replaced
// with one so a caller can never get the degenerate all-zero xorshift
// stream. The generator is a classic three-shift xorshift64:
//
//	s ^= s << 13
//	s ^= s >> 7
//	s ^= s << 17
//
// warmed up for 10 draws before the first value is returned to the
// caller.
//
// # Determinism
//
// The sequence is a pure function of the seed: no wall clock, no
// global state. A renderer owns exactly one RNG for the lifetime of
// one render and must not share it with another renderer running
// concurrently.
//
// # Derived seeds
//
// Some callers need a second, independent-looking stream derived from
// the first by simple arithmetic on the seed, not by drawing from the
// first RNG. New accepts any u64, so callers construct the derived RNG
// directly as New(seed + derivation); this package does not hide that
// arithmetic behind a helper, since the exact combination must be
// preserved rather than reimplemented behind an opaque API.
package rng
