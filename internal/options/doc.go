// Package options converts sampler option sets into the ordered list of
// command-line tokens the toolchain expects.
//
// An option set is one of three shapes:
//
//   - Text: a space separated string such as "num_samples=50 max_depth=12".
//   - Record: ordered key/value fields. A nested Record emits its key as a
//     category token followed by its own fields, matching the toolchain's
//     `category subkey=value` convention.
//   - List: a sequence of sets, serialized one after another.
//
// Nothing here validates option names or values; the toolchain reports
// malformed options itself.
package options
