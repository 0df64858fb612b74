// Package source provides the origins of raw configuration.
//
// A Source is either a ByteSource, whose Fetch returns a document for a
// loader to decode, or a PairSource, whose Pairs returns path/value pairs
// directly. Every source carries a stable ID, a display name, a declared
// format and the tags its tree is registered under.
//
// Available sources:
//   - File reads a file on every Fetch; the format defaults to the extension.
//   - Static serves an in-memory document.
//   - Map serves a map of paths to values.
//   - Env serves environment variables, optionally filtered by a prefix.
//   - Git clones a repository into memory and reads one file from HEAD.
package source
