// Package target decides whether a hostname satisfies an environment's
// target-machine patterns.
//
// Patterns are evaluated in order and the first success wins. For a single
// pattern the rules are:
//
//   - "localhost", "any", "*": always match
//   - "local": the hostname ends in ".local"
//   - a pattern containing '*' or '?': glob match against the whole hostname
//   - exact equality
//   - any dot-separated hostname component equals the pattern
//   - ".example.com": the hostname is longer and ends with the pattern
//   - "example.com": the hostname ends with "." followed by the pattern
//
// Matching is byte-wise and case-sensitive.
package target
