// Package naming maps source files to destination paths and applies the
// collision policy when a destination is already taken.
//
// [OutputPath] mirrors the input tree under the output directory.
// [Resolve] applies a policy against a probe of what exists; [Registry]
// adds the in-run claims of other jobs so concurrent workers never share a
// destination. Renamed outputs get a " - dupN" suffix before the extension.
package naming
