// Package limits provides the size bounds enforced at the C call boundary.
//
// # Bounds
//
//   - MaxInputBytes (1 GiB): the longest zero-terminated string the boundary will
//     scan for its terminator. A pointer whose terminator is not found within this
//     bound is treated as an invalid argument instead of being read without limit.
//
//   - MaxOutputLength (math.MaxInt32): buffer-filling calls report the content
//     length as a signed 32-bit status, so longer content cannot be returned and
//     is reported as an oversized result.
//
// # Validation Functions
//
//	if err := limits.ValidateOutputLength(len(content)); err != nil {
//	    // errors.Is(err, limits.ErrOutputTooLarge)
//	}
//
// # Error Types
//
//   - ErrInputTooLong: no terminator within MaxInputBytes
//   - ErrOutputTooLarge: content length not representable in the status return
package limits
