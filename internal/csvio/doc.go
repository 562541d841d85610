// Package csvio reads CSV files into core tables and writes transformed
// tables back out.
//
// Reading accepts UTF-8 (with or without BOM) and Shift_JIS input. The
// caller names the expected encoding; when the data cannot be decoded with
// it, the other one is tried and the switch is reported on the Input.
//
// Writing always quotes every field, blanks the headers of placeholder
// columns, and can omit the header row or encode the output as Shift_JIS.
package csvio
