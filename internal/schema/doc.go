// Package schema declares the fixed column registry for parsed event rows.
//
// The registry holds one entry per column index (0 through 96). Header names
// follow the Chadwick cwevent field names and form the external contract for
// anything consuming a parsed table, so they are never renamed. Each entry also
// records the column's semantic type and whether the parser populates it;
// unimplemented columns are still emitted, holding an explicit unsupported
// marker.
package schema
