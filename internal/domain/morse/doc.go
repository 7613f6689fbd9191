// Package morse holds the Morse symbol table and turns text into the linear
// mark stream the playback scheduler walks.
//
// Lookup is total and case-insensitive: characters outside the table encode
// to the empty code and are skipped by Encode. A Sequence also renders to the
// dot/dash/space string that is published back to the sender, and Decode
// reverses that rendering.
package morse
