// Package query decodes request targets for htinter.
//
// Query strings are decoded in two passes. [Decode] resolves every
// percent-encoded triplet except the ones for '%', '&' and '=', so that the
// decoded text can still be split safely on '&' and '='. [Parse] performs the
// split and then calls [Unescape] on each key and value to resolve the three
// remaining triplets.
//
// A '+' is never turned into a space.
package query
