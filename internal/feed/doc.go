// Package feed fetches syndication feeds and flattens their items to
// field-name -> value maps.
//
// Downstream code never touches the parsed feed structure directly: every
// item becomes an Entry with lowercased keys, and logical fields are read
// through ordered alias lists (Entry.First) because source feeds disagree on
// field naming.
package feed
