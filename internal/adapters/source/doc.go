// Package source opens the inputs logship forwards: plain and gzip-compressed
// text files, ZIP archives, gzip-compressed tarballs and S3 objects.
//
// [Walk] turns any local input into an ordered sequence of named text streams.
// Archives yield one stream per selected entry: entries ending in .json are
// always selected, entries ending in .log only when their second path segment
// names an allowed service.
package source
