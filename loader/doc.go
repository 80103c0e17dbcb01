// Package loader fetches campaigns and responses together. Either both
// arrive or neither is used.
package loader
