// Package types holds the domain and wire types shared by guidekit packages
// and its HTTP API.
package types
