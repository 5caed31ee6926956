// Package demo provides two small screens, a root menu and a counter, used by
// the navstack CLI and the end-to-end tests.
package demo
