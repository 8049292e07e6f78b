// Package catalog registers the built-in agents and defines the phase
// table. Registration is explicit and happens once at startup.
package catalog
