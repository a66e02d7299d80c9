// Package entities provides the core domain types for the host boundary.
// Types that cross into guest memory implement guestmem.Pod and have a fixed
// little-endian layout that must remain stable across releases.
package entities
