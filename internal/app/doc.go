// Package app is the application layer - the only component that references
// multiple domain components. It orchestrates all use cases: submission,
// partial updates, admin review, and resume access.
package app
