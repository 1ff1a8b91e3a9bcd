// Package httpserver exposes the application portal over HTTP using Echo.
// It resolves the authenticated principal, binds multipart request bodies,
// and maps application-layer errors onto structured JSON responses.
package httpserver
