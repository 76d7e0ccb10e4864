// Package webform serves the web translation form. A single model
// handle, loaded once at startup, is shared by all requests.
package webform
