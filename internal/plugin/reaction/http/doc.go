// Package http implements the Http reaction plugin kind: it POSTs each
// result delta as a JSON body to a configured endpoint using a stdlib
// net/http client.
package http
