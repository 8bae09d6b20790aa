// Package http implements the Http source plugin kind: a stdlib net/http
// server accepting one change event per POST request. Each accepted request
// is tagged with a google/uuid correlation id for log correlation.
package http
