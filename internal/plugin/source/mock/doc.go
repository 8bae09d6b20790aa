// Package mock implements the Mock source plugin kind: a synthetic change
// generator driven by a time.Ticker, for exercising the pipeline without a
// real external system. No third-party dependency fits a synthetic
// generator better than stdlib math/rand + time.Ticker (see DESIGN.md
// "stdlib-only justifications").
package mock
