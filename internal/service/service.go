// Package service contains the business logic.
//
// It sits behind the handler layer: it receives requests that are already
// validated and returns response models. It never sees raw input and never
// writes HTTP responses.
package service
