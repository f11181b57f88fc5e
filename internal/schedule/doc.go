// Package schedule delays the start of a broadcast.
//
// Cron functions validate cron expressions and compute the next instant a
// broadcast should begin. WaitUntil blocks until that instant.
package schedule
