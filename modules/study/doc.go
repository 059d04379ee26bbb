// Package study serves the JSON API for study records at /api/study.
// Records are always read and written as the signed-in user.
package study
