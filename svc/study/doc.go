// Package study records study sessions: what was studied, by whom and for
// how many minutes. Records are stored in memory or in MongoDB.
package study
