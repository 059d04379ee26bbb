// Package account serves the signed-in user's account pages.
//
// PasswordUpdater validates a password change, then re-authenticates the
// principal with the current password and stores the new one. Observer
// mirrors a browser session's principal for as long as a view is open;
// the password page's watch stream uses it to follow sign-outs.
package account
