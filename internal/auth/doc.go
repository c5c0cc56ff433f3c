// Package auth provides authentication for the HTTP API.
//
// Two modes are supported, selected by AUTH_MODE:
//
//   - none (default): every request runs as the default user, suitable
//     for a single-user instance behind a trusted network.
//   - local: accounts live in the users table, passwords are bcrypt
//     hashed, and logins are tracked in SQLite-backed sessions with
//     CSRF protection on mutating requests.
//
// Login attempts are rate limited per IP+login pair.
package auth
