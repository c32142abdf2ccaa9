// Package frameflow is the backend for a photo-sharing social network:
// account issuance and verification, JWT sessions, posts with image uploads,
// comments, and the follow/like relationship sets.
//
// Sessions:
//   - Auther establishes sessions (Login, Register) and gates established
//     ones (AuthenticateBearer). Authentication mechanisms are pluggable
//     through StrategyRegistry; the stock strategies are password (bcrypt
//     verification against the user store) and bearer (token validation plus
//     live principal resolution).
//   - TokenService signs HS256 tokens carrying a snapshot of the user at
//     issuance time, minus password material. Expiry is configurable and
//     off by default.
//
// Relationship toggles:
//   - Clients replace follows and likedBy sets wholesale. DetectToggle
//     classifies a replacement against the stored set by size difference:
//     one larger is an addition, one smaller is a removal, identical sets
//     are a no-op, anything else is rejected before persistence.
//   - NotificationEmitter mirrors every applied addition or removal as a
//     notification row keyed by the edge, so notification state always
//     matches relationship state.
//
// Activity sinks:
//   - ActivitySink receives login, registration, toggle, and notification
//     events from the services. Sinks run best-effort; the metrics package
//     provides a Prometheus-backed implementation.
package frameflow
