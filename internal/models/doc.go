// Package models defines the core domain models for Habitkit.
//
// # Models
//
//   - User: a registered account in the user registry
//   - UserSnapshot: the reduced view of a User carried inside a Session
//   - Session: the single "current session" record for this device
//   - Habit: one tracked habit, owned by exactly one user
//   - Entitlement: the premium/free status controlling the habit limit
//
// # Design Principles
//
// 1. **Single source of truth**: session and entitlement state is always
// derived from storage, never trusted from memory across restarts.
// 2. **No credentials in snapshots**: UserSnapshot never carries the
// password hash; it is the only user shape a Session may hold.
// 3. **One owner per habit**: habits reference their owner through the
// storage namespace (one list per user ID), not by pointer.
package models
