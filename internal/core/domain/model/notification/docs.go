// Package notification models the events recorded in the outbox and delivered to users after commit.
package notification
