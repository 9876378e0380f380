/*
Package idempotency models the record kept for a request carrying an idempotency key.

A record is reserved IN_PROGRESS before the wrapped operation runs and then
settled with its outcome. A repeated request with the same key and the same
fingerprint replays the settled outcome; a different fingerprint is a conflict.
*/
package idempotency
