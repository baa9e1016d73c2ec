// Package notify delivers alerts. Channels are composable behind the
// Notifier interface: structured log output, desktop notifications, and a
// websocket broadcast hub for local dashboards.
package notify
