// Package lifecycle holds the booking rules shared by every view: which
// dates are taken, which status changes are legal, and how bookings are
// grouped for the admin dashboards. Everything here is a pure function over
// booking snapshots.
package lifecycle
