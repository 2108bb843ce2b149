// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"fmt"
)

// NotificationType represents the type of a notification message.
type NotificationType int

// NotificationCallback is used for a caller to provide a callback for
// notifications about ledger events.
type NotificationCallback func(*Notification)

// Constants for the type of a notification message.
const (
	// NTBundleConnected indicates the associated bundle was connected to
	// the ledger.
	NTBundleConnected NotificationType = iota

	// NTNoteReceived indicates a connected receipt decrypted with one of
	// the scan keys.
	NTNoteReceived
)

// notificationTypeStrings is a map of notification types back to their constant
// names for pretty printing.
var notificationTypeStrings = map[NotificationType]string{
	NTBundleConnected: "NTBundleConnected",
	NTNoteReceived:    "NTNoteReceived",
}

// String returns the NotificationType in human-readable form.
func (n NotificationType) String() string {
	if s, ok := notificationTypeStrings[n]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Notification Type (%d)", int(n))
}

// Notification defines notification that is sent to the caller via the callback
// function provided during the call to Subscribe and consists of a notification
// type as well as associated data that depends on the type as follows:
//   - NTBundleConnected: *Bundle
//   - NTNoteReceived:    *ScanMatch
type Notification struct {
	Type NotificationType
	Data interface{}
}

// Subscribe to ledger notifications. Registers a callback to be executed
// when various events take place. See the documentation on Notification and
// NotificationType for details on the types and contents of notifications.
func (l *Ledger) Subscribe(callback NotificationCallback) {
	l.notificationsLock.Lock()
	l.notifications = append(l.notifications, callback)
	l.notificationsLock.Unlock()
}

// sendNotification sends a notification with the passed type and data to
// every subscriber. Callbacks run in their own goroutines.
func (l *Ledger) sendNotification(typ NotificationType, data interface{}) {
	n := Notification{Type: typ, Data: data}
	l.notificationsLock.RLock()
	for _, callback := range l.notifications {
		go callback(&n)
	}
	l.notificationsLock.RUnlock()
}
