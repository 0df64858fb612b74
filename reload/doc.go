// Package reload notifies interested parties when configuration changes.
//
// Listeners are registered on a Listeners registry and receive an Event after
// every successful reload. Registration returns an explicit handle: the
// listener stays registered until its Registration is released.
//
//	registration := listeners.Add(func(event reload.Event) {
//	    log.Println("reloaded", event.Source)
//	})
//	defer registration.Release()
//
// FileWatcher triggers reloads when watched files change on disk.
package reload
