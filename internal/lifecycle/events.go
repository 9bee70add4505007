package lifecycle

// Subscribe registers an observer for lifecycle notifications and returns a
// function that removes the registration. Observers are notified synchronously
// in registration order.
func (manager *Manager) Subscribe(observer Observer) func() {
	if observer == nil {
		return func() {}
	}
	manager.observerMutex.Lock()
	defer manager.observerMutex.Unlock()
	manager.observerSequence++
	registrationIdentifier := manager.observerSequence
	manager.observers = append(manager.observers, observerRegistration{identifier: registrationIdentifier, observer: observer})
	return func() {
		manager.observerMutex.Lock()
		defer manager.observerMutex.Unlock()
		for registrationIndex, registration := range manager.observers {
			if registration.identifier == registrationIdentifier {
				manager.observers = append(manager.observers[:registrationIndex], manager.observers[registrationIndex+1:]...)
				return
			}
		}
	}
}

type observerRegistration struct {
	identifier int64
	observer   Observer
}

func (manager *Manager) snapshotObservers() []observerRegistration {
	manager.observerMutex.Lock()
	defer manager.observerMutex.Unlock()
	snapshot := make([]observerRegistration, len(manager.observers))
	copy(snapshot, manager.observers)
	return snapshot
}

func (manager *Manager) notifyRefreshing(started bool) {
	for _, registration := range manager.snapshotObservers() {
		registration.observer.RepositoryRefreshing(started)
	}
}

func (manager *Manager) notifyRefreshed() {
	for _, registration := range manager.snapshotObservers() {
		registration.observer.RepositoryRefreshed()
	}
}
