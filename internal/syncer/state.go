package syncer

// State is the sync engine's position in its lifecycle.
type State int

const (
	// StateUnauthenticated: no identity; the remote store is never contacted.
	StateUnauthenticated State = iota
	// StateBootstrapping: reconciling local and remote after sign-in.
	StateBootstrapping
	// StateSynced: remote reconciled; mutations are pushed best-effort.
	StateSynced
	// StateSyncError: the remote read failed; operating local-only until a resync.
	StateSyncError
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "UNAUTHENTICATED"
	case StateBootstrapping:
		return "BOOTSTRAPPING"
	case StateSynced:
		return "SYNCED"
	case StateSyncError:
		return "SYNC_ERROR"
	}
	return "UNKNOWN"
}
