package enum

// SyncEventStatus represents the delivery state of an outbound sync event
type SyncEventStatus string

const (
	SyncEventStatusPending SyncEventStatus = "PENDING"
	SyncEventStatusSynced  SyncEventStatus = "SYNCED"
	SyncEventStatusFailed  SyncEventStatus = "FAILED"
)

// Valid reports whether the value is a known sync event status
func (s SyncEventStatus) Valid() bool {
	switch s {
	case SyncEventStatusPending, SyncEventStatusSynced, SyncEventStatusFailed:
		return true
	}
	return false
}

func (s SyncEventStatus) String() string {
	return string(s)
}
