package models

// Settings holds per-device application settings persisted in the store.
type Settings struct {
	Timezone             string `json:"timezone"`
	SyncIntervalMin      int    `json:"sync_interval_min"`
	AutoSyncEnabled      bool   `json:"auto_sync_enabled"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
}
