package testutil

// Snapshot files as they appear on disk.

// SampleSnapshotJSON holds one fresh timer and one that was paused 12 seconds in.
var SampleSnapshotJSON = `{
  "version": 1,
  "saved_at": "2024-06-01T09:30:00Z",
  "timers": [
    {"id": "6f1c2a9e-3b7d-4c15-9f0a-2d8e4b6c1a01", "initial_time": 30, "current_time": 0, "is_running": false, "is_paused": false},
    {"id": "9d4e7b21-8c3f-4a6e-b5d0-7e1f2a3c4b02", "initial_time": 90, "current_time": 12, "is_running": false, "is_paused": true}
  ]
}`

// SampleSnapshotYAML is SampleSnapshotJSON in the YAML encoding.
var SampleSnapshotYAML = `version: 1
saved_at: 2024-06-01T09:30:00Z
timers:
  - id: 6f1c2a9e-3b7d-4c15-9f0a-2d8e4b6c1a01
    initial_time: 30
    current_time: 0
    is_running: false
    is_paused: false
  - id: 9d4e7b21-8c3f-4a6e-b5d0-7e1f2a3c4b02
    initial_time: 90
    current_time: 12
    is_running: false
    is_paused: true
`

// Sample timer ids from the snapshots above.
const (
	SampleTimerA = "6f1c2a9e-3b7d-4c15-9f0a-2d8e4b6c1a01"
	SampleTimerB = "9d4e7b21-8c3f-4a6e-b5d0-7e1f2a3c4b02"
)

// EmptySnapshotJSON is what a store holds after every timer is deleted and re-saved.
var EmptySnapshotJSON = `{"version": 1, "saved_at": "2024-06-01T09:30:00Z", "timers": []}`
