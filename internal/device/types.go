// Package device holds the records that describe the simulated handset:
// processes, installed applications, scan findings and network samples.
package device

import "time"

// ProcessStatus is the scheduler state shown for a process row.
type ProcessStatus string

const (
	StatusRunning    ProcessStatus = "Running"
	StatusSuspended  ProcessStatus = "Suspended"
	StatusBackground ProcessStatus = "Background"
)

// AllStatuses lists the statuses the generator draws from.
var AllStatuses = []ProcessStatus{StatusRunning, StatusBackground, StatusSuspended}

// Process is one row of process telemetry at a point in time.
type Process struct {
	PID      int
	Name     string
	CPU      float64 // percent
	MemoryMB float64
	Hidden   bool // simulated rootkit-style concealment
	Status   ProcessStatus
}

// Severity is the threat label attached to findings and apps.
type Severity string

const (
	SeveritySafe     Severity = "SAFE"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
	SeverityUnknown  Severity = "UNKNOWN"
)

// FindingKind is what a scan finding refers to.
type FindingKind string

const (
	KindFile     FindingKind = "File"
	KindProcess  FindingKind = "Process"
	KindNetwork  FindingKind = "Network"
	KindManifest FindingKind = "Manifest"
)

// Finding is a scan result. Findings are never mutated after creation.
type Finding struct {
	ID        string
	Target    string
	Kind      FindingKind
	Timestamp time.Time
	Severity  Severity
	Details   string
}

// Millis returns the finding timestamp as epoch milliseconds.
func (f Finding) Millis() int64 {
	return f.Timestamp.UnixMilli()
}

// NetworkSample is one point of the live traffic chart.
type NetworkSample struct {
	TimeLabel   string // HH:MM:SS
	UploadKBs   float64
	DownloadKBs float64
	Connections int
}

// InstallSource says where an application package came from.
type InstallSource string

const (
	SourcePlayStore InstallSource = "Play Store"
	SourceSideload  InstallSource = "Sideload"
	SourceSystem    InstallSource = "System"
)

// Permission is a single Android permission held by an app.
type Permission struct {
	Name        string
	Dangerous   bool
	Description string
}

// InstalledApp is an application package on the device.
type InstalledApp struct {
	PackageName string
	AppName     string
	Version     string
	Permissions []Permission
	Threat      Severity
	Source      InstallSource
}

// DangerousCount returns how many of the app's permissions are dangerous.
func (a InstalledApp) DangerousCount() int {
	n := 0
	for _, p := range a.Permissions {
		if p.Dangerous {
			n++
		}
	}
	return n
}

// Connection is a row of the active-connections table.
type Connection struct {
	ID       int
	IP       string
	Protocol string
	App      string
	Status   string // Safe, Suspicious
	Country  string
}
