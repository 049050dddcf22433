package device

// Catalog data for the panels that show fixed content.

// InstalledApps returns the application inventory shown by the
// permissions panel.
func InstalledApps() []InstalledApp {
	return []InstalledApp{
		{
			PackageName: "com.whatsapp",
			AppName:     "WhatsApp",
			Version:     "2.24.9.78",
			Threat:      SeveritySafe,
			Source:      SourcePlayStore,
			Permissions: []Permission{
				{Name: "android.permission.INTERNET", Description: "Full network access"},
				{Name: "android.permission.READ_CONTACTS", Dangerous: true, Description: "Read your contacts"},
				{Name: "android.permission.RECORD_AUDIO", Dangerous: true, Description: "Record audio"},
			},
		},
		{
			PackageName: "com.calculator.pro",
			AppName:     "Calculator Pro",
			Version:     "1.0.3",
			Threat:      SeverityWarning,
			Source:      SourcePlayStore,
			Permissions: []Permission{
				{Name: "android.permission.INTERNET", Description: "Full network access"},
				{Name: "android.permission.READ_SMS", Dangerous: true, Description: "Read your text messages"},
				{Name: "android.permission.ACCESS_FINE_LOCATION", Dangerous: true, Description: "Precise location"},
			},
		},
		{
			PackageName: "com.unknown.miner",
			AppName:     "System Update",
			Version:     "0.9",
			Threat:      SeverityCritical,
			Source:      SourceSideload,
			Permissions: []Permission{
				{Name: "android.permission.RECEIVE_BOOT_COMPLETED", Description: "Run at startup"},
				{Name: "android.permission.WAKE_LOCK", Description: "Prevent phone from sleeping"},
				{Name: "android.permission.BIND_DEVICE_ADMIN", Dangerous: true, Description: "Device administrator"},
			},
		},
		{
			PackageName: "com.android.systemui",
			AppName:     "System UI",
			Version:     "14",
			Threat:      SeveritySafe,
			Source:      SourceSystem,
			Permissions: []Permission{
				{Name: "android.permission.STATUS_BAR", Description: "Control the status bar"},
			},
		},
		{
			PackageName: "com.instagram.android",
			AppName:     "Instagram",
			Version:     "327.0.0.34",
			Threat:      SeverityUnknown,
			Source:      SourcePlayStore,
			Permissions: []Permission{
				{Name: "android.permission.CAMERA", Dangerous: true, Description: "Take pictures and videos"},
				{Name: "android.permission.INTERNET", Description: "Full network access"},
			},
		},
	}
}

// ActiveConnections returns the connection table rows.
func ActiveConnections() []Connection {
	return []Connection{
		{ID: 1, IP: "192.168.1.105", Protocol: "TCP", App: "System", Status: "Safe", Country: "Local"},
		{ID: 2, IP: "142.250.180.14", Protocol: "HTTPS", App: "Chrome", Status: "Safe", Country: "US"},
		{ID: 3, IP: "45.33.22.11", Protocol: "UDP", App: "com.unknown.miner", Status: "Suspicious", Country: "RU"},
	}
}
