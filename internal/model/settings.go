package model

// DataUsage is the media quality tier
type DataUsage string

const (
	DataUsageLow      DataUsage = "low"
	DataUsageStandard DataUsage = "standard"
	DataUsageHigh     DataUsage = "high"
)

// NotificationSettings holds the notification toggles
type NotificationSettings struct {
	Push     bool `json:"push"`
	NewGames bool `json:"newGames"`
	Comments bool `json:"comments"`
}

// Settings is persisted under the app_settings key
type Settings struct {
	Language      string               `json:"language"`
	DarkMode      bool                 `json:"darkMode"`
	Notifications NotificationSettings `json:"notifications"`
	DataUsage     DataUsage            `json:"dataUsage"`
}

// DefaultSettings returns the settings used before the user changes anything
func DefaultSettings() Settings {
	return Settings{
		Language: "vi",
		DarkMode: false,
		Notifications: NotificationSettings{
			Push:     true,
			NewGames: true,
			Comments: true,
		},
		DataUsage: DataUsageStandard,
	}
}
