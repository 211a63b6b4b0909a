package config

import "time"

// Config is parsed from COURSECTL_* environment variables and flags. The
// three base URLs map to the backend's independent API prefixes.
type Config struct {
	API struct {
		AccountsURL       string        `conf:"default:http://localhost:8000/api/accounts/"`
		CoursesURL        string        `conf:"default:http://localhost:8000/api/"`
		OrdersURL         string        `conf:"default:http://localhost:8000/api/"`
		Timeout           time.Duration `conf:"default:30s"`
		RequestsPerSecond float64       `conf:"default:0"`
	}
	Session struct {
		// Path overrides where the session file lives. Empty means the
		// user config dir.
		Path string
	}
	Log struct {
		Level string `conf:"default:info"`
	}
	Filter struct {
		Search   string
		Category string
		Sort     string `conf:"default:newest"`
	}
	Yes bool
}
