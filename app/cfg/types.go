package cfg

type Cfg struct {
	// Channel configuration
	ChannelsDir string

	// Cache directories (flat file stores, see app/cache)
	CacheDir string

	// External credentials
	GeminiAPIKey     string
	TelegramBotToken string

	// Application configuration
	Port         string
	APIAccessKey string
	WorkerCount  int
	CronSchedule string

	// Run modes
	Serve   bool
	Post    bool
	All     bool
	List    bool
	OutFile string

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
