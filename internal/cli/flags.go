package cli

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	Addr       string
	ListModels bool
	Archive    bool
	Debug      bool
	LogFile    string

	// Storage flags
	StorePath   string
	HistoryPath string

	// Batch flags
	BatchFile string
	Class     string
	Name      string
	ListNum   string
	OutputDir string
	Anki      bool

	// Generator flags
	Provider string
	Model    string
	BaseURL  string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		Addr:        DefaultAddr,
		StorePath:   DefaultStorePath,
		HistoryPath: DefaultHistoryPath,
		OutputDir:   ".",
		Provider:    "openai",
		Model:       "deepseek-chat",
		BaseURL:     "https://api.deepseek.com",
	}
}
