package configvault

var (
	VERSION = "dev"
	COMMIT  = "unknown"
)
