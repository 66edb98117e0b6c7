package app

const ServiceName = "suxess-admin-console"

// Set via -ldflags at build time:
//
//	go build -ldflags="-X 'github.com/suxessedu/suxess-web/internal/app.Version=1.0.0'"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)
