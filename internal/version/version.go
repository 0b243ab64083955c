package version

// Set through -ldflags "-X github.com/bnema/campus-cli/internal/version.Version=... -X ...BuildMode=production".
var (
	Version   = "dev"
	BuildMode = "development"
)

func IsProduction() bool {
	return BuildMode == "production"
}
